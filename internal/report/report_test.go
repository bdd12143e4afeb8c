package report_test

import (
	"strings"
	"terrain-differ/internal/report"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuild(t *testing.T) {
	t.Run("DefaultBaseName", func(t *testing.T) {
		got := report.Build(10, 10, 3, 7)

		if diff := cmp.Diff("Raised-3, lowered-7", got.DefaultBaseName); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("Percentages", func(t *testing.T) {
		// 1285 of 131072 (512x256) is 0.98042...%, rendered as 0.98.
		got := report.Build(512, 256, 1285, 0)

		if !strings.Contains(got.Text, "Raised terrain:  1285 (0.98%)") {
			t.Errorf("Expected raised line with 0.98%%, got:\n%s", got.Text)
		}
	})

	t.Run("FullSummary", func(t *testing.T) {
		got := report.Build(2, 2, 1, 1)

		want := "Total pixels:    4\n" +
			"Changed pixels:  2 (50.00%)\n" +
			"Raised terrain:  1 (25.00%)\n" +
			"Lowered terrain: 1 (25.00%)\n" +
			"Unchanged:       2 (50.00%)\n"
		if diff := cmp.Diff(want, got.Text); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("EmptyImage", func(t *testing.T) {
		got := report.Build(0, 0, 0, 0)

		if strings.Contains(got.Text, "NaN") {
			t.Errorf("Percentages must not be NaN for an empty image:\n%s", got.Text)
		}
	})

	t.Run("NoChanges", func(t *testing.T) {
		got := report.Build(100, 100, 0, 0)

		if !strings.Contains(got.Text, "Unchanged:       10000 (100.00%)") {
			t.Errorf("Expected unchanged 100%%, got:\n%s", got.Text)
		}
		if diff := cmp.Diff("Raised-0, lowered-0", got.DefaultBaseName); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})
}
