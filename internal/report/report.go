// Package report formats diff counters into the human-readable summary
// and derives the default output base name from them.
package report

import (
	"fmt"
	"strings"
)

type Report struct {
	Text            string
	DefaultBaseName string
}

// Build computes the derived counts and renders the fixed summary layout.
// Percentages are formatted with %.2f, which rounds halfway cases to even.
func Build(width int, height int, raised int64, lowered int64) Report {
	total := int64(width) * int64(height)
	changed := raised + lowered
	unchanged := total - changed

	percent := func(n int64) float64 {
		if total == 0 {
			return 0
		}
		return float64(n) / float64(total) * 100
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Total pixels:    %d\n", total)
	fmt.Fprintf(&b, "Changed pixels:  %d (%.2f%%)\n", changed, percent(changed))
	fmt.Fprintf(&b, "Raised terrain:  %d (%.2f%%)\n", raised, percent(raised))
	fmt.Fprintf(&b, "Lowered terrain: %d (%.2f%%)\n", lowered, percent(lowered))
	fmt.Fprintf(&b, "Unchanged:       %d (%.2f%%)\n", unchanged, percent(unchanged))

	return Report{
		Text:            b.String(),
		DefaultBaseName: fmt.Sprintf("Raised-%d, lowered-%d", raised, lowered),
	}
}
