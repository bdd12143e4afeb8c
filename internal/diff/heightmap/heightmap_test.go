package heightmap

import (
	"bytes"
	"testing"

	"terrain-differ/internal/raster"
)

func createTestHeightmap(width, height int, red byte) *raster.Heightmap {
	m := &raster.Heightmap{
		Width:  width,
		Height: height,
		R:      make([]byte, width*height),
		G:      make([]byte, width*height),
		B:      make([]byte, width*height),
	}
	for i := range m.R {
		m.R[i] = red
		m.G[i] = red
		m.B[i] = red
	}
	return m
}

func TestHeightDiff_Calculate(t *testing.T) {
	raised := raster.RGB{G: 255}
	lowered := raster.RGB{R: 255}
	hd := NewHeightDiff(raised, lowered)

	t.Run("NoDifference", func(t *testing.T) {
		base := createTestHeightmap(100, 100, 128)
		target := createTestHeightmap(100, 100, 128)

		result := hd.Calculate(base, target)

		if result.RaisedCount != 0 || result.LoweredCount != 0 {
			t.Errorf("Expected zero counts, got raised=%d lowered=%d", result.RaisedCount, result.LoweredCount)
		}
		for i := 0; i < 100*100; i++ {
			if result.Pix[i*3] != base.R[i] || result.Pix[i*3+1] != base.G[i] || result.Pix[i*3+2] != base.B[i] {
				t.Fatalf("Pixel %d does not pass through the base color", i)
			}
		}
	})

	t.Run("AllRaised", func(t *testing.T) {
		base := createTestHeightmap(100, 100, 10)
		target := createTestHeightmap(100, 100, 20)

		result := hd.Calculate(base, target)

		if result.RaisedCount != 100*100 {
			t.Errorf("Expected RaisedCount to be %d, got %d", 100*100, result.RaisedCount)
		}
		if result.LoweredCount != 0 {
			t.Errorf("Expected LoweredCount to be 0, got %d", result.LoweredCount)
		}
		if result.Pix[0] != raised.R || result.Pix[1] != raised.G || result.Pix[2] != raised.B {
			t.Errorf("Expected first pixel to be the raised color, got %v", result.Pix[:3])
		}
	})

	t.Run("AllLowered", func(t *testing.T) {
		base := createTestHeightmap(100, 100, 20)
		target := createTestHeightmap(100, 100, 10)

		result := hd.Calculate(base, target)

		if result.LoweredCount != 100*100 {
			t.Errorf("Expected LoweredCount to be %d, got %d", 100*100, result.LoweredCount)
		}
		if result.RaisedCount != 0 {
			t.Errorf("Expected RaisedCount to be 0, got %d", result.RaisedCount)
		}
	})

	t.Run("MixedBlock", func(t *testing.T) {
		base := createTestHeightmap(2, 2, 10)
		target := createTestHeightmap(2, 2, 10)
		target.R[1] = 20
		target.R[2] = 5

		result := hd.Calculate(base, target)

		if result.RaisedCount != 1 {
			t.Errorf("Expected RaisedCount to be 1, got %d", result.RaisedCount)
		}
		if result.LoweredCount != 1 {
			t.Errorf("Expected LoweredCount to be 1, got %d", result.LoweredCount)
		}

		want := []byte{
			10, 10, 10,
			raised.R, raised.G, raised.B,
			lowered.R, lowered.G, lowered.B,
			10, 10, 10,
		}
		if !bytes.Equal(result.Pix, want) {
			t.Errorf("Expected pixel classification %v, got %v", want, result.Pix)
		}
	})

	t.Run("OnlyRedChannelCompared", func(t *testing.T) {
		base := createTestHeightmap(10, 10, 50)
		target := createTestHeightmap(10, 10, 50)
		for i := range target.G {
			target.G[i] = 200
			target.B[i] = 200
		}

		result := hd.Calculate(base, target)

		if result.RaisedCount != 0 || result.LoweredCount != 0 {
			t.Errorf("Green/blue differences must not count, got raised=%d lowered=%d", result.RaisedCount, result.LoweredCount)
		}
	})

	t.Run("CountsSumToTotal", func(t *testing.T) {
		base := createTestHeightmap(64, 48, 0)
		target := createTestHeightmap(64, 48, 0)
		for i := range target.R {
			target.R[i] = byte(i % 7)
		}

		result := hd.Calculate(base, target)

		unchanged := int64(64*48) - result.RaisedCount - result.LoweredCount
		if unchanged < 0 {
			t.Errorf("raised+lowered exceeds total: raised=%d lowered=%d", result.RaisedCount, result.LoweredCount)
		}
		if result.RaisedCount+result.LoweredCount+unchanged != 64*48 {
			t.Errorf("Counts do not sum to total")
		}
	})

	t.Run("SingleRowImage", func(t *testing.T) {
		// Fewer rows than workers; the last worker picks up the remainder.
		base := createTestHeightmap(256, 1, 10)
		target := createTestHeightmap(256, 1, 30)

		result := hd.Calculate(base, target)

		if result.RaisedCount != 256 {
			t.Errorf("Expected RaisedCount to be 256, got %d", result.RaisedCount)
		}
	})
}

func TestDiffResult_Image(t *testing.T) {
	r := &DiffResult{
		Width:  2,
		Height: 1,
		Pix:    []byte{1, 2, 3, 4, 5, 6},
	}

	img := r.Image()

	want := []byte{1, 2, 3, 255, 4, 5, 6, 255}
	if !bytes.Equal(img.Pix, want) {
		t.Errorf("Expected image pixels %v, got %v", want, img.Pix)
	}
}

func BenchmarkHeightDiff_Calculate_Small(b *testing.B) {
	hd := NewHeightDiff(raster.RGB{G: 255}, raster.RGB{R: 255})
	base := createTestHeightmap(1920, 1080, 10)
	target := createTestHeightmap(1920, 1080, 20)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		hd.Calculate(base, target)
	}
}

func BenchmarkHeightDiff_Calculate_Large(b *testing.B) {
	hd := NewHeightDiff(raster.RGB{G: 255}, raster.RGB{R: 255})
	base := createTestHeightmap(3840, 2160, 10)
	target := createTestHeightmap(3840, 2160, 20)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		hd.Calculate(base, target)
	}
}
