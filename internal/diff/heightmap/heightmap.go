package heightmap

import (
	"runtime"
	"sync"
	"sync/atomic"

	"terrain-differ/internal/raster"
)

// HeightDiff classifies every pixel by comparing the red channel sample of
// the two inputs: equal samples pass the base pixel's original color
// through, a larger target sample paints the raised color, a smaller one
// the lowered color. Green and blue never influence the classification;
// elevation lives in the red band.
type HeightDiff struct {
	raised  raster.RGB
	lowered raster.RGB
}

func NewHeightDiff(raised raster.RGB, lowered raster.RGB) *HeightDiff {
	return &HeightDiff{
		raised:  raised,
		lowered: lowered,
	}
}

// Calculate runs a single pass over both inputs. The inputs must share
// dimensions; the loader guarantees that before any diff is constructed.
// Rows are split across GOMAXPROCS workers writing disjoint segments of
// the output buffer, so the result is identical to a sequential pass.
func (d *HeightDiff) Calculate(base *raster.Heightmap, target *raster.Heightmap) *DiffResult {
	width := base.Width
	height := base.Height

	result := &DiffResult{
		Width:  width,
		Height: height,
		Pix:    make([]byte, 3*width*height),
	}

	// Use GOMAXPROCS instead of runtime.NumCPU() to consider cgroup.
	// https://tip.golang.org/doc/go1.25#container-aware-gomaxprocs
	numWorkers := runtime.GOMAXPROCS(0)
	rowsPerWorker := height / numWorkers

	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for i := 0; i < numWorkers; i++ {
		startY := i * rowsPerWorker
		endY := startY + rowsPerWorker
		if i == numWorkers-1 {
			endY = height
		}

		go func(startY int, endY int) {
			defer wg.Done()
			d.processRows(base, target, result, startY, endY)
		}(startY, endY)
	}

	wg.Wait()

	return result
}

func (d *HeightDiff) processRows(base *raster.Heightmap, target *raster.Heightmap, result *DiffResult, startY int, endY int) {
	var localRaised int64
	var localLowered int64

	for y := startY; y < endY; y++ {
		rowStart := y * base.Width

		for x := 0; x < base.Width; x++ {
			i := rowStart + x
			o := i * 3

			switch {
			case base.R[i] == target.R[i]:
				result.Pix[o] = base.R[i]
				result.Pix[o+1] = base.G[i]
				result.Pix[o+2] = base.B[i]
			case target.R[i] > base.R[i]:
				result.Pix[o] = d.raised.R
				result.Pix[o+1] = d.raised.G
				result.Pix[o+2] = d.raised.B
				localRaised++
			default:
				result.Pix[o] = d.lowered.R
				result.Pix[o+1] = d.lowered.G
				result.Pix[o+2] = d.lowered.B
				localLowered++
			}
		}
	}

	atomic.AddInt64(&result.RaisedCount, localRaised)
	atomic.AddInt64(&result.LoweredCount, localLowered)
}
