package heightmap

import (
	"image"

	"terrain-differ/internal/raster"
)

// DiffResult is the classified output of one comparison. Pix holds the
// visualization as interleaved R,G,B bytes, 3 per pixel, row-major.
type DiffResult struct {
	Width        int
	Height       int
	Pix          []byte
	RaisedCount  int64
	LoweredCount int64
}

// Image expands the packed RGB buffer into an opaque NRGBA image for
// encoding.
func (r *DiffResult) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	for i := 0; i < r.Width*r.Height; i++ {
		img.Pix[i*4] = r.Pix[i*3]
		img.Pix[i*4+1] = r.Pix[i*3+1]
		img.Pix[i*4+2] = r.Pix[i*3+2]
		img.Pix[i*4+3] = 255
	}
	return img
}

type Differ interface {
	Calculate(base *raster.Heightmap, target *raster.Heightmap) *DiffResult
}
