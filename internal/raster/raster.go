package raster

import (
	"errors"
	"image"

	"golang.org/x/xerrors"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrDimensionMismatch = errors.New("image dimensions do not match")
)

// RGB is an 8-bit color triple.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// Heightmap holds one decoded input as planar 8-bit channel samples,
// row-major from the top-left corner. Grayscale inputs replicate their
// single channel into all three planes.
type Heightmap struct {
	Width  int
	Height int
	R      []byte
	G      []byte
	B      []byte
}

// FromImage converts a decoded image into a Heightmap. Only 8-bit RGB(A)
// and 8-bit grayscale images are accepted; everything else (16-bit
// samples, paletted, YCbCr, CMYK) fails with ErrUnsupportedFormat.
func FromImage(img image.Image) (*Heightmap, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	m := &Heightmap{
		Width:  width,
		Height: height,
		R:      make([]byte, width*height),
		G:      make([]byte, width*height),
		B:      make([]byte, width*height),
	}

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < height; y++ {
			rowStart := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			for x := 0; x < width; x++ {
				offset := rowStart + x*4
				i := y*width + x
				m.R[i] = src.Pix[offset]
				m.G[i] = src.Pix[offset+1]
				m.B[i] = src.Pix[offset+2]
			}
		}
	case *image.RGBA:
		for y := 0; y < height; y++ {
			rowStart := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			for x := 0; x < width; x++ {
				offset := rowStart + x*4
				i := y*width + x
				m.R[i] = src.Pix[offset]
				m.G[i] = src.Pix[offset+1]
				m.B[i] = src.Pix[offset+2]
			}
		}
	case *image.Gray:
		for y := 0; y < height; y++ {
			rowStart := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			for x := 0; x < width; x++ {
				v := src.Pix[rowStart+x]
				i := y*width + x
				m.R[i] = v
				m.G[i] = v
				m.B[i] = v
			}
		}
	default:
		return nil, xerrors.Errorf("%T is not 8-bit RGB or grayscale: %w", img, ErrUnsupportedFormat)
	}

	return m, nil
}
