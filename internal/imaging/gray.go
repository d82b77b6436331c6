package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrUnsupportedFormat indicates an input pixel format that cannot be
// normalized to 8-bit grayscale.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Grayscale converts an image to single-channel 8-bit intensity using the
// ITU-R BT.601 luminance weights (0.299*R + 0.587*G + 0.114*B).
//
// Accepted inputs are 8-bit single-channel (*image.Gray) and 8-bit color
// images (*image.RGBA, *image.NRGBA, *image.YCbCr, *image.Paletted). Any
// other concrete type returns ErrUnsupportedFormat. A grayscale input is
// copied, not aliased, so the result is always a fresh buffer.
//
// The output has the same width and height as the input and its bounds are
// translated to the origin.
func Grayscale(img image.Image) (*image.Gray, error) {
	switch img.(type) {
	case *image.Gray, *image.RGBA, *image.NRGBA, *image.YCbCr, *image.Paletted:
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedFormat, img)
	}
	return toGray(img), nil
}

// toGray performs the luminance conversion without format checking.
// Used internally on images the pipeline produced itself.
func toGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	out := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns 16-bit channels; convert to 8-bit first so the
			// weights match the 8-bit depth the pipeline is specified for.
			lum := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			out.SetGray(x, y, color.Gray{Y: uint8(lum + 0.5)})
		}
	}
	return out
}
