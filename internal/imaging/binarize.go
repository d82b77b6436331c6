package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrInvalidThreshold indicates a binarization threshold outside [0, 255].
var ErrInvalidThreshold = errors.New("threshold outside [0, 255]")

// Binarize maps a grayscale image to two levels: pixels with intensity
// strictly below threshold become black (0), all others white (255).
//
// Boundary behavior follows from the strict comparison: threshold 0 yields
// an all-white image, threshold 255 yields black everywhere except pixels
// at exactly 255.
//
// The threshold is validated even though callers are expected to have
// validated it already; an out-of-range value returns ErrInvalidThreshold
// before any pixel work.
func Binarize(gray *image.Gray, threshold int) (*image.Gray, error) {
	if threshold < 0 || threshold > 255 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidThreshold, threshold)
	}

	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	out := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := gray.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y
			if int(v) < threshold {
				out.SetGray(x, y, color.Gray{Y: 0})
			} else {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out, nil
}
