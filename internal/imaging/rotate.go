package imaging

import (
	"image"
	"image/color"

	dimg "github.com/disintegration/imaging"
)

// Rotate rotates an image counter-clockwise by angleDeg degrees about its
// center. The output canvas is enlarged to the bounding box of the rotated
// content so nothing is cropped, and newly exposed border pixels are filled
// with bg. Resampling is bilinear, not nearest-neighbor, so straight lines
// stay smooth after rotation.
//
// A nil bg fills with white, the background for binarized document imagery.
// Rotation by exactly 0 degrees returns the input image unchanged.
func Rotate(img image.Image, angleDeg float64, bg color.Color) image.Image {
	if angleDeg == 0 {
		return img
	}
	if bg == nil {
		bg = color.White
	}
	return dimg.Rotate(img, angleDeg, bg)
}
