package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
)

// morphRadius is the radius of the fixed structuring element used by Close
// and Open. Radius 1 corresponds to the 3x3 kernel of the original service.
const morphRadius = 1.0

// Close performs morphological closing of the dark (ink) structures in a
// grayscale image: dilation of the ink followed by erosion of the ink.
// Closing bridges small gaps in near-continuous shapes such as dashed or
// lightly-printed ruled lines, at the cost of slightly rounding corners.
//
// Note the brightness inversion: ink is dark, so dilating ink is a minimum
// filter (effect.Erode) and eroding ink is a maximum filter (effect.Dilate).
func Close(gray *image.Gray) *image.Gray {
	grown := effect.Erode(gray, morphRadius)
	return toGray(effect.Dilate(grown, morphRadius))
}

// Open performs morphological opening of the dark structures: erosion of
// the ink followed by dilation. Opening removes isolated dark specks
// smaller than the structuring element while preserving larger shapes.
func Open(gray *image.Gray) *image.Gray {
	shrunk := effect.Dilate(gray, morphRadius)
	return toGray(effect.Erode(shrunk, morphRadius))
}
