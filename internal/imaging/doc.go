// Package imaging provides the pixel-level stages of the scanprep pipeline.
//
// The package implements grayscale normalization, fixed-threshold
// binarization, morphological closing/opening, Canny-style edge extraction,
// and canvas-expanding rotation. All operations work with standard Go
// image.Image types and use a coordinate system where (0,0) is at the
// top-left corner, X increases rightward, and Y increases downward.
//
// # Pipeline Contract
//
// Every function is a pure transformation: it allocates its own output
// image, never mutates its input, and holds no state across calls. This
// makes all operations safe to invoke concurrently across independent
// requests without locking.
//
// # Intensity Convention
//
// Document imagery is dark ink on a light background. Binarized output uses
// 0 for ink and 255 for background, and the morphological operations treat
// dark structures as the foreground being closed or opened.
//
// # Error Handling
//
// Functions validate their inputs before touching any pixels and return
// sentinel errors (ErrUnsupportedFormat, ErrInvalidThreshold) that callers
// can match with errors.Is. Computation itself never fails: an image with
// no edges produces an empty edge map, not an error.
package imaging
