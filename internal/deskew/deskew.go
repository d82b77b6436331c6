package deskew

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/docsmith/scanprep/internal/detection"
	"github.com/docsmith/scanprep/internal/imaging"
)

// ErrInvalidConfig indicates a Config that fails validation.
var ErrInvalidConfig = errors.New("invalid deskew config")

// Canny thresholds for the edge stage, on the 0-255 intensity scale.
// Tuned for clean document scans.
const (
	edgeThresholdLow  = 50
	edgeThresholdHigh = 150
)

// Config carries the full per-call configuration of the deskew pipeline.
// There are no implicit defaults here: the caller (CLI or HTTP boundary)
// fills every field before invoking Deskew.
type Config struct {
	// MinLineLength is the minimum segment length in pixels. Must be > 0.
	MinLineLength float64

	// MaxLineGap is the largest break, in pixels, across which collinear
	// segment pieces are merged. Must be >= 0.
	MaxLineGap float64

	// UseMorphology enables a closing pass (bridging gaps in dashed or
	// lightly-printed lines) followed by an opening pass (dropping speckle
	// noise) before edge extraction.
	UseMorphology bool

	// HorizontalToleranceDeg is the half-width of the near-horizontal
	// window: segments with |angle| above it are not candidates. Must be
	// in (0, 90).
	HorizontalToleranceDeg float64

	// FallbackToAnyLine selects the longest segment of any orientation
	// when no near-horizontal candidate exists, instead of reporting a
	// no-line outcome.
	FallbackToAnyLine bool

	// Background fills canvas exposed by the rotation. Nil means white.
	Background color.Color
}

// Validate checks the numeric constraints. It reports all violations as
// ErrInvalidConfig so boundaries can map them uniformly.
func (c Config) Validate() error {
	if c.MinLineLength <= 0 {
		return fmt.Errorf("%w: min_line_length must be > 0, got %v", ErrInvalidConfig, c.MinLineLength)
	}
	if c.MaxLineGap < 0 {
		return fmt.Errorf("%w: max_line_gap must be >= 0, got %v", ErrInvalidConfig, c.MaxLineGap)
	}
	if c.HorizontalToleranceDeg <= 0 || c.HorizontalToleranceDeg >= 90 {
		return fmt.Errorf("%w: horizontal_tolerance_deg must be in (0, 90), got %v", ErrInvalidConfig, c.HorizontalToleranceDeg)
	}
	return nil
}

// Result is the outcome of a deskew run.
//
// When a line was found, RotationAngle is the negated line angle (within
// floating-point tolerance) and Rotated is the input rotated by it. When
// Line is nil, RotationAngle is 0 and Rotated is the unmodified input.
type Result struct {
	// Rotated is the deskewed image. For a zero rotation it is the input
	// image itself, unchanged.
	Rotated image.Image

	// RotationAngle is the applied rotation in degrees, positive meaning
	// counter-clockwise.
	RotationAngle float64

	// Line is the segment the angle was derived from, or nil when no
	// usable line was detected.
	Line *detection.Segment
}

// Engine runs the deskew pipeline. The zero value is not usable; construct
// with New. The line detection backend is a strategy field so it can be
// substituted or tuned without touching selection or rotation.
type Engine struct {
	Finder detection.LineFinder
}

// New returns an Engine using the default Hough-transform line finder.
func New() *Engine {
	return &Engine{Finder: detection.NewHoughFinder()}
}

// Deskew detects the dominant near-horizontal line in img and rotates the
// image so that line becomes exactly horizontal.
//
// The pipeline is grayscale -> optional morphology -> edge extraction ->
// line accumulation -> selection -> rotation. Absence of a detectable line
// is not an error: the result then carries the original image, a zero
// angle, and a nil Line. Errors are limited to input validation
// (ErrInvalidConfig, imaging.ErrUnsupportedFormat) and occur before any
// heavy computation.
func (e *Engine) Deskew(img image.Image, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	gray, err := imaging.Grayscale(img)
	if err != nil {
		return nil, err
	}

	if cfg.UseMorphology {
		gray = imaging.Open(imaging.Close(gray))
	}

	edges := imaging.DetectEdges(gray, edgeThresholdLow, edgeThresholdHigh)
	segments := e.Finder.FindLines(edges, cfg.MinLineLength, cfg.MaxLineGap)

	line, ok := detection.SelectHorizontal(segments, cfg.HorizontalToleranceDeg)
	if !ok && cfg.FallbackToAnyLine {
		line, ok = detection.SelectLongest(segments)
	}
	if !ok {
		return &Result{Rotated: img, RotationAngle: 0, Line: nil}, nil
	}

	angle := -line.Angle
	return &Result{
		Rotated:       imaging.Rotate(img, angle, cfg.Background),
		RotationAngle: angle,
		Line:          &line,
	}, nil
}
