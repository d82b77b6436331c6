package rasterize

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrUnsupportedFile indicates an upload that is neither a decodable
// raster image nor a PDF.
var ErrUnsupportedFile = errors.New("unsupported file type")

// pdfMagic is the header every PDF file starts with.
var pdfMagic = []byte("%PDF-")

// Decoder turns uploaded bytes into one image per document page.
//
// The zero value is usable: PDF rasterization then runs pdftoppm from PATH
// at the default DPI. A Decoder is stateless and safe for concurrent use.
type Decoder struct {
	// PdftoppmPath overrides the pdftoppm binary location. Empty means
	// "pdftoppm" resolved via PATH.
	PdftoppmPath string

	// DPI is the PDF rasterization resolution. Zero means 200, enough for
	// line detection on typical scans without ballooning memory.
	DPI int
}

// Decode converts an uploaded document into its pages, in order.
//
// PDF detection uses the %PDF- header with the file extension as a
// fallback; everything else is treated as a raster image and decoded with
// the registered stdlib and x/image decoders. An empty upload or
// undecodable payload returns ErrUnsupportedFile.
func (d *Decoder) Decode(data []byte, filename string) ([]image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty upload", ErrUnsupportedFile)
	}

	if isPDF(data, filename) {
		return d.rasterizePDF(data)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, err)
	}
	return []image.Image{img}, nil
}

// isPDF reports whether the upload looks like a PDF document.
func isPDF(data []byte, filename string) bool {
	if bytes.HasPrefix(data, pdfMagic) {
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}
