package rasterize

import (
	"fmt"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
)

const defaultPDFDPI = 200

// rasterizePDF renders every page of a PDF to an image by shelling out to
// poppler's pdftoppm. Pages come back in document order; pdftoppm
// zero-pads page numbers in its output names, so a lexical sort suffices.
func (d *Decoder) rasterizePDF(data []byte) ([]image.Image, error) {
	binary := d.PdftoppmPath
	if binary == "" {
		binary = "pdftoppm"
	}
	dpi := d.DPI
	if dpi <= 0 {
		dpi = defaultPDFDPI
	}

	dir, err := os.MkdirTemp("", "scanprep-pdf-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(src, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}

	cmd := exec.Command(binary, "-png", "-r", fmt.Sprint(dpi), src, filepath.Join(dir, "page"))
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w: %s", err, out)
	}

	names, err := filepath.Glob(filepath.Join(dir, "page-*.png"))
	if err != nil {
		return nil, fmt.Errorf("failed to list rendered pages: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: pdf produced no pages", ErrUnsupportedFile)
	}
	sort.Strings(names)

	pages := make([]image.Image, 0, len(names))
	for _, name := range names {
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("failed to open rendered page: %w", err)
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode rendered page %s: %w", filepath.Base(name), err)
		}
		pages = append(pages, img)
	}
	return pages, nil
}
