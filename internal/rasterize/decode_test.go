package rasterize

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func TestDecode_PNG(t *testing.T) {
	d := &Decoder{}

	pages, err := d.Decode(pngBytes(t, 32, 24), "scan.png")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("Expected 1 page, got %d", len(pages))
	}
	if pages[0].Bounds().Dx() != 32 || pages[0].Bounds().Dy() != 24 {
		t.Errorf("Unexpected dimensions %v", pages[0].Bounds())
	}
}

func TestDecode_EmptyUpload(t *testing.T) {
	d := &Decoder{}

	if _, err := d.Decode(nil, "scan.png"); !errors.Is(err, ErrUnsupportedFile) {
		t.Errorf("Expected ErrUnsupportedFile for empty upload, got %v", err)
	}
}

func TestDecode_Garbage(t *testing.T) {
	d := &Decoder{}

	_, err := d.Decode([]byte("definitely not an image"), "scan.png")
	if !errors.Is(err, ErrUnsupportedFile) {
		t.Errorf("Expected ErrUnsupportedFile for garbage bytes, got %v", err)
	}
}

func TestDecode_PDFDetection(t *testing.T) {
	cases := []struct {
		data     []byte
		filename string
		want     bool
	}{
		{[]byte("%PDF-1.7\n..."), "upload.bin", true},
		{[]byte("not a header"), "scan.pdf", true},
		{[]byte("not a header"), "SCAN.PDF", true},
		{pngBytes(t, 4, 4), "scan.png", false},
	}
	for _, tc := range cases {
		if got := isPDF(tc.data, tc.filename); got != tc.want {
			t.Errorf("isPDF(%q head, %q) = %t, want %t", tc.data[:4], tc.filename, got, tc.want)
		}
	}
}

func TestDecode_PDFWithMissingRenderer(t *testing.T) {
	d := &Decoder{PdftoppmPath: "/nonexistent/pdftoppm"}

	_, err := d.Decode([]byte("%PDF-1.4\nstub"), "doc.pdf")
	if err == nil {
		t.Fatal("Expected an error when the PDF renderer is unavailable")
	}
}

func TestEncodeBase64PNG_RoundTrip(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 16, 16))

	b64, err := EncodeBase64PNG(img)
	if err != nil {
		t.Fatalf("EncodeBase64PNG failed: %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("Result is not valid base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Result is not a valid PNG: %v", err)
	}
	if decoded.Bounds().Dx() != 16 || decoded.Bounds().Dy() != 16 {
		t.Errorf("Unexpected dimensions after round trip: %v", decoded.Bounds())
	}
}
