package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// createGradientGray creates a grayscale image whose pixel value is its
// column index, clipped to 255
func createGradientGray(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := x
			if v > 255 {
				v = 255
			}
			img.SetGray(x, y, color.Gray{Y: uint8(v)})
		}
	}
	return img
}

func countBlack(img *image.Gray) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.GrayAt(x, y).Y == 0 {
				n++
			}
		}
	}
	return n
}

func TestBinarize_TwoLevelOutput(t *testing.T) {
	img := createGradientGray(256, 4)

	out, err := Binarize(img, 128)
	if err != nil {
		t.Fatalf("Binarize failed: %v", err)
	}

	for y := 0; y < 4; y++ {
		for x := 0; x < 256; x++ {
			v := out.GrayAt(x, y).Y
			if v != 0 && v != 255 {
				t.Fatalf("Pixel (%d,%d) = %d, expected 0 or 255", x, y, v)
			}
			want := uint8(255)
			if x < 128 {
				want = 0
			}
			if v != want {
				t.Fatalf("Pixel (%d,%d) = %d, expected %d", x, y, v, want)
			}
		}
	}
}

func TestBinarize_Idempotent(t *testing.T) {
	img := createGradientGray(256, 2)

	for _, threshold := range []int{0, 1, 64, 128, 200, 255} {
		once, err := Binarize(img, threshold)
		if err != nil {
			t.Fatalf("Binarize failed: %v", err)
		}
		twice, err := Binarize(once, threshold)
		if err != nil {
			t.Fatalf("Binarize failed: %v", err)
		}

		for i := range once.Pix {
			if once.Pix[i] != twice.Pix[i] {
				t.Fatalf("threshold %d: binarize(binarize(I)) != binarize(I) at pix %d", threshold, i)
			}
		}
	}
}

func TestBinarize_Monotonic(t *testing.T) {
	img := createGradientGray(256, 3)

	prev := -1
	for _, threshold := range []int{0, 32, 64, 128, 192, 255} {
		out, err := Binarize(img, threshold)
		if err != nil {
			t.Fatalf("Binarize failed: %v", err)
		}
		black := countBlack(out)
		if black < prev {
			t.Errorf("Black pixel count decreased: threshold %d gave %d, previous gave %d",
				threshold, black, prev)
		}
		prev = black
	}
}

func TestBinarize_ThresholdZero(t *testing.T) {
	img := createGradientGray(256, 2)

	out, err := Binarize(img, 0)
	if err != nil {
		t.Fatalf("Binarize failed: %v", err)
	}
	if countBlack(out) != 0 {
		t.Errorf("Threshold 0 must yield an all-white image, got %d black pixels", countBlack(out))
	}
}

func TestBinarize_ThresholdMax(t *testing.T) {
	img := createGradientGray(256, 1)

	out, err := Binarize(img, 255)
	if err != nil {
		t.Fatalf("Binarize failed: %v", err)
	}

	// Every pixel below 255 goes black; only the x=255 column stays white.
	if got := countBlack(out); got != 255 {
		t.Errorf("Expected 255 black pixels, got %d", got)
	}
	if out.GrayAt(255, 0).Y != 255 {
		t.Error("Pixel at maximum intensity must stay white at threshold 255")
	}
}

func TestBinarize_InvalidThreshold(t *testing.T) {
	img := createUniformGray(4, 4, 128)

	for _, threshold := range []int{-1, 256, 1000} {
		if _, err := Binarize(img, threshold); !errors.Is(err, ErrInvalidThreshold) {
			t.Errorf("threshold %d: expected ErrInvalidThreshold, got %v", threshold, err)
		}
	}
}

func TestBinarize_InputUntouched(t *testing.T) {
	img := createUniformGray(4, 4, 100)

	if _, err := Binarize(img, 128); err != nil {
		t.Fatalf("Binarize failed: %v", err)
	}
	if img.GrayAt(2, 2).Y != 100 {
		t.Error("Binarize mutated its input")
	}
}
