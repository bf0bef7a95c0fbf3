package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func whiteImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

func TestGridOverlay(t *testing.T) {
	display := whiteImage(100, 100)

	result, err := GridOverlay(display, 1, 25, DefaultGridColor)
	if err != nil {
		t.Fatalf("GridOverlay failed: %v", err)
	}
	if result.Bounds().Dx() != 100 || result.Bounds().Dy() != 100 {
		t.Errorf("dimensions: got %v, want 100x100", result.Bounds())
	}
	if display.NRGBAAt(25, 5) != (color.NRGBA{255, 255, 255, 255}) {
		t.Error("GridOverlay modified its input")
	}
}

func TestGridOverlay_GridLines(t *testing.T) {
	display := whiteImage(100, 100)

	result, err := GridOverlay(display, 1, 25, DefaultGridColor)
	if err != nil {
		t.Fatalf("GridOverlay failed: %v", err)
	}

	// Vertical line at x=25, clear of any label
	if p := result.NRGBAAt(25, 5); p.R != 255 || p.G > 200 {
		t.Errorf("pixel (25,5) should be tinted red, got %v", p)
	}
	// Horizontal line at y=50
	if p := result.NRGBAAt(5, 50); p.R != 255 || p.G > 200 {
		t.Errorf("pixel (5,50) should be tinted red, got %v", p)
	}
	// Between lines
	if p := result.NRGBAAt(12, 12); p != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("pixel (12,12) should be untouched, got %v", p)
	}
}

func TestGridOverlay_LabelsFollowScale(t *testing.T) {
	display := whiteImage(100, 100)

	full, err := GridOverlay(display, 1, 50, DefaultGridColor)
	if err != nil {
		t.Fatalf("GridOverlay failed: %v", err)
	}
	half, err := GridOverlay(display, 0.5, 50, DefaultGridColor)
	if err != nil {
		t.Fatalf("GridOverlay failed: %v", err)
	}

	// "50,50" and "100,100" render differently next to the intersection.
	differs := false
	for y := 51; y < 66 && !differs; y++ {
		for x := 51; x < 100; x++ {
			if full.NRGBAAt(x, y) != half.NRGBAAt(x, y) {
				differs = true
				break
			}
		}
	}
	if !differs {
		t.Error("labels should show source coordinates that depend on scale")
	}
}

func TestGridOverlay_Invalid(t *testing.T) {
	if _, err := GridOverlay(nil, 1, 10, DefaultGridColor); !errors.Is(err, ErrInvalidRaster) {
		t.Errorf("nil image: got %v, want ErrInvalidRaster", err)
	}

	for _, spacing := range []int{0, -5} {
		_, err := GridOverlay(whiteImage(10, 10), 1, spacing, DefaultGridColor)
		if !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("spacing %d: got %v, want ErrInvalidParameter", spacing, err)
		}
	}
}

func TestDrawLabel_BoundsCheck(t *testing.T) {
	img := whiteImage(20, 20)
	// Should not panic when the label runs past the edge
	drawLabel(img, 15, 15, "123,456", color.NRGBA{255, 255, 255, 255}, color.NRGBA{A: 180})
}
