package imaging

import (
	"errors"
	"image/color"
	"testing"
)

func TestSampleColor(t *testing.T) {
	img := createInMemoryRaster(t, 100, 100, color.NRGBA{255, 128, 64, 255})

	result, err := SampleColor(img, 50, 50)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}

	// Check hex
	if result.Hex != "#FF8040" {
		t.Errorf("Hex: got %s, want #FF8040", result.Hex)
	}

	// Check RGB
	if result.RGB.R != 255 || result.RGB.G != 128 || result.RGB.B != 64 {
		t.Errorf("RGB: got (%d,%d,%d), want (255,128,64)", result.RGB.R, result.RGB.G, result.RGB.B)
	}

	// Check RGBA
	if result.RGBA.R != 255 || result.RGBA.G != 128 || result.RGBA.B != 64 || result.RGBA.A != 255 {
		t.Errorf("RGBA: got (%d,%d,%d,%d), want (255,128,64,255)",
			result.RGBA.R, result.RGBA.G, result.RGBA.B, result.RGBA.A)
	}

	if got := result.NRGBA(); got != (color.NRGBA{255, 128, 64, 255}) {
		t.Errorf("NRGBA: got %v", got)
	}
}

func TestSampleColor_KnownColors(t *testing.T) {
	tests := []struct {
		name    string
		color   color.NRGBA
		wantHex string
		wantHSL HSLColor
	}{
		{"pure red", color.NRGBA{255, 0, 0, 255}, "#FF0000", HSLColor{0, 100, 50}},
		{"pure green", color.NRGBA{0, 255, 0, 255}, "#00FF00", HSLColor{120, 100, 50}},
		{"pure blue", color.NRGBA{0, 0, 255, 255}, "#0000FF", HSLColor{240, 100, 50}},
		{"white", color.NRGBA{255, 255, 255, 255}, "#FFFFFF", HSLColor{0, 0, 100}},
		{"black", color.NRGBA{0, 0, 0, 255}, "#000000", HSLColor{0, 0, 0}},
		{"gray", color.NRGBA{128, 128, 128, 255}, "#808080", HSLColor{0, 0, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createInMemoryRaster(t, 10, 10, tt.color)
			result, err := SampleColor(img, 5, 5)
			if err != nil {
				t.Fatalf("SampleColor failed: %v", err)
			}

			if result.Hex != tt.wantHex {
				t.Errorf("Hex: got %s, want %s", result.Hex, tt.wantHex)
			}
			if result.HSL != tt.wantHSL {
				t.Errorf("HSL: got %+v, want %+v", result.HSL, tt.wantHSL)
			}
		})
	}
}

func TestSampleColor_OutOfBounds(t *testing.T) {
	img := createInMemoryRaster(t, 100, 100, color.NRGBA{255, 0, 0, 255})

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 50},
		{"negative y", 50, -1},
		{"x too large", 100, 50},
		{"y too large", 50, 100},
		{"both too large", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SampleColor(img, tt.x, tt.y)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("got %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestSampleColor_EdgeCoordinates(t *testing.T) {
	img := createInMemoryRaster(t, 100, 100, color.NRGBA{255, 0, 0, 255})

	// Test edge coordinates (should succeed)
	tests := []struct {
		name string
		x, y int
	}{
		{"top-left", 0, 0},
		{"top-right", 99, 0},
		{"bottom-left", 0, 99},
		{"bottom-right", 99, 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SampleColor(img, tt.x, tt.y)
			if err != nil {
				t.Errorf("SampleColor failed for valid edge coordinate (%d,%d): %v", tt.x, tt.y, err)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input   string
		want    color.NRGBA
		wantErr bool
	}{
		{"#FF0000", color.NRGBA{255, 0, 0, 255}, false},
		{"00ff00", color.NRGBA{0, 255, 0, 255}, false},
		{"#00F", color.NRGBA{0, 0, 255, 255}, false},
		{"#FF000080", color.NRGBA{255, 0, 0, 128}, false},
		{"  #123456  ", color.NRGBA{0x12, 0x34, 0x56, 255}, false},
		{"", color.NRGBA{}, true},
		{"#GG0000", color.NRGBA{}, true},
		{"#FF00", color.NRGBA{}, true},
		{"#FF0000ZZ", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidParameter) {
					t.Errorf("got %v, want ErrInvalidParameter", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColor failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatColor(t *testing.T) {
	if got := FormatColor(color.NRGBA{255, 128, 0, 255}); got != "#FF8000" {
		t.Errorf("opaque: got %s, want #FF8000", got)
	}
	if got := FormatColor(color.NRGBA{255, 128, 0, 64}); got != "#FF800040" {
		t.Errorf("translucent: got %s, want #FF800040", got)
	}
}
