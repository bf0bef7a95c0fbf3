package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex  string    `json:"hex"`  // Hex format "#RRGGBB" (no alpha)
	RGB  RGBColor  `json:"rgb"`  // RGB components
	RGBA RGBAColor `json:"rgba"` // RGBA components with alpha
	HSL  HSLColor  `json:"hsl"`  // HSL representation
}

// NRGBA returns the sampled colour as a color.NRGBA.
func (c *ColorResult) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B, A: c.RGBA.A}
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Coordinates are 0-based source-space pixels. Points outside the raster fail with
// ErrInvalidParameter.
func SampleColor(r *Raster, x, y int) (*ColorResult, error) {
	if err := validate(r); err != nil {
		return nil, err
	}
	if !image.Pt(x, y).In(r.Bounds()) {
		return nil, fmt.Errorf("%w: coordinates (%d,%d) outside %dx%d image",
			ErrInvalidParameter, x, y, r.Width(), r.Height())
	}
	return DescribeColor(r.NRGBAAt(x, y)), nil
}

// DescribeColor expands a colour into the representations of ColorResult.
func DescribeColor(c color.NRGBA) *ColorResult {
	cf := toColorful(c)
	h, s, l := cf.Hsl()
	return &ColorResult{
		Hex:  strings.ToUpper(cf.Hex()),
		RGB:  RGBColor{R: c.R, G: c.G, B: c.B},
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}
}

// FormatColor renders c as "#RRGGBB", or "#RRGGBBAA" when it is not opaque.
func FormatColor(c color.NRGBA) string {
	hex := strings.ToUpper(toColorful(c).Hex())
	if c.A != 255 {
		hex += fmt.Sprintf("%02X", c.A)
	}
	return hex
}

// ParseColor parses "#RGB", "#RRGGBB" or "#RRGGBBAA". The leading '#' is optional.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimSpace(s)
	if hex == "" {
		return color.NRGBA{}, fmt.Errorf("%w: empty color string", ErrInvalidParameter)
	}
	if hex[0] != '#' {
		hex = "#" + hex
	}

	alpha := uint8(255)
	if len(hex) == 9 {
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: color %q", ErrInvalidParameter, s)
		}
		alpha = uint8(a)
		hex = hex[:7]
	}

	cf, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: color %q", ErrInvalidParameter, s)
	}
	r, g, b := cf.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}
