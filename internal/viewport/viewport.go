package viewport

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	editimg "github.com/ironsheep/image-editor-mcp/internal/imaging"
)

// ErrInvalidViewport reports a viewport with a non-positive width or height.
var ErrInvalidViewport = errors.New("invalid viewport")

// Default viewport dimensions in display pixels.
const (
	DefaultMaxWidth  = 600
	DefaultMaxHeight = 400
)

// Viewport is the bounded area in which the current raster is displayed.
type Viewport struct {
	MaxWidth  int `json:"max_width"`
	MaxHeight int `json:"max_height"`
}

// Default returns the 600×400 viewport.
func Default() Viewport {
	return Viewport{MaxWidth: DefaultMaxWidth, MaxHeight: DefaultMaxHeight}
}

// Validate reports ErrInvalidViewport if either dimension is not positive.
func (v Viewport) Validate() error {
	if v.MaxWidth <= 0 || v.MaxHeight <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, v.MaxWidth, v.MaxHeight)
	}
	return nil
}

// Scale returns ComputeScale for a raster of the given size in this viewport.
func (v Viewport) Scale(srcW, srcH int) (float64, error) {
	return ComputeScale(srcW, srcH, v.MaxWidth, v.MaxHeight)
}

// ComputeScale returns the display-to-source fit factor.
//
// The factor is 1 when the source fits inside maxW×maxH and otherwise the largest
// value that makes the scaled source fit, so it always lies in (0, 1].
func ComputeScale(srcW, srcH, maxW, maxH int) (float64, error) {
	if srcW <= 0 || srcH <= 0 {
		return 0, fmt.Errorf("%w: source %dx%d", editimg.ErrInvalidRaster, srcW, srcH)
	}
	if maxW <= 0 || maxH <= 0 {
		return 0, fmt.Errorf("%w: %dx%d", ErrInvalidViewport, maxW, maxH)
	}
	if srcW <= maxW && srcH <= maxH {
		return 1, nil
	}
	return math.Min(float64(maxW)/float64(srcW), float64(maxH)/float64(srcH)), nil
}

// ToSource maps a display-space point to source space.
//
// Each axis is divided by scale and rounded to the nearest pixel. A non-positive
// scale is treated as 1. The result is not clamped to the raster bounds.
func ToSource(p image.Point, scale float64) image.Point {
	if scale <= 0 {
		scale = 1
	}
	return image.Point{
		X: int(math.Round(float64(p.X) / scale)),
		Y: int(math.Round(float64(p.Y) / scale)),
	}
}

// ToSourcePoints maps every point of a display-space polyline.
func ToSourcePoints(points []image.Point, scale float64) []image.Point {
	out := make([]image.Point, len(points))
	for i, p := range points {
		out[i] = ToSource(p, scale)
	}
	return out
}

// ToSourceRect maps two opposite display-space corners to a canonical source rectangle.
func ToSourceRect(a, b image.Point, scale float64) image.Rectangle {
	sa, sb := ToSource(a, scale), ToSource(b, scale)
	return image.Rect(sa.X, sa.Y, sb.X, sb.Y)
}

// DisplaySize returns the size of the displayed raster: each side is floor(side × scale),
// and at least 1.
func DisplaySize(w, h int, scale float64) (int, int) {
	if scale <= 0 {
		scale = 1
	}
	dw := int(math.Floor(float64(w) * scale))
	dh := int(math.Floor(float64(h) * scale))
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	return dw, dh
}

// Render returns the display image of r at the given scale.
//
// The raster is bilinearly resized to DisplaySize. At scale 1 (or above) the result is a
// copy of the raster's pixels. The scale is taken as given; callers pass the value they
// cached when the raster last changed.
func Render(r *editimg.Raster, scale float64) (*image.NRGBA, error) {
	if r == nil || r.Width() <= 0 || r.Height() <= 0 {
		return nil, editimg.ErrInvalidRaster
	}
	if scale >= 1 {
		return imaging.Clone(r.Image()), nil
	}
	w, h := DisplaySize(r.Width(), r.Height(), scale)
	return imaging.Resize(r.Image(), w, h, imaging.Linear), nil
}
