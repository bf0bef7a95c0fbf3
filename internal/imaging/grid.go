package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultGridColor is a semi-transparent red.
var DefaultGridColor = color.NRGBA{R: 255, A: 128}

// GridOverlay draws a coordinate grid over a display image.
//
// Lines are drawn every spacing display pixels. Each intersection is labelled with the
// source-space coordinate it maps to under scale, so that a client reading the preview
// can pick display points and know where they land on the full-resolution raster.
// A scale of 1 labels display coordinates unchanged.
func GridOverlay(display image.Image, scale float64, spacing int, gridColor color.NRGBA) (*image.NRGBA, error) {
	if display == nil {
		return nil, ErrInvalidRaster
	}
	if spacing <= 0 {
		return nil, fmt.Errorf("%w: grid spacing %d", ErrInvalidParameter, spacing)
	}
	if scale <= 0 {
		scale = 1
	}

	bounds := display.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	result := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(result, result.Bounds(), display, bounds.Min, draw.Src)

	line := image.NewUniform(gridColor)
	for x := spacing; x < width; x += spacing {
		draw.Draw(result, image.Rect(x, 0, x+1, height), line, image.Point{}, draw.Over)
	}
	for y := spacing; y < height; y += spacing {
		draw.Draw(result, image.Rect(0, y, width, y+1), line, image.Point{}, draw.Over)
	}

	labelColor := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	bgColor := color.NRGBA{A: 180}
	for y := spacing; y < height; y += spacing {
		for x := spacing; x < width; x += spacing {
			sx := int(math.Round(float64(x) / scale))
			sy := int(math.Round(float64(y) / scale))
			drawLabel(result, x+2, y+2, fmt.Sprintf("%d,%d", sx, sy), labelColor, bgColor)
		}
	}
	return result, nil
}

// drawLabel draws text with its top-left corner at (x, y) on a filled box.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: img, Src: image.NewUniform(fg), Face: face}

	box := image.Rect(x-1, y-1, x+d.MeasureString(text).Ceil()+1, y+face.Height)
	draw.Draw(img, box.Intersect(img.Bounds()), image.NewUniform(bg), image.Point{}, draw.Over)

	d.Dot = fixed.P(x, y+face.Ascent)
	d.DrawString(text)
}
