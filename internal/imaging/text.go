package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// TextBaseSize is the pixel size of text drawn with a font scale of 1.
const TextBaseSize = 32.0

var (
	regularFont     *opentype.Font
	regularFontOnce sync.Once
	regularFontErr  error
)

func loadRegularFont() (*opentype.Font, error) {
	regularFontOnce.Do(func() {
		regularFont, regularFontErr = opentype.Parse(goregular.TTF)
	})
	return regularFont, regularFontErr
}

// DrawText stamps text onto a copy of the raster.
//
// pos is the left end of the text baseline in source space. The glyph size is
// TextBaseSize × fontScale pixels. Empty text and non-positive scales fail with
// ErrInvalidParameter.
func DrawText(r *Raster, pos image.Point, text string, c color.NRGBA, fontScale float64) (*Raster, error) {
	if err := validate(r); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", ErrInvalidParameter)
	}
	if fontScale <= 0 {
		return nil, fmt.Errorf("%w: font scale %v", ErrInvalidParameter, fontScale)
	}

	face, err := textFace(fontScale)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	// Text that cannot touch the raster is skipped before the anchor is converted to
	// 26.6 fixed point, which only spans about ±2^25 pixels.
	if !textBounds(face, pos, text).Overlaps(r.Bounds()) {
		return r.Clone(), nil
	}

	dst := r.pixels()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(pos.X, pos.Y),
	}
	d.DrawString(text)
	return wrap(dst, r.alpha), nil
}

// textBounds returns the ink bounds of text drawn with its baseline starting at pos.
func textBounds(face font.Face, pos image.Point, text string) image.Rectangle {
	b, _ := font.BoundString(face, text)
	return image.Rect(
		pos.X+b.Min.X.Floor(), pos.Y+b.Min.Y.Floor(),
		pos.X+b.Max.X.Ceil(), pos.Y+b.Max.Y.Ceil(),
	)
}

func textFace(fontScale float64) (font.Face, error) {
	f, err := loadRegularFont()
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    TextBaseSize * fontScale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}
