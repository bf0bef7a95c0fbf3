package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Errors returned by raster operations. Callers should test for them with errors.Is.
var (
	// ErrInvalidRaster reports a nil, empty or otherwise malformed raster.
	ErrInvalidRaster = errors.New("invalid raster")

	// ErrEmptyRegion reports a crop rectangle that has zero area after normalization.
	ErrEmptyRegion = errors.New("empty region")

	// ErrUnsupportedFormat reports an output format that cannot represent the raster.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrInvalidParameter reports an operation parameter outside its valid range.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Raster is a fixed-size grid of 8-bit pixels.
//
// Pixels are stored non-premultiplied with the origin at (0,0). A raster is either
// 3-channel (opaque; the alpha byte is always 255) or 4-channel (alpha is meaningful).
// The channel count is fixed when the raster is created.
//
// Rasters are treated as immutable: every pipeline function in this package returns a
// new raster and never writes to its input. Use Clone to obtain an independent copy.
type Raster struct {
	img   *image.NRGBA
	alpha bool
}

// NewRaster converts any decoded image into a raster.
//
// The result is 4-channel when the source image is not fully opaque. Zero-sized images
// fail with ErrInvalidRaster.
func NewRaster(src image.Image) (*Raster, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidRaster)
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidRaster, b.Dx(), b.Dy())
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	return &Raster{img: dst, alpha: !isOpaque(src)}, nil
}

// NewBlankRaster creates an opaque w×h raster filled with c.
func NewBlankRaster(w, h int, c color.NRGBA) (*Raster, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidRaster, w, h)
	}
	c.A = 255
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return &Raster{img: img}, nil
}

// wrap adopts img as the pixel store of a new raster. The result inherits the channel
// count given by alpha; for opaque rasters the alpha bytes are forced to 255 so that a
// library operation can never leak partial transparency into a 3-channel raster.
func wrap(img *image.NRGBA, alpha bool) *Raster {
	if img.Rect.Min != (image.Point{}) {
		img = rebase(img)
	}
	if !alpha {
		for i := 3; i < len(img.Pix); i += 4 {
			img.Pix[i] = 255
		}
	}
	return &Raster{img: img, alpha: alpha}
}

// FromNRGBA adopts img without copying. The caller must not modify img afterwards.
func FromNRGBA(img *image.NRGBA, alpha bool) (*Raster, error) {
	if img == nil || img.Rect.Dx() <= 0 || img.Rect.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty pixel buffer", ErrInvalidRaster)
	}
	return wrap(img, alpha), nil
}

func rebase(img *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, img.Rect.Dx(), img.Rect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Rect.Min, draw.Src)
	return dst
}

// Width returns the raster width in pixels.
func (r *Raster) Width() int { return r.img.Rect.Dx() }

// Height returns the raster height in pixels.
func (r *Raster) Height() int { return r.img.Rect.Dy() }

// Bounds returns the raster bounds; Min is always (0,0).
func (r *Raster) Bounds() image.Rectangle { return r.img.Rect }

// HasAlpha reports whether the raster is 4-channel.
func (r *Raster) HasAlpha() bool { return r.alpha }

// Channels returns 3 for opaque rasters and 4 for rasters with alpha.
func (r *Raster) Channels() int {
	if r.alpha {
		return 4
	}
	return 3
}

// Image exposes the pixels as a read-only image.Image.
func (r *Raster) Image() image.Image { return r.img }

// NRGBAAt returns the pixel at (x, y).
func (r *Raster) NRGBAAt(x, y int) color.NRGBA { return r.img.NRGBAAt(x, y) }

// Clone returns a deep copy of the raster.
func (r *Raster) Clone() *Raster {
	pix := make([]uint8, len(r.img.Pix))
	copy(pix, r.img.Pix)
	return &Raster{
		img:   &image.NRGBA{Pix: pix, Stride: r.img.Stride, Rect: r.img.Rect},
		alpha: r.alpha,
	}
}

// Equal reports whether both rasters have the same size, channel count and pixels.
func (r *Raster) Equal(o *Raster) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.alpha != o.alpha || r.img.Rect != o.img.Rect {
		return false
	}
	w := r.Width() * 4
	for y := 0; y < r.Height(); y++ {
		a := r.img.Pix[y*r.img.Stride : y*r.img.Stride+w]
		b := o.img.Pix[y*o.img.Stride : y*o.img.Stride+w]
		if !bytes.Equal(a, b) {
			return false
		}
	}
	return true
}

// pixels returns a private copy of the pixel store for in-place editing.
func (r *Raster) pixels() *image.NRGBA {
	return r.Clone().img
}

func validate(r *Raster) error {
	if r == nil || r.img == nil || r.Width() <= 0 || r.Height() <= 0 {
		return ErrInvalidRaster
	}
	return nil
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}
	return true
}
