package imaging

import (
	"fmt"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/mat"
)

// sepiaKernel maps (R, G, B) to (R', G', B'). Rows are output channels.
var sepiaKernel = mat.NewDense(3, 3, []float64{
	0.393, 0.769, 0.189,
	0.349, 0.686, 0.168,
	0.272, 0.534, 0.131,
})

// Negative returns the bitwise complement of the colour channels. Alpha is untouched.
func Negative(r *Raster) (*Raster, error) {
	if err := validate(r); err != nil {
		return nil, err
	}
	return wrap(imaging.Invert(r.img), r.alpha), nil
}

// Grayscale replaces each pixel by its BT.601 luminance, broadcast back to R, G and B.
// Alpha is untouched.
func Grayscale(r *Raster) (*Raster, error) {
	if err := validate(r); err != nil {
		return nil, err
	}
	return wrap(imaging.Grayscale(r.img), r.alpha), nil
}

// Sepia applies the fixed sepia colour matrix.
func Sepia(r *Raster) (*Raster, error) {
	return ColorTransform(r, sepiaKernel)
}

// ColorTransform applies a 3×3 linear transform to every pixel's (R, G, B) vector.
//
// Each output channel is rounded and clamped to [0,255]. Alpha is untouched. Matrices of
// any other shape fail with ErrInvalidParameter.
func ColorTransform(r *Raster, m mat.Matrix) (*Raster, error) {
	if err := validate(r); err != nil {
		return nil, err
	}
	if rows, cols := m.Dims(); rows != 3 || cols != 3 {
		return nil, fmt.Errorf("%w: colour transform must be 3x3, got %dx%d", ErrInvalidParameter, rows, cols)
	}

	var k [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			k[i][j] = m.At(i, j)
		}
	}

	out := imaging.AdjustFunc(r.img, func(c color.NRGBA) color.NRGBA {
		in := [3]float64{float64(c.R), float64(c.G), float64(c.B)}
		var res [3]uint8
		for i := 0; i < 3; i++ {
			res[i] = clampChannel(math.Round(k[i][0]*in[0] + k[i][1]*in[1] + k[i][2]*in[2]))
		}
		return color.NRGBA{R: res[0], G: res[1], B: res[2], A: c.A}
	})
	return wrap(out, r.alpha), nil
}

// Brightness adds delta to every colour channel, clamping to [0,255]. Alpha is untouched.
func Brightness(r *Raster, delta int) (*Raster, error) {
	if err := validate(r); err != nil {
		return nil, err
	}
	d := float64(delta)
	out := imaging.AdjustFunc(r.img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clampChannel(float64(c.R) + d),
			G: clampChannel(float64(c.G) + d),
			B: clampChannel(float64(c.B) + d),
			A: c.A,
		}
	})
	return wrap(out, r.alpha), nil
}

// BlurKernelSize converts a blur slider value into a Gaussian kernel size.
//
// Even values are bumped to the next odd number. The second result is false when the
// kernel is smaller than 3, in which case no blur is applied.
func BlurKernelSize(value int) (int, bool) {
	k := value
	if k%2 == 0 {
		k++
	}
	return k, k >= 3
}

// BlurSigma returns the Gaussian sigma for an odd kernel size, using the same rule as
// OpenCV when sigma is left unspecified.
func BlurSigma(kernel int) float64 {
	return 0.3*(float64(kernel-1)*0.5-1) + 0.8
}

// Blur smooths the raster with a Gaussian whose kernel size is derived from value.
//
// Values whose kernel is smaller than 3 (0 and 1, and all negatives) return an identical
// copy of r.
func Blur(r *Raster, value int) (*Raster, error) {
	if err := validate(r); err != nil {
		return nil, err
	}
	k, ok := BlurKernelSize(value)
	if !ok {
		return r.Clone(), nil
	}
	return wrap(imaging.Blur(r.img, BlurSigma(k)), r.alpha), nil
}

// sketchRadius is the blur radius of the dodge layer in Sketch.
const sketchRadius = 8.0

// Sketch renders a colour pencil sketch.
//
// A grayscale pencil layer is produced by colour-dodging the grayscale image with its
// blurred negative. The pencil layer then replaces the luma of the original pixels while
// their chroma is kept. Alpha is untouched.
func Sketch(r *Raster) (*Raster, error) {
	if err := validate(r); err != nil {
		return nil, err
	}
	opaque := r.pixels()
	for i := 3; i < len(opaque.Pix); i += 4 {
		opaque.Pix[i] = 255
	}
	gray := effect.Grayscale(opaque)
	dodge := blur.Gaussian(effect.Invert(gray), sketchRadius)
	pencil := blend.ColorDodge(gray, dodge)

	dst := r.pixels()
	w, h := r.Width(), r.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := dst.PixOffset(x, y)
			p := dst.Pix[i : i+4 : i+4]
			_, cb, cr := color.RGBToYCbCr(p[0], p[1], p[2])
			luma := pencil.Pix[pencil.PixOffset(x+pencil.Rect.Min.X, y+pencil.Rect.Min.Y)]
			p[0], p[1], p[2] = color.YCbCrToRGB(luma, cb, cr)
		}
	}
	return wrap(dst, r.alpha), nil
}

func clampChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
