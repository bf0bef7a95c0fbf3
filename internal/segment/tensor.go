package segment

import (
	"fmt"
	"math"

	"github.com/disintegration/imaging"

	editimg "github.com/ironsheep/image-editor-mcp/internal/imaging"
)

// DefaultInputSize is the square input resolution of U²-Net style saliency models.
const DefaultInputSize = 320

// DefaultThreshold is the saliency above which a pixel is kept as foreground.
const DefaultThreshold = 0.5

// Tensor is a dense float32 array in row-major order.
type Tensor struct {
	Shape []int
	Data  []float32
}

// NewTensor allocates a zero tensor of the given shape.
func NewTensor(shape ...int) *Tensor {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return &Tensor{Shape: append([]int(nil), shape...), Data: make([]float32, n)}
}

// Len returns the number of elements implied by Shape.
func (t *Tensor) Len() int {
	n := 1
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// Preprocess converts a raster into a model input tensor.
//
// The raster is bilinearly resized to size×size, its R, G and B channels are scaled
// to [0,1] and laid out channel-first with a batch dimension, giving shape
// [1, 3, size, size]. Alpha is ignored.
func Preprocess(r *editimg.Raster, size int) (*Tensor, error) {
	if r == nil || r.Width() <= 0 || r.Height() <= 0 {
		return nil, editimg.ErrInvalidRaster
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: input size %d", editimg.ErrInvalidParameter, size)
	}

	resized := imaging.Resize(r.Image(), size, size, imaging.Linear)
	t := NewTensor(1, 3, size, size)
	plane := size * size
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := resized.PixOffset(x, y)
			j := y*size + x
			t.Data[j] = float32(resized.Pix[i]) / 255
			t.Data[plane+j] = float32(resized.Pix[i+1]) / 255
			t.Data[2*plane+j] = float32(resized.Pix[i+2]) / 255
		}
	}
	return t, nil
}

// Postprocess turns a saliency map into a 4-channel raster with a binary alpha matte.
//
// The saliency tensor must have shape [size, size], optionally preceded by any number
// of unit dimensions such as [1, 1, size, size]; any other shape fails with
// ErrShapeMismatch. The map is bilinearly resized to the raster's resolution, and each
// pixel whose saliency is strictly greater than threshold keeps the source colour with
// alpha 255. All other pixels get alpha 0. The output always has r's dimensions.
func Postprocess(r *editimg.Raster, saliency *Tensor, size int, threshold float64) (*editimg.Raster, error) {
	if r == nil || r.Width() <= 0 || r.Height() <= 0 {
		return nil, editimg.ErrInvalidRaster
	}
	if err := checkSaliencyShape(saliency, size); err != nil {
		return nil, err
	}

	w, h := r.Width(), r.Height()
	mask := resizeBilinear(saliency.Data, size, size, w, h)

	out := imaging.Clone(r.Image())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := uint8(0)
			if float64(mask[y*w+x]) > threshold {
				a = 255
			}
			out.Pix[out.PixOffset(x, y)+3] = a
		}
	}
	return editimg.FromNRGBA(out, true)
}

func checkSaliencyShape(t *Tensor, size int) error {
	if t == nil {
		return fmt.Errorf("%w: no output", ErrShapeMismatch)
	}
	dims := t.Shape
	if len(dims) < 2 {
		return fmt.Errorf("%w: got %v, want [%d %d]", ErrShapeMismatch, dims, size, size)
	}
	for _, d := range dims[:len(dims)-2] {
		if d != 1 {
			return fmt.Errorf("%w: got %v, want [%d %d]", ErrShapeMismatch, dims, size, size)
		}
	}
	if dims[len(dims)-2] != size || dims[len(dims)-1] != size {
		return fmt.Errorf("%w: got %v, want [%d %d]", ErrShapeMismatch, dims, size, size)
	}
	if len(t.Data) != size*size {
		return fmt.Errorf("%w: %d values for shape %v", ErrShapeMismatch, len(t.Data), dims)
	}
	return nil
}

// resizeBilinear resamples a single-channel float map with pixel-centre alignment and
// edge clamping.
func resizeBilinear(src []float32, srcW, srcH, dstW, dstH int) []float32 {
	dst := make([]float32, dstW*dstH)
	sx := float64(srcW) / float64(dstW)
	sy := float64(srcH) / float64(dstH)

	for y := 0; y < dstH; y++ {
		fy := (float64(y)+0.5)*sy - 0.5
		y0 := clampIndex(int(math.Floor(fy)), srcH)
		y1 := clampIndex(y0+1, srcH)
		wy := float32(fy - math.Floor(fy))
		if fy < 0 {
			wy = 0
		}
		for x := 0; x < dstW; x++ {
			fx := (float64(x)+0.5)*sx - 0.5
			x0 := clampIndex(int(math.Floor(fx)), srcW)
			x1 := clampIndex(x0+1, srcW)
			wx := float32(fx - math.Floor(fx))
			if fx < 0 {
				wx = 0
			}
			top := src[y0*srcW+x0]*(1-wx) + src[y0*srcW+x1]*wx
			bot := src[y1*srcW+x0]*(1-wx) + src[y1*srcW+x1]*wx
			dst[y*dstW+x] = top*(1-wy) + bot*wy
		}
	}
	return dst
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
