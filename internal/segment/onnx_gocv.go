//go:build gocv

package segment

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"gocv.io/x/gocv"
)

// ONNXModel runs a saliency network through the OpenCV DNN module.
type ONNXModel struct {
	net  gocv.Net
	path string
}

// NewONNXModel loads an ONNX saliency network such as U²-Net from path.
func NewONNXModel(path string) (*ONNXModel, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no model path configured", ErrModelUnavailable)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	net := gocv.ReadNetFromONNX(path)
	if net.Empty() {
		return nil, fmt.Errorf("%w: failed to read %s", ErrModelUnavailable, path)
	}
	return &ONNXModel{net: net, path: path}, nil
}

// Infer runs a forward pass. The first output of the network is returned.
func (m *ONNXModel) Infer(ctx context.Context, input *Tensor) (*Tensor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if input.Len() != len(input.Data) {
		return nil, fmt.Errorf("input has %d values for shape %v", len(input.Data), input.Shape)
	}

	buf := make([]byte, 4*len(input.Data))
	for i, v := range input.Data {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	blob, err := gocv.NewMatWithSizesFromBytes(input.Shape, gocv.MatTypeCV32F, buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build input blob: %w", err)
	}
	defer blob.Close()

	m.net.SetInput(blob, "")
	out := m.net.Forward("")
	defer out.Close()
	if out.Empty() {
		return nil, fmt.Errorf("model %s produced no output", m.path)
	}

	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("failed to read model output: %w", err)
	}
	return &Tensor{
		Shape: out.Size(),
		Data:  append([]float32(nil), data...),
	}, nil
}

// Close releases the network.
func (m *ONNXModel) Close() error {
	return m.net.Close()
}
