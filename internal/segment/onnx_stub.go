//go:build !gocv

package segment

import (
	"context"
	"fmt"
)

// ONNXModel runs a saliency network through the OpenCV DNN module.
//
// This build does not include OpenCV; rebuild with -tags gocv to enable it.
type ONNXModel struct{}

// NewONNXModel always fails with ErrModelUnavailable in builds without the gocv tag.
func NewONNXModel(path string) (*ONNXModel, error) {
	return nil, fmt.Errorf("%w: built without OpenCV support (rebuild with -tags gocv)", ErrModelUnavailable)
}

// Infer always fails with ErrModelUnavailable.
func (m *ONNXModel) Infer(ctx context.Context, input *Tensor) (*Tensor, error) {
	return nil, ErrModelUnavailable
}

// Close does nothing.
func (m *ONNXModel) Close() error { return nil }
