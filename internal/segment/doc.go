// Package segment removes image backgrounds with a salient-object segmentation model.
//
// The model itself is external and consumed through a numeric contract:
//
//	input   [1, 3, S, S] float32, RGB, channel-first, values in [0,1]
//	output  [S, S] float32 saliency, optionally with leading unit dimensions
//
// S is 320 for U²-Net. Preprocess builds the input from a raster of any size;
// Postprocess scales the saliency map back to the raster's resolution, thresholds it
// at 0.5 and uses the result as the alpha channel of a copy of the raster.
//
// # Stages
//
// A Remover drives one removal at a time through
//
//	Idle → Preprocessing → Inferring → Postprocessing → Done
//
// Any failure returns it to Idle and is reported as *Error naming the stage, so callers
// can use errors.As to tell a model failure from a shape mismatch. The context is
// checked between stages.
//
// # Backends
//
// ONNXModel loads an ONNX network with OpenCV's DNN module via gocv. It is only built
// with the gocv build tag because it needs OpenCV installed; without the tag
// NewONNXModel returns ErrModelUnavailable and the editor reports background removal
// as unavailable. Any other runtime can be plugged in by implementing Model.
package segment
