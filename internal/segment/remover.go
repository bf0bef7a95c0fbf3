package segment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	editimg "github.com/ironsheep/image-editor-mcp/internal/imaging"
)

var (
	// ErrShapeMismatch reports a model output whose shape is not a single size×size map.
	ErrShapeMismatch = errors.New("saliency shape mismatch")

	// ErrModelUnavailable reports that no segmentation model is configured or loadable.
	ErrModelUnavailable = errors.New("segmentation model unavailable")
)

// Model is a saliency model. Infer receives a [1, 3, H, W] tensor with values in [0,1]
// and returns a single-channel [H, W] map, optionally with leading unit dimensions.
type Model interface {
	Infer(ctx context.Context, input *Tensor) (*Tensor, error)
}

// ModelFunc adapts a function to the Model interface.
type ModelFunc func(ctx context.Context, input *Tensor) (*Tensor, error)

// Infer calls f.
func (f ModelFunc) Infer(ctx context.Context, input *Tensor) (*Tensor, error) {
	return f(ctx, input)
}

// State is a stage of a background removal.
type State int

// Remover states, in the order a successful removal passes through them.
const (
	Idle State = iota
	Preprocessing
	Inferring
	Postprocessing
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Preprocessing:
		return "preprocessing"
	case Inferring:
		return "inferring"
	case Postprocessing:
		return "postprocessing"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Error is returned by Remove when a stage fails.
type Error struct {
	Stage State
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("background removal failed during %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Remover runs the preprocess, inference and postprocess stages of background removal.
//
// A Remover is not safe for concurrent use. After a failure it is back in Idle and can
// be retried.
type Remover struct {
	model     Model
	inputSize int
	threshold float64
	state     State
	logger    *slog.Logger
}

// Option configures a Remover.
type Option func(*Remover)

// WithInputSize sets the square model input resolution.
func WithInputSize(size int) Option {
	return func(r *Remover) { r.inputSize = size }
}

// WithThreshold sets the foreground threshold.
func WithThreshold(threshold float64) Option {
	return func(r *Remover) { r.threshold = threshold }
}

// WithLogger sets the logger used for stage timings. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Remover) { r.logger = l }
}

// NewRemover returns a Remover for model with a 320×320 input and a 0.5 threshold.
// model may be nil; Remove then fails with ErrModelUnavailable.
func NewRemover(model Model, opts ...Option) *Remover {
	r := &Remover{
		model:     model,
		inputSize: DefaultInputSize,
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

// State returns the stage the Remover is in.
func (r *Remover) State() State { return r.state }

// Available reports whether a model is configured.
func (r *Remover) Available() bool { return r.model != nil }

// Remove produces a copy of src whose background is transparent.
//
// The result is a 4-channel raster with src's dimensions. Failures in any stage,
// including cancellation of ctx between stages, are returned as *Error.
func (r *Remover) Remove(ctx context.Context, src *editimg.Raster) (*editimg.Raster, error) {
	r.state = Idle
	start := time.Now()

	if r.model == nil {
		return nil, r.fail(Preprocessing, ErrModelUnavailable)
	}

	r.state = Preprocessing
	if err := ctx.Err(); err != nil {
		return nil, r.fail(Preprocessing, err)
	}
	input, err := Preprocess(src, r.inputSize)
	if err != nil {
		return nil, r.fail(Preprocessing, err)
	}

	r.state = Inferring
	if err := ctx.Err(); err != nil {
		return nil, r.fail(Inferring, err)
	}
	output, err := r.model.Infer(ctx, input)
	if err != nil {
		return nil, r.fail(Inferring, err)
	}

	r.state = Postprocessing
	if err := ctx.Err(); err != nil {
		return nil, r.fail(Postprocessing, err)
	}
	out, err := Postprocess(src, output, r.inputSize, r.threshold)
	if err != nil {
		return nil, r.fail(Postprocessing, err)
	}

	r.state = Done
	r.logger.Debug("background removed",
		"width", out.Width(), "height", out.Height(), "elapsed", time.Since(start))
	return out, nil
}

func (r *Remover) fail(stage State, err error) error {
	r.state = Idle
	r.logger.Warn("background removal failed", "stage", stage.String(), "error", err)
	return &Error{Stage: stage, Err: err}
}
