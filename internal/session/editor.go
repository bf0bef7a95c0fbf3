package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"

	"github.com/ironsheep/image-editor-mcp/internal/config"
	"github.com/ironsheep/image-editor-mcp/internal/imaging"
	"github.com/ironsheep/image-editor-mcp/internal/ocr"
	"github.com/ironsheep/image-editor-mcp/internal/segment"
	"github.com/ironsheep/image-editor-mcp/internal/viewport"
)

var (
	// ErrNoImage is returned by every action that needs an image before one is uploaded.
	ErrNoImage = errors.New("no image loaded")

	// ErrUnknownFilter is returned by ApplyFilter for an unrecognized filter name.
	ErrUnknownFilter = errors.New("unknown filter")
)

// Filter names a one-shot filter.
type Filter string

const (
	FilterNegative  Filter = "negative"
	FilterGrayscale Filter = "grayscale"
	FilterSepia     Filter = "sepia"
	FilterSketch    Filter = "sketch"
)

var filters = map[Filter]func(*imaging.Raster) (*imaging.Raster, error){
	FilterNegative:  imaging.Negative,
	FilterGrayscale: imaging.Grayscale,
	FilterSepia:     imaging.Sepia,
	FilterSketch:    imaging.Sketch,
}

// Filters returns the names ApplyFilter accepts.
func Filters() []Filter {
	return []Filter{FilterNegative, FilterGrayscale, FilterSepia, FilterSketch}
}

// TextRecognizer reads text from a raster.
type TextRecognizer interface {
	// Recognize reads the text inside region, in source coordinates. An empty region
	// means the whole raster.
	Recognize(r *imaging.Raster, region image.Rectangle) (*ocr.OCRResult, error)

	// Detect locates text blocks whose confidence is at least minConfidence.
	Detect(r *imaging.Raster, minConfidence float64) (*ocr.DetectTextRegionsResult, error)
}

// DrawSettings are the pen settings used when a draw action does not give its own.
type DrawSettings struct {
	Color     color.NRGBA
	LineWidth int
	FontScale float64
}

// State is a snapshot of the editor for display.
type State struct {
	Path                  string  `json:"path"`
	Format                string  `json:"format"`
	Width                 int     `json:"width"`
	Height                int     `json:"height"`
	Channels              int     `json:"channels"`
	HasAlpha              bool    `json:"has_alpha"`
	Scale                 float64 `json:"scale"`
	DisplayWidth          int     `json:"display_width"`
	DisplayHeight         int     `json:"display_height"`
	UndoDepth             int     `json:"undo_depth"`
	RedoDepth             int     `json:"redo_depth"`
	HistoryLimit          int     `json:"history_limit"`
	Previewing            bool    `json:"previewing"`
	DrawColor             string  `json:"draw_color"`
	LineWidth             int     `json:"line_width"`
	FontScale             float64 `json:"font_scale"`
	SegmentationAvailable bool    `json:"segmentation_available"`
}

// Editor runs the actions of an editing session. It is not safe for concurrent use.
type Editor struct {
	settings     DrawSettings
	view         viewport.Viewport
	historyLimit int
	saveOpts     imaging.SaveOptions

	model      segment.Model
	remover    *segment.Remover
	recognizer TextRecognizer
	logger     *slog.Logger

	session *Session
}

// Option configures an Editor.
type Option func(*Editor)

// WithModel sets the saliency model used by RemoveBackground.
func WithModel(m segment.Model) Option {
	return func(e *Editor) { e.model = m }
}

// WithRecognizer replaces the Tesseract text recognizer.
func WithRecognizer(r TextRecognizer) Option {
	return func(e *Editor) { e.recognizer = r }
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) { e.logger = l }
}

// New creates an Editor from cfg. A nil cfg uses the defaults.
func New(cfg *config.Config, opts ...Option) (*Editor, error) {
	if cfg == nil {
		cfg = config.New()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Editor{
		settings: DrawSettings{
			Color:     cfg.Draw.Color,
			LineWidth: cfg.Draw.LineWidth,
			FontScale: cfg.Draw.FontScale,
		},
		view:         cfg.Viewport,
		historyLimit: cfg.HistoryLimit,
		saveOpts:     cfg.SaveOptions(),
		recognizer:   ocr.Tesseract{Language: cfg.OCR.Language},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e.remover = segment.NewRemover(e.model,
		segment.WithInputSize(cfg.Segmentation.InputSize),
		segment.WithThreshold(cfg.Segmentation.Threshold),
		segment.WithLogger(e.logger),
	)
	return e, nil
}

// Session returns the active session, or nil before the first upload.
func (e *Editor) Session() *Session { return e.session }

// DrawSettings returns the current pen settings.
func (e *Editor) DrawSettings() DrawSettings { return e.settings }

// Upload loads the image at path and starts a new session with it, replacing any
// existing session.
func (e *Editor) Upload(path string) (*imaging.ImageInfo, error) {
	r, info, err := imaging.Load(path)
	if err != nil {
		return nil, err
	}
	s, err := newSession(path, info, r, e.view, e.historyLimit)
	if err != nil {
		return nil, err
	}
	e.session = s
	e.logger.Info("image loaded", "path", path, "width", info.Width, "height", info.Height,
		"format", info.Format, "scale", s.Scale())
	return info, nil
}

// Save writes the current raster to path. The format follows the file extension.
func (e *Editor) Save(path string) error {
	s, err := e.active()
	if err != nil {
		return err
	}
	if err := imaging.Save(s.Current(), path, e.saveOpts); err != nil {
		return err
	}
	e.logger.Info("image saved", "path", path)
	return nil
}

// Undo steps back to the previous state.
func (e *Editor) Undo() error {
	return e.move("undo", (*Session).undo)
}

// Redo re-applies the most recently undone state.
func (e *Editor) Redo() error {
	return e.move("redo", (*Session).redo)
}

// Revert makes the original image current again. Revert can itself be undone.
func (e *Editor) Revert() error {
	return e.move("revert", (*Session).revert)
}

// ApplyFilter commits the named filter.
func (e *Editor) ApplyFilter(kind Filter) error {
	fn, ok := filters[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFilter, kind)
	}
	return e.apply(string(kind), func(_ *Session, cur *imaging.Raster) (*imaging.Raster, error) {
		return fn(cur)
	})
}

// Draw strokes a polyline through points, given in display coordinates.
func (e *Editor) Draw(points []image.Point, c color.NRGBA, width int) error {
	return e.apply("draw", func(s *Session, cur *imaging.Raster) (*imaging.Raster, error) {
		return imaging.DrawStroke(cur, viewport.ToSourcePoints(points, s.Scale()), c, width)
	})
}

// DrawLine draws a straight line between two display-space points.
func (e *Editor) DrawLine(p1, p2 image.Point, c color.NRGBA, width int) error {
	return e.apply("line", func(s *Session, cur *imaging.Raster) (*imaging.Raster, error) {
		return imaging.DrawLine(cur, viewport.ToSource(p1, s.Scale()), viewport.ToSource(p2, s.Scale()), c, width)
	})
}

// AddText draws text with its baseline starting at pos, in display coordinates, using
// the current font scale.
func (e *Editor) AddText(pos image.Point, text string, c color.NRGBA) error {
	return e.apply("text", func(s *Session, cur *imaging.Raster) (*imaging.Raster, error) {
		return imaging.DrawText(cur, viewport.ToSource(pos, s.Scale()), text, c, e.settings.FontScale)
	})
}

// Crop keeps the rectangle spanned by two display-space corners, in either order.
func (e *Editor) Crop(a, b image.Point) error {
	return e.apply("crop", func(s *Session, cur *imaging.Raster) (*imaging.Raster, error) {
		rect := viewport.ToSourceRect(a, b, s.Scale())
		return imaging.Crop(cur, rect.Min, rect.Max)
	})
}

// CropNamed keeps a named part of the current raster, such as a quadrant or the center.
func (e *Editor) CropNamed(region imaging.CropRegion) error {
	return e.apply("crop", func(_ *Session, cur *imaging.Raster) (*imaging.Raster, error) {
		return imaging.CropNamed(cur, region)
	})
}

// AdjustBrightness previews or commits a brightness offset.
//
// An uncommitted value only replaces the preview. A committed value adds one history
// entry, except 0 which just clears the preview.
func (e *Editor) AdjustBrightness(value int, committed bool) error {
	return e.adjust("brightness", committed, value == 0, func(cur *imaging.Raster) (*imaging.Raster, error) {
		return imaging.Brightness(cur, value)
	})
}

// AdjustBlur previews or commits a blur. See imaging.BlurKernelSize for the values that
// leave the image unchanged.
func (e *Editor) AdjustBlur(value int, committed bool) error {
	_, blurs := imaging.BlurKernelSize(value)
	return e.adjust("blur", committed, !blurs, func(cur *imaging.Raster) (*imaging.Raster, error) {
		return imaging.Blur(cur, value)
	})
}

// RemoveBackground makes the background of the current raster transparent.
func (e *Editor) RemoveBackground(ctx context.Context) error {
	return e.apply("remove background", func(_ *Session, cur *imaging.Raster) (*imaging.Raster, error) {
		return e.remover.Remove(ctx, cur)
	})
}

// PickColor samples the current raster at a display-space point and makes the result
// the draw colour.
func (e *Editor) PickColor(p image.Point) (*imaging.ColorResult, error) {
	s, err := e.active()
	if err != nil {
		return nil, err
	}
	src := viewport.ToSource(p, s.Scale())
	res, err := imaging.SampleColor(s.Current(), src.X, src.Y)
	if err != nil {
		return nil, err
	}
	e.settings.Color = res.NRGBA()
	e.logger.Debug("draw color picked", "x", src.X, "y", src.Y, "color", res.Hex)
	return res, nil
}

// SetViewport changes the display bounds and recomputes the scale. It may be called
// before an image is loaded.
func (e *Editor) SetViewport(v viewport.Viewport) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if e.session != nil {
		if err := e.session.setViewport(v); err != nil {
			return err
		}
	}
	e.view = v
	return nil
}

// Preview renders what the user sees: the preview if there is one, else the current
// raster, fitted to the viewport. A positive grid spacing overlays a labelled grid in
// source coordinates.
func (e *Editor) Preview(grid int) (*image.NRGBA, error) {
	s, err := e.active()
	if err != nil {
		return nil, err
	}
	disp, err := viewport.Render(s.Displayed(), s.Scale())
	if err != nil {
		return nil, err
	}
	if grid <= 0 {
		return disp, nil
	}
	return imaging.GridOverlay(disp, s.Scale(), grid, imaging.DefaultGridColor)
}

// State reports the session and pen state.
func (e *Editor) State() (*State, error) {
	s, err := e.active()
	if err != nil {
		return nil, err
	}
	cur := s.Current()
	dw, dh := viewport.DisplaySize(cur.Width(), cur.Height(), s.Scale())
	return &State{
		Path:                  s.Path(),
		Format:                s.Info().Format,
		Width:                 cur.Width(),
		Height:                cur.Height(),
		Channels:              cur.Channels(),
		HasAlpha:              cur.HasAlpha(),
		Scale:                 s.Scale(),
		DisplayWidth:          dw,
		DisplayHeight:         dh,
		UndoDepth:             s.UndoDepth(),
		RedoDepth:             s.RedoDepth(),
		HistoryLimit:          s.HistoryLimit(),
		Previewing:            s.Preview() != nil,
		DrawColor:             imaging.FormatColor(e.settings.Color),
		LineWidth:             e.settings.LineWidth,
		FontScale:             e.settings.FontScale,
		SegmentationAvailable: e.remover.Available(),
	}, nil
}

// ReadText runs OCR on the current raster inside a display-space rectangle. An empty
// rectangle reads the whole raster. Word bounds are in source coordinates.
func (e *Editor) ReadText(region image.Rectangle) (*ocr.OCRResult, error) {
	s, err := e.active()
	if err != nil {
		return nil, err
	}
	var src image.Rectangle
	if !region.Empty() {
		src = viewport.ToSourceRect(region.Min, region.Max, s.Scale())
	}
	return e.recognizer.Recognize(s.Current(), src)
}

// DetectText locates text blocks in the current raster.
func (e *Editor) DetectText(minConfidence float64) (*ocr.DetectTextRegionsResult, error) {
	s, err := e.active()
	if err != nil {
		return nil, err
	}
	return e.recognizer.Detect(s.Current(), minConfidence)
}

func (e *Editor) active() (*Session, error) {
	if e.session == nil {
		return nil, ErrNoImage
	}
	return e.session, nil
}

// apply runs a committing action against the current raster.
func (e *Editor) apply(action string, fn func(s *Session, cur *imaging.Raster) (*imaging.Raster, error)) error {
	s, err := e.active()
	if err != nil {
		return err
	}
	out, err := fn(s, s.Current())
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	if err := s.commit(out); err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	e.logger.Debug("edit committed", "action", action,
		"width", out.Width(), "height", out.Height(), "undo_depth", s.UndoDepth())
	return nil
}

func (e *Editor) adjust(action string, committed, identity bool, fn func(*imaging.Raster) (*imaging.Raster, error)) error {
	s, err := e.active()
	if err != nil {
		return err
	}
	if identity {
		s.preview = nil
		return nil
	}
	if committed {
		return e.apply(action, func(_ *Session, cur *imaging.Raster) (*imaging.Raster, error) {
			return fn(cur)
		})
	}
	out, err := fn(s.Current())
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	s.preview = out
	return nil
}

func (e *Editor) move(action string, op func(*Session) error) error {
	s, err := e.active()
	if err != nil {
		return err
	}
	if err := op(s); err != nil {
		return err
	}
	e.logger.Debug(action, "width", s.Current().Width(), "height", s.Current().Height(),
		"undo_depth", s.UndoDepth(), "redo_depth", s.RedoDepth())
	return nil
}
