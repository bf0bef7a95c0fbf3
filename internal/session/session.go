package session

import (
	"github.com/ironsheep/image-editor-mcp/internal/history"
	"github.com/ironsheep/image-editor-mcp/internal/imaging"
	"github.com/ironsheep/image-editor-mcp/internal/viewport"
)

// Session is the editing state of one loaded image.
type Session struct {
	path    string
	info    *imaging.ImageInfo
	history *history.History
	view    viewport.Viewport
	scale   float64
	preview *imaging.Raster
}

// newSession starts a session whose source and current raster are r.
func newSession(path string, info *imaging.ImageInfo, r *imaging.Raster, view viewport.Viewport, limit int) (*Session, error) {
	h, err := history.New(r, limit)
	if err != nil {
		return nil, err
	}
	scale, err := view.Scale(r.Width(), r.Height())
	if err != nil {
		return nil, err
	}
	return &Session{
		path:    path,
		info:    info,
		history: h,
		view:    view,
		scale:   scale,
	}, nil
}

// Path returns the file the session was loaded from.
func (s *Session) Path() string { return s.path }

// Info returns the metadata of the loaded file.
func (s *Session) Info() *imaging.ImageInfo { return s.info }

// Current returns the raster reflecting every committed edit.
func (s *Session) Current() *imaging.Raster { return s.history.Current() }

// Source returns the raster as loaded.
func (s *Session) Source() *imaging.Raster { return s.history.Source() }

// Scale returns the display-to-source fit factor of the current raster.
func (s *Session) Scale() float64 { return s.scale }

// Viewport returns the display bounds the scale is computed against.
func (s *Session) Viewport() viewport.Viewport { return s.view }

// Preview returns the uncommitted slider result, or nil.
func (s *Session) Preview() *imaging.Raster { return s.preview }

// Displayed returns the preview if there is one and the current raster otherwise.
func (s *Session) Displayed() *imaging.Raster {
	if s.preview != nil {
		return s.preview
	}
	return s.history.Current()
}

// HistoryLimit returns the maximum undo depth; zero means unbounded.
func (s *Session) HistoryLimit() int { return s.history.Limit() }

// UndoDepth returns the number of states undo can step back through.
func (s *Session) UndoDepth() int { return s.history.UndoDepth() }

// RedoDepth returns the number of states redo can step forward through.
func (s *Session) RedoDepth() int { return s.history.RedoDepth() }

// commit makes r the current raster. On error nothing changes.
func (s *Session) commit(r *imaging.Raster) error {
	scale, err := s.view.Scale(r.Width(), r.Height())
	if err != nil {
		return err
	}
	if err := s.history.Commit(r); err != nil {
		return err
	}
	s.scale = scale
	s.preview = nil
	return nil
}

func (s *Session) undo() error {
	return s.step(s.history.PeekUndo(), s.history.Undo)
}

func (s *Session) redo() error {
	return s.step(s.history.PeekRedo(), s.history.Redo)
}

func (s *Session) revert() error {
	return s.step(s.history.Source(), s.history.Revert)
}

// step runs an undo, redo or revert whose result will be target. The scale for target
// is computed first, so on error nothing changes. A nil target leaves the error to move.
func (s *Session) step(target *imaging.Raster, move func() error) error {
	scale := s.scale
	if target != nil {
		var err error
		if scale, err = s.view.Scale(target.Width(), target.Height()); err != nil {
			return err
		}
	}
	if err := move(); err != nil {
		return err
	}
	s.scale = scale
	s.preview = nil
	return nil
}

func (s *Session) setViewport(v viewport.Viewport) error {
	cur := s.history.Current()
	scale, err := v.Scale(cur.Width(), cur.Height())
	if err != nil {
		return err
	}
	s.view = v
	s.scale = scale
	return nil
}
