package history

import (
	"errors"
	"fmt"

	"github.com/ironsheep/image-editor-mcp/internal/imaging"
)

// Errors returned when a history stack is empty.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// History is a linear edit history over immutable raster snapshots.
//
// It holds the raster as loaded (the source), the current raster, a stack of states
// prior to the current one and a stack of states undone since the last edit. Rasters are
// copied when they enter the history, so no caller-held raster is ever shared with it.
//
// History is not safe for concurrent use.
type History struct {
	source  *imaging.Raster
	current *imaging.Raster
	undo    []*imaging.Raster
	redo    []*imaging.Raster
	limit   int
}

// New starts a history at a copy of source.
//
// limit bounds the number of undo steps kept; the oldest are dropped first. Zero means
// unbounded and negative values are rejected.
func New(source *imaging.Raster, limit int) (*History, error) {
	if source == nil || source.Width() <= 0 || source.Height() <= 0 {
		return nil, imaging.ErrInvalidRaster
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: history limit %d", imaging.ErrInvalidParameter, limit)
	}
	return &History{
		source:  source.Clone(),
		current: source.Clone(),
		limit:   limit,
	}, nil
}

// Commit records r as the new current state.
//
// The previous current state becomes undoable and the redo stack is cleared.
func (h *History) Commit(r *imaging.Raster) error {
	if r == nil || r.Width() <= 0 || r.Height() <= 0 {
		return imaging.ErrInvalidRaster
	}
	h.pushUndo(h.current)
	h.current = r.Clone()
	h.redo = nil
	return nil
}

// Undo steps back one state. The state left behind becomes redoable.
func (h *History) Undo() error {
	if len(h.undo) == 0 {
		return ErrNothingToUndo
	}
	last := len(h.undo) - 1
	h.redo = append(h.redo, h.current)
	h.current = h.undo[last]
	h.undo[last] = nil
	h.undo = h.undo[:last]
	return nil
}

// Redo re-applies the most recently undone state.
func (h *History) Redo() error {
	if len(h.redo) == 0 {
		return ErrNothingToRedo
	}
	last := len(h.redo) - 1
	h.pushUndo(h.current)
	h.current = h.redo[last]
	h.redo[last] = nil
	h.redo = h.redo[:last]
	return nil
}

// Revert commits a copy of the source. It is undoable like any other edit.
func (h *History) Revert() error {
	return h.Commit(h.source)
}

// Current returns the current state. The raster must not be modified.
func (h *History) Current() *imaging.Raster { return h.current }

// Source returns the raster the history was started with. It must not be modified.
func (h *History) Source() *imaging.Raster { return h.source }

// UndoDepth returns the number of available undo steps.
func (h *History) UndoDepth() int { return len(h.undo) }

// RedoDepth returns the number of available redo steps.
func (h *History) RedoDepth() int { return len(h.redo) }

// PeekUndo returns the state Undo would make current, or nil when there is none.
func (h *History) PeekUndo() *imaging.Raster {
	if len(h.undo) == 0 {
		return nil
	}
	return h.undo[len(h.undo)-1]
}

// PeekRedo returns the state Redo would make current, or nil when there is none.
func (h *History) PeekRedo() *imaging.Raster {
	if len(h.redo) == 0 {
		return nil
	}
	return h.redo[len(h.redo)-1]
}

// Limit returns the configured undo limit; zero means unbounded.
func (h *History) Limit() int { return h.limit }

func (h *History) pushUndo(r *imaging.Raster) {
	h.undo = append(h.undo, r)
	if h.limit > 0 && len(h.undo) > h.limit {
		drop := len(h.undo) - h.limit
		for i := 0; i < drop; i++ {
			h.undo[i] = nil
		}
		h.undo = append(h.undo[:0], h.undo[drop:]...)
	}
}
