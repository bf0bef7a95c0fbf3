package history

import (
	"errors"
	"image/color"
	"testing"

	"github.com/ironsheep/image-editor-mcp/internal/imaging"
)

func solid(t *testing.T, v uint8) *imaging.Raster {
	t.Helper()
	r, err := imaging.NewBlankRaster(8, 6, color.NRGBA{v, v, v, 255})
	if err != nil {
		t.Fatalf("NewBlankRaster failed: %v", err)
	}
	return r
}

func value(r *imaging.Raster) uint8 { return r.NRGBAAt(0, 0).R }

func newHistory(t *testing.T, limit int) *History {
	t.Helper()
	h, err := New(solid(t, 0), limit)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return h
}

func TestNew(t *testing.T) {
	src := solid(t, 7)
	h, err := New(src, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !h.Current().Equal(src) || !h.Source().Equal(src) {
		t.Error("current and source should equal the loaded raster")
	}
	if h.Current() == src || h.Source() == src {
		t.Error("history should copy the source on entry")
	}
	if h.UndoDepth() != 0 || h.RedoDepth() != 0 {
		t.Errorf("stacks should start empty, got undo=%d redo=%d", h.UndoDepth(), h.RedoDepth())
	}
}

func TestNew_Invalid(t *testing.T) {
	if _, err := New(nil, 0); !errors.Is(err, imaging.ErrInvalidRaster) {
		t.Errorf("nil source: got %v, want ErrInvalidRaster", err)
	}
	if _, err := New(solid(t, 1), -1); !errors.Is(err, imaging.ErrInvalidParameter) {
		t.Errorf("negative limit: got %v, want ErrInvalidParameter", err)
	}
}

func TestUndoRedo_Empty(t *testing.T) {
	h := newHistory(t, 0)
	if err := h.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo: got %v, want ErrNothingToUndo", err)
	}
	if err := h.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo: got %v, want ErrNothingToRedo", err)
	}
	if value(h.Current()) != 0 {
		t.Error("failed undo/redo changed the current raster")
	}
}

func TestCommitUndo_RoundTrip(t *testing.T) {
	for n := 1; n <= 5; n++ {
		h := newHistory(t, 0)
		for i := 1; i <= n; i++ {
			if err := h.Commit(solid(t, uint8(i*10))); err != nil {
				t.Fatalf("Commit failed: %v", err)
			}
		}
		for i := 0; i < n; i++ {
			if err := h.Undo(); err != nil {
				t.Fatalf("Undo %d failed: %v", i, err)
			}
		}
		if !h.Current().Equal(h.Source()) {
			t.Errorf("n=%d: %d undos after %d commits did not restore the source", n, n, n)
		}
		if h.RedoDepth() != n {
			t.Errorf("n=%d: redo depth %d", n, h.RedoDepth())
		}
	}
}

func TestUndoRedo_Inverse(t *testing.T) {
	h := newHistory(t, 0)
	for _, v := range []uint8{10, 20, 30} {
		if err := h.Commit(solid(t, v)); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
	}

	before := h.Current().Clone()
	if err := h.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if err := h.Redo(); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if !h.Current().Equal(before) {
		t.Error("undo followed by redo did not restore the state")
	}
	if h.UndoDepth() != 3 || h.RedoDepth() != 0 {
		t.Errorf("depths: undo=%d redo=%d, want 3 and 0", h.UndoDepth(), h.RedoDepth())
	}
}

func TestCommit_DiscardsRedoBranch(t *testing.T) {
	h := newHistory(t, 0)
	h.Commit(solid(t, 10))
	h.Commit(solid(t, 20))
	if err := h.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if h.RedoDepth() != 1 {
		t.Fatalf("redo depth: got %d, want 1", h.RedoDepth())
	}

	h.Commit(solid(t, 99))
	if h.RedoDepth() != 0 {
		t.Errorf("commit after undo should clear redo, depth %d", h.RedoDepth())
	}
	if err := h.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo: got %v, want ErrNothingToRedo", err)
	}
	if value(h.Current()) != 99 {
		t.Errorf("current: got %d, want 99", value(h.Current()))
	}
}

func TestRevert(t *testing.T) {
	h := newHistory(t, 0)
	h.Commit(solid(t, 10))
	h.Commit(solid(t, 20))

	if err := h.Revert(); err != nil {
		t.Fatalf("Revert failed: %v", err)
	}
	if !h.Current().Equal(h.Source()) {
		t.Error("revert should restore the source pixels")
	}
	if h.Current() == h.Source() {
		t.Error("current should be a copy of the source, not the source itself")
	}
	if h.UndoDepth() != 3 {
		t.Errorf("revert should be recorded as an edit, undo depth %d", h.UndoDepth())
	}

	if err := h.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if value(h.Current()) != 20 {
		t.Errorf("undo of revert: got %d, want 20", value(h.Current()))
	}
}

func TestCommit_CopiesInput(t *testing.T) {
	h := newHistory(t, 0)
	r := solid(t, 50)
	h.Commit(r)
	if h.Current() == r {
		t.Error("commit should store a copy")
	}
}

func TestCommit_Invalid(t *testing.T) {
	h := newHistory(t, 0)
	if err := h.Commit(nil); !errors.Is(err, imaging.ErrInvalidRaster) {
		t.Errorf("got %v, want ErrInvalidRaster", err)
	}
	if h.UndoDepth() != 0 {
		t.Error("failed commit changed the history")
	}
}

func TestLimit_DropsOldest(t *testing.T) {
	h := newHistory(t, 2)
	for _, v := range []uint8{10, 20, 30, 40} {
		h.Commit(solid(t, v))
	}
	if h.UndoDepth() != 2 {
		t.Fatalf("undo depth: got %d, want 2", h.UndoDepth())
	}

	h.Undo()
	h.Undo()
	if value(h.Current()) != 20 {
		t.Errorf("oldest reachable state: got %d, want 20", value(h.Current()))
	}
	if err := h.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("got %v, want ErrNothingToUndo", err)
	}

	// Redo is bounded by the same limit.
	h.Redo()
	h.Redo()
	if value(h.Current()) != 40 || h.UndoDepth() != 2 {
		t.Errorf("after redo: current %d undo depth %d", value(h.Current()), h.UndoDepth())
	}
}

func TestPeek(t *testing.T) {
	h := newHistory(t, 0)
	if h.PeekUndo() != nil || h.PeekRedo() != nil {
		t.Fatal("fresh history should have nothing to peek")
	}
	h.Commit(solid(t, 10))
	h.Commit(solid(t, 20))
	if got := value(h.PeekUndo()); got != 10 {
		t.Errorf("PeekUndo: got %d, want 10", got)
	}
	if h.UndoDepth() != 2 || value(h.Current()) != 20 {
		t.Error("peeking changed the history")
	}

	h.Undo()
	if got := value(h.PeekRedo()); got != 20 {
		t.Errorf("PeekRedo: got %d, want 20", got)
	}
	if got := value(h.PeekUndo()); got != 0 {
		t.Errorf("PeekUndo after undo: got %d, want 0", got)
	}
	if h.Limit() != 0 {
		t.Errorf("Limit: got %d, want 0", h.Limit())
	}
}

func TestInterleavedSequence(t *testing.T) {
	h := newHistory(t, 0)
	steps := []struct {
		op   string
		v    uint8
		want uint8
	}{
		{"commit", 1, 1},
		{"commit", 2, 2},
		{"undo", 0, 1},
		{"commit", 3, 3},
		{"undo", 0, 1},
		{"undo", 0, 0},
		{"redo", 0, 1},
		{"redo", 0, 3},
		{"revert", 0, 0},
		{"undo", 0, 3},
	}

	for i, s := range steps {
		var err error
		switch s.op {
		case "commit":
			err = h.Commit(solid(t, s.v))
		case "undo":
			err = h.Undo()
		case "redo":
			err = h.Redo()
		case "revert":
			err = h.Revert()
		}
		if err != nil {
			t.Fatalf("step %d (%s) failed: %v", i, s.op, err)
		}
		if got := value(h.Current()); got != s.want {
			t.Fatalf("step %d (%s): current %d, want %d", i, s.op, got, s.want)
		}
	}
}
