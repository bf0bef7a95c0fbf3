// Package history implements the editor's undo, redo and revert model.
//
// A History keeps three things consistent under any interleaving of actions:
//
//   - the current raster, which reflects every committed edit
//   - an undo stack of earlier states (most recent last)
//   - a redo stack of states undone since the last edit (most recent last)
//
// Commit pushes the current state onto the undo stack and clears the redo stack, so a
// new edit after an undo discards the abandoned branch. Undo and Redo move a single
// state between the two stacks; they are the only way to move backwards or forwards.
// Revert is a commit of the original source and can itself be undone.
//
// Undo and Redo on an empty stack return ErrNothingToUndo and ErrNothingToRedo and
// change nothing. Callers report these to the user as a no-op.
//
// Every raster handed to Commit is copied, and states only ever move between slots,
// so a raster is referenced from at most one place in the history.
package history
