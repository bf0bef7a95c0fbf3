// Package session implements the editor's session controller.
//
// An Editor owns the draw settings, the background remover, the text recognizer and at
// most one Session. Upload starts a Session; every other action works on it and fails
// with ErrNoImage before the first upload. SetViewport is the exception: it may be
// called at any time.
//
// Actions carry display coordinates. The Editor maps them to source pixels with the
// session's scale before touching the raster.
//
// Committing actions (filters, draw, text, crop, background removal and committed slider
// values) run the pipeline on the current raster, commit the result to the history and
// recompute the scale. A failed action leaves the session exactly as it was.
//
// The brightness and blur sliders have a preview mode: an uncommitted value replaces the
// session's preview raster, which Preview shows instead of the current raster. Previews
// never enter the history, and any commit, undo, redo or revert clears them.
package session
