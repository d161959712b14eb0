package edit

import "errors"

// Failure reasons local to the edit engine. Store-level reasons (NotFound,
// Forbidden, IndexOutOfRange, Validation) pass through from the repository
// package unchanged.
var (
	// ErrEmptyHistory is returned by History pops on an empty stack.
	ErrEmptyHistory = errors.New("history stack is empty")

	// ErrNothingToUndo means the undo stack is empty. A no-op for the UI,
	// not a fault.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo means the redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrSessionBusy means another mutation is still in flight. The engine
	// allows at most one outstanding store call per session.
	ErrSessionBusy = errors.New("edit session busy")

	// ErrSessionClosed means the session has been torn down.
	ErrSessionClosed = errors.New("edit session closed")
)
