package repository

import "errors"

// Store-level failure reasons. Handlers and the edit engine match these with
// errors.Is; anything else coming out of a repository is a transient store
// failure.
var (
	// ErrNotFound means the playlist, song or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller is not the owner of the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrIndexOutOfRange means a song index does not resolve against the
	// stored playlist, typically because the caller's view is stale.
	ErrIndexOutOfRange = errors.New("song index out of range")

	// ErrValidation means the submitted value was rejected (empty name,
	// non-numeric year, unknown field).
	ErrValidation = errors.New("validation failed")
)
