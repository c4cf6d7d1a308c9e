package session

import "errors"

var (
	// ErrNotAuthenticated indicates no live identity is held.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidInput indicates invalid session input.
	ErrInvalidInput = errors.New("invalid session input")
	// ErrNoWorkspace indicates no active workspace is selected.
	ErrNoWorkspace = errors.New("no active workspace selected")
)
