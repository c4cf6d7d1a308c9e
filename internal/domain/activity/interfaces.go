package activity

import (
	"context"
	"errors"
)

// ErrInvalidInput indicates a malformed journal entry.
var ErrInvalidInput = errors.New("invalid activity input")

// Repository provides persistence operations for journal entries.
type Repository interface {
	Log(ctx context.Context, workspaceID string, entry *Entry) error
	List(ctx context.Context, workspaceID string, opts ListOptions) ([]Entry, error)
}
