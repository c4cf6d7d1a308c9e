package session

import "context"

// Repository persists session state and UI selections across restarts.
type Repository interface {
	LoadSnapshot(ctx context.Context) (*Snapshot, error)
	SaveSnapshot(ctx context.Context, snap *Snapshot) error
	ClearSnapshot(ctx context.Context) error
	GetSelection(ctx context.Context, key string) (string, error)
	SetSelection(ctx context.Context, key, value string) error
	DeleteSelection(ctx context.Context, key string) error
	ClearSelections(ctx context.Context) error
}
