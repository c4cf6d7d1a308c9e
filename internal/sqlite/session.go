package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ganot/pmdash/internal/domain/session"
	"github.com/ganot/pmdash/internal/repository"
)

// SessionRepository implements session.Repository for SQLite
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// LoadSnapshot returns the remembered session
func (r *SessionRepository) LoadSnapshot(ctx context.Context) (*session.Snapshot, error) {
	query := `
		SELECT token, expires_at, user_json, workspace_id, updated_at
		FROM session_state
		WHERE id = 1
	`

	var snap session.Snapshot
	var expiresAt sql.NullTime
	var userJSON string
	err := r.db.QueryRowContext(ctx, query).Scan(
		&snap.Token,
		&expiresAt,
		&userJSON,
		&snap.WorkspaceID,
		&snap.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if err := json.Unmarshal([]byte(userJSON), &snap.User); err != nil {
		return nil, fmt.Errorf("failed to decode session user: %w", err)
	}
	if expiresAt.Valid {
		snap.ExpiresAt = &expiresAt.Time
	}
	snap.Remember = true

	return &snap, nil
}

// SaveSnapshot upserts the remembered session
func (r *SessionRepository) SaveSnapshot(ctx context.Context, snap *session.Snapshot) error {
	if snap == nil || snap.Token == "" {
		return repository.ErrInvalidInput
	}
	userJSON, err := json.Marshal(snap.User)
	if err != nil {
		return fmt.Errorf("failed to encode session user: %w", err)
	}
	updatedAt := snap.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	query := `
		INSERT INTO session_state (id, token, expires_at, user_json, workspace_id, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			expires_at = excluded.expires_at,
			user_json = excluded.user_json,
			workspace_id = excluded.workspace_id,
			updated_at = excluded.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		snap.Token,
		snap.ExpiresAt,
		string(userJSON),
		snap.WorkspaceID,
		updatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// ClearSnapshot forgets the remembered session
func (r *SessionRepository) ClearSnapshot(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session_state`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// GetSelection returns a stored UI selection
func (r *SessionRepository) GetSelection(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM ui_selection WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get selection: %w", err)
	}
	return value, nil
}

// SetSelection upserts a UI selection
func (r *SessionRepository) SetSelection(ctx context.Context, key, value string) error {
	if key == "" {
		return repository.ErrInvalidInput
	}
	query := `
		INSERT INTO ui_selection (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to set selection: %w", err)
	}
	return nil
}

// DeleteSelection removes a UI selection
func (r *SessionRepository) DeleteSelection(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM ui_selection WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete selection: %w", err)
	}
	return nil
}

// ClearSelections removes every UI selection
func (r *SessionRepository) ClearSelections(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM ui_selection`); err != nil {
		return fmt.Errorf("failed to clear selections: %w", err)
	}
	return nil
}
