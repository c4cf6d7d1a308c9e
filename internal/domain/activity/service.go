package activity

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Service records mutation outcomes.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new journal service. A nil repo keeps the journal
// log-only.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = discardLogger
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Record stores entry, stamping CreatedAt if missing.
func (s *Service) Record(ctx context.Context, entry *Entry) error {
	if entry == nil || entry.Kind == "" || entry.Outcome == "" {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	s.logger.Debug("mutation", "kind", entry.Kind, "outcome", entry.Outcome, "summary", entry.Summary)
	if s.repo == nil {
		return nil
	}
	if err := s.repo.Log(ctx, entry.WorkspaceID, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	return nil
}

// Recent lists journal entries for a workspace, newest first.
func (s *Service) Recent(ctx context.Context, workspaceID string, opts ListOptions) ([]Entry, error) {
	if s.repo == nil {
		return nil, nil
	}
	entries, err := s.repo.List(ctx, workspaceID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	return entries, nil
}
