package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ganot/pmdash/internal/domain/user"
	"github.com/ganot/pmdash/internal/repository"
	"github.com/golang-jwt/jwt/v4"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Store holds the authenticated identity for one client process. It is
// initialised at session start and cleared at logout or on a 401 signal.
type Store struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time

	mu        sync.RWMutex
	current   *Snapshot
	listeners []func(Reason)

	bootstrap    sync.Once
	bootstrapErr error
}

// NewStore creates a session store. repo may be nil for a purely in-memory store.
func NewStore(repo Repository, logger *slog.Logger) *Store {
	if logger == nil {
		logger = discardLogger
	}
	return &Store{repo: repo, logger: logger, now: time.Now}
}

// SetClock overrides the time source.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Init restores a remembered session from storage, dropping it if the token
// has expired.
func (s *Store) Init(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	snap, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("loading session: %w", err)
	}
	if snap.Expired(s.now()) {
		s.logger.Info("discarding expired session", "user_id", snap.User.ID)
		if err := s.repo.ClearSnapshot(ctx); err != nil {
			return fmt.Errorf("clearing expired session: %w", err)
		}
		return nil
	}
	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()
	return nil
}

// Bootstrap runs fn at most once per store. Later calls return the first
// call's error.
func (s *Store) Bootstrap(ctx context.Context, fn func(ctx context.Context) error) error {
	s.bootstrap.Do(func() {
		s.bootstrapErr = fn(ctx)
	})
	return s.bootstrapErr
}

// Begin installs a new token after login. u may be empty when the login
// response carries no identity; UpdateUser fills it in after /me.
func (s *Store) Begin(ctx context.Context, token string, u user.User, remember bool) error {
	if token == "" {
		return ErrInvalidInput
	}
	snap := &Snapshot{
		Token:     token,
		ExpiresAt: TokenExpiry(token),
		User:      u,
		Remember:  remember,
		UpdatedAt: s.now(),
	}

	s.mu.Lock()
	if s.current != nil {
		snap.WorkspaceID = s.current.WorkspaceID
	}
	s.current = snap
	s.mu.Unlock()

	return s.persist(ctx, snap)
}

// UpdateToken swaps the bearer token after a refresh.
func (s *Store) UpdateToken(ctx context.Context, token string) error {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	s.current.Token = token
	s.current.ExpiresAt = TokenExpiry(token)
	s.current.UpdatedAt = s.now()
	snap := *s.current
	s.mu.Unlock()
	return s.persist(ctx, &snap)
}

// UpdateUser replaces the cached identity, e.g. after a profile edit.
func (s *Store) UpdateUser(ctx context.Context, u user.User) error {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	s.current.User = u
	s.current.UpdatedAt = s.now()
	snap := *s.current
	s.mu.Unlock()
	return s.persist(ctx, &snap)
}

// Token returns the live bearer token, or "" when absent or expired.
// An expired token is dropped on read.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	if s.current.Expired(s.now()) {
		s.current.Token = ""
		s.current.ExpiresAt = nil
		return ""
	}
	return s.current.Token
}

// User returns the current identity.
func (s *Store) User() (user.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return user.User{}, false
	}
	return s.current.User, true
}

// UserID returns the current user id or "".
func (s *Store) UserID() string {
	u, _ := s.User()
	return u.ID
}

// IsAdmin reports whether the current user is an admin.
func (s *Store) IsAdmin() bool {
	u, ok := s.User()
	return ok && u.IsAdmin
}

// Authenticated reports whether a live token is held.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// WorkspaceID returns the active workspace id.
func (s *Store) WorkspaceID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.WorkspaceID
}

// RequireWorkspace returns the active workspace id or ErrNoWorkspace.
func (s *Store) RequireWorkspace() (string, error) {
	id := s.WorkspaceID()
	if id == "" {
		return "", ErrNoWorkspace
	}
	return id, nil
}

// SetWorkspace switches the active workspace.
func (s *Store) SetWorkspace(ctx context.Context, workspaceID string) error {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	s.current.WorkspaceID = workspaceID
	s.current.UpdatedAt = s.now()
	snap := *s.current
	s.mu.Unlock()
	return s.persist(ctx, &snap)
}

// OnEnd registers a listener invoked whenever the session ends.
func (s *Store) OnEnd(fn func(Reason)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Invalidate clears the identity and notifies listeners. It is the target of
// the process-wide 401 signal.
func (s *Store) Invalidate(ctx context.Context, reason Reason) {
	s.mu.Lock()
	wasActive := s.current != nil
	s.current = nil
	listeners := append([]func(Reason){}, s.listeners...)
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.ClearSnapshot(ctx); err != nil {
			s.logger.Warn("failed to clear stored session", "error", err)
		}
		if err := s.repo.ClearSelections(ctx); err != nil {
			s.logger.Warn("failed to clear stored selections", "error", err)
		}
	}
	if !wasActive {
		return
	}
	s.logger.Info("session ended", "reason", reason)
	for _, fn := range listeners {
		fn(reason)
	}
}

// Logout ends the session.
func (s *Store) Logout(ctx context.Context) {
	s.Invalidate(ctx, ReasonLogout)
}

// RememberSelection persists a UI selection. An empty value clears it.
func (s *Store) RememberSelection(ctx context.Context, key, value string) error {
	if s.repo == nil {
		return nil
	}
	if value == "" {
		return s.repo.DeleteSelection(ctx, key)
	}
	return s.repo.SetSelection(ctx, key, value)
}

// Selection returns a persisted UI selection or "".
func (s *Store) Selection(ctx context.Context, key string) (string, error) {
	if s.repo == nil {
		return "", nil
	}
	value, err := s.repo.GetSelection(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	return value, err
}

// RememberFilters persists a filter key list under key.
func (s *Store) RememberFilters(ctx context.Context, key string, filters []string) error {
	if len(filters) == 0 {
		return s.RememberSelection(ctx, key, "")
	}
	data, err := json.Marshal(filters)
	if err != nil {
		return fmt.Errorf("encoding filters: %w", err)
	}
	return s.RememberSelection(ctx, key, string(data))
}

// Filters returns a persisted filter key list. Malformed values read as empty.
func (s *Store) Filters(ctx context.Context, key string) ([]string, error) {
	raw, err := s.Selection(ctx, key)
	if err != nil || raw == "" {
		return nil, err
	}
	var filters []string
	if err := json.Unmarshal([]byte(raw), &filters); err != nil {
		s.logger.Warn("ignoring malformed stored filters", "key", key, "error", err)
		return nil, nil
	}
	return filters, nil
}

func (s *Store) persist(ctx context.Context, snap *Snapshot) error {
	if s.repo == nil || !snap.Remember {
		return nil
	}
	if err := s.repo.SaveSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// TokenExpiry reads the exp claim of a JWT without verifying it. Tokens that
// are not JWTs or carry no exp never expire client-side.
func TokenExpiry(token string) *time.Time {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	exp := claims.ExpiresAt.Time
	return &exp
}
