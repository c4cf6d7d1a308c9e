// Package dashboard composes the session, entity cache, filters, drafts and
// mutation coordinator into the page-level views the shells render.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ganot/pmdash/internal/cache"
	"github.com/ganot/pmdash/internal/domain/activity"
	"github.com/ganot/pmdash/internal/domain/session"
	"github.com/ganot/pmdash/internal/domain/user"
	"github.com/ganot/pmdash/internal/domain/workspace"
	"github.com/ganot/pmdash/internal/draft"
	"github.com/ganot/pmdash/internal/filter"
	"github.com/ganot/pmdash/internal/mutation"
	"github.com/ganot/pmdash/internal/remote"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var (
	// ErrNotLoaded is returned by views before the first successful refresh.
	ErrNotLoaded = errors.New("workspace data not loaded")
	// ErrPersonNotFound indicates an unknown user id.
	ErrPersonNotFound = errors.New("person not found")
	// ErrAssignedToMe is returned by RandomProject while the "assigned to me"
	// restriction is on.
	ErrAssignedToMe = errors.New("turn off assigned to me to use random project")
)

// Deps are the collaborators of a Service.
type Deps struct {
	Remote  remote.API
	Session *session.Store
	Cache   *cache.Cache
	// Journal is optional.
	Journal *activity.Service
	Logger  *slog.Logger
}

// Service is the dashboard facade. Reads build views from a cache snapshot;
// writes go through the mutation coordinator.
type Service struct {
	remote  remote.API
	session *session.Store
	cache   *cache.Cache
	journal *activity.Service
	coord   *mutation.Coordinator
	logger  *slog.Logger

	mu              sync.Mutex
	editor          draft.Editor
	seeder          filter.Seeder
	criteria        filter.Criteria
	memberSearch    string
	availableSearch string
	people          filter.Selection
	peopleSelected  string
	widgets         *draft.Widgets
	restored        bool
}

// New wires a Service and subscribes it to session end.
func New(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = discardLogger
	}
	var journal mutation.Journal
	if d.Journal != nil {
		journal = d.Journal
	}
	s := &Service{
		remote:  d.Remote,
		session: d.Session,
		cache:   d.Cache,
		journal: d.Journal,
		coord:   mutation.New(d.Remote, d.Cache, journal, logger),
		logger:  logger,
	}
	d.Session.OnEnd(func(reason session.Reason) {
		s.logger.Info("clearing workspace state", "reason", reason)
		s.reset()
	})
	return s
}

// Coordinator exposes the mutation coordinator, e.g. for pending indicators.
func (s *Service) Coordinator() *mutation.Coordinator {
	return s.coord
}

// Bootstrap restores the remembered session once per process: it validates
// the token with the backend and loads the active workspace.
func (s *Service) Bootstrap(ctx context.Context) error {
	return s.session.Bootstrap(ctx, func(ctx context.Context) error {
		if err := s.session.Init(ctx); err != nil {
			return err
		}
		if s.session.Token() == "" {
			return nil
		}
		me, err := s.remote.Me(ctx)
		if err != nil {
			return fmt.Errorf("restoring session: %w", err)
		}
		if err := s.session.UpdateUser(ctx, me); err != nil {
			return err
		}
		if s.session.WorkspaceID() == "" {
			return nil
		}
		return s.Refresh(ctx)
	})
}

// Login authenticates and, when the user belongs to exactly one workspace and
// none is active, selects it.
func (s *Service) Login(ctx context.Context, req user.LoginRequest) (user.User, error) {
	res, err := s.remote.Login(ctx, req)
	if err != nil {
		return user.User{}, err
	}
	var me user.User
	if res.User != nil {
		me = *res.User
	}
	if err := s.session.Begin(ctx, res.Token, me, req.Remember); err != nil {
		return user.User{}, err
	}
	if me.ID == "" {
		if me, err = s.remote.Me(ctx); err != nil {
			s.session.Invalidate(ctx, session.ReasonUnauthorized)
			return user.User{}, err
		}
		if err := s.session.UpdateUser(ctx, me); err != nil {
			return user.User{}, err
		}
	}
	s.logger.Info("logged in", "user_id", me.ID)

	if s.session.WorkspaceID() != "" {
		return me, s.Refresh(ctx)
	}
	workspaces, err := s.remote.ListWorkspaces(ctx)
	if err != nil {
		s.logger.Warn("listing workspaces after login failed", "error", err)
		return me, nil
	}
	if len(workspaces) == 1 {
		return me, s.SelectWorkspace(ctx, workspaces[0].ID)
	}
	return me, nil
}

// Logout ends the session locally even when the backend call fails.
func (s *Service) Logout(ctx context.Context) {
	if err := s.remote.Logout(ctx); err != nil {
		s.logger.Warn("remote logout failed", "error", err)
	}
	s.session.Logout(ctx)
}

// Workspaces lists the workspaces the user belongs to.
func (s *Service) Workspaces(ctx context.Context) ([]workspace.Workspace, error) {
	return s.remote.ListWorkspaces(ctx)
}

// SelectWorkspace switches the active workspace and reloads it.
func (s *Service) SelectWorkspace(ctx context.Context, workspaceID string) error {
	if workspaceID == "" {
		return session.ErrNoWorkspace
	}
	if err := s.session.SetWorkspace(ctx, workspaceID); err != nil {
		return err
	}
	s.reset()
	return s.Refresh(ctx)
}

// Refresh reloads the active workspace. On failure the previous data stays
// and the error is returned for a page-level banner.
func (s *Service) Refresh(ctx context.Context) error {
	workspaceID, err := s.session.RequireWorkspace()
	if err != nil {
		return err
	}
	if err := s.cache.Reload(ctx, workspaceID); err != nil {
		return err
	}
	s.afterReload(ctx)
	return nil
}

// afterReload seeds filters once, restores the remembered selection once and
// reconciles the open draft with the fresh data.
func (s *Service) afterReload(ctx context.Context) {
	snap := s.cache.Snapshot()

	s.mu.Lock()
	restore := !s.restored
	s.restored = true
	s.mu.Unlock()

	var remembered string
	var people []string
	if restore {
		var err error
		if remembered, err = s.session.Selection(ctx, session.KeyDashboardProject); err != nil {
			s.logger.Warn("reading remembered project failed", "error", err)
		}
		if people, err = s.session.Filters(ctx, session.KeyPeopleFilters); err != nil {
			s.logger.Warn("reading remembered people filters failed", "error", err)
		}
	}

	s.mu.Lock()
	s.criteria.Selection, _ = s.seeder.Seed(s.criteria.Selection, filter.AvailableTeams(snap.Users))
	if restore && len(people) > 0 {
		s.people = filter.NewSelection(people...)
	}
	if remembered != "" && s.editor.Selected() == "" {
		if p, ok := snap.Project(remembered); ok {
			s.editor.Select(p)
		}
	}
	cleared := s.reconcileLocked(snap)
	s.mu.Unlock()

	if cleared {
		s.forgetSelection(ctx)
	}
}

// reconcileLocked rebases the draft on the fresh project, or clears the
// selection when the project vanished or no longer passes the filters.
func (s *Service) reconcileLocked(snap cache.Snapshot) bool {
	id := s.editor.Selected()
	if id == "" {
		return false
	}
	p, ok := snap.Project(id)
	if !ok || !filter.StillVisible(snap, s.criteriaLocked(), id) {
		s.editor.Clear()
		return true
	}
	s.editor.Refresh(p)
	return false
}

func (s *Service) criteriaLocked() filter.Criteria {
	c := s.criteria
	c.CurrentUserID = s.session.UserID()
	return c
}

func (s *Service) forgetSelection(ctx context.Context) {
	if err := s.session.RememberSelection(ctx, session.KeyDashboardProject, ""); err != nil {
		s.logger.Warn("forgetting selected project failed", "error", err)
	}
}

func (s *Service) reset() {
	s.cache.Reset()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor.Clear()
	s.seeder.Reset()
	s.criteria = filter.Criteria{}
	s.memberSearch = ""
	s.availableSearch = ""
	s.people = filter.Selection{}
	s.peopleSelected = ""
	s.widgets = nil
	s.restored = false
}

// scope builds the mutation scope for the current session.
func (s *Service) scope() (mutation.Scope, error) {
	workspaceID, err := s.session.RequireWorkspace()
	if err != nil {
		return mutation.Scope{}, err
	}
	return mutation.Scope{
		WorkspaceID: workspaceID,
		UserID:      s.session.UserID(),
		Selection:   lockedSelection{s},
	}, nil
}

// lockedSelection exposes the editor selection under the service lock.
type lockedSelection struct {
	s *Service
}

func (l lockedSelection) Selected() string {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.s.editor.Selected()
}

func (l lockedSelection) Clear() {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	l.s.editor.Clear()
}
