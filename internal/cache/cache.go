// Package cache holds the in-memory entity snapshot for the active workspace.
package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ganot/pmdash/internal/domain/project"
	"github.com/ganot/pmdash/internal/domain/user"
	"github.com/ganot/pmdash/internal/domain/workspace"
	"golang.org/x/sync/errgroup"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// ErrNoWorkspace is returned by Reload without a workspace id.
var ErrNoWorkspace = errors.New("no workspace selected")

// Loader fetches the collections a reload replaces.
type Loader interface {
	ListProjects(ctx context.Context, workspaceID string, assignedToMe bool) ([]project.Project, error)
	ListUsers(ctx context.Context, workspaceID string, filter user.ListFilter) ([]user.Summary, error)
	ListTeams(ctx context.Context, workspaceID string) ([]workspace.Team, error)
}

// TagState is the lifecycle of a locally predicted archive.
type TagState int

const (
	// TagPending marks an archive call still in flight. The call that set
	// the tag confirms or releases it when it returns, so a pending tag
	// never outlives its call.
	TagPending TagState = iota + 1
	// TagConfirmed marks an archive the server accepted; the next reload
	// overwrites it.
	TagConfirmed
)

// archiveTag is owned by the archive call holding token.
type archiveTag struct {
	state TagState
	token uint64
}

// Snapshot is an immutable copy of the cache contents.
type Snapshot struct {
	WorkspaceID string
	Projects    []project.Project
	Users       []user.Summary
	Teams       []workspace.Team
	// Archived holds projects carrying a local archive tag.
	Archived map[string]bool
	LoadedAt time.Time
	Version  uint64
}

// Project looks up a project by id.
func (s Snapshot) Project(id string) (project.Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return project.Project{}, false
}

// User looks up a user by id.
func (s Snapshot) User(id string) (user.Summary, bool) {
	for _, u := range s.Users {
		if u.ID == id {
			return u, true
		}
	}
	return user.Summary{}, false
}

// FolderOf returns the folder a project renders in, honouring local archive tags.
func (s Snapshot) FolderOf(p project.Project) project.FolderKey {
	if s.Archived[p.ID] {
		return project.FolderArchived
	}
	return project.ToFolderKey(p.Status)
}

// Cache is the Entity Cache. Reads return snapshots; writes happen through
// Reload and the optimistic-mutation hooks.
type Cache struct {
	loader Loader
	logger *slog.Logger
	now    func() time.Time

	mu              sync.RWMutex
	workspaceID     string
	projects        []project.Project
	users           []user.Summary
	teams           []workspace.Team
	tags            map[string]archiveTag
	seq             map[string]uint64
	lastToken       uint64
	recommendations map[string]user.Recommendation
	loadedAt        time.Time
	version         uint64
	lastErr         error
}

// New creates an empty cache.
func New(loader Loader, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = discardLogger
	}
	return &Cache{
		loader:          loader,
		logger:          logger,
		now:             time.Now,
		tags:            map[string]archiveTag{},
		seq:             map[string]uint64{},
		recommendations: map[string]user.Recommendation{},
	}
}

// Reload fetches projects, users and teams together. On any failure the
// previous contents are kept and the error is remembered for LastError.
func (c *Cache) Reload(ctx context.Context, workspaceID string) error {
	if workspaceID == "" {
		return ErrNoWorkspace
	}

	var (
		projects []project.Project
		users    []user.Summary
		teams    []workspace.Team
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		projects, err = c.loader.ListProjects(gctx, workspaceID, false)
		if err != nil {
			return fmt.Errorf("loading projects: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		users, err = c.loader.ListUsers(gctx, workspaceID, user.ListFilter{})
		if err != nil {
			return fmt.Errorf("loading users: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		teams, err = c.loader.ListTeams(gctx, workspaceID)
		if err != nil {
			return fmt.Errorf("loading teams: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		c.mu.Lock()
		c.lastErr = err
		c.mu.Unlock()
		c.logger.Warn("cache reload failed, keeping previous snapshot", "workspace_id", workspaceID, "error", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.workspaceID != workspaceID {
		c.tags = map[string]archiveTag{}
		c.seq = map[string]uint64{}
	}
	c.workspaceID = workspaceID
	c.projects = projects
	c.users = users
	c.teams = teams
	c.recommendations = map[string]user.Recommendation{}
	// Pending tags stay; their calls resolve them.
	for id, tag := range c.tags {
		if tag.state == TagConfirmed {
			delete(c.tags, id)
		}
	}
	c.loadedAt = c.now()
	c.version++
	c.lastErr = nil

	c.logger.Debug("cache reloaded", "workspace_id", workspaceID, "projects", len(projects), "users", len(users), "teams", len(teams))
	return nil
}

// Reset empties the cache, e.g. on logout or workspace switch.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.workspaceID = ""
	c.projects = nil
	c.users = nil
	c.teams = nil
	c.tags = map[string]archiveTag{}
	c.seq = map[string]uint64{}
	c.recommendations = map[string]user.Recommendation{}
	c.loadedAt = time.Time{}
	c.lastErr = nil
	c.version++
}

// LastError returns the error of the most recent failed reload, cleared by a
// successful one.
func (c *Cache) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Loaded reports whether at least one reload succeeded.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.loadedAt.IsZero()
}

// Snapshot returns a deep copy with recommendation overrides applied.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	projects := make([]project.Project, len(c.projects))
	for i, p := range c.projects {
		projects[i] = p.Clone()
	}
	users := make([]user.Summary, len(c.users))
	for i, u := range c.users {
		if rec, ok := c.recommendations[u.ID]; ok {
			u.RecommendedCount = rec.RecommendedCount
			u.RecommendedByMe = rec.RecommendedByMe
		}
		users[i] = u
	}
	teams := make([]workspace.Team, len(c.teams))
	copy(teams, c.teams)
	archived := make(map[string]bool, len(c.tags))
	for id := range c.tags {
		archived[id] = true
	}

	return Snapshot{
		WorkspaceID: c.workspaceID,
		Projects:    projects,
		Users:       users,
		Teams:       teams,
		Archived:    archived,
		LoadedAt:    c.loadedAt,
		Version:     c.version,
	}
}

// Begin issues the next sequence token for an entity. Only the holder of the
// latest token may apply its outcome. Tokens are unique for the life of the
// cache, across resets and workspace switches.
func (c *Cache) Begin(entityID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastToken++
	c.seq[entityID] = c.lastToken
	return c.lastToken
}

// IsLatest reports whether token is still the newest issued for entityID.
func (c *Cache) IsLatest(entityID string, token uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seq[entityID] == token
}

// MarkArchived sets a pending archive tag owned by token so the project
// renders as ARCHIVED.
func (c *Cache) MarkArchived(projectID string, token uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags[projectID] = archiveTag{state: TagPending, token: token}
	c.version++
}

// ConfirmArchived moves the tag owned by token to confirmed; the next reload
// clears it. A tag taken over by a newer archive is left alone.
func (c *Cache) ConfirmArchived(projectID string, token uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tag, ok := c.tags[projectID]; ok && tag.token == token {
		c.tags[projectID] = archiveTag{state: TagConfirmed, token: token}
	}
}

// ReleaseArchived removes the tag owned by token and reports whether it did.
func (c *Cache) ReleaseArchived(projectID string, token uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	tag, ok := c.tags[projectID]
	if !ok || tag.token != token {
		return false
	}
	delete(c.tags, projectID)
	c.version++
	return true
}

// ClearArchived removes any archive tag for the project.
func (c *Cache) ClearArchived(projectID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tags[projectID]; ok {
		delete(c.tags, projectID)
		c.version++
	}
}

// ArchiveTag returns the tag state for a project.
func (c *Cache) ArchiveTag(projectID string) (TagState, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tag, ok := c.tags[projectID]
	return tag.state, ok
}

// ApplyRecommendation overlays a toggle response on the cached user list until
// the next reload.
func (c *Cache) ApplyRecommendation(rec user.Recommendation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recommendations[rec.PersonID] = rec
	c.version++
}
