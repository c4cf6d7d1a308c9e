// Package app wires the dashboard engine from configuration. Both binaries
// share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ganot/pmdash/internal/cache"
	"github.com/ganot/pmdash/internal/config"
	"github.com/ganot/pmdash/internal/dashboard"
	"github.com/ganot/pmdash/internal/domain/activity"
	"github.com/ganot/pmdash/internal/domain/session"
	"github.com/ganot/pmdash/internal/remote"
	"github.com/ganot/pmdash/internal/sqlite"
)

// App holds the wired components.
type App struct {
	Config    config.Config
	Logger    *slog.Logger
	DB        *sqlite.DB
	Session   *session.Store
	Remote    *remote.Client
	Cache     *cache.Cache
	Journal   *activity.Service
	Dashboard *dashboard.Service
}

// Option customises New.
type Option func(*options)

type options struct {
	httpClient *http.Client
}

// WithHTTPClient overrides the HTTP client used for the backend.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// New opens storage and wires the remote client, session store, cache and
// dashboard service.
func New(cfg config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	if err := EnsureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("preparing database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	store := session.NewStore(sqlite.NewSessionRepository(db), logger)
	client, err := remote.New(remote.Options{
		BaseURL:    cfg.Remote.BaseURL,
		Timeout:    cfg.Remote.Timeout,
		RateLimit:  cfg.Remote.RateLimit,
		Burst:      cfg.Remote.Burst,
		HTTPClient: o.httpClient,
		OnUnauthorized: func(ctx context.Context) {
			store.Invalidate(ctx, session.ReasonUnauthorized)
		},
		OnReachability: func(online bool) {
			if online {
				logger.Info("backend reachable again")
			} else {
				logger.Warn("backend unreachable", "base_url", cfg.Remote.BaseURL)
			}
		},
		Logger: logger,
	}, store)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	journal := activity.NewService(sqlite.NewActivityRepository(db), logger)
	c := cache.New(client, logger)
	dash := dashboard.New(dashboard.Deps{
		Remote:  client,
		Session: store,
		Cache:   c,
		Journal: journal,
		Logger:  logger,
	})

	return &App{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Session:   store,
		Remote:    client,
		Cache:     c,
		Journal:   journal,
		Dashboard: dash,
	}, nil
}

// Start restores a remembered session. Failures are logged; the app stays
// usable and signed out, or signed in with the workspace unloaded.
func (a *App) Start(ctx context.Context) {
	err := a.Dashboard.Bootstrap(ctx)
	switch {
	case err == nil:
	case errors.Is(err, session.ErrNotAuthenticated) || !a.Session.Authenticated():
		a.Logger.Info("remembered session not restored", "error", err)
	default:
		a.Logger.Warn("restoring session", "error", err)
	}
}

// Close releases storage.
func (a *App) Close() error {
	return a.DB.Close()
}

// EnsureDBDir creates the parent directory of a file database.
func EnsureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// ParseLogLevel maps a config level name to a slog level.
func ParseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
