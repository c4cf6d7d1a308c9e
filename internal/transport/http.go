package transport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ganot/pmdash/internal/dashboard"
	"github.com/ganot/pmdash/internal/domain/activity"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Views is the read side of the dashboard served over REST.
type Views interface {
	Dashboard() (dashboard.DashboardView, error)
	Assign(q dashboard.AssignQuery) (dashboard.AssignView, error)
	People(search string) (dashboard.PeopleView, error)
	Refresh(ctx context.Context) error
	Activity(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

var _ Views = (*dashboard.Service)(nil)

// Options configures the HTTP router.
type Options struct {
	Views Views
	// MCP is mounted at /mcp when set.
	MCP http.Handler
	// Auth guards everything except /health and /metrics. Nil disables auth.
	Auth    Authenticator
	Logger  *slog.Logger
	Metrics *HTTPMetrics
}

// Server wires HTTP handlers.
type Server struct {
	views Views
}

// NewServer creates the HTTP router with middleware.
func NewServer(opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(opts.Logger, opts.Metrics))
	r.Use(middleware.Recoverer)

	srv := &Server{views: opts.Views}

	r.Get("/health", srv.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(AuthMiddleware(opts.Auth))
		}
		if opts.MCP != nil {
			r.Handle("/mcp", opts.MCP)
			r.Handle("/mcp/*", opts.MCP)
		}
		r.Route("/api", func(r chi.Router) {
			r.Get("/views/dashboard", srv.handleDashboard)
			r.Get("/views/assign", srv.handleAssign)
			r.Get("/views/people", srv.handlePeople)
			r.Get("/activity", srv.handleActivity)
			r.Post("/refresh", srv.handleRefresh)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	view, err := s.views.Dashboard()
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteResult(w, view)
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view, err := s.views.Assign(dashboard.AssignQuery{
		Search:          q.Get("search"),
		TeamID:          q.Get("teamId"),
		RecommendedOnly: q.Get("recommendedOnly") == "true",
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteResult(w, view)
}

func (s *Server) handlePeople(w http.ResponseWriter, r *http.Request) {
	view, err := s.views.People(r.URL.Query().Get("search"))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteResult(w, view)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var opts activity.ListOptions
	if v := q.Get("projectId"); v != "" {
		opts.ProjectID = &v
	}
	if v := q.Get("outcome"); v != "" {
		outcome := activity.Outcome(strings.ToLower(v))
		opts.Outcome = &outcome
	}
	opts.Limit = queryInt(q.Get("limit"))
	opts.Offset = queryInt(q.Get("offset"))

	entries, err := s.views.Activity(r.Context(), opts)
	if err != nil {
		WriteError(w, err)
		return
	}
	if entries == nil {
		entries = []activity.Entry{}
	}
	WriteResult(w, entries)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.views.Refresh(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	view, err := s.views.Dashboard()
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteResult(w, view)
}

func queryInt(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
