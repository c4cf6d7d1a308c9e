// Package testserver runs an in-memory project-management backend for
// end-to-end tests of the dashboard engine.
package testserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Project is the backend's stored form of a project.
type Project struct {
	ID          string   `json:"id"`
	WorkspaceID string   `json:"workspaceId"`
	TeamID      string   `json:"teamId,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	MemberIDs   []string `json:"memberIds"`
}

// Person is a workspace member.
type Person struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
	TeamID      string `json:"teamId,omitempty"`
	TeamName    string `json:"teamName,omitempty"`
	IsAdmin     bool   `json:"isAdmin"`
}

// Team is a workspace team.
type Team struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// Workspace is a tenant.
type Workspace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TestServer is a fake backend with one account.
type TestServer struct {
	Server *httptest.Server

	Username string
	Password string
	Token    string
	// UserID is the signed-in account; it must be one of People.
	UserID string

	mu         sync.Mutex
	workspaces []Workspace
	projects   map[string][]*Project
	people     map[string][]Person
	teams      map[string][]Team
	forbidden  map[string]bool
	down       bool
	calls      []string
}

// New starts a backend seeded with one workspace "ws1".
//
//	p1 Alpha    IN_PROGRESS  members u1, u2
//	p2 Beta     COMPLETED    member  u3
//	p3 Gamma    NOT_STARTED  no members
//
// People: u1 Ana (Eng, the account), u2 Bo (Eng), u3 Cy (Design), u4 Root (admin).
func New(t *testing.T) *TestServer {
	t.Helper()

	ts := &TestServer{
		Username: "ana",
		Password: "secret",
		Token:    "token-" + uuid.NewString(),
		UserID:   "u1",
		workspaces: []Workspace{
			{ID: "ws1", Name: "Main"},
		},
		projects: map[string][]*Project{
			"ws1": {
				{ID: "p1", WorkspaceID: "ws1", TeamID: "t1", Name: "Alpha", Status: "IN_PROGRESS", MemberIDs: []string{"u1", "u2"}},
				{ID: "p2", WorkspaceID: "ws1", TeamID: "t2", Name: "Beta", Status: "COMPLETED", MemberIDs: []string{"u3"}},
				{ID: "p3", WorkspaceID: "ws1", Name: "Gamma", Status: "NOT_STARTED", MemberIDs: []string{}},
			},
		},
		people: map[string][]Person{
			"ws1": {
				{ID: "u1", DisplayName: "Ana", Email: "ana@example.com", TeamID: "t1", TeamName: "Eng"},
				{ID: "u2", DisplayName: "Bo", TeamID: "t1", TeamName: "Eng"},
				{ID: "u3", DisplayName: "Cy", TeamID: "t2", TeamName: "Design"},
				{ID: "u4", DisplayName: "Root", IsAdmin: true},
			},
		},
		teams: map[string][]Team{
			"ws1": {{ID: "t1", Name: "Eng", IsActive: true}, {ID: "t2", Name: "Design", IsActive: true}},
		},
		forbidden: map[string]bool{},
	}

	ts.Server = httptest.NewServer(ts.router())
	t.Cleanup(ts.Server.Close)
	return ts
}

// URL is the backend base URL.
func (ts *TestServer) URL() string {
	return ts.Server.URL
}

// Forbid makes every mutation of projectID fail with 403.
func (ts *TestServer) Forbid(projectID string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.forbidden[projectID] = true
}

// SetDown makes every request fail with 503 while down is true.
func (ts *TestServer) SetDown(down bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.down = down
}

// Project returns a copy of a stored project.
func (ts *TestServer) Project(workspaceID, projectID string) (Project, bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if p := ts.findLocked(workspaceID, projectID); p != nil {
		cp := *p
		cp.MemberIDs = slices.Clone(p.MemberIDs)
		return cp, true
	}
	return Project{}, false
}

// Calls returns "METHOD route" for every request received.
func (ts *TestServer) Calls() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return slices.Clone(ts.calls)
}

func (ts *TestServer) router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(ts.record)

	r.Post("/api/auth/login", ts.handleLogin)
	r.Post("/api/auth/refresh", func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Refresh session expired")
	})

	r.Group(func(r chi.Router) {
		r.Use(ts.requireToken)

		r.Post("/api/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		r.Get("/api/auth/me", ts.handleMe)
		r.Get("/api/workspaces", ts.handleWorkspaces)

		r.Route("/api/workspaces/{ws}", func(r chi.Router) {
			r.Get("/users", ts.handleUsers)
			r.Get("/teams", ts.handleTeams)
			r.Get("/projects", ts.handleListProjects)
			r.Post("/projects", ts.handleCreateProject)
			r.Post("/projects/random", ts.handleRandomProject)
			r.Route("/projects/{id}", func(r chi.Router) {
				r.Get("/", ts.handleGetProject)
				r.With(ts.guard).Put("/", ts.handleUpdateProject)
				r.With(ts.guard).Delete("/", ts.handleDeleteProject)
				r.With(ts.guard).Post("/archive", ts.handleSetStatus("ARCHIVED"))
				r.With(ts.guard).Post("/restore", ts.handleSetStatus("NOT_STARTED"))
				r.With(ts.guard).Post("/random-assign", ts.handleRandomAssign)
			})
		})
	})
	return r
}

func (ts *TestServer) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		ts.calls = append(ts.calls, r.Method+" "+r.URL.Path)
		down := ts.down
		ts.mu.Unlock()
		if down {
			writeError(w, http.StatusServiceUnavailable, "INTERNAL_ERROR", "Service unavailable")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (ts *TestServer) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token != ts.Token {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (ts *TestServer) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		refused := ts.forbidden[chi.URLParam(r, "id")]
		ts.mu.Unlock()
		if refused {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (ts *TestServer) me() Person {
	for _, p := range ts.people["ws1"] {
		if p.ID == ts.UserID {
			return p
		}
	}
	return Person{ID: ts.UserID}
}

func (ts *TestServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "Malformed body")
		return
	}
	if req.Username != ts.Username || req.Password != ts.Password {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid username or password")
		return
	}
	ts.mu.Lock()
	me := ts.me()
	ts.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"token": ts.Token,
		"user":  map[string]any{"id": me.ID, "displayName": me.DisplayName, "email": me.Email, "teamId": me.TeamID, "team": me.TeamName},
	})
}

func (ts *TestServer) handleMe(w http.ResponseWriter, _ *http.Request) {
	ts.mu.Lock()
	me := ts.me()
	ts.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"id": me.ID, "displayName": me.DisplayName, "email": me.Email})
}

func (ts *TestServer) handleWorkspaces(w http.ResponseWriter, _ *http.Request) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	writeJSON(w, http.StatusOK, ts.workspaces)
}

func (ts *TestServer) handleUsers(w http.ResponseWriter, r *http.Request) {
	ws := chi.URLParam(r, "ws")
	ts.mu.Lock()
	defer ts.mu.Unlock()

	out := make([]map[string]any, 0, len(ts.people[ws]))
	for _, p := range ts.people[ws] {
		active := 0
		for _, proj := range ts.projects[ws] {
			if (proj.Status == "IN_PROGRESS" || proj.Status == "NOT_STARTED") && slices.Contains(proj.MemberIDs, p.ID) {
				active++
			}
		}
		out = append(out, map[string]any{
			"id":                 p.ID,
			"displayName":        p.DisplayName,
			"email":              p.Email,
			"teamId":             p.TeamID,
			"teamName":           p.TeamName,
			"isAdmin":            p.IsAdmin,
			"activeProjectCount": active,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (ts *TestServer) handleTeams(w http.ResponseWriter, r *http.Request) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	writeJSON(w, http.StatusOK, ts.teams[chi.URLParam(r, "ws")])
}

func (ts *TestServer) handleListProjects(w http.ResponseWriter, r *http.Request) {
	ws := chi.URLParam(r, "ws")
	mine := r.URL.Query().Get("assignedToMe") == "true"
	ts.mu.Lock()
	defer ts.mu.Unlock()

	out := make([]Project, 0, len(ts.projects[ws]))
	for _, p := range ts.projects[ws] {
		if mine && !slices.Contains(p.MemberIDs, ts.UserID) {
			continue
		}
		out = append(out, *p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (ts *TestServer) handleGetProject(w http.ResponseWriter, r *http.Request) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	p := ts.findLocked(chi.URLParam(r, "ws"), chi.URLParam(r, "id"))
	if p == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type projectBody struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	TeamID      string   `json:"teamId"`
	MemberIDs   []string `json:"memberIds"`
}

func (ts *TestServer) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var body projectBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message":     "Validation failed",
			"code":        "VALIDATION_FAILED",
			"fieldErrors": map[string]string{"name": "must not be blank"},
		})
		return
	}
	ws := chi.URLParam(r, "ws")
	p := &Project{
		ID:          uuid.NewString(),
		WorkspaceID: ws,
		TeamID:      body.TeamID,
		Name:        body.Name,
		Description: body.Description,
		Status:      body.Status,
		MemberIDs:   nonNil(body.MemberIDs),
	}
	if p.Status == "" {
		p.Status = "NOT_STARTED"
	}
	ts.mu.Lock()
	ts.projects[ws] = append(ts.projects[ws], p)
	ts.mu.Unlock()
	writeJSON(w, http.StatusCreated, p)
}

func (ts *TestServer) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var body projectBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "Malformed body")
		return
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	p := ts.findLocked(chi.URLParam(r, "ws"), chi.URLParam(r, "id"))
	if p == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Project not found")
		return
	}
	p.Name = body.Name
	p.Description = body.Description
	if body.Status != "" {
		p.Status = body.Status
	}
	p.MemberIDs = nonNil(body.MemberIDs)
	writeJSON(w, http.StatusOK, p)
}

func (ts *TestServer) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	ws, id := chi.URLParam(r, "ws"), chi.URLParam(r, "id")
	ts.mu.Lock()
	defer ts.mu.Unlock()
	before := len(ts.projects[ws])
	ts.projects[ws] = slices.DeleteFunc(ts.projects[ws], func(p *Project) bool { return p.ID == id })
	if len(ts.projects[ws]) == before {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Project not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ts *TestServer) handleSetStatus(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		defer ts.mu.Unlock()
		p := ts.findLocked(chi.URLParam(r, "ws"), chi.URLParam(r, "id"))
		if p == nil {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Project not found")
			return
		}
		p.Status = status
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleRandomAssign picks the first assignable person, in list order, who
// is not yet a member.
func (ts *TestServer) handleRandomAssign(w http.ResponseWriter, r *http.Request) {
	var scope struct {
		TeamID string `json:"teamId"`
	}
	_ = json.NewDecoder(r.Body).Decode(&scope)
	ws := chi.URLParam(r, "ws")

	ts.mu.Lock()
	defer ts.mu.Unlock()
	p := ts.findLocked(ws, chi.URLParam(r, "id"))
	if p == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Project not found")
		return
	}
	for _, person := range ts.people[ws] {
		if person.IsAdmin || slices.Contains(p.MemberIDs, person.ID) {
			continue
		}
		if scope.TeamID != "" && person.TeamID != scope.TeamID {
			continue
		}
		p.MemberIDs = append(p.MemberIDs, person.ID)
		writeJSON(w, http.StatusOK, map[string]any{"project": p, "assignedPerson": person})
		return
	}
	writeError(w, http.StatusConflict, "CONFLICT", "No eligible people")
}

// handleRandomProject picks the first NOT_STARTED project the caller is not on.
func (ts *TestServer) handleRandomProject(w http.ResponseWriter, r *http.Request) {
	ws := chi.URLParam(r, "ws")
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for _, p := range ts.projects[ws] {
		if p.Status == "NOT_STARTED" && !slices.Contains(p.MemberIDs, ts.UserID) {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeError(w, http.StatusNotFound, "NOT_FOUND", "No eligible project")
}

func (ts *TestServer) findLocked(workspaceID, projectID string) *Project {
	for _, p := range ts.projects[workspaceID] {
		if p.ID == projectID {
			return p
		}
	}
	return nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{"message": message, "code": code})
}
