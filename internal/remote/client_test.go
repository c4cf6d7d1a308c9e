package remote_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ganot/pmdash/internal/apperr"
	"github.com/ganot/pmdash/internal/domain/project"
	"github.com/ganot/pmdash/internal/domain/user"
	"github.com/ganot/pmdash/internal/remote"
	"github.com/stretchr/testify/require"
)

type fakeCreds struct {
	mu    sync.Mutex
	token string
}

func (f *fakeCreds) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeCreds) UpdateToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	return nil
}

func newClient(t *testing.T, handler http.Handler, creds remote.Credentials, opts remote.Options) *remote.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts.BaseURL = srv.URL
	c, err := remote.New(opts, creds)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RejectsRelativeBaseURL(t *testing.T) {
	_, err := remote.New(remote.Options{BaseURL: "/api"}, nil)
	require.Error(t, err)
}

func TestListProjects_NormalisesWirePayload(t *testing.T) {
	var gotAuth, gotRequestID, gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/workspaces/w1/projects", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `[
			{"id":"p1","name":"Alpha","status":"in_progress","memberIds":["u1","u1",null,"u2"]},
			{"id":"p2","name":"Beta","status":null,"memberIds":null,"description":null},
			{"name":"no id"},
			{"id":"p3","name":"Gamma","status":"BOGUS"}
		]`)
	})

	c := newClient(t, mux, &fakeCreds{token: "tok"}, remote.Options{})
	projects, err := c.ListProjects(context.Background(), "w1", true)
	require.NoError(t, err)

	require.Equal(t, "Bearer tok", gotAuth)
	require.NotEmpty(t, gotRequestID)
	require.Equal(t, "assignedToMe=true", gotQuery)

	require.Len(t, projects, 3)
	require.Equal(t, project.StatusInProgress, projects[0].Status)
	require.Equal(t, []string{"u1", "u2"}, projects[0].MemberIDs)
	require.Equal(t, project.StatusNotStarted, projects[1].Status)
	require.NotNil(t, projects[1].MemberIDs)
	require.Empty(t, projects[1].MemberIDs)
	require.Equal(t, project.StatusNotStarted, projects[2].Status)
}

func TestErrors_AreClassified(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/workspaces/w1/projects/p1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-Id", "srv-1")
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Forbidden"})
	})
	mux.HandleFunc("POST /api/workspaces/w1/projects", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": []map[string]string{
				{"field": "name", "defaultMessage": "must not be blank"},
				{"field": "status", "defaultMessage": "is invalid"},
			},
		})
	})
	mux.HandleFunc("DELETE /api/workspaces/w1/projects/p1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream down")
	})

	c := newClient(t, mux, nil, remote.Options{})
	ctx := context.Background()

	_, err := c.UpdateProject(ctx, "w1", "p1", project.Payload{Name: "x"})
	info := apperr.Classify(err)
	require.Equal(t, apperr.KindForbidden, info.Kind)
	require.Equal(t, "You do not have permission for this action.", info.Message)
	require.Equal(t, "srv-1", info.RequestID)

	_, err = c.CreateProject(ctx, "w1", project.Payload{})
	info = apperr.Classify(err)
	require.Equal(t, apperr.KindValidation, info.Kind)
	require.Equal(t, "must not be blank, is invalid", info.Message)
	require.Equal(t, "must not be blank", info.FieldErrors["name"])

	err = c.DeleteProject(ctx, "w1", "p1")
	require.Equal(t, apperr.KindServer, apperr.KindOf(err))
	require.Equal(t, 502, apperr.StatusOf(err))
}

func TestUnauthorized_RefreshesAndRetries(t *testing.T) {
	var calls int
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Header.Get("Authorization") != "Bearer fresh" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "expired"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": "u1", "firstName": "Ada", "lastName": "L", "isAdmin": true})
	})
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"token": "fresh"})
	})

	creds := &fakeCreds{token: "stale"}
	signalled := false
	c := newClient(t, mux, creds, remote.Options{OnUnauthorized: func(context.Context) { signalled = true }})

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, "u1", me.ID)
	require.Equal(t, "Ada L", me.DisplayName)
	require.True(t, me.IsAdmin)
	require.Equal(t, "fresh", creds.Token())
	require.Equal(t, 2, calls)
	require.False(t, signalled)
}

func TestUnauthorized_FailedRefreshSignals(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/workspaces/w1/projects", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Session expired"})
	})

	signals := 0
	c := newClient(t, mux, &fakeCreds{token: "stale"}, remote.Options{OnUnauthorized: func(context.Context) { signals++ }})

	_, err := c.ListProjects(context.Background(), "w1", false)
	require.True(t, apperr.IsUnauthorized(err))
	require.Equal(t, 1, signals)
}

func TestLoginFailure_DoesNotSignal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
	})

	signals := 0
	c := newClient(t, mux, &fakeCreds{}, remote.Options{OnUnauthorized: func(context.Context) { signals++ }})

	_, err := c.Login(context.Background(), user.LoginRequest{Username: "a", Password: "b"})
	require.True(t, apperr.IsUnauthorized(err))
	require.Equal(t, "Bad credentials", apperr.Classify(err).Message)
	require.Zero(t, signals)
}

func TestUnreachable_ReportsNetworkAndReachability(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	var flips []bool
	c, err := remote.New(remote.Options{BaseURL: base, OnReachability: func(online bool) { flips = append(flips, online) }}, nil)
	require.NoError(t, err)

	_, err = c.ListWorkspaces(context.Background())
	require.Equal(t, apperr.KindNetwork, apperr.KindOf(err))
	require.Equal(t, apperr.StatusUnreachable, apperr.StatusOf(err))
	require.Contains(t, err.Error(), "Cannot reach server")
	require.False(t, c.Reachable())
	require.Equal(t, []bool{false}, flips)
}

func TestCSRFHeaderFromCookie(t *testing.T) {
	var gotCSRF string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "PMD_CSRF", Value: "csrf-1", Path: "/"})
		writeJSON(w, http.StatusOK, map[string]any{"token": "t1", "user": map[string]any{"id": "u1"}})
	})
	mux.HandleFunc("POST /api/workspaces/w1/projects/p1/archive", func(w http.ResponseWriter, r *http.Request) {
		gotCSRF = r.Header.Get("X-PMD-CSRF")
		w.WriteHeader(http.StatusNoContent)
	})

	creds := &fakeCreds{}
	c := newClient(t, mux, creds, remote.Options{})
	ctx := context.Background()

	res, err := c.Login(ctx, user.LoginRequest{Username: "a", Password: "b"})
	require.NoError(t, err)
	require.Equal(t, "t1", res.Token)
	require.Equal(t, "u1", res.User.ID)

	require.NoError(t, c.ArchiveProject(ctx, "w1", "p1"))
	require.Equal(t, "csrf-1", gotCSRF)
}

func TestRandomAssign_MapsAssignedPerson(t *testing.T) {
	var body map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/workspaces/w1/projects/p1/random-assign", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusOK, map[string]any{
			"project":        map[string]any{"id": "p1", "name": "Alpha", "status": "IN_PROGRESS", "memberIds": []string{"u7"}},
			"assignedPerson": map[string]any{"id": "u7", "displayName": "Grace"},
		})
	})

	c := newClient(t, mux, nil, remote.Options{})
	res, err := c.RandomAssign(context.Background(), "w1", "p1", "t1")
	require.NoError(t, err)
	require.Equal(t, "t1", body["teamId"])
	require.Equal(t, "u7", res.AssignedUserID)
	require.Equal(t, "Grace", res.AssignedName)
	require.Equal(t, []string{"u7"}, res.Project.MemberIDs)
}

func TestListUsers_QueryAndTeamLabel(t *testing.T) {
	var gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/workspaces/w1/users", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `[{"id":"u1","displayName":"Ada","teamName":"Design","activeProjectCount":2,"isAdmin":null},{"displayName":"ghost"}]`)
	})

	c := newClient(t, mux, nil, remote.Options{})
	users, err := c.ListUsers(context.Background(), "w1", user.ListFilter{Query: "ad", TeamID: "t1"})
	require.NoError(t, err)
	require.Equal(t, "q=ad&teamId=t1", gotQuery)
	require.Len(t, users, 1)
	require.Equal(t, "Design", users[0].Team)
	require.Equal(t, 2, users[0].ActiveProjectCount)
	require.False(t, users[0].IsAdmin)
}

func TestUploadAttachment(t *testing.T) {
	var gotName, gotType string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/uploads", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotName = header.Filename
		gotType = header.Header.Get("Content-Type")
		writeJSON(w, http.StatusOK, map[string]any{"id": "a1", "url": "/uploads/a1.png", "contentType": gotType, "fileName": gotName, "size": header.Size})
	})

	c := newClient(t, mux, nil, remote.Options{})
	ctx := context.Background()

	att, err := c.UploadAttachment(ctx, "shot.png", "image/png", []byte("png-bytes"))
	require.NoError(t, err)
	require.Equal(t, "shot.png", gotName)
	require.Equal(t, "image/png", gotType)
	require.Equal(t, "/uploads/a1.png", att.URL)

	_, err = c.UploadAttachment(ctx, "doc.pdf", "application/pdf", []byte("x"))
	require.ErrorIs(t, err, remote.ErrUploadType)

	_, err = c.UploadAttachment(ctx, "big.png", "image/png", []byte(strings.Repeat("x", remote.MaxUploadBytes+1)))
	require.ErrorIs(t, err, remote.ErrUploadTooLarge)
}
