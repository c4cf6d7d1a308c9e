package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ganot/pmdash/internal/app"
	"github.com/ganot/pmdash/internal/config"
	"github.com/ganot/pmdash/internal/domain/activity"
	"github.com/ganot/pmdash/internal/domain/project"
	"github.com/ganot/pmdash/internal/domain/user"
	"github.com/ganot/pmdash/internal/draft"
	"github.com/ganot/pmdash/internal/mcp"
	"github.com/ganot/pmdash/internal/mutation"
	"github.com/ganot/pmdash/internal/testserver"
	"github.com/ganot/pmdash/internal/transport"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	backend *testserver.TestServer
	cfg     config.Config
	app     *app.App
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	backend := testserver.New(t)

	cfg := config.Default()
	cfg.Remote.BaseURL = backend.URL()
	cfg.Remote.RateLimit = 0
	cfg.DB.Path = fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	env := &testEnv{backend: backend, cfg: cfg}
	env.app = env.open(t)
	return env
}

// open wires another app on the same backend and database.
func (e *testEnv) open(t *testing.T) *app.App {
	t.Helper()
	a, err := app.New(e.cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func (e *testEnv) login(t *testing.T, remember bool) {
	t.Helper()
	me, err := e.app.Dashboard.Login(context.Background(), user.LoginRequest{
		Username: e.backend.Username,
		Password: e.backend.Password,
		Remember: remember,
	})
	require.NoError(t, err)
	require.Equal(t, "u1", me.ID)
	require.Equal(t, "ws1", e.app.Session.WorkspaceID())
}

func folderOf(t *testing.T, e *testEnv, projectID string) project.FolderKey {
	t.Helper()
	view, err := e.app.Dashboard.Dashboard()
	require.NoError(t, err)
	for _, g := range view.Groups {
		for _, p := range g.Projects {
			if p.ID == projectID {
				return g.Folder.Key
			}
		}
	}
	return ""
}

func TestIntegration_LoginLoadsWorkspace(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.app.Dashboard.Dashboard()
	require.Error(t, err)

	env.login(t, false)

	view, err := env.app.Dashboard.Dashboard()
	require.NoError(t, err)
	require.Equal(t, []string{"Design", "Eng"}, view.Teams)
	// The seeded selection leaves out unassigned, so it differs from the defaults.
	require.True(t, view.FilterActive)
	require.Len(t, view.Groups, 3)
	require.Equal(t, 1, view.Breakdown.Counters.Unassigned)
	require.Equal(t, 1, view.Breakdown.Counters.InProgress)

	people, err := env.app.Dashboard.People("")
	require.NoError(t, err)
	for _, p := range people.People {
		require.NotEqual(t, "u4", p.ID, "admins are not listed")
	}
}

func TestIntegration_ArchiveRestoreDelete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.login(t, false)
	d := env.app.Dashboard

	res, err := d.Archive(ctx, "p1")
	require.NoError(t, err)
	require.True(t, res.OK(), res.Message)
	require.Equal(t, project.FolderArchived, folderOf(t, env, "p1"))
	stored, _ := env.backend.Project("ws1", "p1")
	require.Equal(t, "ARCHIVED", stored.Status)

	res, err = d.Restore(ctx, "p1")
	require.NoError(t, err)
	require.True(t, res.OK(), res.Message)
	require.Equal(t, project.FolderNotStarted, folderOf(t, env, "p1"))
	stored, _ = env.backend.Project("ws1", "p1")
	require.Equal(t, "NOT_STARTED", stored.Status)
	require.Empty(t, stored.MemberIDs)

	res, err = d.Delete(ctx, "p1", false)
	require.NoError(t, err)
	require.ErrorIs(t, res.Err, mutation.ErrConfirmationRequired)
	_, ok := env.backend.Project("ws1", "p1")
	require.True(t, ok)

	res, err = d.Delete(ctx, "p1", true)
	require.NoError(t, err)
	require.True(t, res.OK(), res.Message)
	_, ok = env.backend.Project("ws1", "p1")
	require.False(t, ok)
	require.Empty(t, string(folderOf(t, env, "p1")))

	entries, err := d.Activity(ctx, activity.ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, e := range entries {
		require.Equal(t, activity.OutcomeSucceeded, e.Outcome)
	}
}

func TestIntegration_ForbiddenArchiveRollsBack(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.login(t, false)
	env.backend.Forbid("p3")

	res, err := env.app.Dashboard.Archive(ctx, "p3")
	require.NoError(t, err)
	require.Equal(t, activity.OutcomeFailed, res.Outcome)
	require.Equal(t, mutation.MsgNotAllowed, res.Message)
	require.True(t, res.RolledBack)
	require.Equal(t, project.FolderNotStarted, folderOf(t, env, "p3"))

	failed := activity.OutcomeFailed
	entries, err := env.app.Dashboard.Activity(ctx, activity.ListOptions{Outcome: &failed})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "forbidden", entries[0].ErrorKind)
}

func TestIntegration_DraftSave(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.login(t, false)
	d := env.app.Dashboard

	require.NoError(t, d.SelectProject(ctx, "p3"))
	require.NoError(t, d.EditDraft(func(dr *draft.Draft) { dr.AddMember("u2") }))

	res, err := d.SaveDraft(ctx)
	require.NoError(t, err)
	require.True(t, res.OK(), res.Message)

	stored, _ := env.backend.Project("ws1", "p3")
	require.Equal(t, []string{"u2"}, stored.MemberIDs)

	view, err := d.Dashboard()
	require.NoError(t, err)
	require.False(t, view.Dirty)
	require.Zero(t, view.Breakdown.Counters.Unassigned)
}

func TestIntegration_RefreshFailureKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.login(t, false)

	env.backend.SetDown(true)
	require.Error(t, env.app.Dashboard.Refresh(ctx))

	view, err := env.app.Dashboard.Dashboard()
	require.NoError(t, err)
	require.Len(t, view.Groups, 3)
	require.NotEmpty(t, view.Error)

	env.backend.SetDown(false)
	require.NoError(t, env.app.Dashboard.Refresh(ctx))
	view, err = env.app.Dashboard.Dashboard()
	require.NoError(t, err)
	require.Empty(t, view.Error)
}

func TestIntegration_RememberedSessionSurvivesRestart(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, true)

	restarted := env.open(t)
	restarted.Start(context.Background())

	require.True(t, restarted.Session.Authenticated())
	require.Equal(t, "ws1", restarted.Session.WorkspaceID())
	view, err := restarted.Dashboard.Dashboard()
	require.NoError(t, err)
	require.Len(t, view.Groups, 3)
}

func TestIntegration_ForgottenSessionDoesNotSurviveRestart(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, false)

	restarted := env.open(t)
	restarted.Start(context.Background())
	require.False(t, restarted.Session.Authenticated())
}

type bearer struct {
	token string
	next  http.RoundTripper
}

func (b bearer) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.next.RoundTrip(req)
}

func TestIntegration_HTTPSurfaces(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	key := transport.NewStaticKey("api-key")

	mcpServer := mcp.NewServer(mcp.Config{
		Dashboard:     env.app.Dashboard,
		Auth:          key,
		TransportMode: config.ModeHTTP,
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		nil,
	)
	server := httptest.NewServer(transport.NewServer(transport.Options{
		Views: env.app.Dashboard,
		MCP:   mcpHandler,
		Auth:  key,
	}))
	t.Cleanup(server.Close)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "integration", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{
		Endpoint:   server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearer{token: "api-key", next: http.DefaultTransport}},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })

	res, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "login",
		Arguments: map[string]any{"username": env.backend.Username, "password": env.backend.Password},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	res, err = cs.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "change_status",
		Arguments: map[string]any{"project_id": "p3", "status": "IN_PROGRESS"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	stored, _ := env.backend.Project("ws1", "p3")
	require.Equal(t, "IN_PROGRESS", stored.Status)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/views/dashboard", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer api-key")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view struct {
		Groups []struct {
			Folder struct {
				Key string `json:"key"`
			} `json:"folder"`
		} `json:"groups"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	require.Len(t, view.Groups, 2)

	resp2, err := http.Get(server.URL + "/api/views/dashboard")
	require.NoError(t, err)
	resp2.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
}
