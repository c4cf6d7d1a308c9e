package mcp

import (
	"context"
	"log/slog"

	"github.com/ganot/pmdash/internal/dashboard"
	"github.com/ganot/pmdash/internal/domain/activity"
	"github.com/ganot/pmdash/internal/domain/comment"
	"github.com/ganot/pmdash/internal/domain/project"
	"github.com/ganot/pmdash/internal/domain/stats"
	"github.com/ganot/pmdash/internal/domain/user"
	"github.com/ganot/pmdash/internal/domain/workspace"
	"github.com/ganot/pmdash/internal/draft"
	"github.com/ganot/pmdash/internal/mutation"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Dashboard defines the dashboard operations exposed as tools.
type Dashboard interface {
	Login(ctx context.Context, req user.LoginRequest) (user.User, error)
	Logout(ctx context.Context)
	Workspaces(ctx context.Context) ([]workspace.Workspace, error)
	SelectWorkspace(ctx context.Context, workspaceID string) error
	Refresh(ctx context.Context) error

	Dashboard() (dashboard.DashboardView, error)
	SetFilters(ctx context.Context, keys []string)
	ToggleFilter(ctx context.Context, key string)
	ResetFilters(ctx context.Context)
	SetSearch(ctx context.Context, text string)
	SetAssignedToMe(ctx context.Context, on bool)

	SelectProject(ctx context.Context, projectID string) error
	ClearSelection(ctx context.Context)
	EditDraft(fn func(*draft.Draft)) error
	SaveDraft(ctx context.Context) (mutation.Result, error)
	CloseDraft(ctx context.Context) (draft.CloseAction, *mutation.Result, error)

	ChangeStatus(ctx context.Context, projectID string, status project.Status) (mutation.Result, error)
	Archive(ctx context.Context, projectID string) (mutation.Result, error)
	Restore(ctx context.Context, projectID string) (mutation.Result, error)
	Delete(ctx context.Context, projectID string, confirmed bool) (mutation.Result, error)
	CreateProject(ctx context.Context, req project.CreateRequest) (mutation.Result, error)
	RandomAssign(ctx context.Context, teamID string) (mutation.Result, error)
	RandomProject(ctx context.Context, teamID string) (mutation.Result, error)

	Assign(q dashboard.AssignQuery) (dashboard.AssignView, error)
	People(search string) (dashboard.PeopleView, error)
	SetPeopleFilters(ctx context.Context, keys []string)
	SelectPerson(ctx context.Context, userID string) error
	PersonStats(ctx context.Context, userID string) (stats.PeopleUser, error)
	ToggleRecommendation(ctx context.Context, personID string) (mutation.Result, error)
	EditWidgets() error
	EditWidgetDraft(fn func(*draft.Widgets)) error
	SaveWidgets(ctx context.Context) error

	Comments(ctx context.Context, projectID string) ([]comment.Comment, error)
	AddComment(ctx context.Context, projectID string, req comment.CreateRequest) (mutation.Result, error)
	ToggleReaction(ctx context.Context, projectID, commentID string, reaction comment.ReactionType) (mutation.Result, error)

	DeleteComment(ctx context.Context, commentID string) error
	UploadAttachment(ctx context.Context, fileName, contentType string, data []byte) (comment.Attachment, error)

	Register(ctx context.Context, req user.RegisterRequest) error
	UpdateProfile(ctx context.Context, req user.ProfileUpdate) (user.User, error)
	Project(ctx context.Context, projectID string) (project.Project, error)
	Recommenders(ctx context.Context, personID string) ([]user.Summary, error)
	RecommendedPeople(ctx context.Context, teamID string) ([]user.Summary, error)

	CreateWorkspace(ctx context.Context, req workspace.CreateRequest) (workspace.Workspace, error)
	ResolveInvite(ctx context.Context, invite string) (workspace.InviteResolution, error)
	JoinWorkspace(ctx context.Context, token, answer string) (workspace.Workspace, error)
	JoinRequests(ctx context.Context) ([]workspace.JoinRequest, error)
	DecideJoinRequest(ctx context.Context, requestID string, approve bool) (workspace.JoinRequest, error)
	UpdateSettings(ctx context.Context, settings workspace.Settings) (workspace.Workspace, error)
	EnterDemo(ctx context.Context) (workspace.Workspace, error)
	ResetDemo(ctx context.Context) error
	CreateTeam(ctx context.Context, name string) (workspace.Team, error)
	UpdateTeam(ctx context.Context, teamID string, update workspace.TeamUpdate) (workspace.Team, error)

	WorkspaceStats(ctx context.Context) (stats.Dashboard, error)
	UserStats(ctx context.Context, userID string) (stats.User, error)
	PeopleOverview(ctx context.Context) (stats.PeopleOverview, error)

	Activity(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

var _ Dashboard = (*dashboard.Service)(nil)

// Config contains server configuration.
type Config struct {
	Dashboard Dashboard
	// Auth verifies bearer keys on HTTP transports. Nil disables auth.
	Auth          Authenticator
	TransportMode string // "stdio" or "http"
	Version       string
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "pmdash",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is local only.
	if cfg.TransportMode != "stdio" && cfg.Auth != nil {
		server.AddReceivingMiddleware(authMiddleware(cfg.Auth))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, NewHandler(cfg.Dashboard))

	return server
}
