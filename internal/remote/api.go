package remote

import (
	"context"

	"github.com/ganot/pmdash/internal/domain/comment"
	"github.com/ganot/pmdash/internal/domain/project"
	"github.com/ganot/pmdash/internal/domain/stats"
	"github.com/ganot/pmdash/internal/domain/user"
	"github.com/ganot/pmdash/internal/domain/workspace"
)

// API is every backend operation the dashboard consumes.
type API interface {
	Login(ctx context.Context, req user.LoginRequest) (user.AuthResult, error)
	Register(ctx context.Context, req user.RegisterRequest) error
	Refresh(ctx context.Context) (user.AuthResult, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (user.User, error)
	UpdateProfile(ctx context.Context, req user.ProfileUpdate) (user.User, error)
	UpdatePeoplePageWidgets(ctx context.Context, widgets user.PeoplePageWidgets) (user.PeoplePageWidgets, error)

	ListProjects(ctx context.Context, workspaceID string, assignedToMe bool) ([]project.Project, error)
	GetProject(ctx context.Context, workspaceID, projectID string) (project.Project, error)
	CreateProject(ctx context.Context, workspaceID string, payload project.Payload) (project.Project, error)
	UpdateProject(ctx context.Context, workspaceID, projectID string, payload project.Payload) (project.Project, error)
	ArchiveProject(ctx context.Context, workspaceID, projectID string) error
	RestoreProject(ctx context.Context, workspaceID, projectID string) error
	DeleteProject(ctx context.Context, workspaceID, projectID string) error
	RandomAssign(ctx context.Context, workspaceID, projectID, teamID string) (project.RandomAssignResult, error)
	RandomProject(ctx context.Context, workspaceID, teamID string) (project.Project, error)

	ListUsers(ctx context.Context, workspaceID string, filter user.ListFilter) ([]user.Summary, error)
	ToggleRecommendation(ctx context.Context, workspaceID, personID string) (user.Recommendation, error)
	Recommenders(ctx context.Context, workspaceID, personID string) ([]user.Summary, error)
	RecommendedPeople(ctx context.Context, workspaceID, teamID string) ([]user.Summary, error)

	ListTeams(ctx context.Context, workspaceID string) ([]workspace.Team, error)
	CreateTeam(ctx context.Context, workspaceID, name string) (workspace.Team, error)
	UpdateTeam(ctx context.Context, workspaceID, teamID string, update workspace.TeamUpdate) (workspace.Team, error)

	ListComments(ctx context.Context, workspaceID, projectID string) ([]comment.Comment, error)
	CreateComment(ctx context.Context, workspaceID, projectID string, req comment.CreateRequest) (comment.Comment, error)
	DeleteComment(ctx context.Context, workspaceID, commentID string) error
	ToggleReaction(ctx context.Context, workspaceID, commentID string, reaction comment.ReactionType) (comment.Comment, error)
	UploadAttachment(ctx context.Context, fileName, contentType string, data []byte) (comment.Attachment, error)

	ListWorkspaces(ctx context.Context) ([]workspace.Workspace, error)
	CreateWorkspace(ctx context.Context, req workspace.CreateRequest) (workspace.Workspace, error)
	JoinWorkspace(ctx context.Context, token, inviteAnswer string) (workspace.Workspace, error)
	ResolveInvite(ctx context.Context, invite string) (workspace.InviteResolution, error)
	ListJoinRequests(ctx context.Context, workspaceID string) ([]workspace.JoinRequest, error)
	ApproveJoinRequest(ctx context.Context, workspaceID, requestID string) (workspace.JoinRequest, error)
	DenyJoinRequest(ctx context.Context, workspaceID, requestID string) (workspace.JoinRequest, error)
	UpdateSettings(ctx context.Context, workspaceID string, settings workspace.Settings) (workspace.Workspace, error)
	EnterDemo(ctx context.Context) (workspace.Workspace, error)
	ResetDemo(ctx context.Context, workspaceID string) error

	DashboardStats(ctx context.Context, workspaceID string, q stats.DashboardQuery) (stats.Dashboard, error)
	UserStats(ctx context.Context, workspaceID, userID string) (stats.User, error)
	PeopleOverview(ctx context.Context, workspaceID string) (stats.PeopleOverview, error)
	PeopleUserStats(ctx context.Context, workspaceID, userID string) (stats.PeopleUser, error)
}

var _ API = (*Client)(nil)
