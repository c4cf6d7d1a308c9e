package mocks

import (
	"context"

	"github.com/ganot/pmdash/internal/domain/comment"
	"github.com/ganot/pmdash/internal/domain/project"
	"github.com/ganot/pmdash/internal/domain/stats"
	"github.com/ganot/pmdash/internal/domain/user"
	"github.com/ganot/pmdash/internal/domain/workspace"
	"github.com/stretchr/testify/mock"
)

// API is a mock for remote.API.
type API struct {
	mock.Mock
}

func (m *API) Login(ctx context.Context, req user.LoginRequest) (user.AuthResult, error) {
	args := m.Called(ctx, req)
	if v, ok := args.Get(0).(user.AuthResult); ok {
		return v, args.Error(1)
	}
	return user.AuthResult{}, args.Error(1)
}

func (m *API) Register(ctx context.Context, req user.RegisterRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *API) Refresh(ctx context.Context) (user.AuthResult, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).(user.AuthResult); ok {
		return v, args.Error(1)
	}
	return user.AuthResult{}, args.Error(1)
}

func (m *API) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *API) Me(ctx context.Context) (user.User, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).(user.User); ok {
		return v, args.Error(1)
	}
	return user.User{}, args.Error(1)
}

func (m *API) UpdateProfile(ctx context.Context, req user.ProfileUpdate) (user.User, error) {
	args := m.Called(ctx, req)
	if v, ok := args.Get(0).(user.User); ok {
		return v, args.Error(1)
	}
	return user.User{}, args.Error(1)
}

func (m *API) UpdatePeoplePageWidgets(ctx context.Context, widgets user.PeoplePageWidgets) (user.PeoplePageWidgets, error) {
	args := m.Called(ctx, widgets)
	if v, ok := args.Get(0).(user.PeoplePageWidgets); ok {
		return v, args.Error(1)
	}
	return user.PeoplePageWidgets{}, args.Error(1)
}

func (m *API) ListProjects(ctx context.Context, workspaceID string, assignedToMe bool) ([]project.Project, error) {
	args := m.Called(ctx, workspaceID, assignedToMe)
	if v, ok := args.Get(0).([]project.Project); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) GetProject(ctx context.Context, workspaceID, projectID string) (project.Project, error) {
	args := m.Called(ctx, workspaceID, projectID)
	if v, ok := args.Get(0).(project.Project); ok {
		return v, args.Error(1)
	}
	return project.Project{}, args.Error(1)
}

func (m *API) CreateProject(ctx context.Context, workspaceID string, payload project.Payload) (project.Project, error) {
	args := m.Called(ctx, workspaceID, payload)
	if v, ok := args.Get(0).(project.Project); ok {
		return v, args.Error(1)
	}
	return project.Project{}, args.Error(1)
}

func (m *API) UpdateProject(ctx context.Context, workspaceID, projectID string, payload project.Payload) (project.Project, error) {
	args := m.Called(ctx, workspaceID, projectID, payload)
	if v, ok := args.Get(0).(project.Project); ok {
		return v, args.Error(1)
	}
	return project.Project{}, args.Error(1)
}

func (m *API) ArchiveProject(ctx context.Context, workspaceID, projectID string) error {
	args := m.Called(ctx, workspaceID, projectID)
	return args.Error(0)
}

func (m *API) RestoreProject(ctx context.Context, workspaceID, projectID string) error {
	args := m.Called(ctx, workspaceID, projectID)
	return args.Error(0)
}

func (m *API) DeleteProject(ctx context.Context, workspaceID, projectID string) error {
	args := m.Called(ctx, workspaceID, projectID)
	return args.Error(0)
}

func (m *API) RandomAssign(ctx context.Context, workspaceID, projectID, teamID string) (project.RandomAssignResult, error) {
	args := m.Called(ctx, workspaceID, projectID, teamID)
	if v, ok := args.Get(0).(project.RandomAssignResult); ok {
		return v, args.Error(1)
	}
	return project.RandomAssignResult{}, args.Error(1)
}

func (m *API) RandomProject(ctx context.Context, workspaceID, teamID string) (project.Project, error) {
	args := m.Called(ctx, workspaceID, teamID)
	if v, ok := args.Get(0).(project.Project); ok {
		return v, args.Error(1)
	}
	return project.Project{}, args.Error(1)
}

func (m *API) ListUsers(ctx context.Context, workspaceID string, filter user.ListFilter) ([]user.Summary, error) {
	args := m.Called(ctx, workspaceID, filter)
	if v, ok := args.Get(0).([]user.Summary); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) ToggleRecommendation(ctx context.Context, workspaceID, personID string) (user.Recommendation, error) {
	args := m.Called(ctx, workspaceID, personID)
	if v, ok := args.Get(0).(user.Recommendation); ok {
		return v, args.Error(1)
	}
	return user.Recommendation{}, args.Error(1)
}

func (m *API) Recommenders(ctx context.Context, workspaceID, personID string) ([]user.Summary, error) {
	args := m.Called(ctx, workspaceID, personID)
	if v, ok := args.Get(0).([]user.Summary); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) RecommendedPeople(ctx context.Context, workspaceID, teamID string) ([]user.Summary, error) {
	args := m.Called(ctx, workspaceID, teamID)
	if v, ok := args.Get(0).([]user.Summary); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) ListTeams(ctx context.Context, workspaceID string) ([]workspace.Team, error) {
	args := m.Called(ctx, workspaceID)
	if v, ok := args.Get(0).([]workspace.Team); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) CreateTeam(ctx context.Context, workspaceID, name string) (workspace.Team, error) {
	args := m.Called(ctx, workspaceID, name)
	if v, ok := args.Get(0).(workspace.Team); ok {
		return v, args.Error(1)
	}
	return workspace.Team{}, args.Error(1)
}

func (m *API) UpdateTeam(ctx context.Context, workspaceID, teamID string, update workspace.TeamUpdate) (workspace.Team, error) {
	args := m.Called(ctx, workspaceID, teamID, update)
	if v, ok := args.Get(0).(workspace.Team); ok {
		return v, args.Error(1)
	}
	return workspace.Team{}, args.Error(1)
}

func (m *API) ListComments(ctx context.Context, workspaceID, projectID string) ([]comment.Comment, error) {
	args := m.Called(ctx, workspaceID, projectID)
	if v, ok := args.Get(0).([]comment.Comment); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) CreateComment(ctx context.Context, workspaceID, projectID string, req comment.CreateRequest) (comment.Comment, error) {
	args := m.Called(ctx, workspaceID, projectID, req)
	if v, ok := args.Get(0).(comment.Comment); ok {
		return v, args.Error(1)
	}
	return comment.Comment{}, args.Error(1)
}

func (m *API) DeleteComment(ctx context.Context, workspaceID, commentID string) error {
	args := m.Called(ctx, workspaceID, commentID)
	return args.Error(0)
}

func (m *API) ToggleReaction(ctx context.Context, workspaceID, commentID string, reaction comment.ReactionType) (comment.Comment, error) {
	args := m.Called(ctx, workspaceID, commentID, reaction)
	if v, ok := args.Get(0).(comment.Comment); ok {
		return v, args.Error(1)
	}
	return comment.Comment{}, args.Error(1)
}

func (m *API) UploadAttachment(ctx context.Context, fileName, contentType string, data []byte) (comment.Attachment, error) {
	args := m.Called(ctx, fileName, contentType, data)
	if v, ok := args.Get(0).(comment.Attachment); ok {
		return v, args.Error(1)
	}
	return comment.Attachment{}, args.Error(1)
}

func (m *API) ListWorkspaces(ctx context.Context) ([]workspace.Workspace, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]workspace.Workspace); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) CreateWorkspace(ctx context.Context, req workspace.CreateRequest) (workspace.Workspace, error) {
	args := m.Called(ctx, req)
	if v, ok := args.Get(0).(workspace.Workspace); ok {
		return v, args.Error(1)
	}
	return workspace.Workspace{}, args.Error(1)
}

func (m *API) JoinWorkspace(ctx context.Context, token, inviteAnswer string) (workspace.Workspace, error) {
	args := m.Called(ctx, token, inviteAnswer)
	if v, ok := args.Get(0).(workspace.Workspace); ok {
		return v, args.Error(1)
	}
	return workspace.Workspace{}, args.Error(1)
}

func (m *API) ResolveInvite(ctx context.Context, invite string) (workspace.InviteResolution, error) {
	args := m.Called(ctx, invite)
	if v, ok := args.Get(0).(workspace.InviteResolution); ok {
		return v, args.Error(1)
	}
	return workspace.InviteResolution{}, args.Error(1)
}

func (m *API) ListJoinRequests(ctx context.Context, workspaceID string) ([]workspace.JoinRequest, error) {
	args := m.Called(ctx, workspaceID)
	if v, ok := args.Get(0).([]workspace.JoinRequest); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) ApproveJoinRequest(ctx context.Context, workspaceID, requestID string) (workspace.JoinRequest, error) {
	args := m.Called(ctx, workspaceID, requestID)
	if v, ok := args.Get(0).(workspace.JoinRequest); ok {
		return v, args.Error(1)
	}
	return workspace.JoinRequest{}, args.Error(1)
}

func (m *API) DenyJoinRequest(ctx context.Context, workspaceID, requestID string) (workspace.JoinRequest, error) {
	args := m.Called(ctx, workspaceID, requestID)
	if v, ok := args.Get(0).(workspace.JoinRequest); ok {
		return v, args.Error(1)
	}
	return workspace.JoinRequest{}, args.Error(1)
}

func (m *API) UpdateSettings(ctx context.Context, workspaceID string, settings workspace.Settings) (workspace.Workspace, error) {
	args := m.Called(ctx, workspaceID, settings)
	if v, ok := args.Get(0).(workspace.Workspace); ok {
		return v, args.Error(1)
	}
	return workspace.Workspace{}, args.Error(1)
}

func (m *API) EnterDemo(ctx context.Context) (workspace.Workspace, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).(workspace.Workspace); ok {
		return v, args.Error(1)
	}
	return workspace.Workspace{}, args.Error(1)
}

func (m *API) ResetDemo(ctx context.Context, workspaceID string) error {
	args := m.Called(ctx, workspaceID)
	return args.Error(0)
}

func (m *API) DashboardStats(ctx context.Context, workspaceID string, q stats.DashboardQuery) (stats.Dashboard, error) {
	args := m.Called(ctx, workspaceID, q)
	if v, ok := args.Get(0).(stats.Dashboard); ok {
		return v, args.Error(1)
	}
	return stats.Dashboard{}, args.Error(1)
}

func (m *API) UserStats(ctx context.Context, workspaceID, userID string) (stats.User, error) {
	args := m.Called(ctx, workspaceID, userID)
	if v, ok := args.Get(0).(stats.User); ok {
		return v, args.Error(1)
	}
	return stats.User{}, args.Error(1)
}

func (m *API) PeopleOverview(ctx context.Context, workspaceID string) (stats.PeopleOverview, error) {
	args := m.Called(ctx, workspaceID)
	if v, ok := args.Get(0).(stats.PeopleOverview); ok {
		return v, args.Error(1)
	}
	return stats.PeopleOverview{}, args.Error(1)
}

func (m *API) PeopleUserStats(ctx context.Context, workspaceID, userID string) (stats.PeopleUser, error) {
	args := m.Called(ctx, workspaceID, userID)
	if v, ok := args.Get(0).(stats.PeopleUser); ok {
		return v, args.Error(1)
	}
	return stats.PeopleUser{}, args.Error(1)
}
