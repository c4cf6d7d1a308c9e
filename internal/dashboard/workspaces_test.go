package dashboard_test

import (
	"context"
	"testing"

	"github.com/ganot/pmdash/internal/apperr"
	"github.com/ganot/pmdash/internal/dashboard"
	"github.com/ganot/pmdash/internal/domain/session"
	"github.com/ganot/pmdash/internal/domain/stats"
	"github.com/ganot/pmdash/internal/domain/user"
	"github.com/ganot/pmdash/internal/domain/workspace"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateWorkspace_SelectsIt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.login(t)

	_, err := f.service.CreateWorkspace(ctx, workspace.CreateRequest{Name: "  "})
	require.ErrorIs(t, err, workspace.ErrNameRequired)

	f.api.On("CreateWorkspace", mock.Anything, workspace.CreateRequest{Name: "Side"}).
		Return(workspace.Workspace{ID: "ws2", Name: "Side"}, nil).Once()
	f.api.On("ListProjects", mock.Anything, "ws2", false).Return(projects[:1], nil).Once()
	f.api.On("ListUsers", mock.Anything, "ws2", user.ListFilter{}).Return(people, nil).Once()
	f.api.On("ListTeams", mock.Anything, "ws2").Return(teams, nil).Once()

	ws, err := f.service.CreateWorkspace(ctx, workspace.CreateRequest{Name: " Side "})
	require.NoError(t, err)
	require.Equal(t, "ws2", ws.ID)
	require.Equal(t, "ws2", f.store.WorkspaceID())

	view, err := f.service.Dashboard()
	require.NoError(t, err)
	require.Len(t, view.Groups, 1)
}

func TestJoinWorkspace_PendingLeavesNoWorkspace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.login(t)

	_, err := f.service.JoinWorkspace(ctx, " ", "")
	require.ErrorIs(t, err, workspace.ErrTokenRequired)

	f.api.On("JoinWorkspace", mock.Anything, "tok-1", "because").
		Return(workspace.Workspace{ID: "ws9", Status: "PENDING"}, nil).Once()

	ws, err := f.service.JoinWorkspace(ctx, "tok-1", " because ")
	require.NoError(t, err)
	require.Equal(t, "ws9", ws.ID)
	require.Empty(t, f.store.WorkspaceID())

	_, err = f.service.Dashboard()
	require.ErrorIs(t, err, dashboard.ErrNotLoaded)
	require.ErrorIs(t, f.service.Refresh(ctx), session.ErrNoWorkspace)
}

func TestDecideJoinRequest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.login(t)

	f.api.On("DenyJoinRequest", mock.Anything, "ws1", "r1").
		Return(workspace.JoinRequest{ID: "r1", Status: workspace.JoinDenied}, nil).Once()
	req, err := f.service.DecideJoinRequest(ctx, "r1", false)
	require.NoError(t, err)
	require.Equal(t, workspace.JoinDenied, req.Status)

	f.api.On("ApproveJoinRequest", mock.Anything, "ws1", "r2").
		Return(workspace.JoinRequest{ID: "r2", Status: workspace.JoinApproved}, nil).Once()
	req, err = f.service.DecideJoinRequest(ctx, "r2", true)
	require.NoError(t, err)
	require.Equal(t, workspace.JoinApproved, req.Status)
	f.api.AssertNumberOfCalls(t, "ListProjects", 2)
}

func TestResetDemo_RequiresDemoWorkspace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.login(t)

	f.api.On("ListWorkspaces", mock.Anything).Return([]workspace.Workspace{{ID: "ws1"}}, nil).Once()
	require.ErrorIs(t, f.service.ResetDemo(ctx), workspace.ErrNotDemo)

	f.api.On("ListWorkspaces", mock.Anything).Return([]workspace.Workspace{{ID: "ws1", Demo: true}}, nil).Once()
	f.api.On("ResetDemo", mock.Anything, "ws1").Return(nil).Once()
	require.NoError(t, f.service.ResetDemo(ctx))
	f.api.AssertExpectations(t)
}

func TestCreateTeam_ReloadFailureStillReturnsTeam(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.login(t)

	f.api.On("CreateTeam", mock.Anything, "ws1", "Ops").Return(workspace.Team{ID: "t3", Name: "Ops"}, nil).Once()
	f.api.ExpectedCalls = removeCalls(f.api.ExpectedCalls, "ListProjects")
	f.api.On("ListProjects", mock.Anything, "ws1", false).Return(nil, &apperr.Error{Status: 503})

	team, err := f.service.CreateTeam(ctx, " Ops ")
	require.NoError(t, err)
	require.Equal(t, "t3", team.ID)

	view, err := f.service.Dashboard()
	require.NoError(t, err)
	require.NotEmpty(t, view.Error)
}

func TestUpdateTeam_RejectsBlankName(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	blank := " "
	_, err := f.service.UpdateTeam(context.Background(), "t1", workspace.TeamUpdate{Name: &blank})
	require.ErrorIs(t, err, workspace.ErrNameRequired)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.service.UpdateProfile(ctx, user.ProfileUpdate{Email: "a@x", FirstName: "A", LastName: "B"})
	require.ErrorIs(t, err, session.ErrNotAuthenticated)

	f.login(t)
	_, err = f.service.UpdateProfile(ctx, user.ProfileUpdate{Email: "a@x", FirstName: " ", LastName: "B"})
	require.ErrorIs(t, err, user.ErrInvalidInput)

	f.api.On("UpdateProfile", mock.Anything, user.ProfileUpdate{Email: "a@x", FirstName: "Ana", LastName: "Lee", Team: "Design"}).
		Return(user.User{ID: "u1", DisplayName: "Ana Lee", Team: "Design"}, nil).Once()
	me, err := f.service.UpdateProfile(ctx, user.ProfileUpdate{Email: " a@x", FirstName: "Ana", LastName: "Lee ", Team: " Design"})
	require.NoError(t, err)
	require.Equal(t, "Ana Lee", me.DisplayName)

	stored, ok := f.store.User()
	require.True(t, ok)
	require.Equal(t, "Design", stored.Team)
}

func TestRegister_ValidatesLocally(t *testing.T) {
	f := newFixture(t)
	err := f.service.Register(context.Background(), user.RegisterRequest{
		Email: "a@x", FirstName: "A", LastName: "B", Password: "one", ConfirmPassword: "two",
	})
	require.ErrorIs(t, err, user.ErrPasswordMismatch)
	f.api.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRecommendedPeople_DropsAdmins(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	f.api.On("RecommendedPeople", mock.Anything, "ws1", "").Return(people, nil).Once()
	out, err := f.service.RecommendedPeople(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, out, 3)
	for _, p := range out {
		require.NotEqual(t, "u4", p.ID)
	}
}

func TestWorkspaceStats_UsesCurrentScope(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.login(t)
	f.service.SetAssignedToMe(ctx, true)

	f.api.On("DashboardStats", mock.Anything, "ws1", stats.DashboardQuery{Teams: []string{"Design", "Eng"}, AssignedToMe: true}).
		Return(stats.Dashboard{Counters: stats.DashboardCounters{Assigned: 1}}, nil).Once()

	out, err := f.service.WorkspaceStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, out.Counters.Assigned)
}

func removeCalls(calls []*mock.Call, method string) []*mock.Call {
	out := calls[:0]
	for _, c := range calls {
		if c.Method != method {
			out = append(out, c)
		}
	}
	return out
}
