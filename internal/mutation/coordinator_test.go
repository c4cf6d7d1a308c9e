package mutation_test

import (
	"context"
	"testing"

	"github.com/ganot/pmdash/internal/apperr"
	"github.com/ganot/pmdash/internal/cache"
	"github.com/ganot/pmdash/internal/domain/activity"
	"github.com/ganot/pmdash/internal/domain/project"
	"github.com/ganot/pmdash/internal/domain/user"
	"github.com/ganot/pmdash/internal/domain/workspace"
	"github.com/ganot/pmdash/internal/draft"
	"github.com/ganot/pmdash/internal/mutation"
	"github.com/ganot/pmdash/internal/remote/mocks"
	repomocks "github.com/ganot/pmdash/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	api    *mocks.API
	cache  *cache.Cache
	coord  *mutation.Coordinator
	editor *draft.Editor
	scope  mutation.Scope
}

func newFixture(t *testing.T, projects ...project.Project) *fixture {
	t.Helper()
	api := new(mocks.API)
	api.On("ListUsers", mock.Anything, "ws1", user.ListFilter{}).Return([]user.Summary{{ID: "u1", Team: "Eng"}}, nil).Maybe()
	api.On("ListTeams", mock.Anything, "ws1").Return([]workspace.Team{{ID: "t1", Name: "Eng"}}, nil).Maybe()

	c := cache.New(api, nil)
	if len(projects) > 0 {
		api.On("ListProjects", mock.Anything, "ws1", false).Return(projects, nil).Once()
		require.NoError(t, c.Reload(context.Background(), "ws1"))
	}

	editor := &draft.Editor{}
	return &fixture{
		api:    api,
		cache:  c,
		coord:  mutation.New(api, c, nil, nil),
		editor: editor,
		scope:  mutation.Scope{WorkspaceID: "ws1", UserID: "u1", Selection: editor},
	}
}

func (f *fixture) expectReload(projects ...project.Project) {
	f.api.On("ListProjects", mock.Anything, "ws1", false).Return(projects, nil)
}

func alpha() project.Project {
	return project.Project{ID: "p1", Name: "Alpha", Status: project.StatusInProgress, MemberIDs: []string{"u1"}}
}

func remoteErr(status int) error {
	return &apperr.Error{Status: status}
}

func TestChangeStatus_Success(t *testing.T) {
	f := newFixture(t, alpha())
	done := alpha()
	done.Status = project.StatusCompleted
	f.expectReload(done)

	f.api.On("UpdateProject", mock.Anything, "ws1", "p1", mock.MatchedBy(func(p project.Payload) bool {
		return p.Status == project.StatusCompleted && p.Name == "Alpha" && len(p.MemberIDs) == 1
	})).Run(func(mock.Arguments) {
		require.True(t, f.coord.Pending("p1"))
	}).Return(done, nil).Once()

	res := f.coord.ChangeStatus(context.Background(), f.scope, alpha(), project.StatusCompleted)
	require.True(t, res.OK())
	require.True(t, res.Refreshed)
	require.False(t, f.coord.Pending("p1"))

	p, _ := f.cache.Snapshot().Project("p1")
	require.Equal(t, project.StatusCompleted, p.Status)
	f.api.AssertExpectations(t)
}

func TestChangeStatus_ForbiddenClearsSelection(t *testing.T) {
	f := newFixture(t, alpha())
	f.expectReload(alpha())
	f.editor.Select(alpha())

	f.api.On("UpdateProject", mock.Anything, "ws1", "p1", mock.Anything).Return(project.Project{}, remoteErr(403)).Once()

	res := f.coord.ChangeStatus(context.Background(), f.scope, alpha(), project.StatusCanceled)
	require.False(t, res.OK())
	require.Equal(t, activity.OutcomeFailed, res.Outcome)
	require.Equal(t, "Not allowed", res.Message)
	require.Equal(t, apperr.KindForbidden, res.ErrorKind)
	require.True(t, res.SelectionCleared)
	require.Empty(t, f.editor.Selected())
}

func TestChangeStatus_OtherSelectionKept(t *testing.T) {
	f := newFixture(t, alpha())
	other := alpha()
	other.ID = "p2"
	f.editor.Select(other)

	f.api.On("UpdateProject", mock.Anything, "ws1", "p1", mock.Anything).Return(project.Project{}, remoteErr(404)).Once()
	f.expectReload(alpha())

	res := f.coord.ChangeStatus(context.Background(), f.scope, alpha(), project.StatusCanceled)
	require.Equal(t, "Project not found.", res.Message)
	require.False(t, res.SelectionCleared)
	require.Equal(t, "p2", f.editor.Selected())
}

func TestChangeStatus_ServerErrorNoRefresh(t *testing.T) {
	f := newFixture(t, alpha())
	f.api.On("UpdateProject", mock.Anything, "ws1", "p1", mock.Anything).
		Return(project.Project{}, &apperr.Error{Status: 500, Message: "db down"}).Once()

	res := f.coord.ChangeStatus(context.Background(), f.scope, alpha(), project.StatusCanceled)
	require.Equal(t, "db down", res.Message)
	require.False(t, res.Refreshed)
	f.api.AssertNumberOfCalls(t, "ListProjects", 1)
}

func TestChangeStatus_InvalidInput(t *testing.T) {
	f := newFixture(t)
	res := f.coord.ChangeStatus(context.Background(), f.scope, project.Project{}, project.StatusCompleted)
	require.ErrorIs(t, res.Err, mutation.ErrInvalidInput)

	res = f.coord.ChangeStatus(context.Background(), f.scope, alpha(), project.Status("DONE"))
	require.ErrorIs(t, res.Err, mutation.ErrInvalidInput)
	f.api.AssertNotCalled(t, "UpdateProject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeStatus_SupersededResponseDiscarded(t *testing.T) {
	f := newFixture(t, alpha())
	f.api.On("UpdateProject", mock.Anything, "ws1", "p1", mock.Anything).
		Run(func(mock.Arguments) { f.cache.Begin("p1") }).
		Return(alpha(), nil).Once()

	res := f.coord.ChangeStatus(context.Background(), f.scope, alpha(), project.StatusCompleted)
	require.True(t, res.Superseded)
	require.False(t, res.OK())
	require.False(t, res.Refreshed)
	f.api.AssertNumberOfCalls(t, "ListProjects", 1)
}

func TestArchive_SuccessConfirmsTagWithoutRefresh(t *testing.T) {
	f := newFixture(t, alpha())
	f.api.On("ArchiveProject", mock.Anything, "ws1", "p1").Return(nil).Once()

	res := f.coord.Archive(context.Background(), f.scope, alpha())
	require.True(t, res.OK())
	require.False(t, res.Refreshed)

	state, ok := f.cache.ArchiveTag("p1")
	require.True(t, ok)
	require.Equal(t, cache.TagConfirmed, state)

	snap := f.cache.Snapshot()
	p, _ := snap.Project("p1")
	require.Equal(t, project.FolderArchived, snap.FolderOf(p))
	f.api.AssertNumberOfCalls(t, "ListProjects", 1)
}

func TestArchive_TagVisibleWhileInFlight(t *testing.T) {
	f := newFixture(t, alpha())
	f.api.On("ArchiveProject", mock.Anything, "ws1", "p1").Run(func(mock.Arguments) {
		snap := f.cache.Snapshot()
		p, _ := snap.Project("p1")
		require.Equal(t, project.FolderArchived, snap.FolderOf(p))
	}).Return(nil).Once()

	require.True(t, f.coord.Archive(context.Background(), f.scope, alpha()).OK())
}

func TestArchive_NotFoundRollsBack(t *testing.T) {
	f := newFixture(t, alpha())
	f.editor.Select(alpha())
	f.api.On("ArchiveProject", mock.Anything, "ws1", "p1").Return(remoteErr(404)).Once()

	res := f.coord.Archive(context.Background(), f.scope, alpha())
	require.Equal(t, activity.OutcomeFailed, res.Outcome)
	require.True(t, res.RolledBack)
	require.False(t, res.Refreshed)
	require.Equal(t, "Project not found.", res.Message)
	require.True(t, res.SelectionCleared)

	_, tagged := f.cache.ArchiveTag("p1")
	require.False(t, tagged)
	snap := f.cache.Snapshot()
	p, _ := snap.Project("p1")
	require.Equal(t, project.FolderInProgress, snap.FolderOf(p))
	f.api.AssertNumberOfCalls(t, "ListProjects", 1)
}

func TestArchive_ForbiddenRollsBackKeepsSelection(t *testing.T) {
	f := newFixture(t, alpha())
	f.editor.Select(alpha())
	f.api.On("ArchiveProject", mock.Anything, "ws1", "p1").Return(remoteErr(403)).Once()

	res := f.coord.Archive(context.Background(), f.scope, alpha())
	require.True(t, res.RolledBack)
	require.Equal(t, "Not allowed", res.Message)
	require.False(t, res.SelectionCleared)
	_, tagged := f.cache.ArchiveTag("p1")
	require.False(t, tagged)
}

func TestArchive_SupersededFailureReleasesTag(t *testing.T) {
	f := newFixture(t, alpha())
	done := alpha()
	done.Status = project.StatusCompleted

	f.api.On("UpdateProject", mock.Anything, "ws1", "p1", mock.Anything).Return(done, nil).Once()
	f.expectReload(done)
	f.api.On("ArchiveProject", mock.Anything, "ws1", "p1").Run(func(mock.Arguments) {
		res := f.coord.ChangeStatus(context.Background(), f.scope, alpha(), project.StatusCompleted)
		require.True(t, res.OK())
	}).Return(remoteErr(403)).Once()

	res := f.coord.Archive(context.Background(), f.scope, alpha())
	require.True(t, res.Superseded)
	require.True(t, res.RolledBack)

	require.NoError(t, f.cache.Reload(context.Background(), "ws1"))
	_, tagged := f.cache.ArchiveTag("p1")
	require.False(t, tagged)
	snap := f.cache.Snapshot()
	p, _ := snap.Project("p1")
	require.Equal(t, project.FolderCompleted, snap.FolderOf(p))
}

func TestArchive_SupersededSuccessClearedByReload(t *testing.T) {
	f := newFixture(t, alpha())
	archived := alpha()
	archived.Status = project.StatusArchived

	f.api.On("ArchiveProject", mock.Anything, "ws1", "p1").Run(func(mock.Arguments) {
		f.cache.Begin("p1")
	}).Return(nil).Once()

	res := f.coord.Archive(context.Background(), f.scope, alpha())
	require.True(t, res.Superseded)
	state, ok := f.cache.ArchiveTag("p1")
	require.True(t, ok)
	require.Equal(t, cache.TagConfirmed, state)

	f.expectReload(archived)
	require.NoError(t, f.cache.Reload(context.Background(), "ws1"))
	_, ok = f.cache.ArchiveTag("p1")
	require.False(t, ok)
}

func TestArchive_OverlappingArchivesKeepNewestTag(t *testing.T) {
	f := newFixture(t, alpha())
	f.api.On("ArchiveProject", mock.Anything, "ws1", "p1").Run(func(mock.Arguments) {
		require.True(t, f.coord.Archive(context.Background(), f.scope, alpha()).OK())
	}).Return(remoteErr(500)).Once()
	f.api.On("ArchiveProject", mock.Anything, "ws1", "p1").Return(nil).Once()

	res := f.coord.Archive(context.Background(), f.scope, alpha())
	require.True(t, res.Superseded)
	require.False(t, res.RolledBack)
	state, ok := f.cache.ArchiveTag("p1")
	require.True(t, ok)
	require.Equal(t, cache.TagConfirmed, state)
}

func TestArchiveRestore_RoundTrip(t *testing.T) {
	f := newFixture(t, alpha())
	f.api.On("ArchiveProject", mock.Anything, "ws1", "p1").Return(nil).Once()
	require.True(t, f.coord.Archive(context.Background(), f.scope, alpha()).OK())

	restored := alpha()
	restored.Status = project.StatusNotStarted
	restored.MemberIDs = []string{}
	f.api.On("RestoreProject", mock.Anything, "ws1", "p1").Return(nil).Once()
	f.api.On("UpdateProject", mock.Anything, "ws1", "p1", mock.MatchedBy(func(p project.Payload) bool {
		return p.Status == project.StatusNotStarted && len(p.MemberIDs) == 0 && p.MemberIDs != nil
	})).Return(restored, nil).Once()
	f.expectReload(restored)

	res := f.coord.Restore(context.Background(), f.scope, alpha())
	require.True(t, res.OK())
	require.True(t, res.Refreshed)

	_, tagged := f.cache.ArchiveTag("p1")
	require.False(t, tagged)
	snap := f.cache.Snapshot()
	p, _ := snap.Project("p1")
	require.Equal(t, project.FolderNotStarted, snap.FolderOf(p))
}

func TestRestore_UpdateFailureKeepsTag(t *testing.T) {
	f := newFixture(t, alpha())
	f.cache.MarkArchived("p1", f.cache.Begin("p1"))
	f.api.On("RestoreProject", mock.Anything, "ws1", "p1").Return(nil).Once()
	f.api.On("UpdateProject", mock.Anything, "ws1", "p1", mock.Anything).Return(project.Project{}, remoteErr(403)).Once()

	res := f.coord.Restore(context.Background(), f.scope, alpha())
	require.Equal(t, "Not allowed", res.Message)
	_, tagged := f.cache.ArchiveTag("p1")
	require.True(t, tagged)
}

func TestDelete(t *testing.T) {
	t.Run("requires confirmation", func(t *testing.T) {
		f := newFixture(t, alpha())
		res := f.coord.Delete(context.Background(), f.scope, alpha(), false)
		require.ErrorIs(t, res.Err, mutation.ErrConfirmationRequired)
		f.api.AssertNotCalled(t, "DeleteProject", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success clears tag and selection", func(t *testing.T) {
		f := newFixture(t, alpha())
		f.cache.MarkArchived("p1", f.cache.Begin("p1"))
		f.editor.Select(alpha())
		f.api.On("DeleteProject", mock.Anything, "ws1", "p1").Return(nil).Once()
		f.expectReload()

		res := f.coord.Delete(context.Background(), f.scope, alpha(), true)
		require.True(t, res.OK())
		require.True(t, res.Refreshed)
		require.True(t, res.SelectionCleared)
		_, tagged := f.cache.ArchiveTag("p1")
		require.False(t, tagged)
		require.Empty(t, f.cache.Snapshot().Projects)
	})

	t.Run("forbidden only surfaces a message", func(t *testing.T) {
		f := newFixture(t, alpha())
		f.editor.Select(alpha())
		f.api.On("DeleteProject", mock.Anything, "ws1", "p1").Return(remoteErr(403)).Once()

		res := f.coord.Delete(context.Background(), f.scope, alpha(), true)
		require.Equal(t, "Not allowed", res.Message)
		require.False(t, res.RolledBack)
		require.False(t, res.SelectionCleared)
		require.Len(t, f.cache.Snapshot().Projects, 1)
	})
}

func TestSaveDraft(t *testing.T) {
	f := newFixture(t, alpha())
	f.editor.Select(alpha())
	require.NoError(t, f.editor.Edit(func(d *draft.Draft) { d.Name = "Renamed" }))
	d, _ := f.editor.Draft()

	saved := alpha()
	saved.Name = "Renamed"
	f.api.On("UpdateProject", mock.Anything, "ws1", "p1", d.Payload("")).Return(saved, nil).Once()
	f.expectReload(saved)

	res := f.coord.SaveDraft(context.Background(), f.scope, "p1", d.Payload(""))
	require.True(t, res.OK())
	require.Equal(t, "Renamed", res.Project.Name)
}

func TestRandomAssign(t *testing.T) {
	t.Run("conflict is a notice", func(t *testing.T) {
		f := newFixture(t, alpha())
		f.api.On("RandomAssign", mock.Anything, "ws1", "p1", "t1").Return(project.RandomAssignResult{}, remoteErr(409)).Once()

		res := f.coord.RandomAssign(context.Background(), f.scope, alpha(), false, "t1")
		require.Equal(t, activity.OutcomeNotice, res.Outcome)
		require.Equal(t, "No eligible people", res.Message)
		require.Nil(t, res.Err)
	})

	t.Run("conflict keeps a specific backend message", func(t *testing.T) {
		f := newFixture(t, alpha())
		f.api.On("RandomAssign", mock.Anything, "ws1", "p1", "").
			Return(project.RandomAssignResult{}, &apperr.Error{Status: 409, Message: "Everyone is busy"}).Once()

		res := f.coord.RandomAssign(context.Background(), f.scope, alpha(), false, "")
		require.Equal(t, "Everyone is busy", res.Message)
	})

	t.Run("archived project is refused", func(t *testing.T) {
		f := newFixture(t, alpha())
		res := f.coord.RandomAssign(context.Background(), f.scope, alpha(), true, "")
		require.ErrorIs(t, res.Err, mutation.ErrArchived)
	})

	t.Run("success", func(t *testing.T) {
		f := newFixture(t, alpha())
		f.api.On("RandomAssign", mock.Anything, "ws1", "p1", "").
			Return(project.RandomAssignResult{Project: alpha(), AssignedUserID: "u9", AssignedName: "Zoe"}, nil).Once()
		f.expectReload(alpha())

		res := f.coord.RandomAssign(context.Background(), f.scope, alpha(), false, "")
		require.True(t, res.OK())
		require.Equal(t, "Assigned Zoe", res.Message)
		require.Equal(t, "u9", res.AssignedUserID)
	})
}

func TestRandomProject_Conflict(t *testing.T) {
	f := newFixture(t)
	f.api.On("RandomProject", mock.Anything, "ws1", "").Return(project.Project{}, remoteErr(409)).Once()

	res := f.coord.RandomProject(context.Background(), f.scope, "")
	require.Equal(t, activity.OutcomeNotice, res.Outcome)
	require.Equal(t, "No eligible project", res.Message)
}

func TestToggleRecommendation(t *testing.T) {
	f := newFixture(t, alpha())
	f.api.On("ToggleRecommendation", mock.Anything, "ws1", "u1").
		Return(user.Recommendation{RecommendedCount: 3, RecommendedByMe: true}, nil).Once()

	res := f.coord.ToggleRecommendation(context.Background(), f.scope, "u1")
	require.True(t, res.OK())

	u, ok := f.cache.Snapshot().User("u1")
	require.True(t, ok)
	require.Equal(t, 3, u.RecommendedCount)
	require.True(t, u.RecommendedByMe)
}

func TestCoordinator_Journal(t *testing.T) {
	api := new(mocks.API)
	c := cache.New(api, nil)
	repo := new(repomocks.ActivityRepository)
	journal := activity.NewService(repo, nil)
	coord := mutation.New(api, c, journal, nil)
	scope := mutation.Scope{WorkspaceID: "ws1", UserID: "u1"}

	api.On("ArchiveProject", mock.Anything, "ws1", "p1").Return(&apperr.Error{Status: 403, RequestID: "req-1"}).Once()
	repo.On("Log", mock.Anything, "ws1", mock.MatchedBy(func(e *activity.Entry) bool {
		return e.Kind == activity.KindArchived &&
			e.Outcome == activity.OutcomeFailed &&
			e.ProjectID != nil && *e.ProjectID == "p1" &&
			e.ErrorKind == string(apperr.KindForbidden) &&
			e.RequestID == "req-1" &&
			e.Summary == "Not allowed"
	})).Return(nil).Once()

	res := coord.Archive(context.Background(), scope, alpha())
	require.True(t, res.RolledBack)
	repo.AssertExpectations(t)
}
