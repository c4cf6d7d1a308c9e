package cache_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ganot/pmdash/internal/cache"
	"github.com/ganot/pmdash/internal/domain/project"
	"github.com/ganot/pmdash/internal/domain/user"
	"github.com/ganot/pmdash/internal/domain/workspace"
	"github.com/ganot/pmdash/internal/remote/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func seedLoader(projects []project.Project, users []user.Summary, teams []workspace.Team) *mocks.API {
	api := new(mocks.API)
	api.On("ListProjects", mock.Anything, "ws1", false).Return(projects, nil)
	api.On("ListUsers", mock.Anything, "ws1", user.ListFilter{}).Return(users, nil)
	api.On("ListTeams", mock.Anything, "ws1").Return(teams, nil)
	return api
}

func TestCache_Reload(t *testing.T) {
	ctx := context.Background()
	api := seedLoader(
		[]project.Project{{ID: "p1", Name: "Alpha", Status: project.StatusInProgress, MemberIDs: []string{"u1"}}},
		[]user.Summary{{ID: "u1", DisplayName: "Ana", Team: "Eng"}},
		[]workspace.Team{{ID: "t1", Name: "Eng"}},
	)
	c := cache.New(api, nil)
	require.False(t, c.Loaded())

	require.NoError(t, c.Reload(ctx, "ws1"))
	require.True(t, c.Loaded())

	snap := c.Snapshot()
	require.Equal(t, "ws1", snap.WorkspaceID)
	require.Len(t, snap.Projects, 1)
	require.Len(t, snap.Users, 1)
	require.Len(t, snap.Teams, 1)

	p, ok := snap.Project("p1")
	require.True(t, ok)
	require.Equal(t, "Alpha", p.Name)
	_, ok = snap.User("missing")
	require.False(t, ok)

	api.AssertExpectations(t)
}

func TestCache_Reload_NoWorkspace(t *testing.T) {
	c := cache.New(new(mocks.API), nil)
	require.ErrorIs(t, c.Reload(context.Background(), ""), cache.ErrNoWorkspace)
}

func TestCache_Reload_FailureKeepsPreviousData(t *testing.T) {
	ctx := context.Background()
	api := new(mocks.API)
	api.On("ListProjects", mock.Anything, "ws1", false).
		Return([]project.Project{{ID: "p1", Name: "Alpha"}}, nil).Once()
	api.On("ListUsers", mock.Anything, "ws1", user.ListFilter{}).Return([]user.Summary{{ID: "u1"}}, nil)
	api.On("ListTeams", mock.Anything, "ws1").Return([]workspace.Team{}, nil)

	c := cache.New(api, nil)
	require.NoError(t, c.Reload(ctx, "ws1"))
	before := c.Snapshot()

	boom := errors.New("boom")
	api.On("ListProjects", mock.Anything, "ws1", false).Return(nil, boom)

	err := c.Reload(ctx, "ws1")
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, c.LastError(), boom)

	after := c.Snapshot()
	require.Equal(t, before.Projects, after.Projects)
	require.Equal(t, before.Version, after.Version)
}

func TestCache_SnapshotIsDeepCopy(t *testing.T) {
	api := seedLoader(
		[]project.Project{{ID: "p1", MemberIDs: []string{"u1"}}},
		nil, nil,
	)
	c := cache.New(api, nil)
	require.NoError(t, c.Reload(context.Background(), "ws1"))

	snap := c.Snapshot()
	snap.Projects[0].MemberIDs[0] = "changed"
	snap.Projects[0].Name = "changed"

	fresh := c.Snapshot()
	require.Equal(t, []string{"u1"}, fresh.Projects[0].MemberIDs)
	require.Empty(t, fresh.Projects[0].Name)
}

func TestCache_ArchiveTags(t *testing.T) {
	api := seedLoader(
		[]project.Project{
			{ID: "p1", Status: project.StatusInProgress},
			{ID: "p2", Status: project.StatusCompleted},
		},
		nil, nil,
	)
	c := cache.New(api, nil)
	require.NoError(t, c.Reload(context.Background(), "ws1"))

	token := c.Begin("p1")
	c.MarkArchived("p1", token)
	snap := c.Snapshot()
	p1, _ := snap.Project("p1")
	require.Equal(t, project.FolderArchived, snap.FolderOf(p1))

	state, ok := c.ArchiveTag("p1")
	require.True(t, ok)
	require.Equal(t, cache.TagPending, state)

	c.ClearArchived("p1")
	snap = c.Snapshot()
	p1, _ = snap.Project("p1")
	require.Equal(t, project.FolderInProgress, snap.FolderOf(p1))
}

func TestCache_ReloadClearsConfirmedTagsOnly(t *testing.T) {
	api := seedLoader(
		[]project.Project{{ID: "p1"}, {ID: "p2"}},
		nil, nil,
	)
	c := cache.New(api, nil)
	require.NoError(t, c.Reload(context.Background(), "ws1"))

	first := c.Begin("p1")
	c.MarkArchived("p1", first)
	c.ConfirmArchived("p1", first)
	c.MarkArchived("p2", c.Begin("p2"))

	require.NoError(t, c.Reload(context.Background(), "ws1"))

	_, ok := c.ArchiveTag("p1")
	require.False(t, ok)
	state, ok := c.ArchiveTag("p2")
	require.True(t, ok)
	require.Equal(t, cache.TagPending, state)
}

func TestCache_ConfirmWithoutTagIsNoop(t *testing.T) {
	c := cache.New(new(mocks.API), nil)
	c.ConfirmArchived("p1", c.Begin("p1"))
	_, ok := c.ArchiveTag("p1")
	require.False(t, ok)
}

func TestCache_ArchiveTagOwnedByToken(t *testing.T) {
	c := cache.New(new(mocks.API), nil)

	older := c.Begin("p1")
	c.MarkArchived("p1", older)
	newer := c.Begin("p1")
	c.MarkArchived("p1", newer)

	c.ConfirmArchived("p1", older)
	require.False(t, c.ReleaseArchived("p1", older))
	state, ok := c.ArchiveTag("p1")
	require.True(t, ok)
	require.Equal(t, cache.TagPending, state)

	require.True(t, c.ReleaseArchived("p1", newer))
	_, ok = c.ArchiveTag("p1")
	require.False(t, ok)
}

func TestCache_TokensUniqueAcrossReset(t *testing.T) {
	c := cache.New(new(mocks.API), nil)
	before := c.Begin("p1")
	c.Reset()
	after := c.Begin("p1")

	require.NotEqual(t, before, after)
	require.False(t, c.IsLatest("p1", before))
}

func TestCache_SequenceTokens(t *testing.T) {
	c := cache.New(new(mocks.API), nil)

	first := c.Begin("p1")
	second := c.Begin("p1")
	other := c.Begin("p2")

	require.False(t, c.IsLatest("p1", first))
	require.True(t, c.IsLatest("p1", second))
	require.True(t, c.IsLatest("p2", other))
}

func TestCache_RecommendationOverrides(t *testing.T) {
	api := seedLoader(nil, []user.Summary{{ID: "u1", RecommendedCount: 1}}, nil)
	c := cache.New(api, nil)
	require.NoError(t, c.Reload(context.Background(), "ws1"))

	c.ApplyRecommendation(user.Recommendation{PersonID: "u1", RecommendedCount: 2, RecommendedByMe: true})
	u, ok := c.Snapshot().User("u1")
	require.True(t, ok)
	require.Equal(t, 2, u.RecommendedCount)
	require.True(t, u.RecommendedByMe)

	require.NoError(t, c.Reload(context.Background(), "ws1"))
	u, _ = c.Snapshot().User("u1")
	require.Equal(t, 1, u.RecommendedCount)
	require.False(t, u.RecommendedByMe)
}

func TestCache_Reset(t *testing.T) {
	api := seedLoader([]project.Project{{ID: "p1"}}, nil, nil)
	c := cache.New(api, nil)
	require.NoError(t, c.Reload(context.Background(), "ws1"))
	c.MarkArchived("p1", c.Begin("p1"))

	c.Reset()
	require.False(t, c.Loaded())
	snap := c.Snapshot()
	require.Empty(t, snap.Projects)
	require.Empty(t, snap.Archived)
}
