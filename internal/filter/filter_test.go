package filter_test

import (
	"testing"

	"github.com/ganot/pmdash/internal/cache"
	"github.com/ganot/pmdash/internal/domain/project"
	"github.com/ganot/pmdash/internal/domain/user"
	"github.com/ganot/pmdash/internal/domain/workspace"
	"github.com/ganot/pmdash/internal/filter"
	"github.com/stretchr/testify/require"
)

func ids(projects []project.Project) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.ID)
	}
	return out
}

func sampleSnapshot() cache.Snapshot {
	return cache.Snapshot{
		Projects: []project.Project{
			{ID: "p1", Name: "Alpha", Status: project.StatusInProgress, MemberIDs: []string{"u1", "u2"}},
			{ID: "p2", Name: "Beta", Status: project.StatusCompleted, MemberIDs: []string{"u3"}},
			{ID: "p3", Name: "Gamma", Status: project.StatusNotStarted, MemberIDs: []string{}},
			{ID: "p4", Name: "alphabet soup", Status: project.StatusCanceled, MemberIDs: []string{"u1"}},
		},
		Users: []user.Summary{
			{ID: "u1", DisplayName: "Ana", Team: "Eng"},
			{ID: "u2", DisplayName: "Bo", Team: " eng "},
			{ID: "u3", DisplayName: "Cy", Team: "Design"},
		},
		Archived: map[string]bool{},
	}
}

func TestComputeVisible_SpecScenario(t *testing.T) {
	snap := cache.Snapshot{
		Projects: []project.Project{{ID: "1", Status: project.StatusInProgress, MemberIDs: []string{"u1", "u2"}}},
		Users: []user.Summary{
			{ID: "u1", Team: "Eng"},
			{ID: "u2", Team: "Eng"},
			{ID: "u3", Team: "Ops"},
		},
	}
	c := filter.Criteria{Selection: filter.NewSelection(
		filter.StatusKey(project.FolderInProgress),
		filter.TeamKey("Eng"),
	)}
	require.Equal(t, []string{"1"}, ids(filter.ComputeVisible(snap, c)))
}

func TestComputeVisible_EmptyStatusSelectionShowsNothing(t *testing.T) {
	snap := sampleSnapshot()
	c := filter.Criteria{Selection: filter.NewSelection(filter.TeamKey("Eng"), filter.TeamKey("Design"))}
	require.Empty(t, filter.ComputeVisible(snap, c))
	require.Empty(t, filter.Grouped(snap, c))
}

func TestComputeVisible_TeamDimension(t *testing.T) {
	snap := sampleSnapshot()
	allFolders := filter.SeedSelection(nil).Keys()

	t.Run("teams known but none selected", func(t *testing.T) {
		c := filter.Criteria{Selection: filter.NewSelection(allFolders...)}
		require.Empty(t, filter.ComputeVisible(snap, c))
	})

	t.Run("no teams known is a vacuous pass", func(t *testing.T) {
		bare := snap
		bare.Users = nil
		c := filter.Criteria{Selection: filter.NewSelection(allFolders...)}
		require.Len(t, filter.ComputeVisible(bare, c), 4)
	})

	t.Run("single team", func(t *testing.T) {
		c := filter.Criteria{Selection: filter.NewSelection(append(allFolders, filter.TeamKey("design"))...)}
		require.Equal(t, []string{"p2"}, ids(filter.ComputeVisible(snap, c)))
	})

	t.Run("all teams selected keeps memberless projects", func(t *testing.T) {
		c := filter.Criteria{Selection: filter.SeedSelection(filter.AvailableTeams(snap.Users))}
		require.Equal(t, []string{"p1", "p2", "p3", "p4"}, ids(filter.ComputeVisible(snap, c)))
	})
}

func TestComputeVisible_UnassignedFlag(t *testing.T) {
	snap := sampleSnapshot()

	c := filter.Criteria{Selection: filter.NewSelection(filter.UnassignedKey, filter.TeamKey("Design"), filter.TeamKey("Eng"))}
	require.Equal(t, []string{"p3"}, ids(filter.ComputeVisible(snap, c)))

	c.Selection = filter.NewSelection(filter.UnassignedKey, filter.StatusKey(project.FolderCompleted), filter.TeamKey("Design"), filter.TeamKey("Eng"))
	require.Empty(t, filter.ComputeVisible(snap, c))
}

func TestComputeVisible_SearchAndAssignedToMe(t *testing.T) {
	snap := sampleSnapshot()
	base := filter.SeedSelection(filter.AvailableTeams(snap.Users))

	c := filter.Criteria{Selection: base, Search: "  ALPHA "}
	require.Equal(t, []string{"p1", "p4"}, ids(filter.ComputeVisible(snap, c)))

	c = filter.Criteria{Selection: base, AssignedToMeOnly: true, CurrentUserID: "u1"}
	require.Equal(t, []string{"p1", "p4"}, ids(filter.ComputeVisible(snap, c)))

	c.CurrentUserID = ""
	require.Empty(t, filter.ComputeVisible(snap, c))
}

func TestComputeVisible_Idempotent(t *testing.T) {
	snap := sampleSnapshot()
	c := filter.Criteria{Selection: filter.SeedSelection(filter.AvailableTeams(snap.Users)), Search: "a"}
	require.Equal(t, filter.Grouped(snap, c), filter.Grouped(snap, c))
}

func TestGroupByFolder(t *testing.T) {
	snap := sampleSnapshot()
	snap.Archived = map[string]bool{"p1": true}
	c := filter.Criteria{Selection: filter.SeedSelection(filter.AvailableTeams(snap.Users))}

	groups := filter.Grouped(snap, c)
	var keys []project.FolderKey
	for _, g := range groups {
		keys = append(keys, g.Folder.Key)
		require.NotEmpty(t, g.Projects)
	}
	require.Equal(t, []project.FolderKey{
		project.FolderNotStarted,
		project.FolderCompleted,
		project.FolderCanceled,
		project.FolderArchived,
	}, keys)
	require.Equal(t, "p1", groups[3].Projects[0].ID)

	c.Selection = c.Selection.Toggle(filter.StatusKey(project.FolderArchived))
	require.NotContains(t, ids(filter.ComputeVisible(snap, c)), "p1")
}

func TestStillVisible(t *testing.T) {
	snap := sampleSnapshot()
	c := filter.Criteria{Selection: filter.SeedSelection(filter.AvailableTeams(snap.Users))}

	require.True(t, filter.StillVisible(snap, c, "p2"))
	require.True(t, filter.StillVisible(snap, c, ""))
	require.True(t, filter.StillVisible(snap, c, "missing"))

	c.Selection = c.Selection.Toggle(filter.StatusKey(project.FolderCompleted))
	require.False(t, filter.StillVisible(snap, c, "p2"))
}

func TestSelection(t *testing.T) {
	s := filter.NewSelection("status:IN_PROGRESS", " ", "team:Eng")
	require.Equal(t, 2, s.Len())
	require.True(t, s.Has("team:Eng"))

	toggled := s.Toggle("team:Eng")
	require.False(t, toggled.Has("team:Eng"))
	require.True(t, s.Has("team:Eng"))

	require.Equal(t, map[project.FolderKey]bool{project.FolderInProgress: true}, s.Folders())
	require.Equal(t, map[string]bool{"eng": true}, s.Teams(true))
	require.Equal(t, map[string]bool{"Eng": true}, s.Teams(false))
}

func TestSelection_IsActive(t *testing.T) {
	teams := []string{"Design", "Eng"}
	defaults := filter.DefaultSelection(teams)

	require.False(t, filter.NewSelection().IsActive(defaults))
	require.False(t, filter.NewSelection(defaults.Keys()...).IsActive(defaults))
	require.True(t, filter.SeedSelection(teams).IsActive(defaults))
	require.True(t, defaults.Toggle(filter.TeamKey("Eng")).IsActive(defaults))
}

func TestAvailableTeams(t *testing.T) {
	users := []user.Summary{
		{ID: "u1", Team: "Eng"},
		{ID: "u2", Team: " eng"},
		{ID: "u3", Team: "Design"},
		{ID: "u4"},
	}
	require.Equal(t, []string{"Design", "Eng"}, filter.AvailableTeams(users))
}

func TestSeeder(t *testing.T) {
	var s filter.Seeder
	teams := []string{"Eng"}

	sel, seeded := s.Seed(filter.NewSelection(), teams)
	require.True(t, seeded)
	require.True(t, sel.Has(filter.TeamKey("Eng")))
	require.True(t, sel.Has(filter.StatusKey(project.FolderArchived)))
	require.False(t, sel.Has(filter.UnassignedKey))

	sel, seeded = s.Seed(filter.NewSelection(), []string{"Eng", "Ops"})
	require.False(t, seeded)
	require.True(t, sel.Empty())

	s.Reset()
	explicit := filter.NewSelection(filter.StatusKey(project.FolderCompleted))
	sel, seeded = s.Seed(explicit, teams)
	require.False(t, seeded)
	require.True(t, sel.Equal(explicit))
	require.True(t, s.Seeded())
}

func TestCandidates(t *testing.T) {
	users := []user.Summary{
		{ID: "u1", DisplayName: "Zed", TeamID: "t1", ActiveProjectCount: 0},
		{ID: "u2", DisplayName: "amy", TeamID: "t1", ActiveProjectCount: 2},
		{ID: "u3", DisplayName: "Bea", TeamID: "t2", ActiveProjectCount: 0, RecommendedCount: 1},
		{ID: "u4", DisplayName: "Root", Team: "Admin", ActiveProjectCount: 0},
		{ID: "u5", DisplayName: "Boss", IsAdmin: true},
		{ID: "u6", DisplayName: "Cal", TeamID: "t2", ActiveProjectCount: 1, Email: "cal@x"},
	}
	teams := []workspace.Team{{ID: "t1", Name: "Eng"}, {ID: "t2", Name: "Design"}}

	got := filter.Candidates(users, teams, filter.CandidateQuery{})
	require.Len(t, got, 4)
	require.Equal(t, "Bea", got[0].DisplayName)
	require.True(t, got[0].LeastLoaded)
	require.Equal(t, "Zed", got[1].DisplayName)
	require.True(t, got[1].LeastLoaded)
	require.Equal(t, "amy", got[2].DisplayName)
	require.False(t, got[2].LeastLoaded)
	require.Equal(t, "Cal", got[3].DisplayName)

	got = filter.Candidates(users, teams, filter.CandidateQuery{Query: "design"})
	require.Len(t, got, 2)

	got = filter.Candidates(users, teams, filter.CandidateQuery{Query: "CAL@"})
	require.Len(t, got, 1)
	require.True(t, got[0].LeastLoaded)

	got = filter.Candidates(users, teams, filter.CandidateQuery{RecommendedOnly: true})
	require.Len(t, got, 1)
	require.Equal(t, "u3", got[0].ID)

	got = filter.Candidates(users, teams, filter.CandidateQuery{TeamIDs: map[string]bool{"t1": true}, Exclude: []string{"u1"}})
	require.Len(t, got, 1)
	require.Equal(t, "u2", got[0].ID)

	require.Empty(t, filter.Candidates(users, teams, filter.CandidateQuery{Query: "nobody"}))
}

func TestPeopleCriteria(t *testing.T) {
	teams := []workspace.Team{{ID: "t1"}, {ID: "t2"}}

	q := filter.PeopleCriteria(filter.NewSelection(), teams, "x")
	require.Nil(t, q.TeamIDs)
	require.Equal(t, "x", q.Query)

	q = filter.PeopleCriteria(filter.PeopleDefaults(teams), teams, "")
	require.Nil(t, q.TeamIDs)

	q = filter.PeopleCriteria(filter.NewSelection(filter.TeamKey("t1"), filter.TeamKey("gone"), filter.RecommendedKey), teams, "")
	require.Equal(t, map[string]bool{"t1": true}, q.TeamIDs)
	require.True(t, q.RecommendedOnly)

	require.False(t, filter.PeopleFilterActive(filter.NewSelection(), teams))
	require.False(t, filter.PeopleFilterActive(filter.PeopleDefaults(teams), teams))
	require.True(t, filter.PeopleFilterActive(filter.NewSelection(filter.TeamKey("t1")), teams))
	require.True(t, filter.PeopleFilterActive(filter.PeopleDefaults(teams).Toggle(filter.RecommendedKey), teams))
}

func TestSplitMembers(t *testing.T) {
	users := []user.Summary{
		{ID: "u1", DisplayName: "Ana", Email: "ana@x"},
		{ID: "u2", DisplayName: "Bo", Email: "bo@x"},
		{ID: "u3", DisplayName: "Root", Team: "admin"},
		{ID: "u4", DisplayName: "Cy", Email: "cy@x"},
	}

	split := filter.SplitMembers([]string{"u2", "ghost", "u1"}, users, "", "")
	require.Equal(t, []string{"u2", "u1"}, []string{split.Assigned[0].ID, split.Assigned[1].ID})
	require.Len(t, split.Available, 1)
	require.Equal(t, "u4", split.Available[0].ID)

	split = filter.SplitMembers([]string{"u1", "u2"}, users, "ANA@", "nope")
	require.Len(t, split.Assigned, 1)
	require.Empty(t, split.Available)
}
