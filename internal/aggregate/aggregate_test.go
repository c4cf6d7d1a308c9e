package aggregate_test

import (
	"testing"

	"github.com/ganot/pmdash/internal/aggregate"
	"github.com/ganot/pmdash/internal/cache"
	"github.com/ganot/pmdash/internal/domain/project"
	"github.com/ganot/pmdash/internal/domain/stats"
	"github.com/ganot/pmdash/internal/domain/user"
	"github.com/ganot/pmdash/internal/filter"
	"github.com/stretchr/testify/require"
)

func snapshot(projects ...project.Project) cache.Snapshot {
	return cache.Snapshot{
		Projects: projects,
		Users: []user.Summary{
			{ID: "u1", Team: "Eng"},
			{ID: "u2", Team: "eng"},
			{ID: "u3", Team: "Design"},
			{ID: "u4"},
		},
		Archived: map[string]bool{},
	}
}

func TestWorkloadSlices_SpecScenario(t *testing.T) {
	p := project.Project{ID: "1", Status: project.StatusInProgress, MemberIDs: []string{"u1", "u2"}}
	snap := snapshot(p)
	sel := filter.NewSelection(filter.StatusKey(project.FolderInProgress), filter.TeamKey("Eng"))

	a := aggregate.New(snap, sel)
	require.Equal(t, []stats.Slice{{Label: "Eng", Value: 2}}, a.WorkloadSlices(snap.Projects))

	p.Status = project.StatusCompleted
	require.Empty(t, a.WorkloadSlices([]project.Project{p}))
}

func TestStatusSlices_FixedOrder(t *testing.T) {
	snap := snapshot(
		project.Project{ID: "1", Status: project.StatusCompleted},
		project.Project{ID: "2", Status: project.StatusCompleted},
		project.Project{ID: "3", Status: ""},
		project.Project{ID: "4", Status: project.StatusInProgress},
	)
	snap.Archived["4"] = true

	got := aggregate.New(snap, filter.NewSelection()).StatusSlices(snap.Projects)
	require.Equal(t, []stats.Slice{
		{Label: "NOT STARTED", Value: 1},
		{Label: "IN PROGRESS", Value: 0},
		{Label: "COMPLETED", Value: 2},
		{Label: "CANCELED", Value: 0},
		{Label: "ARCHIVED", Value: 1},
	}, got)
}

func TestTeamSlices(t *testing.T) {
	snap := snapshot(
		project.Project{ID: "1", MemberIDs: []string{"u3", "u1", "u2"}},
		project.Project{ID: "2", MemberIDs: []string{"u1", "u4"}},
		project.Project{ID: "3"},
	)

	a := aggregate.New(snap, filter.NewSelection())
	require.Equal(t, []stats.Slice{
		{Label: "Design", Value: 1},
		{Label: "Eng", Value: 2},
	}, a.TeamSlices(snap.Projects))

	a = aggregate.New(snap, filter.NewSelection(filter.TeamKey("ENG")))
	require.Equal(t, []stats.Slice{{Label: "Eng", Value: 2}}, a.Slices(snap.Projects, aggregate.ByTeam))
}

func TestCounters(t *testing.T) {
	snap := snapshot(
		project.Project{ID: "1", Status: project.StatusInProgress, MemberIDs: []string{"u1"}},
		project.Project{ID: "2", Status: project.StatusCompleted},
		project.Project{ID: "3", Status: project.StatusCanceled, MemberIDs: []string{"u2"}},
		project.Project{ID: "4", Status: project.StatusNotStarted},
	)
	snap.Archived["4"] = true

	got := aggregate.New(snap, filter.NewSelection()).All(snap.Projects)
	require.Equal(t, aggregate.Counters{
		Assigned:   2,
		Unassigned: 2,
		InProgress: 1,
		Completed:  1,
		Canceled:   1,
		Archived:   1,
	}, got.Counters)
	require.Len(t, got.Status, 5)
}

func TestAggregator_Idempotent(t *testing.T) {
	snap := snapshot(project.Project{ID: "1", Status: project.StatusInProgress, MemberIDs: []string{"u1", "u3"}})
	a := aggregate.New(snap, filter.NewSelection())
	require.Equal(t, a.All(snap.Projects), a.All(snap.Projects))
}

func TestFilterByLabels(t *testing.T) {
	in := []stats.Slice{{Label: "Completed", Value: 1}, {Label: "Archived", Value: 2}}
	require.Equal(t, []stats.Slice{{Label: "Archived", Value: 2}}, aggregate.FilterByLabels(in, []string{"Archived"}))
	require.Empty(t, aggregate.FilterByLabels(in, nil))
}
