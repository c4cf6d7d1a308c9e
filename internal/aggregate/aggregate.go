// Package aggregate reduces a filtered project set into chart slices and
// headline counters.
package aggregate

import (
	"slices"

	"github.com/ganot/pmdash/internal/cache"
	"github.com/ganot/pmdash/internal/domain/project"
	"github.com/ganot/pmdash/internal/domain/stats"
	"github.com/ganot/pmdash/internal/filter"
)

// Dimension selects a breakdown.
type Dimension string

const (
	ByStatus   Dimension = "status"
	ByTeam     Dimension = "team"
	ByWorkload Dimension = "workload"
)

// statusOrder is the fixed legend order of status slices.
var statusOrder = []project.Status{
	project.StatusNotStarted,
	project.StatusInProgress,
	project.StatusCompleted,
	project.StatusCanceled,
	project.StatusArchived,
}

// Counters are the dashboard headline numbers over the filtered set.
type Counters struct {
	Assigned   int `json:"assigned"`
	Unassigned int `json:"unassigned"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Canceled   int `json:"canceled"`
	Archived   int `json:"archived"`
}

// Breakdown bundles the three dashboard charts.
type Breakdown struct {
	Counters Counters      `json:"counters"`
	Status   []stats.Slice `json:"projectsByStatus"`
	Teams    []stats.Slice `json:"projectsByTeam"`
	Workload []stats.Slice `json:"workloadByTeam"`
}

// Aggregator computes slices for one snapshot and team selection.
type Aggregator struct {
	snap     cache.Snapshot
	teams    filter.TeamIndex
	selected map[string]bool
}

// New prepares an aggregator. Team slices count only teams in selected when
// it is non-empty.
func New(snap cache.Snapshot, sel filter.Selection) Aggregator {
	return Aggregator{
		snap:     snap,
		teams:    filter.NewTeamIndex(snap.Users),
		selected: sel.Teams(true),
	}
}

// Slices returns the breakdown for one dimension.
func (a Aggregator) Slices(projects []project.Project, dim Dimension) []stats.Slice {
	switch dim {
	case ByStatus:
		return a.StatusSlices(projects)
	case ByTeam:
		return a.TeamSlices(projects)
	case ByWorkload:
		return a.WorkloadSlices(projects)
	}
	return nil
}

// All computes every chart and the counters.
func (a Aggregator) All(projects []project.Project) Breakdown {
	return Breakdown{
		Counters: a.Counters(projects),
		Status:   a.StatusSlices(projects),
		Teams:    a.TeamSlices(projects),
		Workload: a.WorkloadSlices(projects),
	}
}

// StatusSlices always emits the five statuses in fixed order, zeros included.
func (a Aggregator) StatusSlices(projects []project.Project) []stats.Slice {
	counts := map[project.Status]int{}
	for _, p := range projects {
		counts[a.status(p)]++
	}
	out := make([]stats.Slice, 0, len(statusOrder))
	for _, s := range statusOrder {
		out = append(out, stats.Slice{Label: s.Label(), Value: counts[s]})
	}
	return out
}

// TeamSlices counts each project once per distinct member team.
func (a Aggregator) TeamSlices(projects []project.Project) []stats.Slice {
	t := newTally()
	for _, p := range projects {
		var seen []string
		for _, id := range p.MemberIDs {
			team := a.teams.TeamOf(id)
			if team == "" || slices.Contains(seen, team) {
				continue
			}
			seen = append(seen, team)
			if a.counts(team) {
				t.add(team)
			}
		}
	}
	return t.slices(a.teams)
}

// WorkloadSlices counts member occurrences on NOT_STARTED and IN_PROGRESS
// projects, so two members of one team on a project add two.
func (a Aggregator) WorkloadSlices(projects []project.Project) []stats.Slice {
	t := newTally()
	for _, p := range projects {
		if !a.status(p).Active() {
			continue
		}
		for _, id := range p.MemberIDs {
			team := a.teams.TeamOf(id)
			if team != "" && a.counts(team) {
				t.add(team)
			}
		}
	}
	return t.slices(a.teams)
}

// Counters tallies the headline numbers.
func (a Aggregator) Counters(projects []project.Project) Counters {
	var c Counters
	for _, p := range projects {
		if len(p.MemberIDs) > 0 {
			c.Assigned++
		} else {
			c.Unassigned++
		}
		switch a.status(p) {
		case project.StatusInProgress:
			c.InProgress++
		case project.StatusCompleted:
			c.Completed++
		case project.StatusCanceled:
			c.Canceled++
		case project.StatusArchived:
			c.Archived++
		}
	}
	return c
}

// status honours local archive tags and maps unknown statuses to NOT_STARTED.
func (a Aggregator) status(p project.Project) project.Status {
	return project.Status(a.snap.FolderOf(p))
}

func (a Aggregator) counts(team string) bool {
	return len(a.selected) == 0 || a.selected[team]
}

// FilterByLabels keeps slices whose label is enabled, preserving order.
func FilterByLabels(in []stats.Slice, labels []string) []stats.Slice {
	out := make([]stats.Slice, 0, len(in))
	for _, s := range in {
		if slices.Contains(labels, s.Label) {
			out = append(out, s)
		}
	}
	return out
}

// tally counts keys in first-occurrence order.
type tally struct {
	order  []string
	counts map[string]int
}

func newTally() *tally {
	return &tally{counts: map[string]int{}}
}

func (t *tally) add(key string) {
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

func (t *tally) slices(idx filter.TeamIndex) []stats.Slice {
	out := make([]stats.Slice, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, stats.Slice{Label: idx.Label(key), Value: t.counts[key]})
	}
	return out
}
