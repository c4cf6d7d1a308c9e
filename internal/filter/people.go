package filter

import (
	"slices"
	"strings"

	"github.com/ganot/pmdash/internal/domain/user"
	"github.com/ganot/pmdash/internal/domain/workspace"
)

// CandidateQuery narrows the assignable people pool.
type CandidateQuery struct {
	Query string
	// TeamIDs restricts candidates to these team ids; nil means no restriction.
	TeamIDs         map[string]bool
	RecommendedOnly bool
	// Exclude lists user ids already chosen.
	Exclude []string
}

// Candidate is one entry of the ordered pool.
type Candidate struct {
	user.Summary
	// LeastLoaded marks candidates sharing the minimum active project count.
	LeastLoaded bool `json:"leastLoaded"`
}

// Candidates returns assignable users matching q. Least-loaded candidates come
// first, then the rest; each part is sorted by display name.
func Candidates(users []user.Summary, teams []workspace.Team, q CandidateQuery) []Candidate {
	teamNames := make(map[string]string, len(teams))
	for _, t := range teams {
		teamNames[t.ID] = t.Name
	}
	query := strings.ToLower(strings.TrimSpace(q.Query))

	var base []user.Summary
	for _, u := range users {
		if u.ID == "" || !u.Assignable() || slices.Contains(q.Exclude, u.ID) {
			continue
		}
		if q.TeamIDs != nil && !q.TeamIDs[u.TeamID] {
			continue
		}
		if q.RecommendedOnly && u.RecommendedCount <= 0 {
			continue
		}
		if query != "" && !matchesPerson(u, teamLabel(u, teamNames), query) {
			continue
		}
		base = append(base, u)
	}
	if len(base) == 0 {
		return nil
	}

	minActive := base[0].ActiveProjectCount
	for _, u := range base[1:] {
		minActive = min(minActive, u.ActiveProjectCount)
	}

	byName := func(a, b user.Summary) int {
		return strings.Compare(strings.ToLower(a.DisplayName), strings.ToLower(b.DisplayName))
	}
	var least, rest []user.Summary
	for _, u := range base {
		if u.ActiveProjectCount == minActive {
			least = append(least, u)
		} else {
			rest = append(rest, u)
		}
	}
	slices.SortStableFunc(least, byName)
	slices.SortStableFunc(rest, byName)

	out := make([]Candidate, 0, len(base))
	for _, u := range least {
		out = append(out, Candidate{Summary: u, LeastLoaded: true})
	}
	for _, u := range rest {
		out = append(out, Candidate{Summary: u})
	}
	return out
}

// PeopleCriteria turns a People page selection of "team:<id>" keys and the
// recommended flag into a candidate query. An empty selection means every
// team. The team restriction only applies when some, but not all, known teams
// are selected.
func PeopleCriteria(sel Selection, teams []workspace.Team, query string) CandidateQuery {
	known := make([]string, 0, len(teams))
	for _, t := range teams {
		if t.ID != "" {
			known = append(known, t.ID)
		}
	}
	q := CandidateQuery{Query: query, RecommendedOnly: sel.Recommended()}

	selected := map[string]bool{}
	for id := range sel.Teams(false) {
		if slices.Contains(known, id) {
			selected[id] = true
		}
	}
	if len(selected) > 0 && len(selected) < len(known) {
		q.TeamIDs = selected
	}
	return q
}

// PeopleDefaults is the People page default selection: every team id.
func PeopleDefaults(teams []workspace.Team) Selection {
	keys := make([]string, 0, len(teams))
	for _, t := range teams {
		if t.ID != "" {
			keys = append(keys, TeamKey(t.ID))
		}
	}
	return NewSelection(keys...)
}

// PeopleFilterActive reports whether the People selection narrows the list.
func PeopleFilterActive(sel Selection, teams []workspace.Team) bool {
	if sel.Empty() {
		return false
	}
	if sel.Recommended() {
		return true
	}
	return sel.Len() != PeopleDefaults(teams).Len()
}

// MemberSplit is a draft's membership as two searchable lists.
type MemberSplit struct {
	Assigned  []user.Summary `json:"assigned"`
	Available []user.Summary `json:"available"`
}

// SplitMembers resolves draft member ids against users. Assigned keeps draft
// order and drops unknown ids; Available excludes admins and current members.
// Each list is filtered by its own query on name and email.
func SplitMembers(memberIDs []string, users []user.Summary, assignedQuery, availableQuery string) MemberSplit {
	byID := make(map[string]user.Summary, len(users))
	for _, u := range users {
		if u.ID != "" {
			byID[u.ID] = u
		}
	}

	var split MemberSplit
	aq := strings.ToLower(strings.TrimSpace(assignedQuery))
	for _, id := range memberIDs {
		u, ok := byID[id]
		if !ok {
			continue
		}
		if aq == "" || matchesPerson(u, "", aq) {
			split.Assigned = append(split.Assigned, u)
		}
	}

	vq := strings.ToLower(strings.TrimSpace(availableQuery))
	for _, u := range users {
		if u.ID == "" || u.TeamKey() == user.AdminTeam || slices.Contains(memberIDs, u.ID) {
			continue
		}
		if vq == "" || matchesPerson(u, "", vq) {
			split.Available = append(split.Available, u)
		}
	}
	return split
}

func teamLabel(u user.Summary, names map[string]string) string {
	if name, ok := names[u.TeamID]; ok {
		return name
	}
	return u.Team
}

func matchesPerson(u user.Summary, team, query string) bool {
	return strings.Contains(strings.ToLower(u.DisplayName), query) ||
		strings.Contains(strings.ToLower(u.Email), query) ||
		(team != "" && strings.Contains(strings.ToLower(team), query))
}
