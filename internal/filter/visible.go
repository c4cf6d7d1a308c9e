package filter

import (
	"strings"

	"github.com/ganot/pmdash/internal/cache"
	"github.com/ganot/pmdash/internal/domain/project"
	"github.com/ganot/pmdash/internal/domain/user"
)

// Criteria is the dashboard filter state.
type Criteria struct {
	Selection        Selection
	Search           string
	AssignedToMeOnly bool
	CurrentUserID    string
}

// Group is one non-empty folder of visible projects.
type Group struct {
	Folder   project.Folder    `json:"folder"`
	Projects []project.Project `json:"projects"`
}

// TeamIndex resolves project members to normalised team keys.
type TeamIndex struct {
	byUser map[string]string
	labels map[string]string
	keys   []string
}

// NewTeamIndex indexes users by id and their teams by normalised key.
func NewTeamIndex(users []user.Summary) TeamIndex {
	idx := TeamIndex{
		byUser: make(map[string]string, len(users)),
		labels: map[string]string{},
	}
	for _, u := range users {
		key := u.TeamKey()
		if u.ID == "" || key == "" {
			continue
		}
		idx.byUser[u.ID] = key
	}
	for _, label := range AvailableTeams(users) {
		key := user.NormalizeTeam(label)
		idx.labels[key] = label
		idx.keys = append(idx.keys, key)
	}
	return idx
}

// TeamOf returns the normalised team key of a user, or "".
func (idx TeamIndex) TeamOf(userID string) string {
	return idx.byUser[userID]
}

// Label returns the display label for a normalised team key.
func (idx TeamIndex) Label(key string) string {
	if label, ok := idx.labels[key]; ok {
		return label
	}
	return key
}

// Keys returns the known normalised team keys, sorted by label.
func (idx TeamIndex) Keys() []string {
	return idx.keys
}

// MatchesTeams applies the team dimension. No known teams is a vacuous pass,
// a selection covering every known team does not restrict, and an empty
// selection with known teams excludes everything.
func (idx TeamIndex) MatchesTeams(p project.Project, selected map[string]bool) bool {
	if len(idx.keys) == 0 {
		return true
	}
	if len(selected) == 0 {
		return false
	}
	if containsAll(selected, idx.keys) {
		return true
	}
	for _, id := range p.MemberIDs {
		if team := idx.byUser[id]; team != "" && selected[team] {
			return true
		}
	}
	return false
}

// Matcher evaluates the visibility predicate against one snapshot.
type Matcher struct {
	snap       cache.Snapshot
	teams      TeamIndex
	folders    map[project.FolderKey]bool
	selTeams   map[string]bool
	unassigned bool
	query      string
	mineOnly   bool
	userID     string
}

// NewMatcher prepares the predicate for c over snap.
func NewMatcher(snap cache.Snapshot, c Criteria) Matcher {
	return Matcher{
		snap:       snap,
		teams:      NewTeamIndex(snap.Users),
		folders:    c.Selection.Folders(),
		selTeams:   c.Selection.Teams(true),
		unassigned: c.Selection.Unassigned(),
		query:      strings.ToLower(strings.TrimSpace(c.Search)),
		mineOnly:   c.AssignedToMeOnly,
		userID:     c.CurrentUserID,
	}
}

// Teams returns the team index built for the snapshot.
func (m Matcher) Teams() TeamIndex {
	return m.teams
}

// SelectedTeams returns the normalised selected team keys.
func (m Matcher) SelectedTeams() map[string]bool {
	return m.selTeams
}

// Match reports whether p is visible.
func (m Matcher) Match(p project.Project) bool {
	if len(m.folders) == 0 && !m.unassigned {
		return false
	}
	if len(m.folders) > 0 && !m.folders[m.snap.FolderOf(p)] {
		return false
	}
	if m.unassigned && len(p.MemberIDs) > 0 {
		return false
	}
	if m.mineOnly && !p.HasMember(m.userID) {
		return false
	}
	if !m.teams.MatchesTeams(p, m.selTeams) {
		return false
	}
	if m.query != "" {
		return strings.Contains(strings.ToLower(p.Name), m.query)
	}
	return true
}

// ComputeVisible returns the visible projects in cache order.
func ComputeVisible(snap cache.Snapshot, c Criteria) []project.Project {
	m := NewMatcher(snap, c)
	out := make([]project.Project, 0, len(snap.Projects))
	for _, p := range snap.Projects {
		if m.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// GroupByFolder partitions projects in fixed folder order, omitting empty
// folders. Locally archived projects land in ARCHIVED.
func GroupByFolder(snap cache.Snapshot, projects []project.Project) []Group {
	buckets := make(map[project.FolderKey][]project.Project, len(project.Folders))
	for _, p := range projects {
		key := snap.FolderOf(p)
		buckets[key] = append(buckets[key], p)
	}
	var groups []Group
	for _, f := range project.Folders {
		if len(buckets[f.Key]) == 0 {
			continue
		}
		groups = append(groups, Group{Folder: f, Projects: buckets[f.Key]})
	}
	return groups
}

// Grouped is ComputeVisible followed by GroupByFolder.
func Grouped(snap cache.Snapshot, c Criteria) []Group {
	return GroupByFolder(snap, ComputeVisible(snap, c))
}

// StillVisible reports whether the selected project passes the filters. An
// empty id or a project missing from the snapshot reports true; absence is
// handled by the not-found path, not by pruning.
func StillVisible(snap cache.Snapshot, c Criteria, projectID string) bool {
	if projectID == "" {
		return true
	}
	p, ok := snap.Project(projectID)
	if !ok {
		return true
	}
	return NewMatcher(snap, c).Match(p)
}
