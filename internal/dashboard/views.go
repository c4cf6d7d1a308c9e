package dashboard

import (
	"context"
	"slices"
	"time"

	"github.com/ganot/pmdash/internal/aggregate"
	"github.com/ganot/pmdash/internal/apperr"
	"github.com/ganot/pmdash/internal/cache"
	"github.com/ganot/pmdash/internal/domain/project"
	"github.com/ganot/pmdash/internal/domain/session"
	"github.com/ganot/pmdash/internal/domain/stats"
	"github.com/ganot/pmdash/internal/domain/user"
	"github.com/ganot/pmdash/internal/draft"
	"github.com/ganot/pmdash/internal/filter"
)

// DashboardView is the Dashboard page state.
type DashboardView struct {
	WorkspaceID  string              `json:"workspaceId"`
	Groups       []filter.Group      `json:"groups"`
	Breakdown    aggregate.Breakdown `json:"breakdown"`
	Filters      []string            `json:"filters"`
	FilterActive bool                `json:"filterActive"`
	Teams        []string            `json:"teams"`
	Search       string              `json:"search,omitempty"`
	AssignedToMe bool                `json:"assignedToMe"`
	Selected     *project.Project    `json:"selected,omitempty"`
	Draft        *draft.Draft        `json:"draft,omitempty"`
	Dirty        bool                `json:"dirty"`
	Members      *filter.MemberSplit `json:"members,omitempty"`
	Updating     []string            `json:"updating,omitempty"`
	LoadedAt     time.Time           `json:"loadedAt"`
	Error        string              `json:"error,omitempty"`
}

// Dashboard builds the Dashboard view from the current snapshot.
func (s *Service) Dashboard() (DashboardView, error) {
	if !s.cache.Loaded() {
		return DashboardView{}, ErrNotLoaded
	}
	snap := s.cache.Snapshot()

	s.mu.Lock()
	c := s.criteriaLocked()
	memberQ, availableQ := s.memberSearch, s.availableSearch
	src, hasSel := s.editor.Source()
	d, _ := s.editor.Draft()
	dirty := s.editor.Dirty()
	s.mu.Unlock()

	teams := filter.AvailableTeams(snap.Users)
	visible := filter.ComputeVisible(snap, c)
	view := DashboardView{
		WorkspaceID:  snap.WorkspaceID,
		Groups:       filter.GroupByFolder(snap, visible),
		Breakdown:    aggregate.New(snap, c.Selection).All(visible),
		Filters:      c.Selection.Keys(),
		FilterActive: c.Selection.IsActive(filter.DefaultSelection(teams)),
		Teams:        teams,
		Search:       c.Search,
		AssignedToMe: c.AssignedToMeOnly,
		LoadedAt:     snap.LoadedAt,
	}
	for _, p := range visible {
		if s.coord.Pending(p.ID) {
			view.Updating = append(view.Updating, p.ID)
		}
	}
	if hasSel {
		view.Selected = &src
		view.Draft = &d
		view.Dirty = dirty
		split := filter.SplitMembers(d.MemberIDs, snap.Users, memberQ, availableQ)
		view.Members = &split
	}
	if err := s.cache.LastError(); err != nil {
		view.Error = apperr.Message(err, "Failed to load projects")
	}
	return view, nil
}

// SetFilters replaces the dashboard filter selection.
func (s *Service) SetFilters(ctx context.Context, keys []string) {
	s.updateCriteria(ctx, func(c *filter.Criteria) { c.Selection = filter.NewSelection(keys...) })
}

// ToggleFilter flips one filter key.
func (s *Service) ToggleFilter(ctx context.Context, key string) {
	s.updateCriteria(ctx, func(c *filter.Criteria) { c.Selection = c.Selection.Toggle(key) })
}

// ResetFilters restores the default selection: every folder, the unassigned
// flag excluded, and every known team.
func (s *Service) ResetFilters(ctx context.Context) {
	teams := filter.AvailableTeams(s.cache.Snapshot().Users)
	s.updateCriteria(ctx, func(c *filter.Criteria) { c.Selection = filter.SeedSelection(teams) })
}

// SetSearch sets the project name search.
func (s *Service) SetSearch(ctx context.Context, text string) {
	s.updateCriteria(ctx, func(c *filter.Criteria) { c.Search = text })
}

// SetAssignedToMe toggles the "assigned to me" restriction.
func (s *Service) SetAssignedToMe(ctx context.Context, on bool) {
	s.updateCriteria(ctx, func(c *filter.Criteria) { c.AssignedToMeOnly = on })
}

// SetMemberSearch sets the queries for the draft's assigned and available
// member lists.
func (s *Service) SetMemberSearch(assigned, available string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memberSearch = assigned
	s.availableSearch = available
}

// updateCriteria applies fn and clears the selection when the selected
// project no longer passes.
func (s *Service) updateCriteria(ctx context.Context, fn func(*filter.Criteria)) {
	snap := s.cache.Snapshot()
	s.mu.Lock()
	fn(&s.criteria)
	cleared := false
	if id := s.editor.Selected(); id != "" && !filter.StillVisible(snap, s.criteriaLocked(), id) {
		s.editor.Clear()
		cleared = true
	}
	s.mu.Unlock()
	if cleared {
		s.forgetSelection(ctx)
	}
}

// SelectProject opens a draft for the project, discarding any other draft.
func (s *Service) SelectProject(ctx context.Context, projectID string) error {
	p, ok := s.cache.Snapshot().Project(projectID)
	if !ok {
		return project.ErrProjectNotFound
	}
	s.mu.Lock()
	s.editor.Select(p)
	s.mu.Unlock()
	if err := s.session.RememberSelection(ctx, session.KeyDashboardProject, projectID); err != nil {
		s.logger.Warn("remembering selected project failed", "error", err)
	}
	return nil
}

// ClearSelection closes the draft without saving.
func (s *Service) ClearSelection(ctx context.Context) {
	s.mu.Lock()
	s.editor.Clear()
	s.mu.Unlock()
	s.forgetSelection(ctx)
}

// EditDraft applies fn to the open draft.
func (s *Service) EditDraft(fn func(*draft.Draft)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Edit(fn)
}

// AssignQuery narrows the Assign page candidate list.
type AssignQuery struct {
	Search          string `json:"search,omitempty"`
	TeamID          string `json:"teamId,omitempty"`
	RecommendedOnly bool   `json:"recommendedOnly,omitempty"`
	// Exclude lists people already picked for the project.
	Exclude []string `json:"exclude,omitempty"`
}

// AssignView is the Assign page state.
type AssignView struct {
	Groups     []filter.Group     `json:"groups"`
	Selected   *project.Project   `json:"selected,omitempty"`
	Archived   bool               `json:"archived"`
	Candidates []filter.Candidate `json:"candidates"`
}

// Assign builds the Assign page view. Members of the selected project are
// excluded from the candidates along with q.Exclude.
func (s *Service) Assign(q AssignQuery) (AssignView, error) {
	if !s.cache.Loaded() {
		return AssignView{}, ErrNotLoaded
	}
	snap := s.cache.Snapshot()

	s.mu.Lock()
	c := s.criteriaLocked()
	src, hasSel := s.editor.Source()
	s.mu.Unlock()

	exclude := slices.Clone(q.Exclude)
	view := AssignView{Groups: filter.Grouped(snap, c)}
	if hasSel {
		view.Selected = &src
		view.Archived = snap.FolderOf(src) == project.FolderArchived
		exclude = append(exclude, src.MemberIDs...)
	}
	cq := filter.CandidateQuery{
		Query:           q.Search,
		RecommendedOnly: q.RecommendedOnly,
		Exclude:         exclude,
	}
	if q.TeamID != "" {
		cq.TeamIDs = map[string]bool{q.TeamID: true}
	}
	view.Candidates = filter.Candidates(snap.Users, snap.Teams, cq)
	return view, nil
}

// PeopleView is the People page state.
type PeopleView struct {
	People       []filter.Candidate      `json:"people"`
	Filters      []string                `json:"filters"`
	FilterActive bool                    `json:"filterActive"`
	Widgets      []string                `json:"widgets"`
	Selected     *user.Summary           `json:"selected,omitempty"`
	Projects     []filter.Group          `json:"projects,omitempty"`
	Editing      *user.PeoplePageWidgets `json:"editing,omitempty"`
}

// People builds the People page view. The list excludes admins and orders
// least-loaded people first.
func (s *Service) People(search string) (PeopleView, error) {
	if !s.cache.Loaded() {
		return PeopleView{}, ErrNotLoaded
	}
	snap := s.cache.Snapshot()
	me, _ := s.session.User()

	s.mu.Lock()
	sel := s.people
	selectedID := s.peopleSelected
	var editing *user.PeoplePageWidgets
	if s.widgets != nil {
		w := s.widgets.Current()
		editing = &w
	}
	s.mu.Unlock()

	widgets := user.MergeWidgetDefaults(me.PeoplePageWidgets)
	view := PeopleView{
		People:       filter.Candidates(snap.Users, snap.Teams, filter.PeopleCriteria(sel, snap.Teams, search)),
		Filters:      sel.Keys(),
		FilterActive: filter.PeopleFilterActive(sel, snap.Teams),
		Widgets:      widgets.OrderedVisible(),
		Editing:      editing,
	}
	if u, ok := snap.User(selectedID); ok {
		view.Selected = &u
		view.Projects = filter.GroupByFolder(snap, assignedTo(snap, selectedID))
	}
	return view, nil
}

// SetPeopleFilters replaces and remembers the People page selection.
func (s *Service) SetPeopleFilters(ctx context.Context, keys []string) {
	sel := filter.NewSelection(keys...)
	s.mu.Lock()
	s.people = sel
	s.mu.Unlock()
	if err := s.session.RememberFilters(ctx, session.KeyPeopleFilters, sel.Keys()); err != nil {
		s.logger.Warn("remembering people filters failed", "error", err)
	}
}

// SelectPerson focuses the People page on one user.
func (s *Service) SelectPerson(ctx context.Context, userID string) error {
	if userID != "" {
		if _, ok := s.cache.Snapshot().User(userID); !ok {
			return ErrPersonNotFound
		}
	}
	s.mu.Lock()
	s.peopleSelected = userID
	s.mu.Unlock()
	if err := s.session.RememberSelection(ctx, session.KeyPeopleUser, userID); err != nil {
		s.logger.Warn("remembering selected person failed", "error", err)
	}
	return nil
}

// PersonStats fetches one person's aggregates, keeping only the status slices
// enabled in the caller's widget preferences.
func (s *Service) PersonStats(ctx context.Context, userID string) (stats.PeopleUser, error) {
	workspaceID, err := s.session.RequireWorkspace()
	if err != nil {
		return stats.PeopleUser{}, err
	}
	out, err := s.remote.PeopleUserStats(ctx, workspaceID, userID)
	if err != nil {
		return stats.PeopleUser{}, err
	}
	me, _ := s.session.User()
	labels := user.MergeWidgetDefaults(me.PeoplePageWidgets).StatusLabels()
	out.Pies.ProjectsByStatus = aggregate.FilterByLabels(out.Pies.ProjectsByStatus, labels)
	return out, nil
}

func assignedTo(snap cache.Snapshot, userID string) []project.Project {
	var out []project.Project
	for _, p := range snap.Projects {
		if p.HasMember(userID) {
			out = append(out, p)
		}
	}
	return out
}
