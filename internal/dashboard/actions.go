package dashboard

import (
	"context"

	"github.com/ganot/pmdash/internal/domain/activity"
	"github.com/ganot/pmdash/internal/domain/comment"
	"github.com/ganot/pmdash/internal/domain/project"
	"github.com/ganot/pmdash/internal/domain/session"
	"github.com/ganot/pmdash/internal/draft"
	"github.com/ganot/pmdash/internal/mutation"
)

// target resolves a project from the snapshot and the mutation scope.
func (s *Service) target(projectID string) (mutation.Scope, project.Project, error) {
	sc, err := s.scope()
	if err != nil {
		return mutation.Scope{}, project.Project{}, err
	}
	p, ok := s.cache.Snapshot().Project(projectID)
	if !ok {
		return mutation.Scope{}, project.Project{}, project.ErrProjectNotFound
	}
	return sc, p, nil
}

// settle persists a selection cleared by the coordinator.
func (s *Service) settle(ctx context.Context, res mutation.Result) mutation.Result {
	if res.SelectionCleared {
		s.forgetSelection(ctx)
	}
	if res.Refreshed {
		s.afterReload(ctx)
	}
	return res
}

// ChangeStatus sets a project's status.
func (s *Service) ChangeStatus(ctx context.Context, projectID string, status project.Status) (mutation.Result, error) {
	sc, p, err := s.target(projectID)
	if err != nil {
		return mutation.Result{}, err
	}
	return s.settle(ctx, s.coord.ChangeStatus(ctx, sc, p, status)), nil
}

// Archive archives a project, showing it as archived right away.
func (s *Service) Archive(ctx context.Context, projectID string) (mutation.Result, error) {
	sc, p, err := s.target(projectID)
	if err != nil {
		return mutation.Result{}, err
	}
	return s.settle(ctx, s.coord.Archive(ctx, sc, p)), nil
}

// Restore brings an archived project back as NOT_STARTED.
func (s *Service) Restore(ctx context.Context, projectID string) (mutation.Result, error) {
	sc, p, err := s.target(projectID)
	if err != nil {
		return mutation.Result{}, err
	}
	return s.settle(ctx, s.coord.Restore(ctx, sc, p)), nil
}

// Delete removes a project; confirmed must be true.
func (s *Service) Delete(ctx context.Context, projectID string, confirmed bool) (mutation.Result, error) {
	sc, p, err := s.target(projectID)
	if err != nil {
		return mutation.Result{}, err
	}
	return s.settle(ctx, s.coord.Delete(ctx, sc, p, confirmed)), nil
}

// SaveDraft saves the open draft.
func (s *Service) SaveDraft(ctx context.Context) (mutation.Result, error) {
	s.mu.Lock()
	src, ok := s.editor.Source()
	d, _ := s.editor.Draft()
	s.mu.Unlock()
	if !ok {
		return mutation.Result{}, draft.ErrNoDraft
	}
	sc, err := s.scope()
	if err != nil {
		return mutation.Result{}, err
	}
	return s.settle(ctx, s.coord.SaveDraft(ctx, sc, src.ID, d.Payload(src.TeamID))), nil
}

// CloseDraft closes a clean draft or saves a dirty one. The returned action
// tells which happened.
func (s *Service) CloseDraft(ctx context.Context) (draft.CloseAction, *mutation.Result, error) {
	s.mu.Lock()
	action := s.editor.Close()
	s.mu.Unlock()

	switch action {
	case draft.Closed:
		s.forgetSelection(ctx)
	case draft.SaveRequired:
		res, err := s.SaveDraft(ctx)
		if err != nil {
			return action, nil, err
		}
		return action, &res, nil
	}
	return action, nil, nil
}

// CreateProject creates a project in the active workspace.
func (s *Service) CreateProject(ctx context.Context, req project.CreateRequest) (mutation.Result, error) {
	sc, err := s.scope()
	if err != nil {
		return mutation.Result{}, err
	}
	return s.settle(ctx, s.coord.Create(ctx, sc, req)), nil
}

// RandomAssign adds a random eligible person to the selected project.
func (s *Service) RandomAssign(ctx context.Context, teamID string) (mutation.Result, error) {
	s.mu.Lock()
	id := s.editor.Selected()
	s.mu.Unlock()
	if id == "" {
		return mutation.Result{}, draft.ErrNoDraft
	}
	sc, p, err := s.target(id)
	if err != nil {
		return mutation.Result{}, err
	}
	snap := s.cache.Snapshot()
	archived := snap.FolderOf(p) == project.FolderArchived
	return s.settle(ctx, s.coord.RandomAssign(ctx, sc, p, archived, teamID)), nil
}

// RandomProject picks a random eligible project and selects it.
func (s *Service) RandomProject(ctx context.Context, teamID string) (mutation.Result, error) {
	s.mu.Lock()
	mineOnly := s.criteria.AssignedToMeOnly
	s.mu.Unlock()
	if mineOnly {
		return mutation.Result{}, ErrAssignedToMe
	}
	sc, err := s.scope()
	if err != nil {
		return mutation.Result{}, err
	}
	res := s.settle(ctx, s.coord.RandomProject(ctx, sc, teamID))
	if res.OK() && res.ProjectID != "" {
		if err := s.SelectProject(ctx, res.ProjectID); err != nil {
			s.logger.Warn("selecting random project failed", "project_id", res.ProjectID, "error", err)
		}
	}
	return res, nil
}

// ToggleRecommendation flips the caller's endorsement of a person.
func (s *Service) ToggleRecommendation(ctx context.Context, personID string) (mutation.Result, error) {
	sc, err := s.scope()
	if err != nil {
		return mutation.Result{}, err
	}
	return s.coord.ToggleRecommendation(ctx, sc, personID), nil
}

// Comments lists a project's comments.
func (s *Service) Comments(ctx context.Context, projectID string) ([]comment.Comment, error) {
	workspaceID, err := s.session.RequireWorkspace()
	if err != nil {
		return nil, err
	}
	return s.remote.ListComments(ctx, workspaceID, projectID)
}

// AddComment posts a comment on a project.
func (s *Service) AddComment(ctx context.Context, projectID string, req comment.CreateRequest) (mutation.Result, error) {
	sc, err := s.scope()
	if err != nil {
		return mutation.Result{}, err
	}
	return s.coord.AddComment(ctx, sc, projectID, req), nil
}

// ToggleReaction flips the caller's reaction on a comment.
func (s *Service) ToggleReaction(ctx context.Context, projectID, commentID string, reaction comment.ReactionType) (mutation.Result, error) {
	sc, err := s.scope()
	if err != nil {
		return mutation.Result{}, err
	}
	return s.coord.ToggleReaction(ctx, sc, projectID, commentID, reaction), nil
}

// EditWidgets opens a draft of the caller's People page widgets.
func (s *Service) EditWidgets() error {
	me, ok := s.session.User()
	if !ok {
		return session.ErrNotAuthenticated
	}
	s.mu.Lock()
	s.widgets = draft.BeginWidgets(me.PeoplePageWidgets)
	s.mu.Unlock()
	return nil
}

// EditWidgetDraft applies fn to the open widget draft.
func (s *Service) EditWidgetDraft(fn func(*draft.Widgets)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.widgets == nil {
		return draft.ErrNoDraft
	}
	fn(s.widgets)
	return nil
}

// CancelWidgets discards the widget draft.
func (s *Service) CancelWidgets() {
	s.mu.Lock()
	s.widgets = nil
	s.mu.Unlock()
}

// SaveWidgets stores the widget draft and updates the cached identity. A
// clean draft closes without a call.
func (s *Service) SaveWidgets(ctx context.Context) error {
	s.mu.Lock()
	w := s.widgets
	s.mu.Unlock()
	if w == nil {
		return draft.ErrNoDraft
	}
	if !w.Dirty() {
		s.CancelWidgets()
		return nil
	}
	saved, err := s.remote.UpdatePeoplePageWidgets(ctx, w.Current())
	if err != nil {
		return err
	}
	me, ok := s.session.User()
	if ok {
		me.PeoplePageWidgets = &saved
		if err := s.session.UpdateUser(ctx, me); err != nil {
			return err
		}
	}
	s.CancelWidgets()
	return nil
}

// Activity lists the mutation journal of the active workspace.
func (s *Service) Activity(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	if s.journal == nil {
		return nil, nil
	}
	workspaceID, err := s.session.RequireWorkspace()
	if err != nil {
		return nil, err
	}
	return s.journal.Recent(ctx, workspaceID, opts)
}
