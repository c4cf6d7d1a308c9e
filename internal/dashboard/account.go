package dashboard

import (
	"context"
	"slices"
	"strings"

	"github.com/ganot/pmdash/internal/domain/comment"
	"github.com/ganot/pmdash/internal/domain/project"
	"github.com/ganot/pmdash/internal/domain/session"
	"github.com/ganot/pmdash/internal/domain/stats"
	"github.com/ganot/pmdash/internal/domain/user"
)

// Register creates an account. The caller signs in afterwards.
func (s *Service) Register(ctx context.Context, req user.RegisterRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.remote.Register(ctx, req)
}

// UpdateProfile edits the caller's profile. A team change moves the caller
// between team filters, so the workspace is reloaded.
func (s *Service) UpdateProfile(ctx context.Context, req user.ProfileUpdate) (user.User, error) {
	if !s.session.Authenticated() {
		return user.User{}, session.ErrNotAuthenticated
	}
	req.Email = strings.TrimSpace(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Team = strings.TrimSpace(req.Team)
	if req.Email == "" || req.FirstName == "" || req.LastName == "" {
		return user.User{}, user.ErrInvalidInput
	}
	me, err := s.remote.UpdateProfile(ctx, req)
	if err != nil {
		return user.User{}, err
	}
	if err := s.session.UpdateUser(ctx, me); err != nil {
		return user.User{}, err
	}
	if s.session.WorkspaceID() != "" {
		s.refreshQuietly(ctx)
	}
	return me, nil
}

// Project fetches one project from the backend, bypassing the snapshot.
func (s *Service) Project(ctx context.Context, projectID string) (project.Project, error) {
	workspaceID, err := s.session.RequireWorkspace()
	if err != nil {
		return project.Project{}, err
	}
	return s.remote.GetProject(ctx, workspaceID, projectID)
}

// Recommenders lists who recommended a person.
func (s *Service) Recommenders(ctx context.Context, personID string) ([]user.Summary, error) {
	workspaceID, err := s.session.RequireWorkspace()
	if err != nil {
		return nil, err
	}
	return s.remote.Recommenders(ctx, workspaceID, personID)
}

// RecommendedPeople lists recommended people, optionally within one team.
// Admins are dropped as everywhere else outside the admin listing.
func (s *Service) RecommendedPeople(ctx context.Context, teamID string) ([]user.Summary, error) {
	workspaceID, err := s.session.RequireWorkspace()
	if err != nil {
		return nil, err
	}
	people, err := s.remote.RecommendedPeople(ctx, workspaceID, teamID)
	if err != nil {
		return nil, err
	}
	out := make([]user.Summary, 0, len(people))
	for _, p := range people {
		if p.Assignable() {
			out = append(out, p)
		}
	}
	return out, nil
}

// DeleteComment removes a comment.
func (s *Service) DeleteComment(ctx context.Context, commentID string) error {
	workspaceID, err := s.session.RequireWorkspace()
	if err != nil {
		return err
	}
	return s.remote.DeleteComment(ctx, workspaceID, commentID)
}

// UploadAttachment stores a file for a later AddComment.
func (s *Service) UploadAttachment(ctx context.Context, fileName, contentType string, data []byte) (comment.Attachment, error) {
	if !s.session.Authenticated() {
		return comment.Attachment{}, session.ErrNotAuthenticated
	}
	return s.remote.UploadAttachment(ctx, fileName, contentType, data)
}

// WorkspaceStats fetches the backend dashboard aggregate scoped like the
// local view: selected teams and the assigned-to-me flag.
func (s *Service) WorkspaceStats(ctx context.Context) (stats.Dashboard, error) {
	workspaceID, err := s.session.RequireWorkspace()
	if err != nil {
		return stats.Dashboard{}, err
	}
	s.mu.Lock()
	teams := s.criteria.Selection.Teams(false)
	q := stats.DashboardQuery{AssignedToMe: s.criteria.AssignedToMeOnly}
	s.mu.Unlock()
	for team := range teams {
		q.Teams = append(q.Teams, team)
	}
	slices.Sort(q.Teams)
	return s.remote.DashboardStats(ctx, workspaceID, q)
}

// UserStats fetches per-user aggregates. An empty userID means the caller.
func (s *Service) UserStats(ctx context.Context, userID string) (stats.User, error) {
	workspaceID, err := s.session.RequireWorkspace()
	if err != nil {
		return stats.User{}, err
	}
	return s.remote.UserStats(ctx, workspaceID, userID)
}

// PeopleOverview fetches the People page headline breakdowns.
func (s *Service) PeopleOverview(ctx context.Context) (stats.PeopleOverview, error) {
	workspaceID, err := s.session.RequireWorkspace()
	if err != nil {
		return stats.PeopleOverview{}, err
	}
	return s.remote.PeopleOverview(ctx, workspaceID)
}
