package dashboard

import (
	"context"
	"strings"

	"github.com/ganot/pmdash/internal/domain/workspace"
)

// CreateWorkspace creates a workspace and makes it active.
func (s *Service) CreateWorkspace(ctx context.Context, req workspace.CreateRequest) (workspace.Workspace, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return workspace.Workspace{}, workspace.ErrNameRequired
	}
	ws, err := s.remote.CreateWorkspace(ctx, req)
	if err != nil {
		return workspace.Workspace{}, err
	}
	s.logger.Info("workspace created", "workspace_id", ws.ID)
	return ws, s.SelectWorkspace(ctx, ws.ID)
}

// ResolveInvite describes an invite before joining.
func (s *Service) ResolveInvite(ctx context.Context, invite string) (workspace.InviteResolution, error) {
	invite = strings.TrimSpace(invite)
	if invite == "" {
		return workspace.InviteResolution{}, workspace.ErrTokenRequired
	}
	return s.remote.ResolveInvite(ctx, invite)
}

// JoinWorkspace joins by invite token. An active membership becomes the
// active workspace; a pending one leaves no workspace active.
func (s *Service) JoinWorkspace(ctx context.Context, token, answer string) (workspace.Workspace, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return workspace.Workspace{}, workspace.ErrTokenRequired
	}
	ws, err := s.remote.JoinWorkspace(ctx, token, strings.TrimSpace(answer))
	if err != nil {
		return workspace.Workspace{}, err
	}
	if ws.Status != workspace.StatusActive {
		s.logger.Info("join pending approval", "workspace_id", ws.ID, "status", ws.Status)
		if err := s.session.SetWorkspace(ctx, ""); err != nil {
			return ws, err
		}
		s.reset()
		return ws, nil
	}
	return ws, s.SelectWorkspace(ctx, ws.ID)
}

// JoinRequests lists pending requests to join the active workspace.
func (s *Service) JoinRequests(ctx context.Context) ([]workspace.JoinRequest, error) {
	workspaceID, err := s.session.RequireWorkspace()
	if err != nil {
		return nil, err
	}
	return s.remote.ListJoinRequests(ctx, workspaceID)
}

// DecideJoinRequest approves or denies a join request. Approval reloads the
// workspace so the new member shows up.
func (s *Service) DecideJoinRequest(ctx context.Context, requestID string, approve bool) (workspace.JoinRequest, error) {
	workspaceID, err := s.session.RequireWorkspace()
	if err != nil {
		return workspace.JoinRequest{}, err
	}
	if !approve {
		return s.remote.DenyJoinRequest(ctx, workspaceID, requestID)
	}
	req, err := s.remote.ApproveJoinRequest(ctx, workspaceID, requestID)
	if err != nil {
		return workspace.JoinRequest{}, err
	}
	s.refreshQuietly(ctx)
	return req, nil
}

// UpdateSettings changes settings of the active workspace.
func (s *Service) UpdateSettings(ctx context.Context, settings workspace.Settings) (workspace.Workspace, error) {
	workspaceID, err := s.session.RequireWorkspace()
	if err != nil {
		return workspace.Workspace{}, err
	}
	if settings.Name != nil {
		name := strings.TrimSpace(*settings.Name)
		if name == "" {
			return workspace.Workspace{}, workspace.ErrNameRequired
		}
		settings.Name = &name
	}
	return s.remote.UpdateSettings(ctx, workspaceID, settings)
}

// EnterDemo opens the shared demo workspace and makes it active.
func (s *Service) EnterDemo(ctx context.Context) (workspace.Workspace, error) {
	ws, err := s.remote.EnterDemo(ctx)
	if err != nil {
		return workspace.Workspace{}, err
	}
	return ws, s.SelectWorkspace(ctx, ws.ID)
}

// ResetDemo restores the active demo workspace to its seed data.
func (s *Service) ResetDemo(ctx context.Context) error {
	workspaceID, err := s.session.RequireWorkspace()
	if err != nil {
		return err
	}
	workspaces, err := s.remote.ListWorkspaces(ctx)
	if err != nil {
		return err
	}
	demo := false
	for _, ws := range workspaces {
		if ws.ID == workspaceID {
			demo = ws.Demo
		}
	}
	if !demo {
		return workspace.ErrNotDemo
	}
	if err := s.remote.ResetDemo(ctx, workspaceID); err != nil {
		return err
	}
	s.reset()
	return s.Refresh(ctx)
}

// CreateTeam adds a team to the active workspace.
func (s *Service) CreateTeam(ctx context.Context, name string) (workspace.Team, error) {
	workspaceID, err := s.session.RequireWorkspace()
	if err != nil {
		return workspace.Team{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return workspace.Team{}, workspace.ErrNameRequired
	}
	team, err := s.remote.CreateTeam(ctx, workspaceID, name)
	if err != nil {
		return workspace.Team{}, err
	}
	s.refreshQuietly(ctx)
	return team, nil
}

// UpdateTeam renames or (de)activates a team.
func (s *Service) UpdateTeam(ctx context.Context, teamID string, update workspace.TeamUpdate) (workspace.Team, error) {
	workspaceID, err := s.session.RequireWorkspace()
	if err != nil {
		return workspace.Team{}, err
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return workspace.Team{}, workspace.ErrNameRequired
		}
		update.Name = &name
	}
	team, err := s.remote.UpdateTeam(ctx, workspaceID, teamID, update)
	if err != nil {
		return workspace.Team{}, err
	}
	s.refreshQuietly(ctx)
	return team, nil
}

// refreshQuietly reloads after a write that already succeeded. A failed
// reload stays on the cache as the page-level error.
func (s *Service) refreshQuietly(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("reload after write failed", "error", err)
	}
}
