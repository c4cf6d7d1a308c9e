package mcp

import (
	"context"
	"fmt"

	"github.com/ganot/pmdash/internal/domain/user"
	"github.com/ganot/pmdash/internal/domain/workspace"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Account

func (h *Handler) register(ctx context.Context, _ *sdkmcp.CallToolRequest, in registerInput) (*sdkmcp.CallToolResult, statusOutput, error) {
	err := h.dash.Register(ctx, user.RegisterRequest{
		Email:           in.Email,
		Password:        in.Password,
		ConfirmPassword: in.ConfirmPassword,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Team:            in.Team,
		Bio:             in.Bio,
	})
	if err != nil {
		return nil, statusOutput{}, MapError(err)
	}
	return text("Account created. Call login to sign in."), statusOutput{OK: true}, nil
}

func (h *Handler) updateProfile(ctx context.Context, _ *sdkmcp.CallToolRequest, in profileInput) (*sdkmcp.CallToolResult, any, error) {
	me, err := h.dash.UpdateProfile(ctx, user.ProfileUpdate{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Team:      in.Team,
		Bio:       in.Bio,
	})
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(me)
}

func (h *Handler) getProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in projectInput) (*sdkmcp.CallToolResult, any, error) {
	p, err := h.dash.Project(ctx, in.ProjectID)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(p)
}

func (h *Handler) listRecommenders(ctx context.Context, _ *sdkmcp.CallToolRequest, in personInput) (*sdkmcp.CallToolResult, any, error) {
	people, err := h.dash.Recommenders(ctx, in.UserID)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(nonNil(people))
}

func (h *Handler) listRecommended(ctx context.Context, _ *sdkmcp.CallToolRequest, in teamScopeOptionalInput) (*sdkmcp.CallToolResult, any, error) {
	people, err := h.dash.RecommendedPeople(ctx, in.TeamID)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(nonNil(people))
}

func (h *Handler) deleteComment(ctx context.Context, _ *sdkmcp.CallToolRequest, in commentInput) (*sdkmcp.CallToolResult, statusOutput, error) {
	if err := h.dash.DeleteComment(ctx, in.CommentID); err != nil {
		return nil, statusOutput{}, MapError(err)
	}
	return text("Comment deleted"), statusOutput{OK: true}, nil
}

// Workspaces

func (h *Handler) createWorkspace(ctx context.Context, _ *sdkmcp.CallToolRequest, in createWorkspaceInput) (*sdkmcp.CallToolResult, any, error) {
	req := workspace.CreateRequest{Name: in.Name}
	for _, name := range in.InitialTeams {
		req.InitialTeams = append(req.InitialTeams, workspace.InitialTeam{Name: name})
	}
	ws, err := h.dash.CreateWorkspace(ctx, req)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(ws)
}

func (h *Handler) resolveInvite(ctx context.Context, _ *sdkmcp.CallToolRequest, in inviteInput) (*sdkmcp.CallToolResult, any, error) {
	res, err := h.dash.ResolveInvite(ctx, in.Invite)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(res)
}

func (h *Handler) joinWorkspace(ctx context.Context, _ *sdkmcp.CallToolRequest, in joinWorkspaceInput) (*sdkmcp.CallToolResult, statusOutput, error) {
	ws, err := h.dash.JoinWorkspace(ctx, in.Token, in.Answer)
	if err != nil {
		return nil, statusOutput{}, MapError(err)
	}
	if ws.Status != workspace.StatusActive {
		msg := fmt.Sprintf("Request to join %s is waiting for approval", ws.Name)
		return text(msg), statusOutput{OK: true, Message: msg}, nil
	}
	msg := fmt.Sprintf("Joined %s", ws.Name)
	return text(msg), statusOutput{OK: true, Message: msg}, nil
}

func (h *Handler) listJoinRequests(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
	reqs, err := h.dash.JoinRequests(ctx)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(nonNil(reqs))
}

func (h *Handler) decideJoinRequest(ctx context.Context, _ *sdkmcp.CallToolRequest, in joinDecisionInput) (*sdkmcp.CallToolResult, any, error) {
	req, err := h.dash.DecideJoinRequest(ctx, in.RequestID, in.Approve)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(req)
}

func (h *Handler) updateSettings(ctx context.Context, _ *sdkmcp.CallToolRequest, in settingsInput) (*sdkmcp.CallToolResult, any, error) {
	ws, err := h.dash.UpdateSettings(ctx, workspace.Settings{
		Name:            in.Name,
		Description:     in.Description,
		RequireApproval: in.RequireApproval,
		Language:        in.Language,
	})
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(ws)
}

func (h *Handler) enterDemo(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, statusOutput, error) {
	ws, err := h.dash.EnterDemo(ctx)
	if err != nil {
		return nil, statusOutput{}, MapError(err)
	}
	return text(fmt.Sprintf("Using demo workspace %s", ws.Name)), statusOutput{OK: true}, nil
}

func (h *Handler) resetDemo(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, statusOutput, error) {
	if err := h.dash.ResetDemo(ctx); err != nil {
		return nil, statusOutput{}, MapError(err)
	}
	return text("Demo workspace reset"), statusOutput{OK: true}, nil
}

func (h *Handler) createTeam(ctx context.Context, _ *sdkmcp.CallToolRequest, in createTeamInput) (*sdkmcp.CallToolResult, any, error) {
	team, err := h.dash.CreateTeam(ctx, in.Name)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(team)
}

func (h *Handler) updateTeam(ctx context.Context, _ *sdkmcp.CallToolRequest, in updateTeamInput) (*sdkmcp.CallToolResult, any, error) {
	team, err := h.dash.UpdateTeam(ctx, in.TeamID, workspace.TeamUpdate{Name: in.Name, IsActive: in.IsActive})
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(team)
}

// Stats

func (h *Handler) workspaceStats(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
	out, err := h.dash.WorkspaceStats(ctx)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(out)
}

func (h *Handler) userStats(ctx context.Context, _ *sdkmcp.CallToolRequest, in userStatsInput) (*sdkmcp.CallToolResult, any, error) {
	out, err := h.dash.UserStats(ctx, in.UserID)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(out)
}

func (h *Handler) peopleOverview(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
	out, err := h.dash.PeopleOverview(ctx)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(out)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
