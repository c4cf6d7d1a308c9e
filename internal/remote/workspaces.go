package remote

import (
	"context"
	"net/http"

	"github.com/ganot/pmdash/internal/domain/workspace"
)

// ListWorkspaces lists the workspaces the caller belongs to.
func (c *Client) ListWorkspaces(ctx context.Context) ([]workspace.Workspace, error) {
	var out []workspace.Workspace
	if err := c.get(ctx, "/api/workspaces", "/api/workspaces", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateWorkspace creates a workspace with optional initial teams.
func (c *Client) CreateWorkspace(ctx context.Context, req workspace.CreateRequest) (workspace.Workspace, error) {
	var out workspace.Workspace
	if err := c.send(ctx, http.MethodPost, "/api/workspaces", "/api/workspaces", req, &out); err != nil {
		return workspace.Workspace{}, err
	}
	return out, nil
}

// JoinWorkspace joins by invite token.
func (c *Client) JoinWorkspace(ctx context.Context, token, inviteAnswer string) (workspace.Workspace, error) {
	var out workspace.Workspace
	body := struct {
		Token        string `json:"token"`
		InviteAnswer string `json:"inviteAnswer,omitempty"`
	}{Token: token, InviteAnswer: inviteAnswer}
	if err := c.send(ctx, http.MethodPost, "/api/workspaces/join", "/api/workspaces/join", body, &out); err != nil {
		return workspace.Workspace{}, err
	}
	return out, nil
}

// ResolveInvite describes an invite token or link before joining.
func (c *Client) ResolveInvite(ctx context.Context, invite string) (workspace.InviteResolution, error) {
	var out workspace.InviteResolution
	body := struct {
		Invite string `json:"invite"`
	}{Invite: invite}
	if err := c.send(ctx, http.MethodPost, "/api/workspaces/invites/resolve", "/api/workspaces/invites/resolve", body, &out); err != nil {
		return workspace.InviteResolution{}, err
	}
	return out, nil
}

// ListJoinRequests lists pending membership requests.
func (c *Client) ListJoinRequests(ctx context.Context, workspaceID string) ([]workspace.JoinRequest, error) {
	var out []workspace.JoinRequest
	if err := c.get(ctx, "/api/workspaces/{ws}/requests", workspacePath(workspaceID)+"/requests", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ApproveJoinRequest approves a membership request.
func (c *Client) ApproveJoinRequest(ctx context.Context, workspaceID, requestID string) (workspace.JoinRequest, error) {
	return c.decideJoinRequest(ctx, workspaceID, requestID, "approve")
}

// DenyJoinRequest denies a membership request.
func (c *Client) DenyJoinRequest(ctx context.Context, workspaceID, requestID string) (workspace.JoinRequest, error) {
	return c.decideJoinRequest(ctx, workspaceID, requestID, "deny")
}

func (c *Client) decideJoinRequest(ctx context.Context, workspaceID, requestID, decision string) (workspace.JoinRequest, error) {
	var out workspace.JoinRequest
	path := workspacePath(workspaceID) + "/requests/" + escape(requestID) + "/" + decision
	if err := c.send(ctx, http.MethodPost, "/api/workspaces/{ws}/requests/{id}/"+decision, path, nil, &out); err != nil {
		return workspace.JoinRequest{}, err
	}
	return out, nil
}

// UpdateSettings patches workspace settings.
func (c *Client) UpdateSettings(ctx context.Context, workspaceID string, settings workspace.Settings) (workspace.Workspace, error) {
	var out workspace.Workspace
	if err := c.send(ctx, http.MethodPatch, "/api/workspaces/{ws}/settings", workspacePath(workspaceID)+"/settings", settings, &out); err != nil {
		return workspace.Workspace{}, err
	}
	return out, nil
}

// EnterDemo joins (or creates) the caller's demo workspace.
func (c *Client) EnterDemo(ctx context.Context) (workspace.Workspace, error) {
	var out workspace.Workspace
	if err := c.send(ctx, http.MethodPost, "/api/workspaces/demo", "/api/workspaces/demo", nil, &out); err != nil {
		return workspace.Workspace{}, err
	}
	return out, nil
}

// ResetDemo restores a demo workspace to its seeded state.
func (c *Client) ResetDemo(ctx context.Context, workspaceID string) error {
	return c.send(ctx, http.MethodPost, "/api/workspaces/{ws}/demo/reset", workspacePath(workspaceID)+"/demo/reset", nil, nil)
}
