package remote

import (
	"context"
	"net/http"

	"github.com/ganot/pmdash/internal/domain/workspace"
)

const (
	routeTeams = "/api/workspaces/{ws}/teams"
	routeTeam  = "/api/workspaces/{ws}/teams/{id}"
)

// ListTeams lists workspace teams.
func (c *Client) ListTeams(ctx context.Context, workspaceID string) ([]workspace.Team, error) {
	var out []workspace.Team
	if err := c.get(ctx, routeTeams, workspacePath(workspaceID)+"/teams", nil, &out); err != nil {
		return nil, err
	}
	teams := make([]workspace.Team, 0, len(out))
	for _, t := range out {
		if t.ID != "" {
			teams = append(teams, t)
		}
	}
	return teams, nil
}

// CreateTeam creates a team.
func (c *Client) CreateTeam(ctx context.Context, workspaceID, name string) (workspace.Team, error) {
	var out workspace.Team
	body := struct {
		Name string `json:"name"`
	}{Name: name}
	if err := c.send(ctx, http.MethodPost, routeTeams, workspacePath(workspaceID)+"/teams", body, &out); err != nil {
		return workspace.Team{}, err
	}
	return out, nil
}

// UpdateTeam renames or (de)activates a team.
func (c *Client) UpdateTeam(ctx context.Context, workspaceID, teamID string, update workspace.TeamUpdate) (workspace.Team, error) {
	var out workspace.Team
	path := workspacePath(workspaceID) + "/teams/" + escape(teamID)
	if err := c.send(ctx, http.MethodPatch, routeTeam, path, update, &out); err != nil {
		return workspace.Team{}, err
	}
	return out, nil
}
