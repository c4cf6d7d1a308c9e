package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ganot/pmdash/internal/domain/user"
)

func workspacePath(workspaceID string) string {
	return "/api/workspaces/" + escape(workspaceID)
}

func personPath(workspaceID, personID string) string {
	return workspacePath(workspaceID) + "/people/" + escape(personID)
}

// ListUsers lists workspace members, optionally filtered by text or team.
func (c *Client) ListUsers(ctx context.Context, workspaceID string, filter user.ListFilter) ([]user.Summary, error) {
	query := url.Values{}
	if filter.Query != "" {
		query.Set("q", filter.Query)
	}
	if filter.TeamID != "" {
		query.Set("teamId", filter.TeamID)
	}
	var out []userSummaryDTO
	if err := c.get(ctx, "/api/workspaces/{ws}/users", workspacePath(workspaceID)+"/users", query, &out); err != nil {
		return nil, err
	}
	return summariesToDomain(out), nil
}

// ToggleRecommendation endorses or un-endorses a person.
func (c *Client) ToggleRecommendation(ctx context.Context, workspaceID, personID string) (user.Recommendation, error) {
	var out struct {
		PersonID         *string `json:"personId"`
		RecommendedCount *int    `json:"recommendedCount"`
		RecommendedByMe  *bool   `json:"recommendedByMe"`
	}
	route := "/api/workspaces/{ws}/people/{id}/recommendations/toggle"
	if err := c.send(ctx, http.MethodPost, route, personPath(workspaceID, personID)+"/recommendations/toggle", struct{}{}, &out); err != nil {
		return user.Recommendation{}, err
	}
	rec := user.Recommendation{
		PersonID:         str(out.PersonID),
		RecommendedCount: integer(out.RecommendedCount),
		RecommendedByMe:  boolean(out.RecommendedByMe),
	}
	if rec.PersonID == "" {
		rec.PersonID = personID
	}
	return rec, nil
}

// Recommenders lists who endorsed a person.
func (c *Client) Recommenders(ctx context.Context, workspaceID, personID string) ([]user.Summary, error) {
	var out []userSummaryDTO
	route := "/api/workspaces/{ws}/people/{id}/recommendations"
	if err := c.get(ctx, route, personPath(workspaceID, personID)+"/recommendations", nil, &out); err != nil {
		return nil, err
	}
	return summariesToDomain(out), nil
}

// RecommendedPeople lists endorsed people, optionally within a team.
func (c *Client) RecommendedPeople(ctx context.Context, workspaceID, teamID string) ([]user.Summary, error) {
	var query url.Values
	if teamID != "" {
		query = url.Values{"teamId": {teamID}}
	}
	var out []userSummaryDTO
	if err := c.get(ctx, "/api/workspaces/{ws}/people/recommended", workspacePath(workspaceID)+"/people/recommended", query, &out); err != nil {
		return nil, err
	}
	return summariesToDomain(out), nil
}
