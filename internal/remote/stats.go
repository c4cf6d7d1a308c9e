package remote

import (
	"context"
	"net/url"

	"github.com/ganot/pmdash/internal/domain/stats"
)

// DashboardStats fetches the server-side dashboard aggregate.
func (c *Client) DashboardStats(ctx context.Context, workspaceID string, q stats.DashboardQuery) (stats.Dashboard, error) {
	query := url.Values{}
	for _, team := range q.Teams {
		query.Add("teams", team)
	}
	if q.AssignedToMe {
		query.Set("assignedToMe", "true")
	}
	var out stats.Dashboard
	if err := c.get(ctx, "/api/workspaces/{ws}/stats/dashboard", workspacePath(workspaceID)+"/stats/dashboard", query, &out); err != nil {
		return stats.Dashboard{}, err
	}
	return out, nil
}

// UserStats fetches per-user aggregates. An empty userID means the caller.
func (c *Client) UserStats(ctx context.Context, workspaceID, userID string) (stats.User, error) {
	target := "me"
	if userID != "" {
		target = escape(userID)
	}
	var out stats.User
	if err := c.get(ctx, "/api/workspaces/{ws}/stats/user/{id}", workspacePath(workspaceID)+"/stats/user/"+target, nil, &out); err != nil {
		return stats.User{}, err
	}
	return out, nil
}

// PeopleOverview fetches the people-page overview aggregate.
func (c *Client) PeopleOverview(ctx context.Context, workspaceID string) (stats.PeopleOverview, error) {
	var out stats.PeopleOverview
	if err := c.get(ctx, "/api/workspaces/{ws}/stats/people/overview", workspacePath(workspaceID)+"/stats/people/overview", nil, &out); err != nil {
		return stats.PeopleOverview{}, err
	}
	return out, nil
}

// PeopleUserStats fetches the per-person aggregate on the people page.
func (c *Client) PeopleUserStats(ctx context.Context, workspaceID, userID string) (stats.PeopleUser, error) {
	var out stats.PeopleUser
	if err := c.get(ctx, "/api/workspaces/{ws}/stats/people/{id}", workspacePath(workspaceID)+"/stats/people/"+escape(userID), nil, &out); err != nil {
		return stats.PeopleUser{}, err
	}
	return out, nil
}
