package remote

import (
	"context"
	"net/http"

	"github.com/ganot/pmdash/internal/domain/user"
)

// Login authenticates with username and password.
func (c *Client) Login(ctx context.Context, req user.LoginRequest) (user.AuthResult, error) {
	var out authDTO
	err := c.do(ctx, call{method: http.MethodPost, route: "/api/auth/login", path: "/api/auth/login", body: req, noRefresh: true}, &out)
	if err != nil {
		return user.AuthResult{}, err
	}
	return out.toDomain(), nil
}

// Register creates an account. The backend confirms by email, so no token is returned.
func (c *Client) Register(ctx context.Context, req user.RegisterRequest) error {
	return c.do(ctx, call{method: http.MethodPost, route: "/api/auth/register", path: "/api/auth/register", body: req, noRefresh: true}, nil)
}

// Refresh exchanges the refresh cookie for a new bearer token.
func (c *Client) Refresh(ctx context.Context) (user.AuthResult, error) {
	var out authDTO
	err := c.do(ctx, call{method: http.MethodPost, route: "/api/auth/refresh", path: "/api/auth/refresh", noRefresh: true}, &out)
	if err != nil {
		return user.AuthResult{}, err
	}
	return out.toDomain(), nil
}

// Logout revokes the refresh session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, call{method: http.MethodPost, route: "/api/auth/logout", path: "/api/auth/logout", noRefresh: true}, nil)
}

// Me returns the current identity.
func (c *Client) Me(ctx context.Context) (user.User, error) {
	var out userDTO
	if err := c.get(ctx, "/api/auth/me", "/api/auth/me", nil, &out); err != nil {
		return user.User{}, err
	}
	return out.toDomain(), nil
}

// UpdateProfile saves the editable profile fields.
func (c *Client) UpdateProfile(ctx context.Context, req user.ProfileUpdate) (user.User, error) {
	var out userDTO
	if err := c.send(ctx, http.MethodPut, "/api/auth/me", "/api/auth/me", req, &out); err != nil {
		return user.User{}, err
	}
	return out.toDomain(), nil
}

// UpdatePeoplePageWidgets stores the people-page widget preferences.
func (c *Client) UpdatePeoplePageWidgets(ctx context.Context, widgets user.PeoplePageWidgets) (user.PeoplePageWidgets, error) {
	var out user.PeoplePageWidgets
	route := "/api/auth/me/people-page-widgets"
	if err := c.send(ctx, http.MethodPatch, route, route, widgets, &out); err != nil {
		return user.PeoplePageWidgets{}, err
	}
	return user.MergeWidgetDefaults(&out), nil
}
