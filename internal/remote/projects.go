package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ganot/pmdash/internal/domain/project"
)

func projectsPath(workspaceID string) string {
	return "/api/workspaces/" + escape(workspaceID) + "/projects"
}

func projectPath(workspaceID, projectID string) string {
	return projectsPath(workspaceID) + "/" + escape(projectID)
}

const (
	routeProjects = "/api/workspaces/{ws}/projects"
	routeProject  = "/api/workspaces/{ws}/projects/{id}"
)

type teamScope struct {
	TeamID string `json:"teamId,omitempty"`
}

// ListProjects lists workspace projects, optionally only those assigned to the caller.
func (c *Client) ListProjects(ctx context.Context, workspaceID string, assignedToMe bool) ([]project.Project, error) {
	var query url.Values
	if assignedToMe {
		query = url.Values{"assignedToMe": {"true"}}
	}
	var out []projectDTO
	if err := c.get(ctx, routeProjects, projectsPath(workspaceID), query, &out); err != nil {
		return nil, err
	}
	return projectsToDomain(out), nil
}

// GetProject fetches one project.
func (c *Client) GetProject(ctx context.Context, workspaceID, projectID string) (project.Project, error) {
	var out projectDTO
	if err := c.get(ctx, routeProject, projectPath(workspaceID, projectID), nil, &out); err != nil {
		return project.Project{}, err
	}
	p, ok := out.toDomain()
	if !ok {
		return project.Project{}, project.ErrProjectNotFound
	}
	return p, nil
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, workspaceID string, payload project.Payload) (project.Project, error) {
	var out projectDTO
	if err := c.send(ctx, http.MethodPost, routeProjects, projectsPath(workspaceID), payload, &out); err != nil {
		return project.Project{}, err
	}
	p, _ := out.toDomain()
	return p, nil
}

// UpdateProject replaces name, description, status and members.
func (c *Client) UpdateProject(ctx context.Context, workspaceID, projectID string, payload project.Payload) (project.Project, error) {
	var out projectDTO
	if err := c.send(ctx, http.MethodPut, routeProject, projectPath(workspaceID, projectID), payload, &out); err != nil {
		return project.Project{}, err
	}
	p, _ := out.toDomain()
	return p, nil
}

// ArchiveProject moves a project to the archive.
func (c *Client) ArchiveProject(ctx context.Context, workspaceID, projectID string) error {
	return c.send(ctx, http.MethodPost, routeProject+"/archive", projectPath(workspaceID, projectID)+"/archive", nil, nil)
}

// RestoreProject takes a project out of the archive.
func (c *Client) RestoreProject(ctx context.Context, workspaceID, projectID string) error {
	return c.send(ctx, http.MethodPost, routeProject+"/restore", projectPath(workspaceID, projectID)+"/restore", nil, nil)
}

// DeleteProject permanently deletes a project.
func (c *Client) DeleteProject(ctx context.Context, workspaceID, projectID string) error {
	return c.send(ctx, http.MethodDelete, routeProject, projectPath(workspaceID, projectID), nil, nil)
}

// RandomAssign asks the backend to put a random eligible person on a project.
func (c *Client) RandomAssign(ctx context.Context, workspaceID, projectID, teamID string) (project.RandomAssignResult, error) {
	var out randomAssignDTO
	err := c.send(ctx, http.MethodPost, routeProject+"/random-assign", projectPath(workspaceID, projectID)+"/random-assign", teamScope{TeamID: teamID}, &out)
	if err != nil {
		return project.RandomAssignResult{}, err
	}
	var res project.RandomAssignResult
	if out.Project != nil {
		res.Project, _ = out.Project.toDomain()
	}
	if out.AssignedPerson != nil {
		if s, ok := out.AssignedPerson.toDomain(); ok {
			res.AssignedUserID = s.ID
			res.AssignedName = s.Label()
		}
	}
	return res, nil
}

// RandomProject asks the backend to pick a random project for the caller.
func (c *Client) RandomProject(ctx context.Context, workspaceID, teamID string) (project.Project, error) {
	var out projectDTO
	if err := c.send(ctx, http.MethodPost, routeProjects+"/random", projectsPath(workspaceID)+"/random", teamScope{TeamID: teamID}, &out); err != nil {
		return project.Project{}, err
	}
	p, _ := out.toDomain()
	return p, nil
}
