package remote

import (
	"strings"
	"time"

	"github.com/ganot/pmdash/internal/domain/project"
	"github.com/ganot/pmdash/internal/domain/user"
)

// Wire shapes mirror the backend's loose JSON: every field may be missing or
// null. They are normalised into domain structs here and nowhere else.

type projectDTO struct {
	ID          *string    `json:"id"`
	WorkspaceID *string    `json:"workspaceId"`
	TeamID      *string    `json:"teamId"`
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	MemberIDs   []*string  `json:"memberIds"`
	CreatedAt   *time.Time `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
}

func (d projectDTO) toDomain() (project.Project, bool) {
	id := str(d.ID)
	if id == "" {
		return project.Project{}, false
	}
	status := project.Status(strings.ToUpper(strings.TrimSpace(str(d.Status))))
	if !status.Valid() {
		status = project.StatusNotStarted
	}
	members := make([]string, 0, len(d.MemberIDs))
	seen := make(map[string]struct{}, len(d.MemberIDs))
	for _, m := range d.MemberIDs {
		v := str(m)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		members = append(members, v)
	}
	p := project.Project{
		ID:          id,
		WorkspaceID: str(d.WorkspaceID),
		TeamID:      str(d.TeamID),
		Name:        str(d.Name),
		Description: str(d.Description),
		Status:      status,
		MemberIDs:   members,
	}
	if d.CreatedAt != nil {
		p.CreatedAt = *d.CreatedAt
	}
	if d.UpdatedAt != nil {
		p.UpdatedAt = *d.UpdatedAt
	}
	return p, true
}

func projectsToDomain(in []projectDTO) []project.Project {
	out := make([]project.Project, 0, len(in))
	for _, d := range in {
		if p, ok := d.toDomain(); ok {
			out = append(out, p)
		}
	}
	return out
}

type userSummaryDTO struct {
	ID                 *string `json:"id"`
	DisplayName        *string `json:"displayName"`
	Email              *string `json:"email"`
	Team               *string `json:"team"`
	TeamID             *string `json:"teamId"`
	TeamName           *string `json:"teamName"`
	IsAdmin            *bool   `json:"isAdmin"`
	ActiveProjectCount *int    `json:"activeProjectCount"`
	RecommendedCount   *int    `json:"recommendedCount"`
	RecommendedByMe    *bool   `json:"recommendedByMe"`
}

func (d userSummaryDTO) toDomain() (user.Summary, bool) {
	id := str(d.ID)
	if id == "" {
		return user.Summary{}, false
	}
	team := str(d.TeamName)
	if team == "" {
		team = str(d.Team)
	}
	return user.Summary{
		ID:                 id,
		DisplayName:        str(d.DisplayName),
		Email:              str(d.Email),
		Team:               team,
		TeamID:             str(d.TeamID),
		IsAdmin:            boolean(d.IsAdmin),
		ActiveProjectCount: integer(d.ActiveProjectCount),
		RecommendedCount:   integer(d.RecommendedCount),
		RecommendedByMe:    boolean(d.RecommendedByMe),
	}, true
}

func summariesToDomain(in []userSummaryDTO) []user.Summary {
	out := make([]user.Summary, 0, len(in))
	for _, d := range in {
		if s, ok := d.toDomain(); ok {
			out = append(out, s)
		}
	}
	return out
}

type userDTO struct {
	ID                *string                 `json:"id"`
	Username          *string                 `json:"username"`
	DisplayName       *string                 `json:"displayName"`
	Email             *string                 `json:"email"`
	FirstName         *string                 `json:"firstName"`
	LastName          *string                 `json:"lastName"`
	Team              *string                 `json:"team"`
	TeamID            *string                 `json:"teamId"`
	Bio               *string                 `json:"bio"`
	IsAdmin           *bool                   `json:"isAdmin"`
	PeoplePageWidgets *user.PeoplePageWidgets `json:"peoplePageWidgets"`
}

func (d userDTO) toDomain() user.User {
	u := user.User{
		ID:          str(d.ID),
		Username:    str(d.Username),
		DisplayName: str(d.DisplayName),
		Email:       str(d.Email),
		FirstName:   str(d.FirstName),
		LastName:    str(d.LastName),
		Team:        str(d.Team),
		TeamID:      str(d.TeamID),
		Bio:         str(d.Bio),
		IsAdmin:     boolean(d.IsAdmin),
	}
	if u.DisplayName == "" {
		u.DisplayName = strings.TrimSpace(u.FirstName + " " + u.LastName)
	}
	if d.PeoplePageWidgets != nil {
		merged := user.MergeWidgetDefaults(d.PeoplePageWidgets)
		u.PeoplePageWidgets = &merged
	}
	return u
}

type authDTO struct {
	Token *string  `json:"token"`
	User  *userDTO `json:"user"`
}

func (d authDTO) toDomain() user.AuthResult {
	res := user.AuthResult{Token: str(d.Token)}
	if d.User != nil {
		u := d.User.toDomain()
		res.User = &u
	}
	return res
}

type randomAssignDTO struct {
	Project        *projectDTO     `json:"project"`
	AssignedPerson *userSummaryDTO `json:"assignedPerson"`
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func boolean(b *bool) bool {
	return b != nil && *b
}

func integer(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
