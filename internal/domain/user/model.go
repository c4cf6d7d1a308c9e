package user

import "strings"

// AdminTeam is the normalised team label whose members are never assignable.
const AdminTeam = "admin"

// Summary is the people-list view of a workspace member.
type Summary struct {
	ID                 string `json:"id"`
	DisplayName        string `json:"displayName"`
	Email              string `json:"email,omitempty"`
	Team               string `json:"team,omitempty"`
	TeamID             string `json:"teamId,omitempty"`
	IsAdmin            bool   `json:"isAdmin"`
	ActiveProjectCount int    `json:"activeProjectCount"`
	RecommendedCount   int    `json:"recommendedCount"`
	RecommendedByMe    bool   `json:"recommendedByMe"`
}

// TeamKey returns the normalised team label.
func (s Summary) TeamKey() string {
	return NormalizeTeam(s.Team)
}

// Assignable reports whether the user may be put on a project. Users whose
// team label normalises to "admin" and workspace admins are excluded.
func (s Summary) Assignable() bool {
	return !s.IsAdmin && s.TeamKey() != AdminTeam
}

// Label returns the best display label for the user.
func (s Summary) Label() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	if s.Email != "" {
		return s.Email
	}
	return "Unknown user"
}

// User is the authenticated identity.
type User struct {
	ID                string             `json:"id"`
	Username          string             `json:"username,omitempty"`
	DisplayName       string             `json:"displayName"`
	Email             string             `json:"email,omitempty"`
	FirstName         string             `json:"firstName,omitempty"`
	LastName          string             `json:"lastName,omitempty"`
	Team              string             `json:"team,omitempty"`
	TeamID            string             `json:"teamId,omitempty"`
	Bio               string             `json:"bio,omitempty"`
	IsAdmin           bool               `json:"isAdmin"`
	PeoplePageWidgets *PeoplePageWidgets `json:"peoplePageWidgets,omitempty"`
}

// NormalizeTeam trims and lower-cases a team label.
func NormalizeTeam(team string) string {
	return strings.ToLower(strings.TrimSpace(team))
}

// Recommendation is the result of toggling an endorsement.
type Recommendation struct {
	PersonID         string `json:"personId"`
	RecommendedCount int    `json:"recommendedCount"`
	RecommendedByMe  bool   `json:"recommendedByMe"`
}

// ListFilter narrows the remote people listing.
type ListFilter struct {
	Query  string
	TeamID string
}

// LoginRequest holds credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"-"`
}

// RegisterRequest holds sign-up input.
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Team            string `json:"team,omitempty"`
	Bio             string `json:"bio"`
}

// Validate checks the registration form locally.
func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" {
		return ErrInvalidInput
	}
	if r.Password == "" || r.Password != r.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}

// ProfileUpdate holds editable profile fields.
type ProfileUpdate struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Team      string `json:"team"`
	Bio       string `json:"bio,omitempty"`
}

// AuthResult is returned by login, register and refresh.
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}
