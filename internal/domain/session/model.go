package session

import (
	"time"

	"github.com/ganot/pmdash/internal/domain/user"
)

// Snapshot is the persisted session state. Only sessions started with
// remember-me are written to storage.
type Snapshot struct {
	Token       string     `json:"token"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	User        user.User  `json:"user"`
	WorkspaceID string     `json:"workspace_id,omitempty"`
	Remember    bool       `json:"remember"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Expired reports whether the token expiry has passed at now.
func (s Snapshot) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// Reason explains why a session ended.
type Reason string

const (
	ReasonLogout       Reason = "logout"
	ReasonUnauthorized Reason = "unauthorized"
	ReasonExpired      Reason = "expired"
)

// Selection keys persisted per page.
const (
	KeyDashboardProject = "dashboard.selected_project"
	KeyAssignProject    = "assign.selected_project"
	KeyPeopleUser       = "people.selected_user"
	KeyPeopleFilters    = "people.filters"
)
