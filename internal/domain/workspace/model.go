package workspace

import "time"

// Workspace is a tenant the user belongs to.
type Workspace struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug,omitempty"`
	Description     string    `json:"description,omitempty"`
	Demo            bool      `json:"demo"`
	RequireApproval bool      `json:"requireApproval"`
	Status          string    `json:"status,omitempty"`
	CreatedAt       time.Time `json:"createdAt,omitzero"`
}

// Team is a named group of workspace members.
type Team struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspaceId,omitempty"`
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	IsActive    bool   `json:"isActive"`
}

// TeamUpdate holds editable team fields.
type TeamUpdate struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// JoinRequestStatus tracks the lifecycle of a request to join a workspace.
type JoinRequestStatus string

const (
	JoinPending  JoinRequestStatus = "PENDING"
	JoinApproved JoinRequestStatus = "APPROVED"
	JoinDenied   JoinRequestStatus = "DENIED"
	JoinCanceled JoinRequestStatus = "CANCELED"
)

// JoinRequest is a pending membership request.
type JoinRequest struct {
	ID          string            `json:"id"`
	WorkspaceID string            `json:"workspaceId"`
	UserID      string            `json:"userId"`
	DisplayName string            `json:"displayName,omitempty"`
	Email       string            `json:"email,omitempty"`
	Status      JoinRequestStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt,omitzero"`
}

// InviteResolution describes an invite token before joining.
type InviteResolution struct {
	WorkspaceID      string `json:"workspaceId"`
	WorkspaceName    string `json:"workspaceName"`
	Token            string `json:"token"`
	JoinQuestion     string `json:"joinQuestion,omitempty"`
	RequiresApproval bool   `json:"requiresApproval"`
}

// InitialTeam seeds a team at workspace creation.
type InitialTeam struct {
	Name string `json:"name"`
}

// CreateRequest holds workspace creation input.
type CreateRequest struct {
	Name         string        `json:"name"`
	InitialTeams []InitialTeam `json:"initialTeams,omitempty"`
}

// Settings holds workspace settings; nil fields are left unchanged.
type Settings struct {
	RequireApproval *bool   `json:"requireApproval,omitempty"`
	Name            *string `json:"name,omitempty"`
	Slug            *string `json:"slug,omitempty"`
	Description     *string `json:"description,omitempty"`
	Language        *string `json:"language,omitempty"`
	MaxProjects     *int    `json:"maxProjects,omitempty"`
	MaxMembers      *int    `json:"maxMembers,omitempty"`
	MaxTeams        *int    `json:"maxTeams,omitempty"`
}
