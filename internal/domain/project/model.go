package project

import (
	"slices"
	"strings"
	"time"
)

// MaxTitleLength is the display and submission clamp for project names.
const MaxTitleLength = 32

// Status is the primary lifecycle state reported by the backend.
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCanceled   Status = "CANCELED"
	StatusArchived   Status = "ARCHIVED"
)

// SelectableStatuses are the statuses a user may pick directly; archiving is
// a gated action with its own endpoint.
var SelectableStatuses = []Status{
	StatusNotStarted,
	StatusInProgress,
	StatusCompleted,
	StatusCanceled,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusCanceled, StatusArchived:
		return true
	}
	return false
}

// Active reports whether the status counts towards workload.
func (s Status) Active() bool {
	return s == StatusNotStarted || s == StatusInProgress
}

// Label formats the status for display, e.g. "IN PROGRESS".
func (s Status) Label() string {
	if s == "" {
		return "Unknown"
	}
	return strings.Replace(string(s), "_", " ", 1)
}

// FolderKey is one of the five fixed grouping buckets.
type FolderKey string

const (
	FolderNotStarted FolderKey = "NOT_STARTED"
	FolderInProgress FolderKey = "IN_PROGRESS"
	FolderCompleted  FolderKey = "COMPLETED"
	FolderCanceled   FolderKey = "CANCELED"
	FolderArchived   FolderKey = "ARCHIVED"
)

// Folder pairs a folder key with its display label.
type Folder struct {
	Key   FolderKey `json:"key"`
	Label string    `json:"label"`
}

// Folders is the fixed grouping order.
var Folders = []Folder{
	{Key: FolderNotStarted, Label: "Not Started"},
	{Key: FolderInProgress, Label: "In Progress"},
	{Key: FolderCompleted, Label: "Completed"},
	{Key: FolderCanceled, Label: "Canceled"},
	{Key: FolderArchived, Label: "Archived"},
}

// FolderKeys returns the folder keys in fixed order.
func FolderKeys() []FolderKey {
	keys := make([]FolderKey, 0, len(Folders))
	for _, f := range Folders {
		keys = append(keys, f.Key)
	}
	return keys
}

// ToFolderKey maps a raw status to its folder. Unknown and empty statuses
// land in NOT_STARTED.
func ToFolderKey(status Status) FolderKey {
	switch status {
	case StatusArchived:
		return FolderArchived
	case StatusInProgress:
		return FolderInProgress
	case StatusCompleted:
		return FolderCompleted
	case StatusCanceled:
		return FolderCanceled
	default:
		return FolderNotStarted
	}
}

// Project is a workspace project as cached by the client.
type Project struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspaceId,omitempty"`
	TeamID      string    `json:"teamId,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	MemberIDs   []string  `json:"memberIds"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// Clone returns a deep copy.
func (p Project) Clone() Project {
	p.MemberIDs = slices.Clone(p.MemberIDs)
	return p
}

// EffectiveStatus returns the status with the NOT_STARTED default applied.
func (p Project) EffectiveStatus() Status {
	if p.Status == "" {
		return StatusNotStarted
	}
	return p.Status
}

// HasMember reports whether userID is among the project members.
func (p Project) HasMember(userID string) bool {
	return userID != "" && slices.Contains(p.MemberIDs, userID)
}

// Payload is the full-update body: name, description, status and members
// always travel together.
type Payload struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Status      Status   `json:"status"`
	TeamID      string   `json:"teamId,omitempty"`
	MemberIDs   []string `json:"memberIds"`
}

// PayloadOverrides replaces selected fields when building a payload from a
// cached project.
type PayloadOverrides struct {
	Status    *Status
	MemberIDs []string
}

// PayloadFrom builds an update payload from a cached project, clamping the
// title to MaxTitleLength.
func PayloadFrom(p Project, o PayloadOverrides) Payload {
	payload := Payload{
		Name:        ClampTitle(p.Name),
		Description: p.Description,
		Status:      p.EffectiveStatus(),
		TeamID:      p.TeamID,
		MemberIDs:   slices.Clone(p.MemberIDs),
	}
	if o.Status != nil {
		payload.Status = *o.Status
	}
	if o.MemberIDs != nil {
		payload.MemberIDs = slices.Clone(o.MemberIDs)
	}
	if payload.MemberIDs == nil {
		payload.MemberIDs = []string{}
	}
	return payload
}

// ClampTitle truncates a name to MaxTitleLength runes.
func ClampTitle(name string) string {
	runes := []rune(name)
	if len(runes) <= MaxTitleLength {
		return name
	}
	return string(runes[:MaxTitleLength])
}

// DisplayTitle formats a name for listings.
func DisplayTitle(name string) string {
	if name == "" {
		return "-"
	}
	runes := []rune(name)
	if len(runes) > MaxTitleLength {
		return string(runes[:MaxTitleLength]) + "..."
	}
	return name
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name        string
	Description string
	Status      Status
	TeamID      string
	MemberIDs   []string
}

// Validate checks creation input and returns the submission payload.
func (r CreateRequest) Validate() (Payload, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return Payload{}, ErrNameRequired
	}
	status := r.Status
	if status == "" {
		status = StatusNotStarted
	}
	if !status.Valid() {
		return Payload{}, ErrInvalidStatus
	}
	members := slices.Clone(r.MemberIDs)
	if members == nil {
		members = []string{}
	}
	return Payload{
		Name:        ClampTitle(name),
		Description: strings.TrimSpace(r.Description),
		Status:      status,
		TeamID:      r.TeamID,
		MemberIDs:   members,
	}, nil
}

// RandomAssignResult is returned by the random-assign endpoint.
type RandomAssignResult struct {
	Project        Project `json:"project"`
	AssignedUserID string  `json:"assignedUserId"`
	AssignedName   string  `json:"assignedName,omitempty"`
}
