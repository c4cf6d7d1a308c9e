package mutation

import (
	"github.com/ganot/pmdash/internal/apperr"
	"github.com/ganot/pmdash/internal/domain/activity"
	"github.com/ganot/pmdash/internal/domain/comment"
	"github.com/ganot/pmdash/internal/domain/project"
	"github.com/ganot/pmdash/internal/domain/user"
)

// User-facing messages.
const (
	MsgNotAllowed       = "Not allowed"
	MsgProjectNotFound  = "Project not found."
	MsgNoEligiblePeople = "No eligible people"
	MsgNoEligibleProj   = "No eligible project"
	MsgConfirmDelete    = "Delete this project permanently?"
)

// Result reports how one mutation ended.
type Result struct {
	Kind      activity.Kind    `json:"kind"`
	ProjectID string           `json:"projectId,omitempty"`
	Outcome   activity.Outcome `json:"outcome,omitempty"`
	Message   string           `json:"message,omitempty"`
	ErrorKind apperr.Kind      `json:"errorKind,omitempty"`
	Err       error            `json:"-"`

	// Superseded is set when a newer request for the same project was issued
	// before this one completed; its outcome was discarded.
	Superseded       bool  `json:"superseded,omitempty"`
	SelectionCleared bool  `json:"selectionCleared,omitempty"`
	RolledBack       bool  `json:"rolledBack,omitempty"`
	Refreshed        bool  `json:"refreshed,omitempty"`
	RefreshErr       error `json:"-"`

	Project        *project.Project     `json:"project,omitempty"`
	AssignedUserID string               `json:"assignedUserId,omitempty"`
	Recommendation *user.Recommendation `json:"recommendation,omitempty"`
	Comment        *comment.Comment     `json:"comment,omitempty"`
}

// OK reports a successful mutation.
func (r Result) OK() bool {
	return r.Outcome == activity.OutcomeSucceeded
}
