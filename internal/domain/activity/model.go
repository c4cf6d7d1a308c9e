package activity

import "time"

// Kind identifies the mutation an entry records.
type Kind string

const (
	KindStatusChanged         Kind = "status_changed"
	KindArchived              Kind = "archived"
	KindRestored              Kind = "restored"
	KindDeleted               Kind = "deleted"
	KindSaved                 Kind = "saved"
	KindCreated               Kind = "created"
	KindRandomAssign          Kind = "random_assign"
	KindRandomProject         Kind = "random_project"
	KindRecommendationToggled Kind = "recommendation_toggled"
	KindCommentAdded          Kind = "comment_added"
	KindReactionToggled       Kind = "reaction_toggled"
)

// Outcome is how a mutation ended.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeNotice    Outcome = "notice"
)

// Entry is one line of the mutation journal.
type Entry struct {
	ID          int64     `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	UserID      string    `json:"user_id,omitempty"`
	ProjectID   *string   `json:"project_id,omitempty"`
	Kind        Kind      `json:"kind"`
	Outcome     Outcome   `json:"outcome"`
	Summary     string    `json:"summary"`
	ErrorKind   string    `json:"error_kind,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
