package mutation

import (
	"context"
	"errors"

	"github.com/ganot/pmdash/internal/domain/activity"
	"github.com/ganot/pmdash/internal/domain/comment"
	"github.com/ganot/pmdash/internal/domain/project"
	"github.com/ganot/pmdash/internal/domain/user"
)

var (
	// ErrConfirmationRequired is returned by Delete without confirmation.
	ErrConfirmationRequired = errors.New("delete requires confirmation")
	// ErrArchived is returned when random assign targets an archived project.
	ErrArchived = errors.New("project is archived")
	// ErrInvalidInput indicates a missing id or invalid value.
	ErrInvalidInput = errors.New("invalid mutation input")
)

// Remote is the subset of the REST client the coordinator writes through.
type Remote interface {
	CreateProject(ctx context.Context, workspaceID string, payload project.Payload) (project.Project, error)
	UpdateProject(ctx context.Context, workspaceID, projectID string, payload project.Payload) (project.Project, error)
	ArchiveProject(ctx context.Context, workspaceID, projectID string) error
	RestoreProject(ctx context.Context, workspaceID, projectID string) error
	DeleteProject(ctx context.Context, workspaceID, projectID string) error
	RandomAssign(ctx context.Context, workspaceID, projectID, teamID string) (project.RandomAssignResult, error)
	RandomProject(ctx context.Context, workspaceID, teamID string) (project.Project, error)
	ToggleRecommendation(ctx context.Context, workspaceID, personID string) (user.Recommendation, error)
	CreateComment(ctx context.Context, workspaceID, projectID string, req comment.CreateRequest) (comment.Comment, error)
	ToggleReaction(ctx context.Context, workspaceID, commentID string, reaction comment.ReactionType) (comment.Comment, error)
}

// State is the entity cache as seen by the coordinator.
type State interface {
	Reload(ctx context.Context, workspaceID string) error
	Begin(entityID string) uint64
	IsLatest(entityID string, token uint64) bool
	MarkArchived(projectID string, token uint64)
	ConfirmArchived(projectID string, token uint64)
	ReleaseArchived(projectID string, token uint64) bool
	ClearArchived(projectID string)
	ApplyRecommendation(rec user.Recommendation)
}

// Journal records mutation outcomes.
type Journal interface {
	Record(ctx context.Context, entry *activity.Entry) error
}

// Selection is the currently selected project, if any.
type Selection interface {
	Selected() string
	Clear()
}

// Scope identifies who is mutating where.
type Scope struct {
	WorkspaceID string
	UserID      string
	// Selection may be nil when no project view is open.
	Selection Selection
}
