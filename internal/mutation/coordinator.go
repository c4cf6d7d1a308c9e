// Package mutation writes user actions through to the remote service with
// local prediction, reconciliation and rollback.
package mutation

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/ganot/pmdash/internal/apperr"
	"github.com/ganot/pmdash/internal/domain/activity"
	"github.com/ganot/pmdash/internal/domain/comment"
	"github.com/ganot/pmdash/internal/domain/project"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Coordinator is the optimistic mutation coordinator.
type Coordinator struct {
	remote  Remote
	state   State
	journal Journal
	logger  *slog.Logger
	metrics *Metrics

	mu       sync.Mutex
	inFlight map[string]int
}

// New creates a coordinator. journal may be nil.
func New(remote Remote, state State, journal Journal, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = discardLogger
	}
	return &Coordinator{
		remote:   remote,
		state:    state,
		journal:  journal,
		logger:   logger,
		metrics:  NewMetrics(),
		inFlight: map[string]int{},
	}
}

// Pending reports whether a mutation for the project is awaiting a response.
// Views use it to disable controls for that project only.
func (c *Coordinator) Pending(projectID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight[projectID] > 0
}

// ChangeStatus updates the status through a full payload and refreshes on
// success. 403 and 404 clear a matching selection and refresh.
func (c *Coordinator) ChangeStatus(ctx context.Context, s Scope, p project.Project, status project.Status) Result {
	res := Result{Kind: activity.KindStatusChanged, ProjectID: p.ID}
	if p.ID == "" || !status.Valid() {
		return c.invalid(ctx, s, res)
	}

	token := c.begin(p.ID)
	_, err := c.remote.UpdateProject(ctx, s.WorkspaceID, p.ID, project.PayloadFrom(p, project.PayloadOverrides{Status: &status}))
	c.end(p.ID)

	if !c.state.IsLatest(p.ID, token) {
		return c.superseded(ctx, s, res)
	}
	if err != nil {
		return c.rejected(ctx, s, res, err, rejectPolicy{clearOnForbidden: true, refresh: true, fallback: "Failed to update status"})
	}
	res.Outcome = activity.OutcomeSucceeded
	res.Message = "Status updated to " + status.Label()
	c.refresh(ctx, s, &res)
	return c.finish(ctx, s, res)
}

// Archive tags the project as archived before calling the archive endpoint.
// Success confirms the tag without a refresh; any failure removes it.
func (c *Coordinator) Archive(ctx context.Context, s Scope, p project.Project) Result {
	res := Result{Kind: activity.KindArchived, ProjectID: p.ID}
	if p.ID == "" {
		return c.invalid(ctx, s, res)
	}

	token := c.begin(p.ID)
	c.state.MarkArchived(p.ID, token)
	err := c.remote.ArchiveProject(ctx, s.WorkspaceID, p.ID)
	c.end(p.ID)

	// The tag is resolved even when superseded.
	if err != nil {
		res.RolledBack = c.state.ReleaseArchived(p.ID, token)
	} else {
		c.state.ConfirmArchived(p.ID, token)
	}

	if !c.state.IsLatest(p.ID, token) {
		return c.superseded(ctx, s, res)
	}
	if err != nil {
		return c.rejected(ctx, s, res, err, rejectPolicy{fallback: "Failed to archive project"})
	}
	res.Outcome = activity.OutcomeSucceeded
	res.Message = "Project archived"
	return c.finish(ctx, s, res)
}

// Restore calls the restore endpoint, then resets the project to NOT_STARTED
// with no members. The archive tag is cleared only after both succeed.
func (c *Coordinator) Restore(ctx context.Context, s Scope, p project.Project) Result {
	res := Result{Kind: activity.KindRestored, ProjectID: p.ID}
	if p.ID == "" {
		return c.invalid(ctx, s, res)
	}

	token := c.begin(p.ID)
	err := c.remote.RestoreProject(ctx, s.WorkspaceID, p.ID)
	if err == nil {
		status := project.StatusNotStarted
		payload := project.PayloadFrom(p, project.PayloadOverrides{Status: &status, MemberIDs: []string{}})
		_, err = c.remote.UpdateProject(ctx, s.WorkspaceID, p.ID, payload)
	}
	c.end(p.ID)

	if !c.state.IsLatest(p.ID, token) {
		return c.superseded(ctx, s, res)
	}
	if err != nil {
		return c.rejected(ctx, s, res, err, rejectPolicy{fallback: "Failed to restore project"})
	}
	c.state.ClearArchived(p.ID)
	res.Outcome = activity.OutcomeSucceeded
	res.Message = "Project restored"
	c.refresh(ctx, s, &res)
	return c.finish(ctx, s, res)
}

// Delete removes the project once confirmed. Nothing is predicted locally, so
// a 403 only surfaces a message.
func (c *Coordinator) Delete(ctx context.Context, s Scope, p project.Project, confirmed bool) Result {
	res := Result{Kind: activity.KindDeleted, ProjectID: p.ID}
	if p.ID == "" {
		return c.invalid(ctx, s, res)
	}
	if !confirmed {
		res.Err = ErrConfirmationRequired
		res.Message = MsgConfirmDelete
		return res
	}

	token := c.begin(p.ID)
	err := c.remote.DeleteProject(ctx, s.WorkspaceID, p.ID)
	c.end(p.ID)

	if !c.state.IsLatest(p.ID, token) {
		return c.superseded(ctx, s, res)
	}
	if err != nil {
		return c.rejected(ctx, s, res, err, rejectPolicy{fallback: "Failed to delete project"})
	}
	c.state.ClearArchived(p.ID)
	res.Outcome = activity.OutcomeSucceeded
	res.Message = "Project deleted"
	c.clearSelection(s, &res)
	c.refresh(ctx, s, &res)
	return c.finish(ctx, s, res)
}

// SaveDraft sends a full update built from a draft.
func (c *Coordinator) SaveDraft(ctx context.Context, s Scope, projectID string, payload project.Payload) Result {
	res := Result{Kind: activity.KindSaved, ProjectID: projectID}
	if projectID == "" || !payload.Status.Valid() {
		return c.invalid(ctx, s, res)
	}

	token := c.begin(projectID)
	updated, err := c.remote.UpdateProject(ctx, s.WorkspaceID, projectID, payload)
	c.end(projectID)

	if !c.state.IsLatest(projectID, token) {
		return c.superseded(ctx, s, res)
	}
	if err != nil {
		return c.rejected(ctx, s, res, err, rejectPolicy{clearOnForbidden: true, refresh: true, fallback: "Failed to save changes"})
	}
	res.Outcome = activity.OutcomeSucceeded
	res.Message = "Changes saved"
	res.Project = &updated
	c.refresh(ctx, s, &res)
	return c.finish(ctx, s, res)
}

// Create validates and creates a project, then refreshes.
func (c *Coordinator) Create(ctx context.Context, s Scope, req project.CreateRequest) Result {
	res := Result{Kind: activity.KindCreated}
	payload, err := req.Validate()
	if err != nil {
		res.Outcome = activity.OutcomeFailed
		res.Err = err
		res.Message = err.Error()
		return c.finish(ctx, s, res)
	}

	created, err := c.remote.CreateProject(ctx, s.WorkspaceID, payload)
	if err != nil {
		return c.rejected(ctx, s, res, err, rejectPolicy{fallback: "Failed to create project"})
	}
	res.ProjectID = created.ID
	res.Project = &created
	res.Outcome = activity.OutcomeSucceeded
	res.Message = "Project created"
	c.refresh(ctx, s, &res)
	return c.finish(ctx, s, res)
}

// RandomAssign asks the server to add a random eligible person. A 409 is a
// notice rather than a failure.
func (c *Coordinator) RandomAssign(ctx context.Context, s Scope, p project.Project, archived bool, teamID string) Result {
	res := Result{Kind: activity.KindRandomAssign, ProjectID: p.ID}
	if p.ID == "" {
		return c.invalid(ctx, s, res)
	}
	if archived || p.EffectiveStatus() == project.StatusArchived {
		res.Err = ErrArchived
		res.Outcome = activity.OutcomeFailed
		res.Message = "Archived projects cannot be assigned"
		return c.finish(ctx, s, res)
	}

	token := c.begin(p.ID)
	out, err := c.remote.RandomAssign(ctx, s.WorkspaceID, p.ID, teamID)
	c.end(p.ID)

	if !c.state.IsLatest(p.ID, token) {
		return c.superseded(ctx, s, res)
	}
	if err != nil {
		if apperr.IsConflict(err) {
			return c.notice(ctx, s, res, err, MsgNoEligiblePeople)
		}
		return c.rejected(ctx, s, res, err, rejectPolicy{fallback: "Failed to assign randomly"})
	}
	name := out.AssignedName
	if name == "" {
		name = "person"
	}
	res.Outcome = activity.OutcomeSucceeded
	res.Message = "Assigned " + name
	res.AssignedUserID = out.AssignedUserID
	res.Project = &out.Project
	c.refresh(ctx, s, &res)
	return c.finish(ctx, s, res)
}

// RandomProject asks the server for a random eligible project, optionally
// within a team. A 409 is a notice.
func (c *Coordinator) RandomProject(ctx context.Context, s Scope, teamID string) Result {
	res := Result{Kind: activity.KindRandomProject}
	picked, err := c.remote.RandomProject(ctx, s.WorkspaceID, teamID)
	if err != nil {
		if apperr.IsConflict(err) {
			return c.notice(ctx, s, res, err, MsgNoEligibleProj)
		}
		return c.rejected(ctx, s, res, err, rejectPolicy{fallback: "Failed to pick a random project"})
	}
	res.ProjectID = picked.ID
	res.Project = &picked
	res.Outcome = activity.OutcomeSucceeded
	res.Message = "Picked " + project.DisplayTitle(picked.Name)
	c.refresh(ctx, s, &res)
	return c.finish(ctx, s, res)
}

// ToggleRecommendation flips the caller's endorsement of a person and
// overlays the new counters on the cache.
func (c *Coordinator) ToggleRecommendation(ctx context.Context, s Scope, personID string) Result {
	res := Result{Kind: activity.KindRecommendationToggled}
	if personID == "" {
		return c.invalid(ctx, s, res)
	}
	rec, err := c.remote.ToggleRecommendation(ctx, s.WorkspaceID, personID)
	if err != nil {
		return c.rejected(ctx, s, res, err, rejectPolicy{fallback: "Failed to update recommendation"})
	}
	if rec.PersonID == "" {
		rec.PersonID = personID
	}
	c.state.ApplyRecommendation(rec)
	res.Outcome = activity.OutcomeSucceeded
	res.Recommendation = &rec
	if rec.RecommendedByMe {
		res.Message = "Recommended"
	} else {
		res.Message = "Recommendation removed"
	}
	return c.finish(ctx, s, res)
}

// AddComment posts a comment on a project.
func (c *Coordinator) AddComment(ctx context.Context, s Scope, projectID string, req comment.CreateRequest) Result {
	res := Result{Kind: activity.KindCommentAdded, ProjectID: projectID}
	if projectID == "" || (strings.TrimSpace(req.Message) == "" && req.Attachment == nil) {
		return c.invalid(ctx, s, res)
	}
	created, err := c.remote.CreateComment(ctx, s.WorkspaceID, projectID, req)
	if err != nil {
		return c.rejected(ctx, s, res, err, rejectPolicy{fallback: "Failed to post comment"})
	}
	res.Outcome = activity.OutcomeSucceeded
	res.Message = "Comment posted"
	res.Comment = &created
	return c.finish(ctx, s, res)
}

// ToggleReaction flips the caller's reaction on a comment.
func (c *Coordinator) ToggleReaction(ctx context.Context, s Scope, projectID, commentID string, reaction comment.ReactionType) Result {
	res := Result{Kind: activity.KindReactionToggled, ProjectID: projectID}
	if commentID == "" || !reaction.Valid() {
		return c.invalid(ctx, s, res)
	}
	updated, err := c.remote.ToggleReaction(ctx, s.WorkspaceID, commentID, reaction)
	if err != nil {
		return c.rejected(ctx, s, res, err, rejectPolicy{fallback: "Failed to update reaction"})
	}
	res.Outcome = activity.OutcomeSucceeded
	res.Comment = &updated
	return c.finish(ctx, s, res)
}

// rejectPolicy selects the recovery applied to a failed call.
type rejectPolicy struct {
	clearOnForbidden bool
	refresh          bool
	fallback         string
}

func (c *Coordinator) rejected(ctx context.Context, s Scope, res Result, err error, policy rejectPolicy) Result {
	info := apperr.Classify(err)
	res.Outcome = activity.OutcomeFailed
	res.Err = err
	res.ErrorKind = info.Kind

	switch info.Kind {
	case apperr.KindForbidden:
		res.Message = MsgNotAllowed
		if policy.clearOnForbidden {
			c.clearSelection(s, &res)
		}
	case apperr.KindNotFound:
		res.Message = MsgProjectNotFound
		c.clearSelection(s, &res)
	default:
		res.Message = apperr.Message(err, policy.fallback)
		policy.refresh = false
	}

	if policy.refresh {
		c.refresh(ctx, s, &res)
	}
	c.logger.Warn("mutation rejected",
		"kind", res.Kind,
		"project_id", res.ProjectID,
		"error_kind", info.Kind,
		"status", info.Status,
		"rolled_back", res.RolledBack,
	)
	return c.finish(ctx, s, res)
}

func (c *Coordinator) notice(ctx context.Context, s Scope, res Result, err error, fallback string) Result {
	info := apperr.Classify(err)
	res.Outcome = activity.OutcomeNotice
	res.ErrorKind = info.Kind
	res.Message = fallback
	if info.Message != "" && info.Message != apperr.FallbackMessage(info.Kind) {
		res.Message = info.Message
	}
	return c.finish(ctx, s, res)
}

func (c *Coordinator) invalid(ctx context.Context, s Scope, res Result) Result {
	res.Outcome = activity.OutcomeFailed
	res.Err = ErrInvalidInput
	res.ErrorKind = apperr.KindValidation
	res.Message = apperr.FallbackMessage(apperr.KindValidation)
	return c.finish(ctx, s, res)
}

func (c *Coordinator) superseded(ctx context.Context, s Scope, res Result) Result {
	res.Superseded = true
	res.Outcome = activity.OutcomeNotice
	res.Message = "Superseded by a newer change"
	c.logger.Debug("mutation superseded", "kind", res.Kind, "project_id", res.ProjectID)
	return c.finish(ctx, s, res)
}

func (c *Coordinator) clearSelection(s Scope, res *Result) {
	if s.Selection == nil || res.ProjectID == "" || s.Selection.Selected() != res.ProjectID {
		return
	}
	s.Selection.Clear()
	res.SelectionCleared = true
}

func (c *Coordinator) refresh(ctx context.Context, s Scope, res *Result) {
	if err := c.state.Reload(ctx, s.WorkspaceID); err != nil {
		res.RefreshErr = err
		c.logger.Warn("refresh after mutation failed", "kind", res.Kind, "error", err)
		return
	}
	res.Refreshed = true
}

func (c *Coordinator) begin(projectID string) uint64 {
	c.mu.Lock()
	c.inFlight[projectID]++
	c.mu.Unlock()
	c.metrics.InFlight.Inc()
	return c.state.Begin(projectID)
}

func (c *Coordinator) end(projectID string) {
	c.mu.Lock()
	if c.inFlight[projectID]--; c.inFlight[projectID] <= 0 {
		delete(c.inFlight, projectID)
	}
	c.mu.Unlock()
	c.metrics.InFlight.Dec()
}

// finish counts the outcome and journals it.
func (c *Coordinator) finish(ctx context.Context, s Scope, res Result) Result {
	outcome := string(res.Outcome)
	if res.Superseded {
		outcome = "superseded"
	}
	c.metrics.MutationsTotal.WithLabelValues(string(res.Kind), outcome).Inc()

	if res.Outcome == activity.OutcomeSucceeded {
		c.logger.Info("mutation applied", "kind", res.Kind, "project_id", res.ProjectID)
	}
	if c.journal == nil {
		return res
	}

	entry := &activity.Entry{
		WorkspaceID: s.WorkspaceID,
		UserID:      s.UserID,
		Kind:        res.Kind,
		Outcome:     res.Outcome,
		Summary:     res.Message,
		ErrorKind:   string(res.ErrorKind),
	}
	if res.ProjectID != "" {
		id := res.ProjectID
		entry.ProjectID = &id
	}
	if res.Err != nil {
		entry.RequestID = apperr.Classify(res.Err).RequestID
	}
	if err := c.journal.Record(ctx, entry); err != nil {
		c.logger.Warn("journal write failed", "kind", res.Kind, "error", err)
	}
	return res
}
