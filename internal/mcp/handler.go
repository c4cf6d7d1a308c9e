package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ganot/pmdash/internal/dashboard"
	"github.com/ganot/pmdash/internal/domain/activity"
	"github.com/ganot/pmdash/internal/domain/comment"
	"github.com/ganot/pmdash/internal/domain/project"
	"github.com/ganot/pmdash/internal/domain/user"
	"github.com/ganot/pmdash/internal/draft"
	"github.com/ganot/pmdash/internal/mutation"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler implements the tools over a Dashboard.
type Handler struct {
	dash Dashboard
}

// NewHandler creates a tool handler.
func NewHandler(dash Dashboard) *Handler {
	return &Handler{dash: dash}
}

func (h *Handler) login(ctx context.Context, _ *sdkmcp.CallToolRequest, in loginInput) (*sdkmcp.CallToolResult, loginOutput, error) {
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return nil, loginOutput{}, &APIError{Code: "INVALID_INPUT", Message: "username and password are required"}
	}
	me, err := h.dash.Login(ctx, user.LoginRequest{Username: in.Username, Password: in.Password, Remember: in.Remember})
	if err != nil {
		return nil, loginOutput{}, MapError(err)
	}
	out := loginOutput{UserID: me.ID, DisplayName: me.DisplayName, IsAdmin: me.IsAdmin}
	return text(fmt.Sprintf("Signed in as %s", me.DisplayName)), out, nil
}

func (h *Handler) logout(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, statusOutput, error) {
	h.dash.Logout(ctx)
	return text("Signed out"), statusOutput{OK: true}, nil
}

func (h *Handler) listWorkspaces(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
	workspaces, err := h.dash.Workspaces(ctx)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(workspaces)
}

func (h *Handler) selectWorkspace(ctx context.Context, _ *sdkmcp.CallToolRequest, in selectWorkspaceInput) (*sdkmcp.CallToolResult, statusOutput, error) {
	if err := h.dash.SelectWorkspace(ctx, in.WorkspaceID); err != nil {
		return nil, statusOutput{}, MapError(err)
	}
	return text("Workspace loaded"), statusOutput{OK: true}, nil
}

func (h *Handler) refresh(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, statusOutput, error) {
	if err := h.dash.Refresh(ctx); err != nil {
		return nil, statusOutput{}, MapError(err)
	}
	return text("Workspace reloaded"), statusOutput{OK: true}, nil
}

func (h *Handler) getDashboard(_ context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
	return h.dashboardView()
}

func (h *Handler) updateFilters(ctx context.Context, _ *sdkmcp.CallToolRequest, in updateFiltersInput) (*sdkmcp.CallToolResult, any, error) {
	if in.Reset {
		h.dash.ResetFilters(ctx)
	}
	if in.Keys != nil {
		h.dash.SetFilters(ctx, in.Keys)
	}
	for _, key := range in.Toggle {
		h.dash.ToggleFilter(ctx, key)
	}
	if in.Search != nil {
		h.dash.SetSearch(ctx, *in.Search)
	}
	if in.AssignedToMe != nil {
		h.dash.SetAssignedToMe(ctx, *in.AssignedToMe)
	}
	return h.dashboardView()
}

func (h *Handler) selectProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in selectProjectInput) (*sdkmcp.CallToolResult, any, error) {
	if in.ProjectID == "" {
		h.dash.ClearSelection(ctx)
	} else if err := h.dash.SelectProject(ctx, in.ProjectID); err != nil {
		return nil, nil, MapError(err)
	}
	return h.dashboardView()
}

func (h *Handler) editDraft(_ context.Context, _ *sdkmcp.CallToolRequest, in editDraftInput) (*sdkmcp.CallToolResult, draftOutput, error) {
	var status project.Status
	if in.Status != "" {
		var err error
		if status, err = parseStatus(in.Status); err != nil {
			return nil, draftOutput{}, MapError(err)
		}
	}
	err := h.dash.EditDraft(func(d *draft.Draft) {
		if in.Name != nil {
			d.Name = *in.Name
		}
		if in.Description != nil {
			d.Description = *in.Description
		}
		if status != "" {
			d.Status = status
		}
		for _, id := range in.AddMembers {
			d.AddMember(id)
		}
		for _, id := range in.RemoveMembers {
			d.RemoveMember(id)
		}
	})
	if err != nil {
		return nil, draftOutput{}, MapError(err)
	}

	view, err := h.dash.Dashboard()
	if err != nil {
		return nil, draftOutput{}, MapError(err)
	}
	if view.Selected == nil || view.Draft == nil {
		return nil, draftOutput{}, MapError(draft.ErrNoDraft)
	}
	out := draftOutput{
		ProjectID:   view.Selected.ID,
		Name:        view.Draft.Name,
		Description: view.Draft.Description,
		Status:      string(view.Draft.Status),
		MemberIDs:   view.Draft.MemberIDs,
		Dirty:       view.Dirty,
	}
	msg := "Draft unchanged"
	if out.Dirty {
		msg = "Draft has unsaved changes"
	}
	return text(msg), out, nil
}

func (h *Handler) saveDraft(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, mutationOutput, error) {
	return mutationResult(h.dash.SaveDraft(ctx))
}

func (h *Handler) closeDraft(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, closeDraftOutput, error) {
	action, res, err := h.dash.CloseDraft(ctx)
	if err != nil {
		return nil, closeDraftOutput{}, MapError(err)
	}
	switch action {
	case draft.CloseNone:
		return text("Nothing selected"), closeDraftOutput{Action: "none"}, nil
	case draft.Closed:
		return text("Draft closed"), closeDraftOutput{Action: "closed"}, nil
	}
	out := toMutationOutput(*res)
	result, _, _ := mutationResult(*res, nil)
	return result, closeDraftOutput{Action: "saved", Result: &out}, nil
}

func (h *Handler) changeStatus(ctx context.Context, _ *sdkmcp.CallToolRequest, in changeStatusInput) (*sdkmcp.CallToolResult, mutationOutput, error) {
	status, err := parseStatus(in.Status)
	if err != nil {
		return nil, mutationOutput{}, MapError(err)
	}
	return mutationResult(h.dash.ChangeStatus(ctx, in.ProjectID, status))
}

func (h *Handler) archiveProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in projectInput) (*sdkmcp.CallToolResult, mutationOutput, error) {
	return mutationResult(h.dash.Archive(ctx, in.ProjectID))
}

func (h *Handler) restoreProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in projectInput) (*sdkmcp.CallToolResult, mutationOutput, error) {
	return mutationResult(h.dash.Restore(ctx, in.ProjectID))
}

func (h *Handler) deleteProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in deleteProjectInput) (*sdkmcp.CallToolResult, mutationOutput, error) {
	return mutationResult(h.dash.Delete(ctx, in.ProjectID, in.Confirm))
}

func (h *Handler) createProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in createProjectInput) (*sdkmcp.CallToolResult, mutationOutput, error) {
	req := project.CreateRequest{
		Name:        in.Name,
		Description: in.Description,
		TeamID:      in.TeamID,
		MemberIDs:   in.MemberIDs,
	}
	if in.Status != "" {
		status, err := parseStatus(in.Status)
		if err != nil {
			return nil, mutationOutput{}, MapError(err)
		}
		req.Status = status
	}
	return mutationResult(h.dash.CreateProject(ctx, req))
}

func (h *Handler) randomAssign(ctx context.Context, _ *sdkmcp.CallToolRequest, in teamScopeInput) (*sdkmcp.CallToolResult, mutationOutput, error) {
	return mutationResult(h.dash.RandomAssign(ctx, in.TeamID))
}

func (h *Handler) randomProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in teamScopeInput) (*sdkmcp.CallToolResult, mutationOutput, error) {
	return mutationResult(h.dash.RandomProject(ctx, in.TeamID))
}

func (h *Handler) getAssignView(_ context.Context, _ *sdkmcp.CallToolRequest, in assignViewInput) (*sdkmcp.CallToolResult, any, error) {
	view, err := h.dash.Assign(dashboard.AssignQuery{
		Search:          in.Search,
		TeamID:          in.TeamID,
		RecommendedOnly: in.RecommendedOnly,
	})
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(view)
}

func (h *Handler) getPeopleView(_ context.Context, _ *sdkmcp.CallToolRequest, in peopleViewInput) (*sdkmcp.CallToolResult, any, error) {
	view, err := h.dash.People(in.Search)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(view)
}

func (h *Handler) setPeopleFilters(ctx context.Context, _ *sdkmcp.CallToolRequest, in peopleFiltersInput) (*sdkmcp.CallToolResult, any, error) {
	h.dash.SetPeopleFilters(ctx, in.Keys)
	return h.getPeopleView(ctx, nil, peopleViewInput{})
}

func (h *Handler) selectPerson(ctx context.Context, _ *sdkmcp.CallToolRequest, in personInput) (*sdkmcp.CallToolResult, any, error) {
	if err := h.dash.SelectPerson(ctx, in.UserID); err != nil {
		return nil, nil, MapError(err)
	}
	return h.getPeopleView(ctx, nil, peopleViewInput{})
}

func (h *Handler) personStats(ctx context.Context, _ *sdkmcp.CallToolRequest, in personInput) (*sdkmcp.CallToolResult, any, error) {
	out, err := h.dash.PersonStats(ctx, in.UserID)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(out)
}

func (h *Handler) toggleRecommendation(ctx context.Context, _ *sdkmcp.CallToolRequest, in personInput) (*sdkmcp.CallToolResult, mutationOutput, error) {
	return mutationResult(h.dash.ToggleRecommendation(ctx, in.UserID))
}

func (h *Handler) updatePeopleWidgets(ctx context.Context, _ *sdkmcp.CallToolRequest, in widgetsInput) (*sdkmcp.CallToolResult, any, error) {
	if err := h.dash.EditWidgets(); err != nil {
		return nil, nil, MapError(err)
	}
	err := h.dash.EditWidgetDraft(func(w *draft.Widgets) {
		for _, id := range in.ToggleVisible {
			w.ToggleVisible(id)
		}
		for _, label := range in.ToggleStatusLabels {
			w.ToggleStatusLabel(label)
		}
	})
	if err != nil {
		return nil, nil, MapError(err)
	}
	if err := h.dash.SaveWidgets(ctx); err != nil {
		return nil, nil, MapError(err)
	}
	return h.getPeopleView(ctx, nil, peopleViewInput{})
}

func (h *Handler) listComments(ctx context.Context, _ *sdkmcp.CallToolRequest, in projectInput) (*sdkmcp.CallToolResult, any, error) {
	comments, err := h.dash.Comments(ctx, in.ProjectID)
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(comments)
}

func (h *Handler) addComment(ctx context.Context, _ *sdkmcp.CallToolRequest, in addCommentInput) (*sdkmcp.CallToolResult, mutationOutput, error) {
	req := comment.CreateRequest{
		Message:          in.Message,
		TimeSpentMinutes: in.TimeSpentMinutes,
	}
	if in.AttachmentData != "" {
		data, err := base64.StdEncoding.DecodeString(in.AttachmentData)
		if err != nil {
			return nil, mutationOutput{}, &APIError{Code: "INVALID_INPUT", Message: "attachment_base64 is not valid base64"}
		}
		att, err := h.dash.UploadAttachment(ctx, in.AttachmentName, in.AttachmentType, data)
		if err != nil {
			return nil, mutationOutput{}, MapError(err)
		}
		req.Attachment = &att
	}
	return mutationResult(h.dash.AddComment(ctx, in.ProjectID, req))
}

func (h *Handler) toggleReaction(ctx context.Context, _ *sdkmcp.CallToolRequest, in toggleReactionInput) (*sdkmcp.CallToolResult, mutationOutput, error) {
	reaction := comment.ReactionType(strings.ToUpper(strings.TrimSpace(in.Reaction)))
	if !reaction.Valid() {
		return nil, mutationOutput{}, &APIError{Code: "INVALID_INPUT", Message: fmt.Sprintf("unknown reaction %q", in.Reaction)}
	}
	return mutationResult(h.dash.ToggleReaction(ctx, in.ProjectID, in.CommentID, reaction))
}

func (h *Handler) recentActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in recentActivityInput) (*sdkmcp.CallToolResult, any, error) {
	opts := activity.ListOptions{Limit: in.Limit, Offset: in.Offset}
	if in.ProjectID != "" {
		opts.ProjectID = &in.ProjectID
	}
	if in.Outcome != "" {
		outcome := activity.Outcome(strings.ToLower(in.Outcome))
		opts.Outcome = &outcome
	}
	entries, err := h.dash.Activity(ctx, opts)
	if err != nil {
		return nil, nil, MapError(err)
	}
	if entries == nil {
		entries = []activity.Entry{}
	}
	return jsonResult(entries)
}

func (h *Handler) dashboardView() (*sdkmcp.CallToolResult, any, error) {
	view, err := h.dash.Dashboard()
	if err != nil {
		return nil, nil, MapError(err)
	}
	return jsonResult(view)
}

func parseStatus(raw string) (project.Status, error) {
	status := project.Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", project.ErrInvalidStatus, raw)
	}
	return status, nil
}

// mutationResult renders a mutation outcome. Refusals come back as tool
// errors carrying the user-facing message.
func mutationResult(res mutation.Result, err error) (*sdkmcp.CallToolResult, mutationOutput, error) {
	if err != nil {
		return nil, mutationOutput{}, MapError(err)
	}
	out := toMutationOutput(res)
	msg := res.Message
	if msg == "" {
		msg = string(res.Outcome)
	}
	result := text(msg)
	result.IsError = res.Outcome == activity.OutcomeFailed
	return result, out, nil
}

func text(msg string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: msg}},
	}
}

func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encoding result: %w", err)
	}
	return text(string(data)), nil, nil
}
