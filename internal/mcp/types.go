package mcp

import (
	"github.com/ganot/pmdash/internal/domain/activity"
	"github.com/ganot/pmdash/internal/mutation"
)

type emptyInput struct{}

// Session

type loginInput struct {
	Username string `json:"username" jsonschema:"Account username or email"`
	Password string `json:"password" jsonschema:"Account password"`
	Remember bool   `json:"remember,omitempty" jsonschema:"Keep the session across restarts"`
}

type loginOutput struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	IsAdmin     bool   `json:"is_admin"`
}

type selectWorkspaceInput struct {
	WorkspaceID string `json:"workspace_id" jsonschema:"Workspace to activate"`
}

type statusOutput struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Dashboard

type updateFiltersInput struct {
	Reset        bool     `json:"reset,omitempty" jsonschema:"Restore the seeded selection before applying other changes"`
	Keys         []string `json:"keys,omitempty" jsonschema:"Replace the selection with these keys (status:<FOLDER>, status:UNASSIGNED, team:<label>)"`
	Toggle       []string `json:"toggle,omitempty" jsonschema:"Keys to flip on or off"`
	Search       *string  `json:"search,omitempty" jsonschema:"Project name search; empty string clears it"`
	AssignedToMe *bool    `json:"assigned_to_me,omitempty" jsonschema:"Show only projects the signed-in user is on"`
}

type projectInput struct {
	ProjectID string `json:"project_id" jsonschema:"Project ID"`
}

type selectProjectInput struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"Project to open as a draft; omit to close the current draft without saving"`
}

type editDraftInput struct {
	Name          *string  `json:"name,omitempty" jsonschema:"New name"`
	Description   *string  `json:"description,omitempty" jsonschema:"New description"`
	Status        string   `json:"status,omitempty" jsonschema:"NOT_STARTED, IN_PROGRESS, COMPLETED, CANCELED or ARCHIVED"`
	AddMembers    []string `json:"add_members,omitempty" jsonschema:"User IDs to add"`
	RemoveMembers []string `json:"remove_members,omitempty" jsonschema:"User IDs to remove"`
}

type draftOutput struct {
	ProjectID   string   `json:"project_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	MemberIDs   []string `json:"member_ids"`
	Dirty       bool     `json:"dirty"`
}

type closeDraftOutput struct {
	Action string          `json:"action"`
	Result *mutationOutput `json:"result,omitempty"`
}

type changeStatusInput struct {
	ProjectID string `json:"project_id" jsonschema:"Project ID"`
	Status    string `json:"status" jsonschema:"NOT_STARTED, IN_PROGRESS, COMPLETED, CANCELED or ARCHIVED"`
}

type deleteProjectInput struct {
	ProjectID string `json:"project_id" jsonschema:"Project ID"`
	Confirm   bool   `json:"confirm,omitempty" jsonschema:"Must be true; deletion is permanent"`
}

type createProjectInput struct {
	Name        string   `json:"name" jsonschema:"Project name"`
	Description string   `json:"description,omitempty" jsonschema:"Project description"`
	Status      string   `json:"status,omitempty" jsonschema:"Initial status, NOT_STARTED when omitted"`
	TeamID      string   `json:"team_id,omitempty" jsonschema:"Owning team"`
	MemberIDs   []string `json:"member_ids,omitempty" jsonschema:"Initial members"`
}

type teamScopeInput struct {
	TeamID string `json:"team_id,omitempty" jsonschema:"Restrict the pick to one team"`
}

// mutationOutput is the flat form of a mutation result.
type mutationOutput struct {
	Kind             activity.Kind    `json:"kind"`
	ProjectID        string           `json:"project_id,omitempty"`
	Outcome          activity.Outcome `json:"outcome"`
	Message          string           `json:"message,omitempty"`
	ErrorKind        string           `json:"error_kind,omitempty"`
	Superseded       bool             `json:"superseded,omitempty"`
	SelectionCleared bool             `json:"selection_cleared,omitempty"`
	RolledBack       bool             `json:"rolled_back,omitempty"`
	Refreshed        bool             `json:"refreshed,omitempty"`
	AssignedUserID   string           `json:"assigned_user_id,omitempty"`
}

func toMutationOutput(res mutation.Result) mutationOutput {
	return mutationOutput{
		Kind:             res.Kind,
		ProjectID:        res.ProjectID,
		Outcome:          res.Outcome,
		Message:          res.Message,
		ErrorKind:        string(res.ErrorKind),
		Superseded:       res.Superseded,
		SelectionCleared: res.SelectionCleared,
		RolledBack:       res.RolledBack,
		Refreshed:        res.Refreshed,
		AssignedUserID:   res.AssignedUserID,
	}
}

// Assign and people

type assignViewInput struct {
	Search          string `json:"search,omitempty" jsonschema:"Match name, email or team"`
	TeamID          string `json:"team_id,omitempty" jsonschema:"Only people from this team"`
	RecommendedOnly bool   `json:"recommended_only,omitempty" jsonschema:"Only people with at least one recommendation"`
}

type peopleViewInput struct {
	Search string `json:"search,omitempty" jsonschema:"Match name, email or team"`
}

type peopleFiltersInput struct {
	Keys []string `json:"keys" jsonschema:"Team keys (team:<team id>); empty shows everyone"`
}

type personInput struct {
	UserID string `json:"user_id" jsonschema:"User ID"`
}

type widgetsInput struct {
	ToggleVisible      []string `json:"toggle_visible,omitempty" jsonschema:"Widget IDs to show or hide"`
	ToggleStatusLabels []string `json:"toggle_status_labels,omitempty" jsonschema:"Status labels to enable or disable on the projects-by-status widget"`
}

// Comments

type addCommentInput struct {
	ProjectID        string `json:"project_id" jsonschema:"Project ID"`
	Message          string `json:"message" jsonschema:"Comment text"`
	TimeSpentMinutes *int   `json:"time_spent_minutes,omitempty" jsonschema:"Minutes spent, if logging time"`
	AttachmentName   string `json:"attachment_name,omitempty" jsonschema:"File name of an attachment to upload with the comment"`
	AttachmentType   string `json:"attachment_type,omitempty" jsonschema:"Attachment content type, e.g. image/png or application/pdf"`
	AttachmentData   string `json:"attachment_base64,omitempty" jsonschema:"Attachment bytes, base64 encoded"`
}

type commentInput struct {
	CommentID string `json:"comment_id" jsonschema:"Comment ID"`
}

type toggleReactionInput struct {
	ProjectID string `json:"project_id" jsonschema:"Project ID"`
	CommentID string `json:"comment_id" jsonschema:"Comment ID"`
	Reaction  string `json:"reaction" jsonschema:"LIKE, LOVE, LAUGH, WOW or SAD"`
}

// Activity

type recentActivityInput struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"Only entries for this project"`
	Outcome   string `json:"outcome,omitempty" jsonschema:"succeeded, failed or notice"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum entries, newest first"`
	Offset    int    `json:"offset,omitempty" jsonschema:"Entries to skip"`
}

// Account

type registerInput struct {
	Email           string `json:"email" jsonschema:"Account email"`
	Password        string `json:"password" jsonschema:"Password"`
	ConfirmPassword string `json:"confirm_password" jsonschema:"Password again"`
	FirstName       string `json:"first_name" jsonschema:"First name"`
	LastName        string `json:"last_name" jsonschema:"Last name"`
	Team            string `json:"team,omitempty" jsonschema:"Team label"`
	Bio             string `json:"bio,omitempty" jsonschema:"Short bio"`
}

type profileInput struct {
	Email     string `json:"email" jsonschema:"Account email"`
	FirstName string `json:"first_name" jsonschema:"First name"`
	LastName  string `json:"last_name" jsonschema:"Last name"`
	Team      string `json:"team,omitempty" jsonschema:"Team label"`
	Bio       string `json:"bio,omitempty" jsonschema:"Short bio"`
}

type teamScopeOptionalInput struct {
	TeamID string `json:"team_id,omitempty" jsonschema:"Limit to one team"`
}

type userStatsInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"User ID; omit for yourself"`
}

// Workspaces

type createWorkspaceInput struct {
	Name         string   `json:"name" jsonschema:"Workspace name"`
	InitialTeams []string `json:"initial_teams,omitempty" jsonschema:"Team names to create with the workspace"`
}

type inviteInput struct {
	Invite string `json:"invite" jsonschema:"Invite token or link"`
}

type joinWorkspaceInput struct {
	Token  string `json:"token" jsonschema:"Invite token"`
	Answer string `json:"answer,omitempty" jsonschema:"Answer to the workspace's join question"`
}

type joinDecisionInput struct {
	RequestID string `json:"request_id" jsonschema:"Join request ID"`
	Approve   bool   `json:"approve" jsonschema:"true to approve, false to deny"`
}

type settingsInput struct {
	Name            *string `json:"name,omitempty" jsonschema:"Workspace name"`
	Description     *string `json:"description,omitempty" jsonschema:"Workspace description"`
	RequireApproval *bool   `json:"require_approval,omitempty" jsonschema:"Require approval for joins"`
	Language        *string `json:"language,omitempty" jsonschema:"UI language code"`
}

type createTeamInput struct {
	Name string `json:"name" jsonschema:"Team name"`
}

type updateTeamInput struct {
	TeamID   string  `json:"team_id" jsonschema:"Team ID"`
	Name     *string `json:"name,omitempty" jsonschema:"New name"`
	IsActive *bool   `json:"is_active,omitempty" jsonschema:"Activate or deactivate the team"`
}
