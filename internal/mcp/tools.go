package mcp

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools registers all MCP tools with the server.
func registerTools(server *sdkmcp.Server, h *Handler) {
	// Session
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "login",
		Description: "Sign in to the backend; selects the workspace automatically when the user has exactly one",
	}, h.login)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "logout",
		Description: "Sign out and clear all cached workspace state",
	}, h.logout)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_workspaces",
		Description: "List the workspaces the signed-in user belongs to",
	}, h.listWorkspaces)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "select_workspace",
		Description: "Activate a workspace and load its projects, people and teams",
	}, h.selectWorkspace)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "refresh",
		Description: "Reload the active workspace; on failure the previous data stays visible",
	}, h.refresh)

	// Dashboard
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_dashboard",
		Description: "Get visible projects grouped by status folder, status/team/workload breakdowns, filters and the open draft",
	}, h.getDashboard)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_filters",
		Description: "Change dashboard filters (reset, replace, toggle keys, search, assigned to me) and return the dashboard",
	}, h.updateFilters)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "select_project",
		Description: "Open a project as an editable draft, or close the current draft without saving",
	}, h.selectProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "edit_draft",
		Description: "Edit the open draft's name, description, status or members; reports whether it is dirty",
	}, h.editDraft)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_draft",
		Description: "Save the open draft",
	}, h.saveDraft)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "close_draft",
		Description: "Close a clean draft, or save it first when it has changes",
	}, h.closeDraft)

	// Project mutations
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "change_status",
		Description: "Set a project's status",
	}, h.changeStatus)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "archive_project",
		Description: "Archive a project; it shows as archived immediately and rolls back if refused",
	}, h.archiveProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "restore_project",
		Description: "Restore an archived project as NOT_STARTED with no members",
	}, h.restoreProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project permanently; requires confirm=true",
	}, h.deleteProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a project in the active workspace",
	}, h.createProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "random_assign",
		Description: "Add a random eligible person to the selected project",
	}, h.randomAssign)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "random_project",
		Description: "Pick a random eligible project and select it",
	}, h.randomProject)

	// People
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_assign_view",
		Description: "List assignable people for the selected project, least-loaded first",
	}, h.getAssignView)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_people_view",
		Description: "List people with their filters, widget layout and the selected person's projects",
	}, h.getPeopleView)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_people_filters",
		Description: "Replace the People page team filter",
	}, h.setPeopleFilters)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "select_person",
		Description: "Focus the People page on one person",
	}, h.selectPerson)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "person_stats",
		Description: "Get one person's project breakdowns, limited to the enabled status labels",
	}, h.personStats)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "toggle_recommendation",
		Description: "Recommend a person, or withdraw the recommendation",
	}, h.toggleRecommendation)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_people_widgets",
		Description: "Show, hide or relabel People page widgets and save the layout",
	}, h.updatePeopleWidgets)

	// Comments
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_comments",
		Description: "List a project's comments",
	}, h.listComments)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_comment",
		Description: "Post a comment on a project, optionally logging time spent",
	}, h.addComment)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_comment",
		Description: "Delete a comment",
	}, h.deleteComment)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "toggle_reaction",
		Description: "Add or remove a reaction on a comment",
	}, h.toggleReaction)

	// Account
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "register",
		Description: "Create an account; sign in with login afterwards",
	}, h.register)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_profile",
		Description: "Update your name, email, team label and bio",
	}, h.updateProfile)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Fetch one project fresh from the backend",
	}, h.getProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_recommenders",
		Description: "List who recommended a person",
	}, h.listRecommenders)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_recommended_people",
		Description: "List recommended people, optionally within one team",
	}, h.listRecommended)

	// Workspaces
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_workspace",
		Description: "Create a workspace and make it active",
	}, h.createWorkspace)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "resolve_invite",
		Description: "Describe an invite token or link before joining",
	}, h.resolveInvite)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "join_workspace",
		Description: "Join a workspace by invite token; approval may be required",
	}, h.joinWorkspace)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_join_requests",
		Description: "List pending requests to join the active workspace",
	}, h.listJoinRequests)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "decide_join_request",
		Description: "Approve or deny a join request",
	}, h.decideJoinRequest)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_workspace_settings",
		Description: "Change the active workspace's name, description, language or approval rule",
	}, h.updateSettings)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "enter_demo",
		Description: "Open the demo workspace",
	}, h.enterDemo)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reset_demo",
		Description: "Restore the active demo workspace to its seed data",
	}, h.resetDemo)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_team",
		Description: "Add a team to the active workspace",
	}, h.createTeam)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_team",
		Description: "Rename, activate or deactivate a team",
	}, h.updateTeam)

	// Stats
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "workspace_stats",
		Description: "Backend dashboard aggregates for the current team filter and assigned-to-me flag",
	}, h.workspaceStats)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "user_stats",
		Description: "Per-user aggregates and team averages",
	}, h.userStats)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "people_overview",
		Description: "People page breakdowns by team",
	}, h.peopleOverview)

	// Activity
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "List recent mutation outcomes recorded for the active workspace",
	}, h.recentActivity)
}
