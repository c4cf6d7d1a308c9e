package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `pmdash is a client for a project-management backend: Workspaces → Projects (status folders, members) and People (teams, workload).

Core concepts:
- Session: one signed-in user and one active workspace per server process.
- Snapshot: the last successfully loaded projects/users/teams. Views are computed from it; a failed refresh keeps the old one.
- Filters: keys "status:<FOLDER>", "status:UNASSIGNED" and "team:<label>". Seeded once per workspace with every folder and team.
- Draft: the selected project's editable copy (name, description, status, members). Dirty drafts must be saved or discarded.
- Archive tag: an archived project shows in the ARCHIVED folder immediately; the tag is rolled back if the backend refuses.

Default workflow:
1) login, then list_workspaces / select_workspace (a single workspace is selected automatically).
2) get_dashboard to see grouped projects and status/team/workload breakdowns.
3) update_filters to narrow; select_project to open a draft.
4) edit_draft then save_draft, or use change_status / archive_project / restore_project / delete_project.
5) get_assign_view and random_assign to staff projects; get_people_view for workload per person.
6) With no workspace yet: create_workspace, join_workspace (resolve_invite first) or enter_demo. Admins use create_team and list_join_requests / decide_join_request.

Mutation results carry an outcome (succeeded, failed, notice) and a user-facing message.

Docs:
- pmdash://docs/filters
- pmdash://docs/mutations
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "pmdash://docs/filters",
		Name:        "docs_filters",
		Title:       "Filters and grouping",
		Description: "How filter keys combine, how seeding works and how projects are grouped into folders.",
		Content: `# Filters and grouping

A project is visible when it passes every dimension:

- **Status**: the project's folder must be one of the selected ` + "`status:<FOLDER>`" + ` keys. With ` + "`status:UNASSIGNED`" + ` selected the project must also have no members. No status keys at all hides everything.
- **Team**: when teams are known, at least one member's team must be selected. Selecting every known team also admits projects without members. No team keys selected hides everything.
- **Assigned to me**: the signed-in user must be a member.
- **Search**: case-insensitive substring of the project name.

Folders appear in the fixed order NOT_STARTED, IN_PROGRESS, COMPLETED, CANCELED, ARCHIVED. Empty folders are omitted.

Filters are seeded once per workspace with every folder and every team. ` + "`update_filters`" + ` with ` + "`reset`" + ` restores that seed. The filter-active flag is set whenever the selection differs from the defaults.

Changing filters so that the selected project is no longer visible closes its draft.
`,
	},
	{
		URI:         "pmdash://docs/mutations",
		Name:        "docs_mutations",
		Title:       "Mutations and outcomes",
		Description: "What each mutation does locally, which errors clear the selection and when data is reloaded.",
		Content: `# Mutations and outcomes

Every mutation returns ` + "`outcome`" + ` and ` + "`message`" + `:

- ` + "`succeeded`" + `: applied. Most mutations reload the workspace afterwards (` + "`refreshed`" + `).
- ` + "`failed`" + `: refused. 403 reports "Not allowed"; 404 reports "Project not found." and closes a matching draft.
- ` + "`notice`" + `: nothing to do, e.g. random assign with no eligible people (409).

Specifics:

- **archive_project** tags the project as archived right away. A refusal rolls the tag back (` + "`rolledBack`" + `).
- **restore_project** restores, then resets the project to NOT_STARTED with no members.
- **delete_project** requires ` + "`confirm: true`" + `.
- A result marked ` + "`superseded`" + ` was overtaken by a newer request for the same project and was discarded.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
