package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ganot/pmdash/internal/domain/activity"
	"github.com/ganot/pmdash/internal/domain/project"
	"github.com/ganot/pmdash/internal/domain/user"
	"github.com/ganot/pmdash/internal/mutation"
	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
	loginRemember bool

	projectsSearch  string
	projectsMine    bool
	projectsFilters []string
	projectsReset   bool

	deleteYes bool

	peopleSearch string

	activityProject string
	activityLimit   int
)

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "account username or email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password (default $PMDASH_PASSWORD)")
	loginCmd.Flags().BoolVar(&loginRemember, "remember", true, "keep the session for later invocations")
	_ = loginCmd.MarkFlagRequired("username")

	projectsCmd.Flags().StringVarP(&projectsSearch, "search", "s", "", "match project names")
	projectsCmd.Flags().BoolVar(&projectsMine, "mine", false, "only projects I am on")
	projectsCmd.Flags().StringSliceVarP(&projectsFilters, "filter", "f", nil, "replace the filter selection (status:<FOLDER>, status:UNASSIGNED, team:<label>)")
	projectsCmd.Flags().BoolVar(&projectsReset, "reset", false, "restore the default filters first")

	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "confirm permanent deletion")

	peopleCmd.Flags().StringVarP(&peopleSearch, "search", "s", "", "match name, email or team")

	activityCmd.Flags().StringVar(&activityProject, "project", "", "only entries for this project")
	activityCmd.Flags().IntVarP(&activityLimit, "limit", "n", 20, "maximum entries")
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the backend",
	Long: `Sign in and, when the account belongs to exactly one workspace, select it.

Examples:
  pmdctl login -u ana@example.com
  PMDASH_PASSWORD=secret pmdctl login -u ana`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		password := loginPassword
		if password == "" {
			password = os.Getenv("PMDASH_PASSWORD")
		}
		if password == "" {
			return errors.New("password required: use --password or PMDASH_PASSWORD")
		}
		me, err := current.Dashboard.Login(cmd.Context(), user.LoginRequest{
			Username: loginUsername,
			Password: password,
			Remember: loginRemember,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "Signed in as %s\n", me.DisplayName)
		if ws := current.Session.WorkspaceID(); ws != "" {
			fmt.Fprintf(out(cmd), "Active workspace: %s\n", ws)
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the remembered session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		current.Dashboard.Logout(cmd.Context())
		fmt.Fprintln(out(cmd), "Signed out")
		return nil
	},
}

var workspacesCmd = &cobra.Command{
	Use:   "workspaces",
	Short: "List workspaces",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		workspaces, err := current.Dashboard.Workspaces(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(out(cmd), workspaces)
		}
		active := current.Session.WorkspaceID()
		return printTable(out(cmd), []string{"", "ID", "NAME"}, func(row func(...any)) {
			for _, ws := range workspaces {
				marker := ""
				if ws.ID == active {
					marker = "*"
				}
				row(marker, ws.ID, ws.Name)
			}
		})
	},
}

var useCmd = &cobra.Command{
	Use:   "use <workspace-id>",
	Short: "Activate a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.Dashboard.SelectWorkspace(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "Using workspace %s\n", args[0])
		return nil
	},
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List visible projects grouped by status",
	Long: `List the projects that pass the current filters, grouped by status folder.

Filter changes are remembered for the workspace.

Examples:
  pmdctl projects
  pmdctl projects --mine
  pmdctl projects -f status:IN_PROGRESS -f team:Design`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		d := current.Dashboard
		if projectsReset {
			d.ResetFilters(cmd.Context())
		}
		if cmd.Flags().Changed("filter") {
			d.SetFilters(cmd.Context(), projectsFilters)
		}
		d.SetSearch(cmd.Context(), projectsSearch)
		d.SetAssignedToMe(cmd.Context(), projectsMine)

		view, err := d.Dashboard()
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(out(cmd), view)
		}
		w := out(cmd)
		if view.Error != "" {
			fmt.Fprintf(w, "warning: %s (showing data from %s)\n", view.Error, since(view.LoadedAt))
		}
		if view.FilterActive {
			fmt.Fprintf(w, "filters: %s\n", strings.Join(view.Filters, ", "))
		}
		if len(view.Groups) == 0 {
			fmt.Fprintln(w, "No projects match the current filters")
			return nil
		}
		return printTable(w, []string{"FOLDER", "ID", "NAME", "MEMBERS"}, func(row func(...any)) {
			for _, g := range view.Groups {
				for _, p := range g.Projects {
					row(g.Folder.Label, p.ID, p.Name, len(p.MemberIDs))
				}
			}
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show status, team and workload breakdowns for visible projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		view, err := current.Dashboard.Dashboard()
		if err != nil {
			return err
		}
		b := view.Breakdown
		if jsonOutput {
			return printJSON(out(cmd), b)
		}
		w := out(cmd)
		c := b.Counters
		fmt.Fprintf(w, "assigned %d  unassigned %d  in progress %d  completed %d  canceled %d  archived %d\n",
			c.Assigned, c.Unassigned, c.InProgress, c.Completed, c.Canceled, c.Archived)
		fmt.Fprintf(w, "loaded %s\n\n", since(view.LoadedAt))
		printSlices(w, "STATUS", b.Status)
		printSlices(w, "TEAM", b.Teams)
		printSlices(w, "WORKLOAD", b.Workload)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <project-id> <status>",
	Short: "Set a project's status",
	Long: `Set a project's status. Valid statuses: NOT_STARTED, IN_PROGRESS,
COMPLETED, CANCELED and ARCHIVED.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := project.Status(strings.ToUpper(args[1]))
		if !status.Valid() {
			return fmt.Errorf("%w: %q", project.ErrInvalidStatus, args[1])
		}
		res, err := current.Dashboard.ChangeStatus(cmd.Context(), args[0], status)
		return report(cmd, res, err)
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive <project-id>",
	Short: "Archive a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := current.Dashboard.Archive(cmd.Context(), args[0])
		return report(cmd, res, err)
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <project-id>",
	Short: "Restore an archived project as NOT_STARTED with no members",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := current.Dashboard.Restore(cmd.Context(), args[0])
		return report(cmd, res, err)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Delete a project permanently",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := current.Dashboard.Delete(cmd.Context(), args[0], deleteYes)
		if err == nil && errors.Is(res.Err, mutation.ErrConfirmationRequired) {
			return fmt.Errorf("%s Re-run with --yes", res.Message)
		}
		return report(cmd, res, err)
	},
}

var peopleCmd = &cobra.Command{
	Use:   "people",
	Short: "List assignable people, least-loaded first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		view, err := current.Dashboard.People(peopleSearch)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(out(cmd), view.People)
		}
		return printTable(out(cmd), []string{"ID", "NAME", "TEAM", "ACTIVE", "RECOMMENDED", ""}, func(row func(...any)) {
			for _, p := range view.People {
				marker := ""
				if p.LeastLoaded {
					marker = "least loaded"
				}
				row(p.ID, p.Label(), p.Team, p.ActiveProjectCount, p.RecommendedCount, marker)
			}
		})
	},
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show recent mutation outcomes for the active workspace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts := activity.ListOptions{Limit: activityLimit}
		if activityProject != "" {
			opts.ProjectID = &activityProject
		}
		entries, err := current.Dashboard.Activity(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(out(cmd), entries)
		}
		return printTable(out(cmd), []string{"WHEN", "KIND", "OUTCOME", "SUMMARY"}, func(row func(...any)) {
			for _, e := range entries {
				row(since(e.CreatedAt), e.Kind, e.Outcome, e.Summary)
			}
		})
	},
}

// report prints a mutation result. Refusals become command errors so the
// exit status is non-zero.
func report(cmd *cobra.Command, res mutation.Result, err error) error {
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(out(cmd), res)
	}
	msg := res.Message
	if msg == "" {
		msg = string(res.Outcome)
	}
	if res.Outcome == activity.OutcomeFailed {
		return errors.New(msg)
	}
	fmt.Fprintln(out(cmd), msg)
	return nil
}
