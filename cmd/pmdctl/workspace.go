package main

import (
	"fmt"

	"github.com/ganot/pmdash/internal/domain/workspace"
	"github.com/spf13/cobra"
)

var (
	createTeams []string
	joinAnswer  string
	demoReset   bool
)

func init() {
	createWorkspaceCmd.Flags().StringSliceVarP(&createTeams, "team", "t", nil, "team to create with the workspace (repeatable)")
	joinCmd.Flags().StringVar(&joinAnswer, "answer", "", "answer to the workspace's join question")
	demoCmd.Flags().BoolVar(&demoReset, "reset", false, "restore the active demo workspace to its seed data")

	requestsCmd.AddCommand(approveCmd, denyCmd)
	rootCmd.AddCommand(createWorkspaceCmd, joinCmd, requestsCmd, teamCmd, demoCmd)
}

var createWorkspaceCmd = &cobra.Command{
	Use:   "create-workspace <name>",
	Short: "Create a workspace and make it active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := workspace.CreateRequest{Name: args[0]}
		for _, name := range createTeams {
			req.InitialTeams = append(req.InitialTeams, workspace.InitialTeam{Name: name})
		}
		ws, err := current.Dashboard.CreateWorkspace(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "Using workspace %s (%s)\n", ws.Name, ws.ID)
		return nil
	},
}

var joinCmd = &cobra.Command{
	Use:   "join <invite>",
	Short: "Join a workspace by invite token or link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := current.Dashboard
		invite, err := d.ResolveInvite(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if invite.JoinQuestion != "" && joinAnswer == "" {
			return fmt.Errorf("%s asks: %q. Re-run with --answer", invite.WorkspaceName, invite.JoinQuestion)
		}
		token := invite.Token
		if token == "" {
			token = args[0]
		}
		ws, err := d.JoinWorkspace(cmd.Context(), token, joinAnswer)
		if err != nil {
			return err
		}
		if ws.Status != workspace.StatusActive {
			fmt.Fprintf(out(cmd), "Request to join %s is waiting for approval\n", ws.Name)
			return nil
		}
		fmt.Fprintf(out(cmd), "Using workspace %s\n", ws.Name)
		return nil
	},
}

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "List pending requests to join the active workspace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reqs, err := current.Dashboard.JoinRequests(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(out(cmd), reqs)
		}
		return printTable(out(cmd), []string{"ID", "NAME", "EMAIL", "STATUS", "REQUESTED"}, func(row func(...any)) {
			for _, r := range reqs {
				row(r.ID, r.DisplayName, r.Email, r.Status, since(r.CreatedAt))
			}
		})
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve <request-id>",
	Short: "Approve a join request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decide(cmd, args[0], true)
	},
}

var denyCmd = &cobra.Command{
	Use:   "deny <request-id>",
	Short: "Deny a join request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decide(cmd, args[0], false)
	},
}

func decide(cmd *cobra.Command, requestID string, approve bool) error {
	req, err := current.Dashboard.DecideJoinRequest(cmd.Context(), requestID, approve)
	if err != nil {
		return err
	}
	fmt.Fprintf(out(cmd), "%s: %s\n", req.ID, req.Status)
	return nil
}

var teamCmd = &cobra.Command{
	Use:   "team <name>",
	Short: "Add a team to the active workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		team, err := current.Dashboard.CreateTeam(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "Created team %s (%s)\n", team.Name, team.ID)
		return nil
	},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Open the demo workspace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		d := current.Dashboard
		if demoReset {
			if err := d.ResetDemo(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), "Demo workspace reset")
			return nil
		}
		ws, err := d.EnterDemo(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(out(cmd), "Using demo workspace %s\n", ws.Name)
		return nil
	},
}
