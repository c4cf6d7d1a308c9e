// Package main implements pmdctl, a command-line client for the project
// dashboard. It talks to the backend directly and keeps its session in the
// configured SQLite database.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/ganot/pmdash/internal/app"
	"github.com/ganot/pmdash/internal/config"
	"github.com/spf13/cobra"
)

var (
	// version information
	version = "dev"

	jsonOutput bool
	verbose    bool

	// current is set by the root pre-run hook.
	current *app.App
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pmdctl",
	Short: "Command-line client for the project dashboard",
	Long: `pmdctl signs in to the project-management backend and works with the
active workspace: list and filter projects, change status, archive, restore
and delete projects, and inspect people and workload.

Configuration comes from PMDASH_CONFIG_PATH and PMDASH_* environment variables.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if current != nil {
			_ = current.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of tables")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	rootCmd.AddCommand(
		loginCmd,
		logoutCmd,
		workspacesCmd,
		useCmd,
		projectsCmd,
		statsCmd,
		statusCmd,
		archiveCmd,
		restoreCmd,
		deleteCmd,
		peopleCmd,
		activityCmd,
	)
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	current = a
	a.Start(cmd.Context())
	return nil
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
