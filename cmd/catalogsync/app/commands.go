package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/catalogsync/cmd/catalogsync/cmd/auth"
	"github.com/agentstation/catalogsync/cmd/catalogsync/cmd/cleanup"
	"github.com/agentstation/catalogsync/cmd/catalogsync/cmd/ingest"
	"github.com/agentstation/catalogsync/cmd/catalogsync/cmd/metrics"
	"github.com/agentstation/catalogsync/cmd/catalogsync/cmd/remove"
	"github.com/agentstation/catalogsync/cmd/catalogsync/cmd/search"
	"github.com/agentstation/catalogsync/cmd/catalogsync/cmd/templates"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(ingest.NewCommand(a))
	rootCmd.AddCommand(cleanup.NewCommand(a))
	rootCmd.AddCommand(remove.NewCommand(a))
	rootCmd.AddCommand(search.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(templates.NewCommand(a))
	rootCmd.AddCommand(metrics.NewCommand(a))
	rootCmd.AddCommand(auth.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.newVersionCommand())
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("catalogsync %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
