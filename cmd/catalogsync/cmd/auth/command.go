// Package auth provides Google Cloud authentication commands.
package auth

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/catalogsync/internal/cmd/application"
)

// NewCommand creates the auth command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		GroupID: "management",
		Short:   "Check Google Cloud credentials",
		Long: `Check the Application Default Credentials and the project and location
catalogsync resolves when none are configured.

Set them up with:
  gcloud auth application-default login`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(NewStatusCommand(app))
	cmd.AddCommand(NewVerifyCommand(app))

	return cmd
}
