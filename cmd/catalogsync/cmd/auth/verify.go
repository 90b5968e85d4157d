package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/catalogsync/internal/auth/adc"
	"github.com/agentstation/catalogsync/internal/cmd/application"
	"github.com/agentstation/catalogsync/internal/cmd/emoji"
)

// NewVerifyCommand creates the auth verify subcommand using app context.
func NewVerifyCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Fetch a token with the detected credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := app.Logger()

			project, err := adc.Verify(ctx)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Credentials could not be verified\n", emoji.Error)
				return err
			}
			logger.Debug().Str("project", project).Msg("Credentials verified")

			if project == "" {
				project = "not bound to a project"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Credentials verified (%s)\n", emoji.Success, project)
			return nil
		},
	}
}
