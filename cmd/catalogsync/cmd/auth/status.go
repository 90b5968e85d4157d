package auth

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/catalogsync/internal/auth/adc"
	"github.com/agentstation/catalogsync/internal/cmd/application"
	"github.com/agentstation/catalogsync/internal/cmd/output"
)

// NewStatusCommand creates the auth status subcommand using app context.
func NewStatusCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the local credentials and resolved project",
		Long: `Display the Application Default Credentials file, its type and account,
and where the project and location come from.

No API calls are made. Use 'catalogsync auth verify' to test the credentials.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			details := adc.BuildDetails()
			applySettings(details, app.Settings())

			return output.Write(cmd.OutOrStdout(), app.OutputFormat(), details, func() output.Data {
				return output.AuthDetailsToTableData(details)
			})
		},
	}
}

// applySettings reports explicitly configured coordinates over the
// detected ones.
func applySettings(details *adc.Details, settings application.Settings) {
	if settings.ProjectID != "" {
		details.Project = settings.ProjectID
		details.ProjectSource = "catalogsync config"
	}
	if settings.LocationID != "" {
		details.Location = settings.LocationID
		details.LocationSource = "catalogsync config"
	}
}
