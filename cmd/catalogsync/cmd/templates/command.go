// Package templates provides tag template commands.
package templates

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/catalogsync/internal/cmd/application"
	"github.com/agentstation/catalogsync/internal/cmd/emoji"
	"github.com/agentstation/catalogsync/internal/cmd/output"
)

// NewCommand creates the templates command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template"},
		GroupID: "management",
		Short:   "Inspect and delete tag templates",
		Long: `Manage the tag templates of the project and location.

Templates are addressed by id (resolved in the configured project and
location) or by full resource name.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(NewGetCommand(app))
	cmd.AddCommand(NewDeleteCommand(app))

	return cmd
}

// NewGetCommand creates the templates get subcommand.
func NewGetCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "get ID",
		Short:   "Show the fields of a tag template",
		Example: `  catalogsync templates get sqlserver_table_metadata`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := app.Client(ctx)
			if err != nil {
				return err
			}

			template, err := client.GetTagTemplate(ctx, args[0])
			if err != nil {
				return err
			}

			format := app.OutputFormat()
			return output.Write(cmd.OutOrStdout(), format, template, func() output.Data {
				return output.TagTemplateToTableData(template, output.Format(format) == output.FormatWide)
			})
		},
	}
}

// NewDeleteCommand creates the templates delete subcommand.
func NewDeleteCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID...",
		Short: "Force-delete tag templates and every tag using them",
		Long: `Delete removes tag templates along with all the tags created from them.
Templates that do not exist are reported as errors; the remaining ones are
still deleted.`,
		Example: `  catalogsync templates delete sqlserver_table_metadata sqlserver_column_metadata`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := app.Client(ctx)
			if err != nil {
				return err
			}

			if err := client.DeleteTagTemplates(ctx, args...); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted %d tag templates\n", emoji.Success, len(args))
			return nil
		},
	}
}
