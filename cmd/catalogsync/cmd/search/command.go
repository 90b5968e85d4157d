// Package search provides the search command.
package search

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/catalogsync/internal/cmd/application"
	"github.com/agentstation/catalogsync/internal/cmd/output"
	"github.com/agentstation/catalogsync/pkg/datacatalog"
)

// NewCommand creates the search command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var (
		template  string
		field     string
		fieldType string
	)

	cmd := &cobra.Command{
		Use:     "search QUERY",
		GroupID: "core",
		Short:   "Search the catalog within the project",
		Long: `Search runs a Data Catalog search query scoped to the project and prints
the relative resource name of every hit.

With --template and --field the value of that tag field is printed for
every hit that carries a tag of the template instead.`,
		Example: `  catalogsync search "system=sqlserver"
  catalogsync search "tag:my_template" --template my_template --field owner
  catalogsync search "type=table" --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			query := strings.Join(args, " ")

			client, err := app.Client(ctx)
			if err != nil {
				return err
			}

			if template != "" {
				values, err := client.TagFieldValues(ctx, query, template, field,
					datacatalog.PrimitiveType(strings.ToUpper(fieldType)))
				if err != nil {
					return err
				}
				return output.Write(cmd.OutOrStdout(), app.OutputFormat(), values, func() output.Data {
					return output.TagFieldValuesToTableData(field, values)
				})
			}

			names, err := client.Search(ctx, query)
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), app.OutputFormat(), names, func() output.Data {
				return output.SearchResultsToTableData(names)
			})
		},
	}

	cmd.Flags().StringVar(&template, "template", "", "Tag template id or name whose field values to print")
	cmd.Flags().StringVar(&field, "field", "", "Tag field id (with --template)")
	cmd.Flags().StringVar(&fieldType, "field-type", string(datacatalog.PrimitiveString),
		"Tag field type: STRING, DOUBLE, BOOL, TIMESTAMP, RICHTEXT, ENUM")
	cmd.MarkFlagsRequiredTogether("template", "field")

	return cmd
}
