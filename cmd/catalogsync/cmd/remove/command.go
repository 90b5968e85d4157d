// Package remove provides the delete command.
package remove

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/catalogsync/internal/cmd/application"
	"github.com/agentstation/catalogsync/internal/cmd/cmdutil"
	"github.com/agentstation/catalogsync/internal/cmd/emoji"
)

// NewCommand creates the delete command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var manifestFlags *cmdutil.ManifestFlags

	cmd := &cobra.Command{
		Use:     "delete",
		GroupID: "core",
		Short:   "Delete every manifest entry from Data Catalog",
		Long: `Delete removes each entry of the manifest from its entry group. Entries
that do not exist are skipped and failures on single entries are logged.
The entry group and tag templates are kept.`,
		Example: `  catalogsync delete -f sqlserver.yaml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			m, err := manifestFlags.Load()
			if err != nil {
				return err
			}

			client, err := cmdutil.ClientForManifest(ctx, app, m)
			if err != nil {
				return err
			}

			if err := client.Delete(ctx, m.Entries); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted %d entries\n", emoji.Success, len(m.Entries))
			return nil
		},
	}

	manifestFlags = cmdutil.AddManifestFlags(cmd)

	return cmd
}
