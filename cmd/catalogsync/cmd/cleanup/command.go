// Package cleanup provides the cleanup command.
package cleanup

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/catalogsync/internal/cmd/application"
	"github.com/agentstation/catalogsync/internal/cmd/cmdutil"
	"github.com/agentstation/catalogsync/internal/cmd/emoji"
)

// NewCommand creates the cleanup command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var (
		manifestFlags *cmdutil.ManifestFlags
		query         string
	)

	cmd := &cobra.Command{
		Use:     "cleanup",
		GroupID: "core",
		Short:   "Delete entries that are no longer in the manifest",
		Long: `Cleanup searches the catalog with --query and deletes every entry found
that is not part of the manifest, then deletes the entry groups that were
left empty. The manifest is not ingested.`,
		Example: `  catalogsync cleanup -f sqlserver.yaml --query "system=sqlserver"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			m, err := manifestFlags.Load()
			if err != nil {
				return err
			}
			if query == "" {
				query = m.CleanupQuery
			}

			client, err := cmdutil.ClientForManifest(ctx, app, m)
			if err != nil {
				return err
			}

			if err := client.Cleanup(ctx, m.Entries, query); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Obsolete metadata deleted (%d entries kept)\n", emoji.Success, len(m.Entries))
			return nil
		},
	}

	manifestFlags = cmdutil.AddManifestFlags(cmd)
	cmd.Flags().StringVar(&query, "query", "",
		"Search query selecting the candidate entries (default: cleanup_query from the manifest)")

	return cmd
}
