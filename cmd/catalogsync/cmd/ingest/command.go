// Package ingest provides the ingest command.
package ingest

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/catalogsync"
	"github.com/agentstation/catalogsync/internal/cmd/application"
	"github.com/agentstation/catalogsync/internal/cmd/cmdutil"
	"github.com/agentstation/catalogsync/internal/cmd/output"
)

// NewCommand creates the ingest command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var (
		manifestFlags *cmdutil.ManifestFlags
		cleanupQuery  string
		timeout       time.Duration
	)

	cmd := &cobra.Command{
		Use:     "ingest",
		GroupID: "core",
		Short:   "Reconcile a manifest into Data Catalog",
		Long: `Ingest creates the manifest's tag templates and entry group when missing,
then creates, updates or leaves each entry and its tags untouched by
comparing them with what Data Catalog holds.

Failures on single entries or tags are logged and counted; the run goes on.
With --cleanup-query (or cleanup_query in the manifest) the entries found by
the query that are not in the manifest are deleted afterwards.`,
		Example: `  catalogsync ingest -f sqlserver.yaml
  catalogsync ingest -f sqlserver.yaml --cleanup-query "system=sqlserver"
  catalogsync ingest -f sqlserver.yaml --format json`,
		Args: cobra.NoArgs,
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

			var opts []catalogsync.SyncOption
			if cleanupQuery != "" {
				opts = append(opts, catalogsync.WithCleanupQuery(cleanupQuery))
			}
			if timeout == 0 {
				timeout = app.Settings().Timeout
			}
			if timeout > 0 {
				opts = append(opts, catalogsync.WithTimeout(timeout))
			}

			result, err := client.Sync(ctx, m, opts...)
			if err != nil {
				return err
			}

			return output.Write(cmd.OutOrStdout(), app.OutputFormat(), result, func() output.Data {
				return output.SyncResultToTableData(result)
			})
		},
	}

	manifestFlags = cmdutil.AddManifestFlags(cmd)
	cmd.Flags().StringVar(&cleanupQuery, "cleanup-query", "",
		"Search query selecting the entries to prune after ingestion")
	cmd.Flags().DurationVar(&timeout, "timeout", 0,
		"Abort the run after this duration (e.g. 30m)")

	return cmd
}
