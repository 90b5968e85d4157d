// Package metrics provides the run metrics commands.
package metrics

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/catalogsync"
	"github.com/agentstation/catalogsync/internal/cmd/application"
	"github.com/agentstation/catalogsync/internal/cmd/emoji"
	"github.com/agentstation/catalogsync/internal/cmd/output"
	"github.com/agentstation/catalogsync/pkg/monitoring"
)

// NewCommand creates the metrics command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "metrics",
		GroupID: "management",
		Short:   "Read and delete run metrics in Cloud Monitoring",
		Long: `Ingestion runs with monitoring enabled write three gauges per entry group
to Cloud Monitoring: elapsed_time (ms), entries_length and
metadata_payload_bytes. These commands work on the configured entry group.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(NewListCommand(app))
	cmd.AddCommand(NewDeleteCommand(app))

	return cmd
}

// NewListCommand creates the metrics list subcommand.
func NewListCommand(app application.Application) *cobra.Command {
	var (
		metric string
		since  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the points of a run metric",
		Example: `  catalogsync metrics list --entry-group sqlserver
  catalogsync metrics list --entry-group sqlserver --metric entries_length --since 24h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if !slices.Contains(monitoring.MetricNames, metric) {
				return fmt.Errorf("unknown metric %q: must be one of %v", metric, monitoring.MetricNames)
			}

			client, err := app.Client(ctx, catalogsync.WithMonitoring(true))
			if err != nil {
				return err
			}

			end := time.Now()
			series, err := client.ListMetrics(ctx, metric, end.Add(-since), end)
			if err != nil {
				return err
			}

			return output.Write(cmd.OutOrStdout(), app.OutputFormat(), series, func() output.Data {
				return output.TimeSeriesToTableData(series)
			})
		},
	}

	cmd.Flags().StringVar(&metric, "metric", monitoring.ElapsedTime,
		"Metric: elapsed_time, entries_length, metadata_payload_bytes")
	cmd.Flags().DurationVar(&since, "since", time.Hour, "How far back to list points")

	return cmd
}

// NewDeleteCommand creates the metrics delete subcommand.
func NewDeleteCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "delete",
		Short:   "Delete the metric descriptors of the entry group",
		Example: `  catalogsync metrics delete --entry-group sqlserver`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, err := app.Client(ctx, catalogsync.WithMonitoring(true))
			if err != nil {
				return err
			}

			if err := client.DeleteMetrics(ctx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted metric descriptors\n", emoji.Success)
			return nil
		},
	}
}
