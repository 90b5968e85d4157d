// Package cmdutil provides shared flags and client helpers for catalogsync commands.
package cmdutil

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/agentstation/catalogsync"
	"github.com/agentstation/catalogsync/internal/cmd/application"
	"github.com/agentstation/catalogsync/pkg/manifest"
)

// ManifestFlags holds the manifest file flag.
type ManifestFlags struct {
	File string
}

// AddManifestFlags adds the required --file flag to a command.
func AddManifestFlags(cmd *cobra.Command) *ManifestFlags {
	flags := &ManifestFlags{}

	cmd.Flags().StringVarP(&flags.File, "file", "f", "",
		"Manifest file (YAML) with entries, tag templates and ingestion config")
	_ = cmd.MarkFlagRequired("file")

	return flags
}

// Load reads and validates the manifest named by the flag.
func (f *ManifestFlags) Load() (*manifest.Manifest, error) {
	return manifest.Load(f.File)
}

// ClientForManifest creates a client for the manifest. Coordinates set by
// flags, environment or config file win over the manifest ones; the
// manifest wins over gcloud defaults.
func ClientForManifest(ctx context.Context, app application.Application, m *manifest.Manifest) (catalogsync.Client, error) {
	settings := app.Settings()

	var opts []catalogsync.Option
	if settings.ProjectID == "" && m.ProjectID != "" {
		opts = append(opts, catalogsync.WithProject(m.ProjectID))
	}
	if settings.LocationID == "" && m.LocationID != "" {
		opts = append(opts, catalogsync.WithLocation(m.LocationID))
	}
	if settings.EntryGroupID == "" && m.EntryGroupID != "" {
		opts = append(opts, catalogsync.WithEntryGroup(m.EntryGroupID))
	}

	return app.Client(ctx, opts...)
}
