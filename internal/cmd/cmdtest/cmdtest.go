// Package cmdtest provides helpers for testing catalogsync commands against
// the in-memory catalog.
package cmdtest

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/agentstation/catalogsync"
	"github.com/agentstation/catalogsync/internal/catalogtest"
	"github.com/agentstation/catalogsync/internal/cmd/application"
)

// Manifest is a small valid manifest for project p, location us, entry group g.
const Manifest = `
project_id: p
location_id: us
entry_group_id: g
tag_templates:
  g_table:
    display_name: Table metadata
    fields:
      owner:
        display_name: Owner
        type:
          primitive: STRING
entries:
  - entry_id: orders
    entry:
      user_specified_type: table
      user_specified_system: sqlserver
      display_name: orders
    tags:
      - template: g_table
        fields:
          owner:
            string_value: sales
  - entry_id: customers
    entry:
      user_specified_type: table
      user_specified_system: sqlserver
      display_name: customers
`

// NewApp returns a mock application whose clients use fake. Clients default
// to project p, location us and entry group g; opts passed by commands and
// extra are applied on top.
func NewApp(fake *catalogtest.Fake, format string, extra ...catalogsync.Option) *application.Mock {
	return &application.Mock{
		OutputFormatFunc: func() string { return format },
		ClientFunc: func(ctx context.Context, opts ...catalogsync.Option) (catalogsync.Client, error) {
			base := []catalogsync.Option{
				catalogsync.WithProject("p"),
				catalogsync.WithLocation("us"),
				catalogsync.WithEntryGroup("g"),
				catalogsync.WithCatalogService(fake),
			}
			base = append(base, extra...)
			return catalogsync.New(ctx, append(base, opts...)...)
		},
	}
}

// WriteManifest writes content to a manifest file in a temporary directory.
func WriteManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// Run executes cmd with args and returns its output.
func Run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}
