package ingest

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/catalogsync"
	"github.com/agentstation/catalogsync/internal/catalogtest"
	"github.com/agentstation/catalogsync/internal/cmd/cmdtest"
	"github.com/agentstation/catalogsync/pkg/datacatalog"
	"github.com/agentstation/catalogsync/pkg/errors"
)

func TestIngest(t *testing.T) {
	fake := catalogtest.New()
	path := cmdtest.WriteManifest(t, cmdtest.Manifest)

	out, err := cmdtest.Run(t, NewCommand(cmdtest.NewApp(fake, "json")), "-f", path)
	require.NoError(t, err)

	var result catalogsync.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "projects/p/locations/us/entryGroups/g", result.EntryGroup)
	assert.Equal(t, 2, result.EntriesSeen)
	assert.Equal(t, 2, result.Ingest.EntriesProcessed)
	assert.False(t, result.CleanedUp)
	assert.Len(t, fake.EntryNames(), 2)
	assert.True(t, fake.HasTagTemplate("projects/p/locations/us/tagTemplates/g_table"))
}

func TestIngestWithCleanup(t *testing.T) {
	fake := catalogtest.New()
	fake.PutEntry(&datacatalog.Entry{
		Name:                "projects/p/locations/us/entryGroups/g/entries/stale",
		UserSpecifiedType:   "table",
		UserSpecifiedSystem: "sqlserver",
	})
	path := cmdtest.WriteManifest(t, cmdtest.Manifest)

	out, err := cmdtest.Run(t, NewCommand(cmdtest.NewApp(fake, "table")),
		"-f", path, "--cleanup-query", "system=sqlserver")
	require.NoError(t, err)

	assert.Contains(t, out, "Cleaned Up")
	assert.NotContains(t, fake.EntryNames(), "projects/p/locations/us/entryGroups/g/entries/stale")
	assert.Len(t, fake.EntryNames(), 2)
}

func TestIngestErrors(t *testing.T) {
	t.Run("missing file flag", func(t *testing.T) {
		_, err := cmdtest.Run(t, NewCommand(cmdtest.NewApp(catalogtest.New(), "json")))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file")
	})

	t.Run("invalid manifest", func(t *testing.T) {
		path := cmdtest.WriteManifest(t, "entries:\n  - entry_id: a\n    unknown: b\n")
		_, err := cmdtest.Run(t, NewCommand(cmdtest.NewApp(catalogtest.New(), "json")), "-f", path)
		var parseErr *errors.ParseError
		assert.True(t, errors.As(err, &parseErr))
	})

	t.Run("unreadable file", func(t *testing.T) {
		_, err := cmdtest.Run(t, NewCommand(cmdtest.NewApp(catalogtest.New(), "json")), "-f", "/does/not/exist.yaml")
		var ioErr *errors.IOError
		assert.True(t, errors.As(err, &ioErr))
	})

	t.Run("unexpected argument", func(t *testing.T) {
		path := cmdtest.WriteManifest(t, cmdtest.Manifest)
		_, err := cmdtest.Run(t, NewCommand(cmdtest.NewApp(catalogtest.New(), "json")), "-f", path, "extra")
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "unknown command") || strings.Contains(err.Error(), "accepts 0 arg"))
	})
}
