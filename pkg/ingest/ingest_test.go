package ingest_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/catalogsync/internal/catalogtest"
	"github.com/agentstation/catalogsync/pkg/catalog"
	"github.com/agentstation/catalogsync/pkg/datacatalog"
	"github.com/agentstation/catalogsync/pkg/errors"
	"github.com/agentstation/catalogsync/pkg/ingest"
	"github.com/agentstation/catalogsync/pkg/logging"
)

const (
	project    = "p"
	location   = "us"
	groupID    = "sqlserver"
	groupName  = "projects/p/locations/us/entryGroups/sqlserver"
	templateID = "sqlserver_table_metadata"
	template   = "projects/p/locations/us/tagTemplates/sqlserver_table_metadata"
)

func setup(t *testing.T) (*ingest.Ingestor, *catalogtest.Fake, context.Context) {
	t.Helper()
	fake := catalogtest.New()
	tl := logging.NewTestLogger(t)
	return ingest.New(catalog.NewFacade(fake, project), project, location, groupID), fake, tl.Context(context.Background())
}

func templates() map[string]*datacatalog.TagTemplate {
	return map[string]*datacatalog.TagTemplate{
		templateID: {
			DisplayName: "SQL Server table metadata",
			Fields: map[string]datacatalog.TagTemplateField{
				"num_rows": {DisplayName: "Number of rows", Type: datacatalog.FieldType{Primitive: datacatalog.PrimitiveDouble}},
			},
		},
	}
}

func assembled(id, linked string, rows float64) *datacatalog.AssembledEntryData {
	return &datacatalog.AssembledEntryData{
		EntryID: id,
		Entry: &datacatalog.Entry{
			UserSpecifiedType:   "table",
			UserSpecifiedSystem: "sqlserver",
			DisplayName:         id,
			LinkedResource:      linked,
		},
		Tags: []*datacatalog.Tag{{
			Template: template,
			Fields:   map[string]datacatalog.TagField{"num_rows": datacatalog.DoubleField(rows)},
		}},
	}
}

func TestIngestMetadata(t *testing.T) {
	ing, fake, ctx := setup(t)

	entries := []*datacatalog.AssembledEntryData{
		assembled("orders", "//db/orders", 10),
		assembled("customers", "//db/customers", 20),
	}
	result, err := ing.IngestMetadata(ctx, entries, templates(), nil)
	require.NoError(t, err)

	assert.Equal(t, groupName, result.EntryGroupName)
	assert.Equal(t, 2, result.EntriesProcessed)
	assert.Zero(t, result.EntriesFailed)
	assert.True(t, fake.HasTagTemplate(template))
	assert.True(t, fake.HasEntryGroup(groupName))
	assert.Equal(t, []string{groupName + "/entries/customers", groupName + "/entries/orders"}, fake.EntryNames())
	assert.Len(t, fake.Tags(groupName+"/entries/orders"), 1)
}

func TestIngestMetadataSecondRunOnlyBootstraps(t *testing.T) {
	ing, fake, ctx := setup(t)
	entries := []*datacatalog.AssembledEntryData{assembled("orders", "//db/orders", 10)}

	_, err := ing.IngestMetadata(ctx, entries, templates(), nil)
	require.NoError(t, err)
	fake.ResetCalls()

	result, err := ing.IngestMetadata(ctx, []*datacatalog.AssembledEntryData{assembled("orders", "//db/orders", 10)}, templates(), nil)
	require.NoError(t, err)

	assert.Equal(t, groupName, result.EntryGroupName, "fallback name must match the created name")
	assert.Equal(t, 1, fake.Calls(catalogtest.OpCreateTagTemplate))
	assert.Equal(t, 1, fake.Calls(catalogtest.OpCreateEntryGroup))
	assert.Equal(t, 2, fake.Writes(), "only the rejected bootstrap creates")
}

func TestIngestMetadataBootstrapErrorsAbort(t *testing.T) {
	tests := []struct {
		name string
		op   string
	}{
		{"tag template", catalogtest.OpCreateTagTemplate},
		{"entry group", catalogtest.OpCreateEntryGroup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ing, fake, ctx := setup(t)
			fake.Fail(tt.op, "", errors.KindNotFound)

			_, err := ing.IngestMetadata(ctx, []*datacatalog.AssembledEntryData{assembled("orders", "x", 1)}, templates(), nil)
			require.Error(t, err)
			assert.Equal(t, errors.KindNotFound, errors.KindOf(err))
			assert.Zero(t, fake.Calls(catalogtest.OpGetEntry))
		})
	}
}

func TestIngestMetadataContinuesPastEntryFailures(t *testing.T) {
	ing, fake, ctx := setup(t)
	fake.Fail(catalogtest.OpGetEntry, groupName+"/entries/broken", errors.KindUnknown)

	entries := []*datacatalog.AssembledEntryData{
		assembled("broken", "//db/broken", 1),
		assembled("orders", "//db/orders", 10),
	}
	result, err := ing.IngestMetadata(ctx, entries, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.EntriesFailed)
	assert.Equal(t, 1, result.EntriesProcessed)
	assert.Equal(t, []string{groupName + "/entries/orders"}, fake.EntryNames())
}

func TestIngestMetadataSkipsTagsForUnpersistedEntries(t *testing.T) {
	ing, fake, ctx := setup(t)
	fake.Fail(catalogtest.OpCreateEntry, "", errors.KindNotFound)

	result, err := ing.IngestMetadata(ctx, []*datacatalog.AssembledEntryData{assembled("orders", "x", 1)}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.EntriesSkipped)
	assert.Zero(t, fake.Calls(catalogtest.OpListTags))
}

func TestIngestMetadataDeleteTags(t *testing.T) {
	tests := []struct {
		name        string
		config      string
		wantDeleted bool
	}{
		{"no config", ``, false},
		{"empty delete_tags defaults to entry group", "delete_tags: {}\n", true},
		{"bare delete_tags key defaults to entry group", "delete_tags:\n", true},
		{"explicit managed template", "delete_tags:\n  managed_tag_template: sqlserver_column\n", true},
		{"unrelated managed template", "delete_tags:\n  managed_tag_template: bigquery\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ing, fake, ctx := setup(t)

			var cfg *ingest.Config
			if tt.config != "" {
				cfg = &ingest.Config{}
				require.NoError(t, yaml.Unmarshal([]byte(tt.config), cfg))
			}

			entryName := groupName + "/entries/orders"
			fake.PutEntry(&datacatalog.Entry{Name: entryName, LinkedResource: "x", UserSpecifiedType: "table", UserSpecifiedSystem: "sqlserver", DisplayName: "orders"})
			stale := fake.PutTag(entryName, &datacatalog.Tag{
				Template: "projects/p/locations/us/tagTemplates/sqlserver_column_metadata",
				Column:   "dropped_column",
			})

			_, err := ing.IngestMetadata(ctx, []*datacatalog.AssembledEntryData{assembled("orders", "x", 1)}, nil, cfg)
			require.NoError(t, err)

			if tt.wantDeleted {
				assert.Contains(t, fake.Deleted, stale.Name)
			} else {
				assert.NotContains(t, fake.Deleted, stale.Name)
			}
		})
	}
}

func TestConfigDecodingKeepsDeleteTagsPresence(t *testing.T) {
	tests := []struct {
		name    string
		decode  func([]byte, any) error
		input   string
		present bool
	}{
		{"yaml absent", yaml.Unmarshal, "{}\n", false},
		{"yaml null", yaml.Unmarshal, "delete_tags:\n", true},
		{"yaml empty map", yaml.Unmarshal, "delete_tags: {}\n", true},
		{"json absent", json.Unmarshal, `{}`, false},
		{"json null", json.Unmarshal, `{"delete_tags": null}`, true},
		{"json managed template", json.Unmarshal, `{"delete_tags": {"managed_tag_template": "t"}}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &ingest.Config{}
			require.NoError(t, tt.decode([]byte(tt.input), cfg))
			assert.Equal(t, tt.present, cfg.DeleteTags != nil)
		})
	}
}

func TestIngestMetadataStopsWhenCanceled(t *testing.T) {
	ing, fake, ctx := setup(t)
	ctx, cancel := context.WithCancel(ctx)
	cancel()

	result, err := ing.IngestMetadata(ctx, []*datacatalog.AssembledEntryData{assembled("orders", "x", 1)}, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCanceled(err))
	assert.Zero(t, result.EntriesProcessed)
	assert.Zero(t, fake.Calls(catalogtest.OpGetEntry))
}
