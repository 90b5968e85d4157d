package prepare_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/catalogsync/pkg/datacatalog"
	"github.com/agentstation/catalogsync/pkg/prepare"
)

func TestTagSetters(t *testing.T) {
	tag := prepare.NewTag("projects/p/locations/us/tagTemplates/t", "col")
	ts := time.Date(2019, 9, 6, 14, 0, 0, 0, time.UTC)

	prepare.SetBoolField(tag, "active", false)
	prepare.SetDoubleField(tag, "rows", 3)
	prepare.SetStringField(tag, "owner", "team")
	prepare.SetStringField(tag, "empty", "")
	prepare.SetTimestampField(tag, "updated", ts)
	prepare.SetTimestampField(tag, "never", time.Time{})
	prepare.SetEnumField(tag, "kind", "TABLE")

	assert.Equal(t, map[string]datacatalog.TagField{
		"active":  datacatalog.BoolField(false),
		"rows":    datacatalog.DoubleField(3),
		"owner":   datacatalog.StringField("team"),
		"updated": datacatalog.TimestampField(ts),
		"kind":    datacatalog.EnumField("TABLE"),
	}, tag.Fields)
}

func TestSetStringFieldTruncates(t *testing.T) {
	tag := &datacatalog.Tag{}
	prepare.SetStringField(tag, "sql", strings.Repeat("é", 1500))

	got := tag.Fields["sql"].StringValue
	assert.LessOrEqual(t, len(got), 2000)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestTagTemplateFactory(t *testing.T) {
	tmpl := prepare.NewTagTemplate("Table metadata")
	prepare.AddPrimitiveField(tmpl, "num_rows", datacatalog.PrimitiveDouble, "Number of rows")
	prepare.AddEnumField(tmpl, "kind", []string{"TABLE", "VIEW"}, "Kind")

	require.Len(t, tmpl.Fields, 2)
	assert.Equal(t, datacatalog.FieldKindDouble, tmpl.Fields["num_rows"].Type.FieldKind())
	assert.Equal(t, "Number of rows", tmpl.Fields["num_rows"].DisplayName)
	assert.Equal(t, []string{"TABLE", "VIEW"}, tmpl.Fields["kind"].Type.Enum.AllowedValues)
}

func TestEntryRelationshipMapper(t *testing.T) {
	const dashboardName = "projects/p/locations/us/entryGroups/looker/entries/dashboard_7"

	dashboard := &datacatalog.AssembledEntryData{
		EntryID: "dashboard_7",
		Entry:   &datacatalog.Entry{Name: dashboardName, UserSpecifiedType: "dashboard"},
		Tags: []*datacatalog.Tag{{
			Template: "dashboard_metadata",
			Fields:   map[string]datacatalog.TagField{"id": datacatalog.DoubleField(7)},
		}},
	}
	tile := &datacatalog.AssembledEntryData{
		EntryID: "tile_1",
		Entry:   &datacatalog.Entry{Name: "projects/p/locations/us/entryGroups/looker/entries/tile_1", UserSpecifiedType: "tile"},
		Tags: []*datacatalog.Tag{{
			Template: "tile_metadata",
			Fields: map[string]datacatalog.TagField{
				"id":           datacatalog.StringField("tile_1"),
				"dashboard_id": datacatalog.StringField("7"),
			},
		}},
	}
	orphan := &datacatalog.AssembledEntryData{
		EntryID: "tile_2",
		Entry:   &datacatalog.Entry{Name: "projects/p/locations/us/entryGroups/looker/entries/tile_2", UserSpecifiedType: "tile"},
		Tags: []*datacatalog.Tag{{
			Template: "tile_metadata",
			Fields:   map[string]datacatalog.TagField{"dashboard_id": datacatalog.StringField("99")},
		}},
	}
	entries := []*datacatalog.AssembledEntryData{dashboard, tile, orphan}

	pairs := prepare.BuildIDNamePairs(entries)
	assert.Equal(t, dashboardName, pairs["dashboard-7"])
	assert.Contains(t, pairs, "tile-tile_1")

	prepare.FulfillTagFields(entries, func(entries []*datacatalog.AssembledEntryData, pairs prepare.IDNamePairs) {
		for _, data := range entries {
			if data.Entry.UserSpecifiedType == "tile" {
				prepare.MapRelatedEntry(data, "dashboard", "dashboard_id", "dashboard_entry", pairs)
			}
		}
	})

	assert.Equal(t,
		datacatalog.StringField("https://console.cloud.google.com/datacatalog/"+dashboardName),
		tile.Tags[0].Fields["dashboard_entry"])
	assert.NotContains(t, orphan.Tags[0].Fields, "dashboard_entry")
}
