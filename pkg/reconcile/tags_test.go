package reconcile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/catalogsync/internal/catalogtest"
	"github.com/agentstation/catalogsync/pkg/datacatalog"
	"github.com/agentstation/catalogsync/pkg/errors"
	"github.com/agentstation/catalogsync/pkg/reconcile"
)

const (
	tableTemplate  = "projects/p/locations/us/tagTemplates/sqlserver_table_metadata"
	columnTemplate = "projects/p/locations/us/tagTemplates/sqlserver_column_metadata"
	otherTemplate  = "projects/p/locations/us/tagTemplates/data_quality"
)

func persistedEntry(f *fixture) *datacatalog.Entry {
	e := &datacatalog.Entry{Name: group + "/entries/orders"}
	f.fake.PutEntry(e)
	return e
}

func TestUpsertTagsEmptyIsNoop(t *testing.T) {
	f := newFixture(t)
	entry := persistedEntry(f)

	require.NoError(t, f.rec.UpsertTags(f.ctx, entry, nil))
	assert.Zero(t, f.fake.Calls(catalogtest.OpListTags))
}

func TestUpsertTagsCreatesThenNoop(t *testing.T) {
	f := newFixture(t)
	entry := persistedEntry(f)

	tag := &datacatalog.Tag{
		Template: tableTemplate,
		Fields:   map[string]datacatalog.TagField{"num_rows": datacatalog.DoubleField(10)},
	}
	require.NoError(t, f.rec.UpsertTags(f.ctx, entry, []*datacatalog.Tag{tag}))
	assert.Equal(t, 1, f.fake.Calls(catalogtest.OpCreateTag))
	assert.NotEmpty(t, tag.Name)

	f.fake.ResetCalls()
	again := &datacatalog.Tag{
		Template: tableTemplate,
		Fields:   map[string]datacatalog.TagField{"num_rows": datacatalog.DoubleField(10)},
	}
	require.NoError(t, f.rec.UpsertTags(f.ctx, entry, []*datacatalog.Tag{again}))
	assert.Zero(t, f.fake.Writes())
	assert.Equal(t, tag.Name, again.Name)
}

func TestUpsertTagsUpdatesChangedFields(t *testing.T) {
	f := newFixture(t)
	entry := persistedEntry(f)
	stored := f.fake.PutTag(entry.Name, &datacatalog.Tag{
		Template: tableTemplate,
		Fields:   map[string]datacatalog.TagField{"num_rows": datacatalog.DoubleField(10)},
	})

	tag := &datacatalog.Tag{
		Template: tableTemplate,
		Fields:   map[string]datacatalog.TagField{"num_rows": datacatalog.DoubleField(11)},
	}
	require.NoError(t, f.rec.UpsertTags(f.ctx, entry, []*datacatalog.Tag{tag}))
	assert.Equal(t, 1, f.fake.Calls(catalogtest.OpUpdateTag))
	assert.Zero(t, f.fake.Calls(catalogtest.OpCreateTag))
	assert.Equal(t, stored.Name, tag.Name)
	assert.Equal(t, datacatalog.DoubleField(11), f.fake.Tags(entry.Name)[0].Fields["num_rows"])
}

func TestUpsertTagsColumnIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	entry := persistedEntry(f)
	stored := f.fake.PutTag(entry.Name, &datacatalog.Tag{
		Template: columnTemplate,
		Column:   "Foo",
		Fields:   map[string]datacatalog.TagField{"masked": datacatalog.BoolField(false)},
	})

	tag := &datacatalog.Tag{
		Template: columnTemplate,
		Column:   "foo",
		Fields:   map[string]datacatalog.TagField{"masked": datacatalog.BoolField(false)},
	}
	require.NoError(t, f.rec.UpsertTags(f.ctx, entry, []*datacatalog.Tag{tag}))
	assert.Zero(t, f.fake.Writes())
	assert.Equal(t, stored.Name, tag.Name)
}

func TestUpsertTagsFirstMatchWins(t *testing.T) {
	f := newFixture(t)
	entry := persistedEntry(f)
	first := f.fake.PutTag(entry.Name, &datacatalog.Tag{
		Template: tableTemplate,
		Fields:   map[string]datacatalog.TagField{"owner": datacatalog.StringField("a")},
	})
	f.fake.PutTag(entry.Name, &datacatalog.Tag{
		Template: tableTemplate,
		Fields:   map[string]datacatalog.TagField{"owner": datacatalog.StringField("b")},
	})

	tag := &datacatalog.Tag{
		Template: tableTemplate,
		Fields:   map[string]datacatalog.TagField{"owner": datacatalog.StringField("b")},
	}
	require.NoError(t, f.rec.UpsertTags(f.ctx, entry, []*datacatalog.Tag{tag}))
	assert.Equal(t, 1, f.fake.Calls(catalogtest.OpUpdateTag))
	assert.Equal(t, first.Name, tag.Name)
}

func TestUpsertTagsContinuesAfterFailure(t *testing.T) {
	f := newFixture(t)
	entry := persistedEntry(f)
	f.fake.Fail(catalogtest.OpCreateTag, "", errors.KindUnknown)
	f.fake.PutTag(entry.Name, &datacatalog.Tag{
		Template: otherTemplate,
		Fields:   map[string]datacatalog.TagField{"score": datacatalog.DoubleField(1)},
	})

	tags := []*datacatalog.Tag{
		{Template: tableTemplate, Fields: map[string]datacatalog.TagField{"x": datacatalog.StringField("y")}},
		{Template: otherTemplate, Fields: map[string]datacatalog.TagField{"score": datacatalog.DoubleField(2)}},
	}
	err := f.rec.UpsertTags(f.ctx, entry, tags)
	require.Error(t, err)
	assert.Equal(t, 1, f.fake.Calls(catalogtest.OpUpdateTag))
}

func TestTagFieldsEqual(t *testing.T) {
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		candidate map[string]datacatalog.TagField
		persisted map[string]datacatalog.TagField
		want      bool
	}{
		{
			name:      "extra persisted field is ignored",
			candidate: map[string]datacatalog.TagField{"a": datacatalog.StringField("x")},
			persisted: map[string]datacatalog.TagField{"a": datacatalog.StringField("x"), "b": datacatalog.BoolField(true)},
			want:      true,
		},
		{
			name:      "missing persisted field",
			candidate: map[string]datacatalog.TagField{"a": datacatalog.StringField("x")},
			persisted: map[string]datacatalog.TagField{},
			want:      false,
		},
		{
			name:      "bool differs",
			candidate: map[string]datacatalog.TagField{"a": datacatalog.BoolField(true)},
			persisted: map[string]datacatalog.TagField{"a": datacatalog.BoolField(false)},
			want:      false,
		},
		{
			name:      "enum by display name",
			candidate: map[string]datacatalog.TagField{"a": datacatalog.EnumField("VIEW")},
			persisted: map[string]datacatalog.TagField{"a": datacatalog.EnumField("VIEW")},
			want:      true,
		},
		{
			name:      "timestamp at second resolution",
			candidate: map[string]datacatalog.TagField{"a": datacatalog.TimestampField(ts.Add(300 * time.Millisecond))},
			persisted: map[string]datacatalog.TagField{"a": datacatalog.TimestampField(ts)},
			want:      true,
		},
		{
			name:      "timestamp differs",
			candidate: map[string]datacatalog.TagField{"a": datacatalog.TimestampField(ts.Add(time.Second))},
			persisted: map[string]datacatalog.TagField{"a": datacatalog.TimestampField(ts)},
			want:      false,
		},
		{
			name:      "timestamp unset on one side",
			candidate: map[string]datacatalog.TagField{"a": datacatalog.TimestampField(time.Time{})},
			persisted: map[string]datacatalog.TagField{"a": datacatalog.TimestampField(ts)},
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reconcile.TagFieldsEqual(
				&datacatalog.Tag{Fields: tt.candidate},
				&datacatalog.Tag{Fields: tt.persisted},
			)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeleteTags(t *testing.T) {
	f := newFixture(t)
	entry := persistedEntry(f)

	kept := f.fake.PutTag(entry.Name, &datacatalog.Tag{Template: tableTemplate})
	stale := f.fake.PutTag(entry.Name, &datacatalog.Tag{Template: columnTemplate, Column: "dropped"})
	unmanaged := f.fake.PutTag(entry.Name, &datacatalog.Tag{Template: otherTemplate})

	candidates := []*datacatalog.Tag{{Template: tableTemplate}}
	require.NoError(t, f.rec.DeleteTags(f.ctx, entry, candidates, "sqlserver"))

	assert.Equal(t, []string{stale.Name}, f.fake.Deleted)
	var names []string
	for _, tag := range f.fake.Tags(entry.Name) {
		names = append(names, tag.Name)
	}
	assert.ElementsMatch(t, []string{kept.Name, unmanaged.Name}, names)
}

func TestDeleteTagsColumnIsCaseSensitive(t *testing.T) {
	f := newFixture(t)
	entry := persistedEntry(f)
	persisted := f.fake.PutTag(entry.Name, &datacatalog.Tag{Template: columnTemplate, Column: "Foo"})

	candidates := []*datacatalog.Tag{{Template: columnTemplate, Column: "foo"}}
	require.NoError(t, f.rec.DeleteTags(f.ctx, entry, candidates, "sqlserver"))

	assert.Equal(t, []string{persisted.Name}, f.fake.Deleted)
}
