package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/catalogsync/internal/catalogtest"
	"github.com/agentstation/catalogsync/pkg/catalog"
	"github.com/agentstation/catalogsync/pkg/datacatalog"
	"github.com/agentstation/catalogsync/pkg/errors"
	"github.com/agentstation/catalogsync/pkg/logging"
)

const (
	project  = "my-project"
	location = "us-central1"
	group    = "projects/my-project/locations/us-central1/entryGroups/sqlserver"
)

func newFacade(t *testing.T) (*catalog.Facade, *catalogtest.Fake, context.Context) {
	t.Helper()
	fake := catalogtest.New()
	tl := logging.NewTestLogger(t)
	return catalog.NewFacade(fake, project), fake, tl.Context(context.Background())
}

func TestCreateEntry(t *testing.T) {
	f, fake, ctx := newFacade(t)

	created, err := f.CreateEntry(ctx, group, "orders", &datacatalog.Entry{DisplayName: "orders"})
	require.NoError(t, err)
	assert.Equal(t, group+"/entries/orders", created.Name)
	assert.True(t, created.Persisted())
	assert.Equal(t, 1, fake.Calls(catalogtest.OpCreateEntry))
}

func TestCreateEntryParentNotVisible(t *testing.T) {
	f, fake, ctx := newFacade(t)
	fake.Fail(catalogtest.OpCreateEntry, "", errors.KindNotFound)

	candidate := &datacatalog.Entry{DisplayName: "orders"}
	got, err := f.CreateEntry(ctx, group, "orders", candidate)

	require.NoError(t, err)
	assert.Same(t, candidate, got)
	assert.False(t, got.Persisted())
}

func TestCreateEntryOtherErrorsPropagate(t *testing.T) {
	f, fake, ctx := newFacade(t)
	fake.Fail(catalogtest.OpCreateEntry, "", errors.KindUnknown)

	_, err := f.CreateEntry(ctx, group, "orders", &datacatalog.Entry{})
	require.Error(t, err)
	assert.Equal(t, errors.KindUnknown, errors.KindOf(err))
}

func TestDeleteEntrySwallowsErrors(t *testing.T) {
	f, fake, ctx := newFacade(t)

	assert.NotPanics(t, func() {
		f.DeleteEntry(ctx, group+"/entries/missing")
	})
	assert.Equal(t, 1, fake.Calls(catalogtest.OpDeleteEntry))

	fake.Fail(catalogtest.OpDeleteEntry, "", errors.KindUnknown)
	f.DeleteEntry(ctx, group+"/entries/other")
	assert.Equal(t, 2, fake.Calls(catalogtest.OpDeleteEntry))
}

func TestCreateEntryGroup(t *testing.T) {
	f, fake, ctx := newFacade(t)

	g, err := f.CreateEntryGroup(ctx, location, "sqlserver")
	require.NoError(t, err)
	assert.Equal(t, group, g.Name)
	assert.True(t, fake.HasEntryGroup(group))

	_, err = f.CreateEntryGroup(ctx, location, "sqlserver")
	assert.True(t, errors.IsAlreadyExists(err))
}

func TestDeleteTagTemplateForces(t *testing.T) {
	f, fake, ctx := newFacade(t)

	tmpl, err := f.CreateTagTemplate(ctx, location, "sqlserver_table_metadata", &datacatalog.TagTemplate{
		DisplayName: "Table metadata",
		Fields: map[string]datacatalog.TagTemplateField{
			"num_rows": {DisplayName: "Rows", Type: datacatalog.FieldType{Primitive: datacatalog.PrimitiveDouble}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "projects/my-project/locations/us-central1/tagTemplates/sqlserver_table_metadata", tmpl.Name)

	fake.PutEntry(&datacatalog.Entry{Name: group + "/entries/orders"})
	fake.PutTag(group+"/entries/orders", &datacatalog.Tag{Template: tmpl.Name})

	require.NoError(t, f.DeleteTagTemplate(ctx, tmpl.Name))
	assert.False(t, fake.HasTagTemplate(tmpl.Name))
	assert.Empty(t, fake.Tags(group+"/entries/orders"))
}

func TestSearchCatalogScopesToProject(t *testing.T) {
	f, fake, ctx := newFacade(t)
	fake.SearchResults["system=sqlserver"] = []*datacatalog.SearchResult{
		{RelativeResourceName: group + "/entries/a"},
		{RelativeResourceName: group + "/entries/b"},
	}

	names, err := f.SearchCatalogRelativeResourceName(ctx, "system=sqlserver")
	require.NoError(t, err)
	assert.Equal(t, []string{group + "/entries/a", group + "/entries/b"}, names)

	require.Len(t, fake.Searches, 1)
	assert.Equal(t, []string{project}, fake.Searches[0].ProjectIDs)
	assert.Equal(t, 1000, fake.Searches[0].PageSize)
}

func TestGetTagFieldValuesForSearchResults(t *testing.T) {
	f, fake, ctx := newFacade(t)

	a := group + "/entries/a"
	b := group + "/entries/b"
	fake.PutEntry(&datacatalog.Entry{Name: a})
	fake.PutEntry(&datacatalog.Entry{Name: b})
	updated := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	fake.PutTag(a, &datacatalog.Tag{
		Template: "projects/p/locations/l/tagTemplates/sqlserver_table_metadata_v2",
		Fields: map[string]datacatalog.TagField{
			"owner":   datacatalog.StringField("alice"),
			"updated": datacatalog.TimestampField(updated),
		},
	})
	fake.PutTag(b, &datacatalog.Tag{
		Template: "projects/p/locations/l/tagTemplates/sqlserver_table_metadata",
		Fields:   map[string]datacatalog.TagField{"owner": datacatalog.StringField("bob")},
	})
	fake.PutTag(b, &datacatalog.Tag{
		Template: "projects/p/locations/l/tagTemplates/unrelated",
		Fields:   map[string]datacatalog.TagField{"owner": datacatalog.StringField("carol")},
	})

	values, err := f.GetTagFieldValuesForSearchResults(ctx, "q", "sqlserver_table_metadata", "owner", datacatalog.PrimitiveString)
	require.NoError(t, err)
	assert.Equal(t, []any{"alice", "bob"}, values)

	values, err = f.GetTagFieldValuesForSearchResults(ctx, "q", "sqlserver_table_metadata", "updated", datacatalog.PrimitiveTimestamp)
	require.NoError(t, err)
	assert.Equal(t, []any{updated}, values)
}
