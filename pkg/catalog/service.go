// Package catalog provides the Data Catalog facade used by the reconcilers and
// orchestrators. The facade forwards to a Service, the remote collaborator, and
// adds the few recoveries the ingestion flow depends on: creating an entry under
// a parent that is not visible yet, best-effort entry deletion, and forced
// tag template deletion.
package catalog

import (
	"context"

	"github.com/agentstation/catalogsync/pkg/datacatalog"
)

// Service is the remote catalog. Every failed call returns an
// *errors.CatalogError carrying an errors.Kind.
type Service interface {
	CreateEntry(ctx context.Context, parent, entryID string, entry *datacatalog.Entry) (*datacatalog.Entry, error)
	GetEntry(ctx context.Context, name string) (*datacatalog.Entry, error)
	UpdateEntry(ctx context.Context, entry *datacatalog.Entry) (*datacatalog.Entry, error)
	DeleteEntry(ctx context.Context, name string) error

	CreateEntryGroup(ctx context.Context, parent, entryGroupID string, group *datacatalog.EntryGroup) (*datacatalog.EntryGroup, error)
	DeleteEntryGroup(ctx context.Context, name string) error

	CreateTagTemplate(ctx context.Context, parent, templateID string, template *datacatalog.TagTemplate) (*datacatalog.TagTemplate, error)
	GetTagTemplate(ctx context.Context, name string) (*datacatalog.TagTemplate, error)
	DeleteTagTemplate(ctx context.Context, name string, force bool) error

	CreateTag(ctx context.Context, parent string, tag *datacatalog.Tag) (*datacatalog.Tag, error)
	UpdateTag(ctx context.Context, tag *datacatalog.Tag) (*datacatalog.Tag, error)
	DeleteTag(ctx context.Context, name string) error
	// ListTags returns every tag of the entry, all pages drained.
	ListTags(ctx context.Context, parent string) ([]*datacatalog.Tag, error)

	// SearchCatalog returns every result of the search, all pages drained.
	SearchCatalog(ctx context.Context, req datacatalog.SearchRequest) ([]*datacatalog.SearchResult, error)
}
