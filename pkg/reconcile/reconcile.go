// Package reconcile decides, for each entry and each tag, whether the remote
// catalog needs a create, an update or nothing at all. Reconciliation is
// candidate driven: locally assembled metadata is compared against what the
// catalog already holds and only the minimal corrective writes are issued.
package reconcile

import (
	"context"

	"github.com/agentstation/catalogsync/pkg/datacatalog"
)

// Catalog is the subset of the catalog facade the reconciler writes through.
type Catalog interface {
	GetEntry(ctx context.Context, name string) (*datacatalog.Entry, error)
	CreateEntry(ctx context.Context, entryGroupName, entryID string, entry *datacatalog.Entry) (*datacatalog.Entry, error)
	UpdateEntry(ctx context.Context, entry *datacatalog.Entry) (*datacatalog.Entry, error)

	ListTags(ctx context.Context, entryName string) ([]*datacatalog.Tag, error)
	CreateTag(ctx context.Context, entryName string, tag *datacatalog.Tag) (*datacatalog.Tag, error)
	UpdateTag(ctx context.Context, tag *datacatalog.Tag) (*datacatalog.Tag, error)
	DeleteTag(ctx context.Context, tag *datacatalog.Tag) error
}

// Reconciler upserts entries and tags. It holds no state between calls.
type Reconciler struct {
	catalog Catalog
}

// New creates a reconciler writing through c.
func New(c Catalog) *Reconciler {
	return &Reconciler{catalog: c}
}
