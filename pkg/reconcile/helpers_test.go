package reconcile_test

import (
	"context"
	"testing"

	"github.com/agentstation/catalogsync/internal/catalogtest"
	"github.com/agentstation/catalogsync/pkg/catalog"
	"github.com/agentstation/catalogsync/pkg/logging"
	"github.com/agentstation/catalogsync/pkg/reconcile"
)

const group = "projects/p/locations/us/entryGroups/sqlserver"

type fixture struct {
	ctx  context.Context
	fake *catalogtest.Fake
	rec  *reconcile.Reconciler
	log  *logging.TestLogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fake := catalogtest.New()
	tl := logging.NewTestLogger(t)
	return &fixture{
		ctx:  tl.Context(context.Background()),
		fake: fake,
		rec:  reconcile.New(catalog.NewFacade(fake, "p")),
		log:  tl,
	}
}
