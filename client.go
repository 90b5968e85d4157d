package catalogsync

import (
	"context"
	"strings"
	"time"

	gcpdatacatalog "github.com/agentstation/catalogsync/internal/gcp/datacatalog"
	gcpmonitoring "github.com/agentstation/catalogsync/internal/gcp/monitoring"
	"github.com/agentstation/catalogsync/pkg/catalog"
	"github.com/agentstation/catalogsync/pkg/cleanup"
	"github.com/agentstation/catalogsync/pkg/datacatalog"
	"github.com/agentstation/catalogsync/pkg/errors"
	"github.com/agentstation/catalogsync/pkg/ingest"
	"github.com/agentstation/catalogsync/pkg/logging"
	"github.com/agentstation/catalogsync/pkg/manifest"
	"github.com/agentstation/catalogsync/pkg/monitoring"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Syncer runs ingestion and cleanup.
type Syncer interface {
	// Sync ingests a manifest and, when a cleanup query is set, deletes
	// obsolete entries afterwards.
	Sync(ctx context.Context, m *manifest.Manifest, opts ...SyncOption) (*Result, error)

	// Ingest reconciles assembled entries, bootstrapping templates and the entry group.
	Ingest(ctx context.Context, entries []*datacatalog.AssembledEntryData, templates map[string]*datacatalog.TagTemplate, cfg *ingest.Config) (*ingest.Result, error)

	// Cleanup deletes the entries found by query that are not in entries.
	Cleanup(ctx context.Context, entries []*datacatalog.AssembledEntryData, query string) error

	// Delete deletes the given entries, best effort.
	Delete(ctx context.Context, entries []*datacatalog.AssembledEntryData) error
}

// Searcher queries the catalog.
type Searcher interface {
	// Search returns the relative resource names matching query in the project.
	Search(ctx context.Context, query string) ([]string, error)

	// TagFieldValues returns the value of a tag field on every search hit
	// that carries a tag of the template.
	TagFieldValues(ctx context.Context, query, templateID, fieldID string, fieldType datacatalog.PrimitiveType) ([]any, error)
}

// Templates manages tag templates.
type Templates interface {
	// GetTagTemplate fetches a tag template by id.
	GetTagTemplate(ctx context.Context, templateID string) (*datacatalog.TagTemplate, error)

	// DeleteTagTemplates force-deletes tag templates by id, along with their tags.
	DeleteTagTemplates(ctx context.Context, templateIDs ...string) error
}

// Metrics reads and manages run metrics.
type Metrics interface {
	// TaskID returns the task id label of the metrics this client writes.
	TaskID() string

	// ListMetrics returns the series of a connector metric in a time range.
	ListMetrics(ctx context.Context, metric string, start, end time.Time) ([]*monitoring.TimeSeries, error)

	// DeleteMetrics deletes the connector metric descriptors.
	DeleteMetrics(ctx context.Context) error
}

// Client synchronizes metadata into one entry group.
type Client interface {
	Syncer
	Searcher
	Templates
	Metrics

	// Facade returns the underlying catalog facade.
	Facade() *catalog.Facade
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options

	facade    *catalog.Facade
	ingestor  *ingest.Ingestor
	cleaner   *cleanup.Cleaner
	metrics   *monitoring.Facade
	processor *monitoring.Processor
}

// New creates a Client. Without WithCatalogService the Data Catalog API is
// used with Application Default Credentials; the same goes for Cloud
// Monitoring when monitoring is enabled.
func New(ctx context.Context, opts ...Option) (Client, error) {
	o := defaults().apply(opts...)
	if err := o.validate(); err != nil {
		return nil, err
	}

	// Step 1: Resolve the catalog service
	svc := o.catalogService
	if svc == nil {
		dc, err := gcpdatacatalog.New(ctx, o.gcpOptions...)
		if err != nil {
			return nil, errors.WrapResource("create", "client", "datacatalog", err)
		}
		svc = dc
	}

	// Step 2: Build the facade and orchestrators
	c := &client{options: o}
	c.facade = catalog.NewFacade(svc, o.projectID)
	c.ingestor = ingest.New(c.facade, o.projectID, o.locationID, o.entryGroupID)
	c.cleaner = cleanup.New(c.facade, o.projectID, o.locationID, o.entryGroupID)

	// Step 3: Resolve the metric service
	metricSvc := o.metricService
	if metricSvc == nil && o.monitoringEnabled {
		mon, err := gcpmonitoring.New(ctx, o.gcpOptions...)
		if err != nil {
			return nil, errors.WrapResource("create", "client", "monitoring", err)
		}
		metricSvc = mon
	}
	if metricSvc != nil {
		var monOpts []monitoring.Option
		if o.taskID != "" {
			monOpts = append(monOpts, monitoring.WithTaskID(o.taskID))
		}
		c.metrics = monitoring.New(metricSvc, o.projectID, o.locationID, o.entryGroupID, monOpts...)
	}

	// Step 4: Start the metrics processor
	processor, err := monitoring.NewProcessor(ctx, c.metrics, o.monitoringEnabled)
	if err != nil {
		return nil, errors.WrapResource("create", "metrics", o.entryGroupID, err)
	}
	c.processor = processor

	logging.FromContext(ctx).Debug().
		Str("project", o.projectID).
		Str("location", o.locationID).
		Str("entry_group", o.entryGroupID).
		Bool("monitoring", processor.Enabled()).
		Msg("Client created")

	return c, nil
}

// Facade returns the underlying catalog facade.
func (c *client) Facade() *catalog.Facade {
	return c.facade
}

// Search returns the relative resource names matching query.
func (c *client) Search(ctx context.Context, query string) ([]string, error) {
	return c.facade.SearchCatalogRelativeResourceName(ctx, query)
}

// TagFieldValues returns a tag field value for each search hit.
func (c *client) TagFieldValues(ctx context.Context, query, templateID, fieldID string, fieldType datacatalog.PrimitiveType) ([]any, error) {
	return c.facade.GetTagFieldValuesForSearchResults(ctx, query, c.templateName(templateID), fieldID, fieldType)
}

// GetTagTemplate fetches a tag template by id.
func (c *client) GetTagTemplate(ctx context.Context, templateID string) (*datacatalog.TagTemplate, error) {
	return c.facade.GetTagTemplate(ctx, c.templateName(templateID))
}

// DeleteTagTemplates force-deletes tag templates, joining the failures.
func (c *client) DeleteTagTemplates(ctx context.Context, templateIDs ...string) error {
	var errs []error
	for _, id := range templateIDs {
		if err := c.facade.DeleteTagTemplate(ctx, c.templateName(id)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// TaskID returns the metrics task id, "" when no metric service is configured.
func (c *client) TaskID() string {
	if c.metrics == nil {
		return ""
	}
	return c.metrics.TaskID()
}

// ListMetrics returns the series of a connector metric.
func (c *client) ListMetrics(ctx context.Context, metric string, start, end time.Time) ([]*monitoring.TimeSeries, error) {
	if c.metrics == nil {
		return nil, errors.NewConfigError("monitoring", "monitoring is not enabled", nil)
	}
	return c.metrics.ListMetrics(ctx, metric, start, end)
}

// DeleteMetrics deletes the connector metric descriptors.
func (c *client) DeleteMetrics(ctx context.Context) error {
	if c.metrics == nil {
		return errors.NewConfigError("monitoring", "monitoring is not enabled", nil)
	}
	return c.metrics.DeleteMetrics(ctx)
}

// templateName expands a template id into its resource name. Names are
// returned unchanged.
func (c *client) templateName(templateID string) string {
	if strings.Contains(templateID, "/") {
		return templateID
	}
	return datacatalog.TagTemplateName(c.options.projectID, c.options.locationID, templateID)
}
