package catalogsync

import (
	"fmt"

	"github.com/agentstation/catalogsync/internal/gcp"
	"github.com/agentstation/catalogsync/pkg/catalog"
	"github.com/agentstation/catalogsync/pkg/constants"
	"github.com/agentstation/catalogsync/pkg/errors"
	"github.com/agentstation/catalogsync/pkg/monitoring"
)

// Option configures a Client.
type Option func(*options)

// options holds the Client configuration.
type options struct {
	projectID    string
	locationID   string
	entryGroupID string

	monitoringEnabled bool
	taskID            string

	catalogService catalog.Service
	metricService  monitoring.MetricService
	gcpOptions     []gcp.Option
}

// defaults returns the default configuration.
func defaults() *options {
	return &options{
		locationID: constants.DefaultLocation,
	}
}

// apply applies the given options.
func (o *options) apply(opts ...Option) *options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// validate checks the options a client cannot run without. The entry group
// is only checked here when monitoring needs it; the operations that write
// to the group check it themselves.
func (o *options) validate() error {
	switch {
	case o.projectID == "":
		return errors.NewValidationError("project", o.projectID, "project id is required")
	case o.locationID == "":
		return errors.NewValidationError("location", o.locationID, "location id is required")
	case o.entryGroupID == "" && o.monitoringEnabled:
		return errors.NewValidationError("entry_group", o.entryGroupID, "entry group id is required for monitoring")
	case len(o.entryGroupID) > constants.MaxIDLength:
		return errors.NewValidationError("entry_group", o.entryGroupID,
			fmt.Sprintf("entry group id exceeds %d characters", constants.MaxIDLength))
	}
	return nil
}

// WithProject sets the Google Cloud project that owns the catalog resources.
func WithProject(projectID string) Option {
	return func(o *options) {
		o.projectID = projectID
	}
}

// WithLocation sets the Data Catalog location, e.g. "us-central1".
func WithLocation(locationID string) Option {
	return func(o *options) {
		o.locationID = locationID
	}
}

// WithEntryGroup sets the entry group the run ingests into.
func WithEntryGroup(entryGroupID string) Option {
	return func(o *options) {
		o.entryGroupID = entryGroupID
	}
}

// WithMonitoring enables run metrics reporting to Cloud Monitoring.
func WithMonitoring(enabled bool) Option {
	return func(o *options) {
		o.monitoringEnabled = enabled
	}
}

// WithTaskID sets the task id label of reported metrics instead of a generated one.
func WithTaskID(taskID string) Option {
	return func(o *options) {
		o.taskID = taskID
	}
}

// WithCatalogService uses the given catalog service instead of the Data Catalog API.
func WithCatalogService(svc catalog.Service) Option {
	return func(o *options) {
		o.catalogService = svc
	}
}

// WithMetricService uses the given metric service instead of the Cloud Monitoring API.
func WithMetricService(svc monitoring.MetricService) Option {
	return func(o *options) {
		o.metricService = svc
	}
}

// WithGCPOptions configures the Google Cloud API clients, e.g. credentials.
func WithGCPOptions(opts ...gcp.Option) Option {
	return func(o *options) {
		o.gcpOptions = append(o.gcpOptions, opts...)
	}
}

// requireEntryGroup fails when no entry group was configured.
func (o *options) requireEntryGroup() error {
	if o.entryGroupID == "" {
		return errors.NewValidationError("entry_group", o.entryGroupID, "entry group id is required")
	}
	return nil
}
