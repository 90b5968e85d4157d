package monitoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agentstation/catalogsync/pkg/constants"
	"github.com/agentstation/catalogsync/pkg/errors"
)

// Connector metric names.
const (
	ElapsedTime          = "elapsed_time"
	EntriesLength        = "entries_length"
	MetadataPayloadBytes = "metadata_payload_bytes"
)

// MetricNames lists the connector metrics in creation order.
var MetricNames = []string{MetadataPayloadBytes, EntriesLength, ElapsedTime}

// apiRequestCountFilter selects Data Catalog API request counts.
const apiRequestCountFilter = `metric.type="serviceruntime.googleapis.com/api/request_count" ` +
	`resource.type="consumed_api" resource.label.service="datacatalog.googleapis.com" `

// Facade writes and reads the connector metrics of one entry group.
type Facade struct {
	service      MetricService
	projectID    string
	location     string
	entryGroupID string
	taskID       string
	now          func() time.Time
}

// New creates a facade. A task id is generated for every facade unless
// WithTaskID is given.
func New(service MetricService, projectID, location, entryGroupID string, opts ...Option) *Facade {
	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	if o.taskID == "" {
		o.taskID = NewTaskID()
	}
	return &Facade{
		service:      service,
		projectID:    projectID,
		location:     location,
		entryGroupID: entryGroupID,
		taskID:       o.taskID,
		now:          o.now,
	}
}

// NewTaskID returns a short random task id.
func NewTaskID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return id[:constants.TaskIDLength]
}

// TaskID returns the task_id resource label of this facade.
func (f *Facade) TaskID() string {
	return f.taskID
}

// MetricType returns the custom metric type of a connector metric.
func (f *Facade) MetricType(metric string) string {
	return fmt.Sprintf("%s/%s/%s", constants.MetricTypePrefix, f.entryGroupID, metric)
}

func (f *Facade) projectName() string {
	return "projects/" + f.projectID
}

// CreateMetrics creates the descriptor of every connector metric. Existing
// descriptors are left as they are.
func (f *Facade) CreateMetrics(ctx context.Context) error {
	for _, metric := range MetricNames {
		err := f.service.CreateMetricDescriptor(ctx, f.projectName(), &MetricDescriptor{
			Type:        f.MetricType(metric),
			MetricKind:  MetricKindGauge,
			ValueType:   ValueTypeDouble,
			Description: fmt.Sprintf("Custom metric for %s.", metric),
		})
		if err != nil && !errors.IsAlreadyExists(err) {
			return err
		}
	}
	return nil
}

// DeleteMetrics deletes the descriptor of every connector metric. Missing
// descriptors are ignored.
func (f *Facade) DeleteMetrics(ctx context.Context) error {
	for _, metric := range MetricNames {
		if err := f.DeleteMetric(ctx, metric); err != nil && !errors.IsNotFound(err) {
			return err
		}
	}
	return nil
}

// DeleteMetric deletes the descriptor of one connector metric.
func (f *Facade) DeleteMetric(ctx context.Context, metric string) error {
	return f.service.DeleteMetricDescriptor(ctx,
		fmt.Sprintf("%s/metricDescriptors/%s", f.projectName(), f.MetricType(metric)))
}

// ListMetrics returns the series of a connector metric between start and end,
// averaged over 10 minute windows.
func (f *Facade) ListMetrics(ctx context.Context, metric string, start, end time.Time) ([]*TimeSeries, error) {
	return f.service.ListTimeSeries(ctx, &ListRequest{
		ProjectName:     f.projectName(),
		Filter:          fmt.Sprintf(`metric.type = "%s"`, f.MetricType(metric)),
		StartTime:       start.Truncate(time.Second),
		EndTime:         end.Truncate(time.Second),
		AlignmentPeriod: constants.MetricListWindow,
		Aligner:         AlignMean,
		Reducer:         ReduceNone,
		View:            TimeSeriesViewFull,
	})
}

// ListDataCatalogAPIsMetric returns the Data Catalog API request counts between
// start and end summed over a single window padded for reporting lag.
func (f *Facade) ListDataCatalogAPIsMetric(ctx context.Context, start, end time.Time) ([]*TimeSeries, error) {
	start, end = start.Truncate(time.Second), end.Truncate(time.Second)
	return f.service.ListTimeSeries(ctx, &ListRequest{
		ProjectName:     f.projectName(),
		Filter:          apiRequestCountFilter,
		StartTime:       start,
		EndTime:         end,
		AlignmentPeriod: end.Sub(start) + constants.APIMetricLag,
		Aligner:         AlignSum,
		Reducer:         ReduceNone,
		View:            TimeSeriesViewFull,
	})
}

// WriteElapsedTimeMetric writes the run duration in milliseconds.
func (f *Facade) WriteElapsedTimeMetric(ctx context.Context, millis float64) error {
	return f.writeMetric(ctx, ElapsedTime, millis)
}

// WriteEntriesLengthMetric writes the number of assembled entries.
func (f *Facade) WriteEntriesLengthMetric(ctx context.Context, n float64) error {
	return f.writeMetric(ctx, EntriesLength, n)
}

// WriteMetadataPayloadBytesMetric writes the size of the metadata payload.
func (f *Facade) WriteMetadataPayloadBytesMetric(ctx context.Context, n float64) error {
	return f.writeMetric(ctx, MetadataPayloadBytes, n)
}

func (f *Facade) writeMetric(ctx context.Context, metric string, value float64) error {
	series := &TimeSeries{
		MetricType:   f.MetricType(metric),
		ResourceType: constants.MetricResourceType,
		ResourceLabels: map[string]string{
			"project_id": f.projectID,
			"location":   f.location,
			"namespace":  constants.MetricNamespace,
			"job":        f.entryGroupID,
			"task_id":    f.taskID,
		},
		Points: []Point{{
			EndTime: f.now().Truncate(time.Second),
			Value:   value,
		}},
	}
	return f.service.CreateTimeSeries(ctx, f.projectName(), []*TimeSeries{series})
}
