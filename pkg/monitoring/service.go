// Package monitoring reports ingestion run metrics to Cloud Monitoring as
// custom gauges under custom.googleapis.com/datacatalog/connectors.
package monitoring

import (
	"context"
	"time"
)

// MetricService is the remote metrics collaborator. Failed calls return an
// *errors.CatalogError carrying an errors.Kind.
type MetricService interface {
	CreateMetricDescriptor(ctx context.Context, projectName string, descriptor *MetricDescriptor) error
	DeleteMetricDescriptor(ctx context.Context, name string) error
	CreateTimeSeries(ctx context.Context, projectName string, series []*TimeSeries) error
	// ListTimeSeries returns every matching series, all pages drained.
	ListTimeSeries(ctx context.Context, req *ListRequest) ([]*TimeSeries, error)
}

// Metric kinds and value types used by connector metrics.
const (
	MetricKindGauge    = "GAUGE"
	ValueTypeDouble    = "DOUBLE"
	AlignMean          = "ALIGN_MEAN"
	AlignSum           = "ALIGN_SUM"
	ReduceNone         = "REDUCE_NONE"
	TimeSeriesViewFull = "FULL"
)

// MetricDescriptor declares a custom metric.
type MetricDescriptor struct {
	Type        string
	MetricKind  string
	ValueType   string
	Description string
}

// TimeSeries is a metric stream for one monitored resource.
type TimeSeries struct {
	MetricType     string            `json:"metric_type" yaml:"metric_type"`
	MetricLabels   map[string]string `json:"metric_labels,omitempty" yaml:"metric_labels,omitempty"`
	ResourceType   string            `json:"resource_type" yaml:"resource_type"`
	ResourceLabels map[string]string `json:"resource_labels,omitempty" yaml:"resource_labels,omitempty"`
	Points         []Point           `json:"points" yaml:"points"`
}

// Point is a single gauge sample. Gauges only set EndTime.
type Point struct {
	StartTime time.Time `json:"start_time,omitzero" yaml:"start_time,omitempty"`
	EndTime   time.Time `json:"end_time" yaml:"end_time"`
	Value     float64   `json:"value" yaml:"value"`
}

// ListRequest selects and aligns time series.
type ListRequest struct {
	ProjectName     string
	Filter          string
	StartTime       time.Time
	EndTime         time.Time
	AlignmentPeriod time.Duration
	Aligner         string
	Reducer         string
	View            string
}
