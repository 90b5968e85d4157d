package catalogtest

import (
	"context"
	"strings"
	"sync"

	"github.com/agentstation/catalogsync/pkg/monitoring"
)

// Metrics is an in-memory monitoring.MetricService.
type Metrics struct {
	mu          sync.Mutex
	Descriptors map[string]*monitoring.MetricDescriptor
	Series      []*monitoring.TimeSeries
	Lists       []*monitoring.ListRequest
}

var _ monitoring.MetricService = (*Metrics)(nil)

// NewMetrics returns an empty metrics fake.
func NewMetrics() *Metrics {
	return &Metrics{Descriptors: make(map[string]*monitoring.MetricDescriptor)}
}

// CreateMetricDescriptor stores the descriptor, AlreadyExists on duplicates.
func (m *Metrics) CreateMetricDescriptor(_ context.Context, _ string, d *monitoring.MetricDescriptor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Descriptors[d.Type]; ok {
		return alreadyExists("create", "metric_descriptor", d.Type)
	}
	m.Descriptors[d.Type] = d
	return nil
}

// DeleteMetricDescriptor removes the descriptor named
// projects/{p}/metricDescriptors/{type}.
func (m *Metrics) DeleteMetricDescriptor(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for typ := range m.Descriptors {
		if strings.HasSuffix(name, "/"+typ) {
			delete(m.Descriptors, typ)
			return nil
		}
	}
	return notFound("delete", "metric_descriptor", name)
}

// CreateTimeSeries records the series.
func (m *Metrics) CreateTimeSeries(_ context.Context, _ string, series []*monitoring.TimeSeries) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Series = append(m.Series, series...)
	return nil
}

// ListTimeSeries returns recorded series whose metric type appears in the filter.
func (m *Metrics) ListTimeSeries(_ context.Context, req *monitoring.ListRequest) ([]*monitoring.TimeSeries, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lists = append(m.Lists, req)
	var out []*monitoring.TimeSeries
	for _, s := range m.Series {
		if strings.Contains(req.Filter, `"`+s.MetricType+`"`) {
			out = append(out, s)
		}
	}
	return out, nil
}

// SeriesOf returns the recorded values of one metric type.
func (m *Metrics) SeriesOf(metricType string) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []float64
	for _, s := range m.Series {
		if s.MetricType != metricType {
			continue
		}
		for _, p := range s.Points {
			out = append(out, p.Value)
		}
	}
	return out
}
