package monitoring_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/catalogsync/pkg/errors"
	"github.com/agentstation/catalogsync/pkg/monitoring"
)

type recordingService struct {
	descriptors []*monitoring.MetricDescriptor
	deleted     []string
	series      []*monitoring.TimeSeries
	lists       []*monitoring.ListRequest
	createErr   error
	deleteErr   error
}

func (s *recordingService) CreateMetricDescriptor(_ context.Context, _ string, d *monitoring.MetricDescriptor) error {
	s.descriptors = append(s.descriptors, d)
	return s.createErr
}

func (s *recordingService) DeleteMetricDescriptor(_ context.Context, name string) error {
	s.deleted = append(s.deleted, name)
	return s.deleteErr
}

func (s *recordingService) CreateTimeSeries(_ context.Context, _ string, series []*monitoring.TimeSeries) error {
	s.series = append(s.series, series...)
	return nil
}

func (s *recordingService) ListTimeSeries(_ context.Context, req *monitoring.ListRequest) ([]*monitoring.TimeSeries, error) {
	s.lists = append(s.lists, req)
	return nil, nil
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestMetricType(t *testing.T) {
	f := monitoring.New(&recordingService{}, "p", "us", "sqlserver")
	assert.Equal(t, "custom.googleapis.com/datacatalog/connectors/sqlserver/elapsed_time",
		f.MetricType(monitoring.ElapsedTime))
}

func TestTaskIDPerFacade(t *testing.T) {
	a := monitoring.New(&recordingService{}, "p", "us", "g")
	b := monitoring.New(&recordingService{}, "p", "us", "g")

	assert.Len(t, a.TaskID(), 8)
	assert.Regexp(t, "^[0-9a-f]{8}$", a.TaskID())
	assert.NotEqual(t, a.TaskID(), b.TaskID())

	c := monitoring.New(&recordingService{}, "p", "us", "g", monitoring.WithTaskID("fixed"))
	assert.Equal(t, "fixed", c.TaskID())
}

func TestCreateMetricsIgnoresAlreadyExists(t *testing.T) {
	svc := &recordingService{
		createErr: errors.NewCatalogError("create", "metric_descriptor", "", errors.KindAlreadyExists, fmt.Errorf("exists")),
	}
	f := monitoring.New(svc, "p", "us", "g")

	require.NoError(t, f.CreateMetrics(context.Background()))
	require.Len(t, svc.descriptors, 3)
	for _, d := range svc.descriptors {
		assert.Equal(t, monitoring.MetricKindGauge, d.MetricKind)
		assert.Equal(t, monitoring.ValueTypeDouble, d.ValueType)
	}

	svc.createErr = errors.NewCatalogError("create", "metric_descriptor", "", errors.KindUnknown, fmt.Errorf("boom"))
	assert.Error(t, f.CreateMetrics(context.Background()))
}

func TestDeleteMetricsIgnoresNotFound(t *testing.T) {
	svc := &recordingService{
		deleteErr: errors.NewCatalogError("delete", "metric_descriptor", "", errors.KindNotFound, fmt.Errorf("missing")),
	}
	f := monitoring.New(svc, "p", "us", "g")

	require.NoError(t, f.DeleteMetrics(context.Background()))
	assert.Contains(t, svc.deleted,
		"projects/p/metricDescriptors/custom.googleapis.com/datacatalog/connectors/g/entries_length")
}

func TestWriteMetricLabels(t *testing.T) {
	svc := &recordingService{}
	clock := &fakeClock{t: time.Date(2024, 3, 1, 10, 0, 0, 500, time.UTC)}
	f := monitoring.New(svc, "p", "us", "sqlserver", monitoring.WithTaskID("abc"), monitoring.WithClock(clock.now))

	require.NoError(t, f.WriteEntriesLengthMetric(context.Background(), 12))
	require.Len(t, svc.series, 1)

	s := svc.series[0]
	assert.Equal(t, "generic_task", s.ResourceType)
	assert.Equal(t, map[string]string{
		"project_id": "p",
		"location":   "us",
		"namespace":  "datacatalog/connectors",
		"job":        "sqlserver",
		"task_id":    "abc",
	}, s.ResourceLabels)
	require.Len(t, s.Points, 1)
	assert.Equal(t, float64(12), s.Points[0].Value)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), s.Points[0].EndTime)
}

func TestListRequests(t *testing.T) {
	svc := &recordingService{}
	f := monitoring.New(svc, "p", "us", "g")
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(20 * time.Minute)

	_, err := f.ListMetrics(context.Background(), monitoring.ElapsedTime, start, end)
	require.NoError(t, err)
	_, err = f.ListDataCatalogAPIsMetric(context.Background(), start, end)
	require.NoError(t, err)

	require.Len(t, svc.lists, 2)
	assert.Equal(t, 10*time.Minute, svc.lists[0].AlignmentPeriod)
	assert.Equal(t, monitoring.AlignMean, svc.lists[0].Aligner)
	assert.Contains(t, svc.lists[0].Filter, f.MetricType(monitoring.ElapsedTime))

	assert.Equal(t, 20*time.Minute+150*time.Second, svc.lists[1].AlignmentPeriod)
	assert.Equal(t, monitoring.AlignSum, svc.lists[1].Aligner)
	assert.Contains(t, svc.lists[1].Filter, `resource.label.service="datacatalog.googleapis.com"`)
}

func TestProcessorDisabledIsNoop(t *testing.T) {
	svc := &recordingService{}
	p, err := monitoring.NewProcessor(context.Background(), monitoring.New(svc, "p", "us", "g"), false)
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	require.NoError(t, p.ProcessElapsedTimeMetric(context.Background()))
	require.NoError(t, p.ProcessEntriesLengthMetric(context.Background(), 3))
	require.NoError(t, p.ProcessMetadataPayloadBytesMetric(context.Background(), map[string]string{"a": "b"}))
	assert.Empty(t, svc.descriptors)
	assert.Empty(t, svc.series)

	nilFacade, err := monitoring.NewProcessor(context.Background(), nil, true)
	require.NoError(t, err)
	assert.False(t, nilFacade.Enabled())
}

func TestProcessorEnabled(t *testing.T) {
	svc := &recordingService{}
	clock := &fakeClock{t: time.Unix(1000, 0)}
	f := monitoring.New(svc, "p", "us", "g", monitoring.WithClock(clock.now))

	p, err := monitoring.NewProcessor(context.Background(), f, true)
	require.NoError(t, err)
	assert.Len(t, svc.descriptors, 3)

	clock.t = clock.t.Add(1500 * time.Millisecond)
	require.NoError(t, p.ProcessElapsedTimeMetric(context.Background()))

	p.ResetStartTime()
	clock.t = clock.t.Add(250 * time.Millisecond)
	require.NoError(t, p.ProcessElapsedTimeMetric(context.Background()))

	require.NoError(t, p.ProcessMetadataPayloadBytesMetric(context.Background(), map[string]int{"rows": 10}))

	require.Len(t, svc.series, 3)
	assert.Equal(t, float64(1500), svc.series[0].Points[0].Value)
	assert.Equal(t, float64(250), svc.series[1].Points[0].Value)
	assert.Equal(t, float64(len(`{"rows":10}`)), svc.series[2].Points[0].Value)
	assert.Contains(t, svc.series[2].MetricType, monitoring.MetadataPayloadBytes)
}
