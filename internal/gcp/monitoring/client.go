// Package monitoring implements monitoring.MetricService over the Cloud
// Monitoring v3 REST API.
package monitoring

import (
	"context"
	"fmt"
	"time"

	mon "google.golang.org/api/monitoring/v3"

	"github.com/agentstation/catalogsync/internal/gcp"
	"github.com/agentstation/catalogsync/pkg/monitoring"
)

var _ monitoring.MetricService = (*Client)(nil)

// Client is a monitoring.MetricService backed by Cloud Monitoring.
type Client struct {
	svc *mon.Service
}

// New creates a Cloud Monitoring client.
func New(ctx context.Context, opts ...gcp.Option) (*Client, error) {
	clientOpts, err := gcp.ClientOptions(ctx, opts...)
	if err != nil {
		return nil, err
	}
	svc, err := mon.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, gcp.Wrap("create", "client", "", err)
	}
	return &Client{svc: svc}, nil
}

// CreateMetricDescriptor declares a custom metric in a project.
func (c *Client) CreateMetricDescriptor(ctx context.Context, projectName string, d *monitoring.MetricDescriptor) error {
	_, err := c.svc.Projects.MetricDescriptors.Create(projectName, &mon.MetricDescriptor{
		Type:        d.Type,
		MetricKind:  d.MetricKind,
		ValueType:   d.ValueType,
		Description: d.Description,
	}).Context(ctx).Do()
	return gcp.Wrap("create", "metric_descriptor", d.Type, err)
}

// DeleteMetricDescriptor deletes a metric descriptor by resource name.
func (c *Client) DeleteMetricDescriptor(ctx context.Context, name string) error {
	_, err := c.svc.Projects.MetricDescriptors.Delete(name).Context(ctx).Do()
	return gcp.Wrap("delete", "metric_descriptor", name, err)
}

// CreateTimeSeries writes points to one or more time series.
func (c *Client) CreateTimeSeries(ctx context.Context, projectName string, series []*monitoring.TimeSeries) error {
	req := &mon.CreateTimeSeriesRequest{TimeSeries: make([]*mon.TimeSeries, 0, len(series))}
	for _, s := range series {
		req.TimeSeries = append(req.TimeSeries, timeSeriesToAPI(s))
	}
	_, err := c.svc.Projects.TimeSeries.Create(projectName, req).Context(ctx).Do()
	return gcp.Wrap("create", "time_series", projectName, err)
}

// ListTimeSeries returns every series matching the request.
func (c *Client) ListTimeSeries(ctx context.Context, req *monitoring.ListRequest) ([]*monitoring.TimeSeries, error) {
	var (
		out       []*monitoring.TimeSeries
		pageToken string
	)
	for {
		call := c.svc.Projects.TimeSeries.List(req.ProjectName).
			Filter(req.Filter).
			IntervalStartTime(formatTime(req.StartTime)).
			IntervalEndTime(formatTime(req.EndTime)).
			Context(ctx)
		if req.AlignmentPeriod > 0 {
			call = call.AggregationAlignmentPeriod(formatDuration(req.AlignmentPeriod))
		}
		if req.Aligner != "" {
			call = call.AggregationPerSeriesAligner(req.Aligner)
		}
		if req.Reducer != "" {
			call = call.AggregationCrossSeriesReducer(req.Reducer)
		}
		if req.View != "" {
			call = call.View(req.View)
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, gcp.Wrap("list", "time_series", req.Filter, err)
		}
		for _, s := range resp.TimeSeries {
			out = append(out, timeSeriesFromAPI(s))
		}
		if resp.NextPageToken == "" {
			return out, nil
		}
		pageToken = resp.NextPageToken
	}
}

func timeSeriesToAPI(s *monitoring.TimeSeries) *mon.TimeSeries {
	out := &mon.TimeSeries{
		Metric:   &mon.Metric{Type: s.MetricType, Labels: s.MetricLabels},
		Resource: &mon.MonitoredResource{Type: s.ResourceType, Labels: s.ResourceLabels},
	}
	for _, p := range s.Points {
		value := p.Value
		point := &mon.Point{
			Interval: &mon.TimeInterval{EndTime: formatTime(p.EndTime)},
			Value:    &mon.TypedValue{DoubleValue: &value},
		}
		if !p.StartTime.IsZero() {
			point.Interval.StartTime = formatTime(p.StartTime)
		}
		out.Points = append(out.Points, point)
	}
	return out
}

func timeSeriesFromAPI(s *mon.TimeSeries) *monitoring.TimeSeries {
	out := &monitoring.TimeSeries{}
	if s.Metric != nil {
		out.MetricType = s.Metric.Type
		out.MetricLabels = s.Metric.Labels
	}
	if s.Resource != nil {
		out.ResourceType = s.Resource.Type
		out.ResourceLabels = s.Resource.Labels
	}
	for _, p := range s.Points {
		point := monitoring.Point{}
		if p.Interval != nil {
			point.StartTime = parseTime(p.Interval.StartTime)
			point.EndTime = parseTime(p.Interval.EndTime)
		}
		if p.Value != nil {
			switch {
			case p.Value.DoubleValue != nil:
				point.Value = *p.Value.DoubleValue
			case p.Value.Int64Value != nil:
				point.Value = float64(*p.Value.Int64Value)
			}
		}
		out.Points = append(out.Points, point)
	}
	return out
}

// formatDuration renders a duration the way the API expects, e.g. "600s".
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%ds", int64(d/time.Second))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
