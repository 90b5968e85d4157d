package metrics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/catalogsync"
	"github.com/agentstation/catalogsync/internal/catalogtest"
	"github.com/agentstation/catalogsync/internal/cmd/cmdtest"
	"github.com/agentstation/catalogsync/pkg/monitoring"
)

func TestList(t *testing.T) {
	metrics := catalogtest.NewMetrics()
	entriesLength := monitoring.New(metrics, "p", "us", "g").MetricType(monitoring.EntriesLength)
	metrics.Series = append(metrics.Series, &monitoring.TimeSeries{
		MetricType:     entriesLength,
		ResourceLabels: map[string]string{"task_id": "abcd1234"},
		Points:         []monitoring.Point{{EndTime: time.Now().Add(-time.Minute), Value: 12}},
	})
	app := cmdtest.NewApp(catalogtest.New(), "json", catalogsync.WithMetricService(metrics))

	out, err := cmdtest.Run(t, NewCommand(app), "list", "--metric", monitoring.EntriesLength, "--since", "2h")
	require.NoError(t, err)

	var series []*monitoring.TimeSeries
	require.NoError(t, json.Unmarshal([]byte(out), &series))
	require.Len(t, series, 1)
	assert.Equal(t, 12.0, series[0].Points[0].Value)

	require.Len(t, metrics.Lists, 1)
	req := metrics.Lists[0]
	assert.Equal(t, 2*time.Hour, req.EndTime.Sub(req.StartTime).Round(time.Minute))
	assert.Equal(t, monitoring.AlignMean, req.Aligner)
}

func TestListUnknownMetric(t *testing.T) {
	metrics := catalogtest.NewMetrics()
	app := cmdtest.NewApp(catalogtest.New(), "json", catalogsync.WithMetricService(metrics))

	_, err := cmdtest.Run(t, NewCommand(app), "list", "--metric", "rows")
	require.Error(t, err)
	assert.Empty(t, metrics.Lists)
}

func TestDelete(t *testing.T) {
	metrics := catalogtest.NewMetrics()
	app := cmdtest.NewApp(catalogtest.New(), "table", catalogsync.WithMetricService(metrics))

	out, err := cmdtest.Run(t, NewCommand(app), "delete")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted metric descriptors")
	assert.Empty(t, metrics.Descriptors)
}
