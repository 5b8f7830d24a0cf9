package metricreader

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	collectorpb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"

	"github.com/relaycore/metrickit/pkg/metric/metricattr"
	"github.com/relaycore/metrickit/pkg/metric/metricsdk"
	"github.com/relaycore/metrickit/pkg/metric/metricstream"
)

type captureExporter struct {
	mu       sync.Mutex
	requests []*collectorpb.ExportMetricsServiceRequest
	flushN   int
	shutdown int
}

func (c *captureExporter) Export(_ context.Context, req *collectorpb.ExportMetricsServiceRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	return nil
}

func (c *captureExporter) ForceFlush(context.Context) error {
	c.flushN++
	return nil
}

func (c *captureExporter) Shutdown(context.Context) error {
	c.shutdown++
	return nil
}

func TestManualMetricReader_CollectsAcrossMetersAndExports(t *testing.T) {
	provider := metricsdk.NewMeterProviderBuilder().WithResource(metricsdk.NewResource("svc")).Build()
	meter := provider.Meter("test-scope")

	counter, err := meter.CreateCounter("requests_total")
	require.NoError(t, err)
	counter.Record(context.Background(), 5, metricattr.KV("route", metricattr.StringValue("/health")))

	exporter := &captureExporter{}
	reader, err := NewManualMetricReader(provider, exporter, WithTemporality(metricstream.Cumulative))
	require.NoError(t, err)

	require.NoError(t, reader.Collect(context.Background()))
	require.Len(t, exporter.requests, 1)
	req := exporter.requests[0]
	require.Len(t, req.ResourceMetrics, 1)
	require.Len(t, req.ResourceMetrics[0].ScopeMetrics, 1)
	require.Len(t, req.ResourceMetrics[0].ScopeMetrics[0].Metrics, 1)
	assert.Equal(t, "requests_total", req.ResourceMetrics[0].ScopeMetrics[0].Metrics[0].Name)
	// The record above happened before this reader ever registered, so
	// its first collect must not see it (late-registered readers miss
	// pre-registration values).
	assert.Nil(t, req.ResourceMetrics[0].ScopeMetrics[0].Metrics[0].GetSum())

	counter.Record(context.Background(), 3, metricattr.KV("route", metricattr.StringValue("/health")))
	require.NoError(t, reader.Collect(context.Background()))
	require.Len(t, exporter.requests, 2)
	sum := exporter.requests[1].ResourceMetrics[0].ScopeMetrics[0].Metrics[0].GetSum()
	require.NotNil(t, sum)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, float64(3), sum.DataPoints[0].GetAsDouble())
}

func TestManualMetricReader_ShutdownUnregistersAndDelegates(t *testing.T) {
	provider := metricsdk.NewMeterProviderBuilder().Build()
	meter := provider.Meter("scope")
	counter, err := meter.CreateCounter("c")
	require.NoError(t, err)
	counter.Record(context.Background(), 1)

	exporter := &captureExporter{}
	reader, err := NewManualMetricReader(provider, exporter)
	require.NoError(t, err)
	require.NoError(t, reader.Collect(context.Background()))

	require.NoError(t, reader.Shutdown(context.Background()))
	assert.Equal(t, 1, exporter.shutdown)
}

func TestNewManualMetricReader_NilExporter(t *testing.T) {
	_, err := NewManualMetricReader(nil, nil)
	require.ErrorIs(t, err, ErrNilExporter)
}
