package metricexemplar_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"

	"github.com/relaycore/metrickit/pkg/metric/metricattr"
	"github.com/relaycore/metrickit/pkg/metric/metricexemplar"
)

func TestReservoir_KeepsAllWhenUnderCapacity(t *testing.T) {
	r := metricexemplar.NewReservoir(metricexemplar.WithSize(10))
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		r.Offer(ctx, float64(i), metricattr.Empty, time.Now())
	}
	samples := r.Collect()
	assert.Len(t, samples, 3)
}

func TestReservoir_BoundedAtCapacity(t *testing.T) {
	r := metricexemplar.NewReservoir(metricexemplar.WithSize(5))
	ctx := context.Background()
	for i := 0; i < 1000; i++ {
		r.Offer(ctx, float64(i), metricattr.Empty, time.Now())
	}
	samples := r.Collect()
	assert.Len(t, samples, 5)
}

func TestReservoir_ResetsAfterCollect(t *testing.T) {
	r := metricexemplar.NewReservoir()
	ctx := context.Background()
	r.Offer(ctx, 1, metricattr.Empty, time.Now())
	_ = r.Collect()

	samples := r.Collect()
	assert.Empty(t, samples)
}

func TestReservoir_CapturesTraceContext(t *testing.T) {
	r := metricexemplar.NewReservoir()
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	r.Offer(ctx, 42, metricattr.Empty, time.Now())
	samples := r.Collect()

	assert.Len(t, samples, 1)
	assert.True(t, samples[0].HasTraceID)
	assert.Equal(t, traceID, samples[0].TraceID)
	assert.True(t, samples[0].HasSpanID)
	assert.Equal(t, spanID, samples[0].SpanID)
}

func TestReservoir_NoTraceContext(t *testing.T) {
	r := metricexemplar.NewReservoir()
	r.Offer(context.Background(), 1, metricattr.Empty, time.Now())
	samples := r.Collect()

	assert.Len(t, samples, 1)
	assert.False(t, samples[0].HasTraceID)
	assert.False(t, samples[0].HasSpanID)
}
