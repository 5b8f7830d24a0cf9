package metricinstrument_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaycore/metrickit/pkg/metric/metricagg"
	"github.com/relaycore/metrickit/pkg/metric/metricattr"
	"github.com/relaycore/metrickit/pkg/metric/metricclock"
	"github.com/relaycore/metrickit/pkg/metric/metricinstrument"
	"github.com/relaycore/metrickit/pkg/metric/metricstream"
	"github.com/relaycore/metrickit/pkg/metric/metricview"
)

func TestMeter_CreateCounterDedupesByName(t *testing.T) {
	m := metricinstrument.NewMeter(metricinstrument.Scope{Name: "test"})

	w1, err := m.CreateCounter("requests")
	require.NoError(t, err)
	w2, err := m.CreateCounter("requests")
	require.NoError(t, err)

	ctx := context.Background()
	w1.Record(ctx, 1)
	w2.Record(ctx, 2)
	// both handles write into the same underlying stream.
	assert.Len(t, m.Streams(), 1)
	w1.Close()
	w2.Close()
}

func TestMeter_ConflictingRedeclarationKeepsFirst(t *testing.T) {
	m := metricinstrument.NewMeter(metricinstrument.Scope{Name: "test"})

	_, err := m.CreateCounter("requests", metricinstrument.WithUnit("1"))
	require.NoError(t, err)

	// histogram with the same name conflicts in Kind; first registration wins.
	w, err := m.CreateHistogram("requests")
	require.NoError(t, err)
	assert.NotNil(t, w)

	streams := m.Streams()
	require.Len(t, streams, 1)
	assert.Equal(t, metricinstrument.Counter, streams[0].Descriptor.Kind)
	assert.Equal(t, "1", streams[0].Descriptor.Unit)
}

func TestMeter_ViewRuleDropsInstrumentToNoop(t *testing.T) {
	views := metricview.NewRegistry(metricview.Rule{
		InstrumentNamePattern: "internal.*",
		Aggregation:           &metricview.AggregationOverride{Kind: metricview.AggregationDrop},
	})
	m := metricinstrument.NewMeter(metricinstrument.Scope{Name: "test"}, metricinstrument.WithViews(views))

	w, err := m.CreateCounter("internal.debug")
	require.NoError(t, err)
	w.Record(context.Background(), 1) // must not panic
	w.Close()
}

func TestMeter_StalenessReclaimsAfterLastHandleCloses(t *testing.T) {
	m := metricinstrument.NewMeter(metricinstrument.Scope{Name: "test"})

	w1, err := m.CreateCounter("requests")
	require.NoError(t, err)
	w2, err := m.CreateCounter("requests")
	require.NoError(t, err)
	require.Len(t, m.Streams(), 1)
	old := m.Streams()[0].Sync

	w1.Close()
	assert.Len(t, m.Streams(), 1)
	w2.Close()
	assert.Empty(t, m.Streams())

	// after full release, a fresh Create call must build a new
	// underlying stream rather than reusing a torn-down one; recording
	// through the old handle would be a caller bug, not something this
	// test needs to exercise.
	w3, err := m.CreateCounter("requests")
	require.NoError(t, err)
	require.Len(t, m.Streams(), 1)
	assert.NotSame(t, old, m.Streams()[0].Sync)
	w3.Record(context.Background(), 1)
	w3.Close()
}

func TestMeter_CreateHistogramHonorsExplicitBoundaries(t *testing.T) {
	m := metricinstrument.NewMeter(metricinstrument.Scope{Name: "test"})
	w, err := m.CreateHistogram("latency", metricinstrument.WithHistogramBoundaries([]float64{1, 2, 3}))
	require.NoError(t, err)
	stream := m.Streams()[0].Sync
	id, err := stream.Register(metricstream.Delta, time.Now())
	require.NoError(t, err)
	w.Record(context.Background(), 1.5, metricattr.KV("route", metricattr.StringValue("/a")))
	ts := time.Now()
	data := stream.Collect(id, &ts)
	require.Len(t, data.Points, 1)
	hp, ok := data.Points[0].Value.(metricagg.HistogramPoint)
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2, 3}, hp.Boundaries)
	w.Close()
}

func TestMeter_CreateObservableGaugeInvokesCallbackOnCollect(t *testing.T) {
	fake := metricclock.NewFake(time.Now())
	m := metricinstrument.NewMeter(metricinstrument.Scope{Name: "test"}, metricinstrument.WithClock(fake))

	obs, err := m.CreateObservableGauge("queue.depth")
	require.NoError(t, err)
	obs.RegisterCallback(func(context.Context) ([]metricstream.Observation, error) {
		return []metricstream.Observation{{Attributes: metricattr.Empty, Value: 3}}, nil
	})

	ctx := context.Background()
	async := m.Streams()[0].Async
	id, err := async.Register(ctx, metricstream.Delta, fake.Now())
	require.NoError(t, err)
	fake.Advance(time.Second)
	ts := fake.Now()
	data, err := async.Collect(ctx, id, &ts)
	require.NoError(t, err)
	require.Len(t, data.Points, 1)
	lv, ok := data.Points[0].Value.(metricagg.LastValuePoint)
	require.True(t, ok)
	assert.Equal(t, float64(3), lv.Value)
	obs.Close()
}
