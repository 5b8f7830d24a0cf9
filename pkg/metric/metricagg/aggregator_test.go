package metricagg_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaycore/metrickit/pkg/metric/metricagg"
	"github.com/relaycore/metrickit/pkg/metric/metricattr"
	"github.com/relaycore/metrickit/pkg/metric/metricexemplar"
)

func TestAggregator_RecordGroupsByAttributeSet(t *testing.T) {
	start := time.Now()
	agg := metricagg.NewAggregator(metricagg.SumAggregation{Monotonic: true}, start)
	ctx := context.Background()

	setA := metricattr.NewSet([]metricattr.KeyValue{metricattr.KV("route", metricattr.StringValue("/a"))})
	setB := metricattr.NewSet([]metricattr.KeyValue{metricattr.KV("route", metricattr.StringValue("/b"))})

	agg.Record(ctx, 1, setA, start)
	agg.Record(ctx, 2, setA, start.Add(time.Second))
	agg.Record(ctx, 5, setB, start.Add(time.Second))

	metric := agg.Collect(start.Add(2 * time.Second))
	require.Len(t, metric.Points, 2)

	byKey := map[uint64]metricagg.DataPoint{}
	for _, dp := range metric.Points {
		byKey[dp.Attributes.Hash()] = dp
	}

	a := byKey[setA.Hash()].Value.(metricagg.SumPoint)
	b := byKey[setB.Hash()].Value.(metricagg.SumPoint)
	assert.Equal(t, float64(3), a.Value)
	assert.Equal(t, float64(5), b.Value)
}

func TestAggregator_CollectResetsWindow(t *testing.T) {
	start := time.Now()
	agg := metricagg.NewAggregator(metricagg.SumAggregation{}, start)
	ctx := context.Background()

	agg.Record(ctx, 1, metricattr.Empty, start)
	first := agg.Collect(start.Add(time.Second))
	require.Len(t, first.Points, 1)

	second := agg.Collect(start.Add(2 * time.Second))
	assert.True(t, second.Empty())
	assert.Equal(t, first.EndTime, second.StartTime)
}

func TestAggregator_WithExemplarReservoirAttachesToDataPoints(t *testing.T) {
	start := time.Now()
	reservoir := metricexemplar.NewReservoir(metricexemplar.WithSize(10))
	agg := metricagg.NewAggregator(metricagg.SumAggregation{}, start, metricagg.WithExemplarReservoir(reservoir))
	ctx := context.Background()

	agg.Record(ctx, 1, metricattr.Empty, start)
	metric := agg.Collect(start.Add(time.Second))

	require.Len(t, metric.Points, 1)
	assert.Len(t, metric.Points[0].Exemplars, 1)
}

func TestAggregator_WithAttributeProcessorFiltersKeys(t *testing.T) {
	start := time.Now()
	processor := metricattr.KeyFilter(func(key string) bool { return key != "secret" })
	agg := metricagg.NewAggregator(metricagg.SumAggregation{}, start, metricagg.WithAttributeProcessor(processor))
	ctx := context.Background()

	attrs := metricattr.NewSet([]metricattr.KeyValue{
		metricattr.KV("route", metricattr.StringValue("/a")),
		metricattr.KV("secret", metricattr.StringValue("x")),
	})
	agg.Record(ctx, 1, attrs, start)
	metric := agg.Collect(start.Add(time.Second))

	require.Len(t, metric.Points, 1)
	assert.Equal(t, 1, metric.Points[0].Attributes.Len())
	_, ok := metric.Points[0].Attributes.Get("secret")
	assert.False(t, ok)
}
