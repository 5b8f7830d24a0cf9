package metricstream_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaycore/metrickit/pkg/metric/metricagg"
	"github.com/relaycore/metrickit/pkg/metric/metricattr"
	"github.com/relaycore/metrickit/pkg/metric/metricstream"
)

func TestAsyncStream_GaugeReportsLatestValue(t *testing.T) {
	start := time.Now()
	stream := metricstream.NewAsyncStream(metricstream.AsyncGauge, false, start)
	ctx := context.Background()
	reader, err := stream.Register(ctx, metricstream.Delta, start)
	require.NoError(t, err)

	value := 10.0
	stream.RegisterCallback(func(context.Context) ([]metricstream.Observation, error) {
		return []metricstream.Observation{{Attributes: metricattr.Empty, Value: value}}, nil
	})

	t1 := start.Add(time.Second)
	data, err := stream.Collect(ctx, reader, &t1)
	require.NoError(t, err)
	require.Len(t, data.Points, 1)
	assert.Equal(t, float64(10), data.Points[0].Value.(metricagg.LastValuePoint).Value)

	value = 25.0
	t2 := t1.Add(time.Second)
	data, err = stream.Collect(ctx, reader, &t2)
	require.NoError(t, err)
	require.Len(t, data.Points, 1)
	assert.Equal(t, float64(25), data.Points[0].Value.(metricagg.LastValuePoint).Value)
}

func TestAsyncStream_SumDiffsCumulativeObservations(t *testing.T) {
	start := time.Now()
	stream := metricstream.NewAsyncStream(metricstream.AsyncSum, true, start)
	ctx := context.Background()
	reader, err := stream.Register(ctx, metricstream.Delta, start)
	require.NoError(t, err)

	value := 100.0
	stream.RegisterCallback(func(context.Context) ([]metricstream.Observation, error) {
		return []metricstream.Observation{{Attributes: metricattr.Empty, Value: value}}, nil
	})

	t1 := start.Add(time.Second)
	first, err := stream.Collect(ctx, reader, &t1)
	require.NoError(t, err)
	require.Len(t, first.Points, 1)
	assert.Equal(t, float64(100), first.Points[0].Value.(metricagg.SumPoint).Value, "first observation with no prior has no diff base, so it reports as-is")

	value = 140.0
	t2 := t1.Add(time.Second)
	second, err := stream.Collect(ctx, reader, &t2)
	require.NoError(t, err)
	require.Len(t, second.Points, 1)
	assert.Equal(t, float64(40), second.Points[0].Value.(metricagg.SumPoint).Value, "delta reader observes the diff against the previous cumulative value")
}

func TestAsyncStream_CallbackErrorPropagatesWithoutMutatingState(t *testing.T) {
	start := time.Now()
	stream := metricstream.NewAsyncStream(metricstream.AsyncGauge, false, start)
	ctx := context.Background()
	reader, err := stream.Register(ctx, metricstream.Delta, start)
	require.NoError(t, err)

	stream.RegisterCallback(func(context.Context) ([]metricstream.Observation, error) {
		return nil, assert.AnError
	})

	t1 := start.Add(time.Second)
	_, err = stream.Collect(ctx, reader, &t1)
	assert.ErrorIs(t, err, assert.AnError)
}
