package metricagg_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaycore/metrickit/pkg/metric/metricagg"
)

func TestNewExplicitBucketHistogram_RejectsEmptyBoundaries(t *testing.T) {
	_, err := metricagg.NewExplicitBucketHistogram(nil)
	assert.ErrorIs(t, err, metricagg.ErrNoBoundaries)
}

func TestExplicitBucketHistogram_RecordBuckets(t *testing.T) {
	agg, err := metricagg.NewExplicitBucketHistogram([]float64{10, 100})
	require.NoError(t, err)

	now := time.Now()
	p := agg.Init()
	for _, v := range []float64{5, 50, 200} {
		p = agg.Record(p, v, now)
	}

	hp := p.(metricagg.HistogramPoint)
	assert.Equal(t, uint64(3), hp.Count)
	assert.Equal(t, float64(255), hp.Sum)
	assert.Equal(t, []uint64{1, 1, 1}, hp.BucketCounts)
	assert.Equal(t, float64(5), hp.Min)
	assert.Equal(t, float64(200), hp.Max)
}

func TestExplicitBucketHistogram_MergeAddsElementwise(t *testing.T) {
	agg, err := metricagg.NewExplicitBucketHistogram([]float64{10, 100})
	require.NoError(t, err)

	now := time.Now()
	first := agg.Record(agg.Init(), 5, now)
	first = agg.Record(first, 50, now)

	second := agg.Record(agg.Init(), 200, now)

	merged := agg.Merge(first, second).(metricagg.HistogramPoint)
	assert.Equal(t, uint64(3), merged.Count)
	assert.Equal(t, []uint64{1, 1, 1}, merged.BucketCounts)
	assert.Equal(t, float64(5), merged.Min)
	assert.Equal(t, float64(200), merged.Max)
}

func TestExplicitBucketHistogram_MergeOneSideEmptySurvives(t *testing.T) {
	agg, err := metricagg.NewExplicitBucketHistogram([]float64{10})
	require.NoError(t, err)

	populated := agg.Record(agg.Init(), 1, time.Now())
	empty := agg.Init()

	merged := agg.Merge(populated, empty).(metricagg.HistogramPoint)
	assert.Equal(t, uint64(1), merged.Count)
}
