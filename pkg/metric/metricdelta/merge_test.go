package metricdelta_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaycore/metrickit/pkg/metric/metricagg"
	"github.com/relaycore/metrickit/pkg/metric/metricattr"
	"github.com/relaycore/metrickit/pkg/metric/metricdelta"
	"github.com/relaycore/metrickit/pkg/metric/metricreadermask"
)

func histogramMetric(t *testing.T, agg metricagg.ExplicitBucketHistogramAggregation, values []float64, ts time.Time) metricagg.Metric {
	t.Helper()
	p := agg.Init()
	for _, v := range values {
		p = agg.Record(p, v, ts)
	}
	return metricagg.Metric{
		StartTime: ts,
		EndTime:   ts,
		Points:    []metricagg.DataPoint{{Attributes: metricattr.Empty, Value: p}},
	}
}

func TestStorage_HistogramCumulativeMergeAcrossCollections(t *testing.T) {
	agg, err := metricagg.NewExplicitBucketHistogram([]float64{10, 100})
	require.NoError(t, err)
	storage := metricdelta.NewStorage(agg)
	now := time.Now()

	var readers metricreadermask.Mask
	readers.Set(0, nil)

	storage.Add(histogramMetric(t, agg, []float64{5, 50}, now), readers)
	first, ok := storage.Collect(0, true)
	require.True(t, ok)
	firstHP := first.Points[0].Value.(metricagg.HistogramPoint)
	assert.Equal(t, []uint64{1, 1, 0}, firstHP.BucketCounts)

	storage.Add(histogramMetric(t, agg, []float64{200}, now.Add(time.Second)), readers)
	second, ok := storage.Collect(0, true)
	require.True(t, ok)
	secondHP := second.Points[0].Value.(metricagg.HistogramPoint)

	assert.Equal(t, []uint64{1, 1, 1}, secondHP.BucketCounts)
	assert.Equal(t, uint64(3), secondHP.Count)
	assert.Equal(t, float64(5), secondHP.Min)
	assert.Equal(t, float64(200), secondHP.Max)
}
