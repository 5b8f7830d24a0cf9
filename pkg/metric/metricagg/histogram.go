package metricagg

import (
	"sort"
	"time"
)

// ExplicitBucketHistogramAggregation implements bucketed histogram
// folding with a fixed, ascending set of upper bucket boundaries.
type ExplicitBucketHistogramAggregation struct {
	Boundaries []float64
}

var _ Aggregation = ExplicitBucketHistogramAggregation{}

// NewExplicitBucketHistogram validates and returns a histogram
// aggregation over the given ascending boundaries.
func NewExplicitBucketHistogram(boundaries []float64) (ExplicitBucketHistogramAggregation, error) {
	if len(boundaries) == 0 {
		return ExplicitBucketHistogramAggregation{}, ErrNoBoundaries
	}
	sorted := make([]float64, len(boundaries))
	copy(sorted, boundaries)
	sort.Float64s(sorted)
	return ExplicitBucketHistogramAggregation{Boundaries: sorted}, nil
}

// Init implements Aggregation.
func (a ExplicitBucketHistogramAggregation) Init() Point {
	return HistogramPoint{
		Boundaries:   a.Boundaries,
		BucketCounts: make([]uint64, len(a.Boundaries)+1),
	}
}

// bucketIndex returns the index of the bucket that value falls into:
// bucket k covers (boundaries[k-1], boundaries[k]], with bucket 0
// covering (-inf, boundaries[0]] and the last bucket (boundaries[n-1], +inf).
func (a ExplicitBucketHistogramAggregation) bucketIndex(value float64) int {
	return sort.Search(len(a.Boundaries), func(i int) bool { return value <= a.Boundaries[i] })
}

// Record implements Aggregation: increments the matching bucket and
// updates count/sum/min/max.
func (a ExplicitBucketHistogramAggregation) Record(existing Point, value float64, ts time.Time) Point {
	hp, ok := existing.(HistogramPoint)
	if !ok || hp.BucketCounts == nil {
		hp = a.Init().(HistogramPoint)
	}
	hp.Count++
	hp.Sum += value
	if !hp.HasMinMax || value < hp.Min {
		hp.Min = value
	}
	if !hp.HasMinMax || value > hp.Max {
		hp.Max = value
	}
	hp.HasMinMax = true
	hp.Timestamp = ts

	counts := make([]uint64, len(hp.BucketCounts))
	copy(counts, hp.BucketCounts)
	counts[a.bucketIndex(value)]++
	hp.BucketCounts = counts
	return hp
}

// Merge implements Aggregation: element-wise bucket addition, sum and
// count addition, min/max reduction. If one side has no observations
// the other survives unchanged (§4.2).
func (a ExplicitBucketHistogramAggregation) Merge(x, y Point) Point {
	if x == nil {
		return cloneOrNil(y)
	}
	if y == nil {
		return cloneOrNil(x)
	}
	xp := x.(HistogramPoint)
	yp := y.(HistogramPoint)

	if xp.Count == 0 {
		return yp.Clone()
	}
	if yp.Count == 0 {
		return xp.Clone()
	}

	out := HistogramPoint{
		Count:        xp.Count + yp.Count,
		Sum:          xp.Sum + yp.Sum,
		Boundaries:   a.Boundaries,
		BucketCounts: make([]uint64, len(a.Boundaries)+1),
		HasMinMax:    true,
	}
	out.Min = xp.Min
	if yp.Min < out.Min {
		out.Min = yp.Min
	}
	out.Max = xp.Max
	if yp.Max > out.Max {
		out.Max = yp.Max
	}
	for i := range out.BucketCounts {
		out.BucketCounts[i] = xp.BucketCounts[i] + yp.BucketCounts[i]
	}
	out.Timestamp = xp.Timestamp
	if yp.Timestamp.After(out.Timestamp) {
		out.Timestamp = yp.Timestamp
	}
	return out
}
