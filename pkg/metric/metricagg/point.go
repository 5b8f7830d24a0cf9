package metricagg

import "time"

// Point is an opaque per-attribute-set summary value produced by an
// [Aggregation]. Concrete types are SumPoint, LastValuePoint and
// HistogramPoint; callers type-switch on the concrete type only inside
// serialization code (metricotlp), never inside metricagg/metricdelta.
type Point interface {
	// Clone returns a deep, independent copy.
	Clone() Point
}

// SumPoint holds a running or delta sum for a Counter/UpDownCounter.
type SumPoint struct {
	Value      float64
	Monotonic  bool
	Timestamp  time.Time
}

// Clone implements Point.
func (p SumPoint) Clone() Point { return p }

// LastValuePoint holds the most recently observed value for a Gauge.
type LastValuePoint struct {
	Value     float64
	Timestamp time.Time
}

// Clone implements Point.
func (p LastValuePoint) Clone() Point { return p }

// HistogramPoint holds an explicit-bucket histogram summary.
//
// Invariant: len(BucketCounts) == len(Boundaries)+1, and
// Count == sum(BucketCounts).
type HistogramPoint struct {
	Count        uint64
	Sum          float64
	Min          float64
	Max          float64
	HasMinMax    bool
	Boundaries   []float64
	BucketCounts []uint64
	Timestamp    time.Time
}

// Clone implements Point, deep-copying the bucket slice.
func (p HistogramPoint) Clone() Point {
	counts := make([]uint64, len(p.BucketCounts))
	copy(counts, p.BucketCounts)
	p.BucketCounts = counts
	return p
}
