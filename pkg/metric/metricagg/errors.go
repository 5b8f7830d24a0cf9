package metricagg

import "errors"

var (
	// ErrKindMismatch names the error of passing a Point produced by one
	// Aggregation to another (e.g. merging a SumPoint under a
	// HistogramAggregation). No function in this package returns it:
	// the Merge methods type-assert their arguments and panic on a
	// mismatched Point. Instrument kind and aggregation are fixed at
	// stream creation.
	ErrKindMismatch = errors.New("metricagg: point kind does not match aggregation")

	// ErrNoBoundaries is returned by NewExplicitBucketHistogram when
	// called with an empty boundary set.
	ErrNoBoundaries = errors.New("metricagg: explicit bucket histogram requires at least one boundary")
)
