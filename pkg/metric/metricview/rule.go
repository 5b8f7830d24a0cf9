package metricview

// AggregationKind selects which Aggregation a matched instrument
// should use, overriding its kind-implied default.
type AggregationKind int

const (
	// AggregationDefault leaves the instrument-kind-implied aggregation
	// untouched.
	AggregationDefault AggregationKind = iota
	// AggregationSum forces additive folding.
	AggregationSum
	// AggregationLastValue forces last-write-wins folding.
	AggregationLastValue
	// AggregationHistogram forces explicit-bucket histogram folding,
	// using AggregationOverride.HistogramBoundaries when set and the
	// instrument's own boundaries otherwise.
	AggregationHistogram
	// AggregationDrop suppresses the instrument entirely: Meter.Create*
	// returns a no-op writer that never reaches a stream.
	AggregationDrop
)

// AggregationOverride carries the override aggregation chosen by a
// matched Rule.
type AggregationOverride struct {
	Kind                AggregationKind
	HistogramBoundaries []float64
}

// Rule is one View: an instrument/scope name glob pattern (stdlib
// path.Match syntax) paired with the aggregation override and
// attribute key allowlist to apply on a match.
type Rule struct {
	// Name identifies the rule for logging/debugging; not matched
	// against anything.
	Name string
	// InstrumentNamePattern is matched against the instrument name via
	// path.Match. Empty matches everything.
	InstrumentNamePattern string
	// ScopeNamePattern is matched against the owning instrumentation
	// scope's name. Empty matches everything.
	ScopeNamePattern string
	// Aggregation overrides the instrument-kind default when non-nil.
	Aggregation *AggregationOverride
	// AttributeKeys, when non-nil, is the allowlist of attribute keys
	// kept on every measurement recorded against a matching instrument;
	// all other keys are dropped. A nil slice keeps every key.
	AttributeKeys []string
}
