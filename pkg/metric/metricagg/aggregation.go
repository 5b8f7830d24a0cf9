package metricagg

import "time"

// Aggregation is the folding/merging algorithm behind one instrument's
// stream. It is stateless: all mutable state lives in the [Point] values
// it produces and combines.
type Aggregation interface {
	// Init returns the zero Point for a newly observed attribute set.
	Init() Point

	// Record folds a single measurement into an existing Point (which
	// may be the result of Init) and returns the updated Point.
	Record(existing Point, value float64, ts time.Time) Point

	// Merge combines two Points produced by this Aggregation, honoring
	// the aggregation-specific tie-break rules (see package metricdelta
	// for how this is used across delta nodes). Either argument may be
	// nil, in which case the other is cloned and returned.
	Merge(a, b Point) Point
}

func cloneOrNil(p Point) Point {
	if p == nil {
		return nil
	}
	return p.Clone()
}
