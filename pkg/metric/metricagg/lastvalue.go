package metricagg

import "time"

// LastValueAggregation implements last-write-wins folding for Gauge
// instruments.
type LastValueAggregation struct{}

var _ Aggregation = LastValueAggregation{}

// Init implements Aggregation.
func (LastValueAggregation) Init() Point {
	return LastValuePoint{}
}

// Record implements Aggregation: the newest observation wins
// unconditionally, regardless of the previous value.
func (LastValueAggregation) Record(_ Point, value float64, ts time.Time) Point {
	return LastValuePoint{Value: value, Timestamp: ts}
}

// Merge implements Aggregation: per-attribute most-recent timestamp
// wins; on an exact tie the second argument (the newer-appended node
// in delta-list merge order) wins, per the §4.2 tie-break rule.
func (LastValueAggregation) Merge(x, y Point) Point {
	if x == nil {
		return cloneOrNil(y)
	}
	if y == nil {
		return cloneOrNil(x)
	}
	xp := x.(LastValuePoint)
	yp := y.(LastValuePoint)
	if yp.Timestamp.Before(xp.Timestamp) {
		return xp
	}
	return yp
}
