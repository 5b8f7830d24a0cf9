package metricagg

import "time"

// SumAggregation implements additive folding for Counter/UpDownCounter
// instruments. Monotonic marks whether negative measurements are
// rejected upstream (by Aggregator.Record, not here — the
// aggregation itself is agnostic to sign and only carries the flag
// through to serialization).
type SumAggregation struct {
	Monotonic bool
}

var _ Aggregation = SumAggregation{}

// Init implements Aggregation.
func (a SumAggregation) Init() Point {
	return SumPoint{Monotonic: a.Monotonic}
}

// Record implements Aggregation: adds value to the running sum.
func (a SumAggregation) Record(existing Point, value float64, ts time.Time) Point {
	sp, _ := existing.(SumPoint)
	sp.Value += value
	sp.Monotonic = a.Monotonic
	sp.Timestamp = ts
	return sp
}

// Merge implements Aggregation: per-attribute addition (§4.2).
func (a SumAggregation) Merge(x, y Point) Point {
	if x == nil {
		return cloneOrNil(y)
	}
	if y == nil {
		return cloneOrNil(x)
	}
	xp := x.(SumPoint)
	yp := y.(SumPoint)
	ts := xp.Timestamp
	if yp.Timestamp.After(ts) {
		ts = yp.Timestamp
	}
	return SumPoint{Value: xp.Value + yp.Value, Monotonic: a.Monotonic, Timestamp: ts}
}
