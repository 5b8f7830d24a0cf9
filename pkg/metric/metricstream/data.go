package metricstream

import (
	"time"

	"github.com/relaycore/metrickit/pkg/metric/metricagg"
)

// Temporality selects whether a reader observes deltas since its last
// collection or a running cumulative sum since the stream's start.
type Temporality int

const (
	// Delta reports only what changed since the reader's previous
	// collection.
	Delta Temporality = iota
	// Cumulative reports the running total since the stream started.
	Cumulative
)

// String implements fmt.Stringer for logging.
func (t Temporality) String() string {
	if t == Cumulative {
		return "cumulative"
	}
	return "delta"
}

// Data is what one Stream.Collect call returns to a reader: a window
// of data points at the reader's chosen temporality.
type Data struct {
	Temporality Temporality
	StartTime   time.Time
	EndTime     time.Time
	Points      []metricagg.DataPoint
}
