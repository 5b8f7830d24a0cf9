package metricagg

import (
	"time"

	"github.com/relaycore/metrickit/pkg/metric/metricattr"
	"github.com/relaycore/metrickit/pkg/metric/metricexemplar"
)

// DataPoint pairs an attribute set with the Point folded for it.
type DataPoint struct {
	Attributes metricattr.Set
	Value      Point
	Exemplars  []metricexemplar.Exemplar
}

// Metric is the delta collected from one Aggregator.Collect call: every
// attribute set observed during the window, each with its own Point.
type Metric struct {
	StartTime time.Time
	EndTime   time.Time
	Points    []DataPoint
}

// Empty reports whether the metric carries no observations, in which
// case DeltaStorage.Add should skip appending a node (§4.2).
func (m Metric) Empty() bool { return len(m.Points) == 0 }
