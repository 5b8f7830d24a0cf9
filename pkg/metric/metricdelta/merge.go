package metricdelta

import (
	"github.com/relaycore/metrickit/pkg/metric/metricagg"
	"github.com/relaycore/metrickit/pkg/metric/metricexemplar"
)

// mergeMetrics combines two Metrics produced by the same Aggregation,
// matching data points by attribute-set hash and delegating per-point
// folding to aggregation.Merge (§4.2). The result's window spans both
// inputs.
func mergeMetrics(aggregation metricagg.Aggregation, a, b metricagg.Metric) metricagg.Metric {
	if a.Empty() {
		return b
	}
	if b.Empty() {
		return a
	}

	byHash := make(map[uint64]metricagg.DataPoint, len(a.Points)+len(b.Points))
	order := make([]uint64, 0, len(a.Points)+len(b.Points))
	for _, dp := range a.Points {
		h := dp.Attributes.Hash()
		byHash[h] = dp
		order = append(order, h)
	}
	for _, dp := range b.Points {
		h := dp.Attributes.Hash()
		if existing, ok := byHash[h]; ok {
			merged := make([]metricexemplar.Exemplar, 0, len(existing.Exemplars)+len(dp.Exemplars))
			merged = append(merged, existing.Exemplars...)
			merged = append(merged, dp.Exemplars...)
			byHash[h] = metricagg.DataPoint{
				Attributes: existing.Attributes,
				Value:      aggregation.Merge(existing.Value, dp.Value),
				Exemplars:  merged,
			}
			continue
		}
		byHash[h] = dp
		order = append(order, h)
	}

	points := make([]metricagg.DataPoint, 0, len(order))
	seen := make(map[uint64]bool, len(order))
	for _, h := range order {
		if seen[h] {
			continue
		}
		seen[h] = true
		points = append(points, byHash[h])
	}

	start := a.StartTime
	if b.StartTime.Before(start) {
		start = b.StartTime
	}
	end := a.EndTime
	if b.EndTime.After(end) {
		end = b.EndTime
	}
	return metricagg.Metric{StartTime: start, EndTime: end, Points: points}
}
