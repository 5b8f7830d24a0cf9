package metricdelta

import (
	"sync"

	"github.com/relaycore/metrickit/pkg/metric/metricagg"
	"github.com/relaycore/metrickit/pkg/metric/metricexemplar"
	"github.com/relaycore/metrickit/pkg/metric/metricreadermask"
)

// Storage is a DeltaStorage for one stream: a list of DeltaNode ordered
// oldest to newest, plus one running cumulative Metric per reader that
// has chosen cumulative temporality.
//
// Safe for concurrent Add/Collect calls; callers are expected to hold
// the owning stream's mutex regardless (§5), but Storage guards its own
// state independently so it remains correct if used standalone.
type Storage struct {
	mu          sync.Mutex
	aggregation metricagg.Aggregation
	nodes       []*DeltaNode
	cumulative  map[int]metricagg.Metric
}

// NewStorage creates an empty DeltaStorage for the given Aggregation,
// used to fold and merge data points of that aggregation's kind.
func NewStorage(aggregation metricagg.Aggregation) *Storage {
	return &Storage{
		aggregation: aggregation,
		cumulative:  make(map[int]metricagg.Metric),
	}
}

// Add appends a node carrying metric, visible to every reader bit set
// in activeReaders. Empty metrics are skipped (§4.2).
func (s *Storage) Add(metric metricagg.Metric, activeReaders metricreadermask.Mask) {
	if metric.Empty() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = append(s.nodes, &DeltaNode{Metric: metric, Readers: activeReaders.Clone()})
}

// Collect merges every node still owed to readerID, in oldest-first
// order, clearing that reader's bit as each node is consumed and
// unlinking any node whose bitmask becomes zero. If cumulative is true
// the merged delta is additionally folded into readerID's running sum
// and a clone of that sum is returned; otherwise the merged delta
// itself is returned. ok is false if no node carried anything for this
// reader and, for a cumulative reader, no running sum exists yet
// (caller should synthesize an empty Metric at its own
// timestamp per §4.3).
func (s *Storage) Collect(readerID int, cumulative bool) (metricagg.Metric, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var merged metricagg.Metric
	any := false
	remaining := s.nodes[:0]
	for _, node := range s.nodes {
		if node.Readers.Test(readerID) {
			if any {
				merged = mergeMetrics(s.aggregation, merged, node.Metric)
			} else {
				merged = node.Metric
				any = true
			}
			node.Readers.Clear(readerID)
		}
		if !node.Readers.IsZero() {
			remaining = append(remaining, node)
		}
	}
	s.nodes = remaining

	if !cumulative {
		return merged, any
	}

	running, ok := s.cumulative[readerID]
	if any {
		if ok {
			running = mergeMetrics(s.aggregation, running, merged)
		} else {
			running = merged
		}
		s.cumulative[readerID] = running
		ok = true
	}
	if !ok {
		return metricagg.Metric{}, false
	}
	return cloneMetric(running), true
}

// ForgetReader drops readerID's running cumulative sum, called when a
// reader unregisters (§4.3 Unregister).
func (s *Storage) ForgetReader(readerID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cumulative, readerID)
}

func cloneMetric(m metricagg.Metric) metricagg.Metric {
	points := make([]metricagg.DataPoint, len(m.Points))
	for i, dp := range m.Points {
		exemplars := make([]metricexemplar.Exemplar, len(dp.Exemplars))
		copy(exemplars, dp.Exemplars)
		points[i] = metricagg.DataPoint{
			Attributes: dp.Attributes,
			Value:      dp.Value.Clone(),
			Exemplars:  exemplars,
		}
	}
	return metricagg.Metric{StartTime: m.StartTime, EndTime: m.EndTime, Points: points}
}
