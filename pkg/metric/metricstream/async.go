package metricstream

import (
	"context"
	"sync"
	"time"

	"github.com/relaycore/metrickit/pkg/metric/metricagg"
	"github.com/relaycore/metrickit/pkg/metric/metricattr"
)

// Observation is one (attributes, value) pair yielded by an observer
// callback on an ObservableCounter/ObservableUpDownCounter/ObservableGauge.
type Observation struct {
	Attributes metricattr.Set
	Value      float64
}

// ObserverCallback is invoked once per Collect to sample the current
// value(s) of an asynchronous instrument.
type ObserverCallback func(ctx context.Context) ([]Observation, error)

// AsyncKind selects how AsyncStream turns raw observations into
// Points: AsyncGauge keeps the latest value as-is, AsyncSum treats
// each observation as a running cumulative value and diffs it against
// the previous observation to emit a delta (§4.4).
type AsyncKind int

const (
	// AsyncGauge emits LastValuePoints directly from each observation.
	AsyncGauge AsyncKind = iota
	// AsyncSum treats observations as cumulative totals and emits the
	// diff against the previous observation as a SumPoint.
	AsyncSum
)

// AsyncStream is the AsynchronousMetricStream of §4.4: identical
// reader/collection interface to Stream, but its window is produced by
// invoking registered observer callbacks instead of folding Record
// calls through an Aggregator.
type AsyncStream struct {
	state *readerState
	kind  AsyncKind
	// monotonic marks an AsyncSum stream's counter as non-negative;
	// carried through to emitted SumPoints for serialization only.
	monotonic bool

	cbMu      sync.Mutex
	callbacks []ObserverCallback
	previous  map[uint64]float64
}

// NewAsyncStream creates an AsyncStream of the given kind, with its
// first collection window starting at start.
func NewAsyncStream(kind AsyncKind, monotonic bool, start time.Time, opts ...Option) *AsyncStream {
	cfg := &streamConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	aggregation := metricagg.Aggregation(metricagg.LastValueAggregation{})
	if kind == AsyncSum {
		aggregation = metricagg.SumAggregation{Monotonic: monotonic}
	}
	return &AsyncStream{
		state:     newReaderState(aggregation, start, cfg.onCapacityWarning),
		kind:      kind,
		monotonic: monotonic,
		previous:  make(map[uint64]float64),
	}
}

// RegisterCallback adds an observer callback invoked on every Collect
// that advances the window.
func (s *AsyncStream) RegisterCallback(cb ObserverCallback) {
	if cb == nil {
		return
	}
	s.cbMu.Lock()
	s.callbacks = append(s.callbacks, cb)
	s.cbMu.Unlock()
}

// Register implements the same reader-lifecycle contract as
// Stream.Register: ts establishes the new reader's zero point by
// flushing any window pending since the last produce call onto the
// pre-existing readers before the new reader's bit is added.
func (s *AsyncStream) Register(ctx context.Context, temporality Temporality, ts time.Time) (int, error) {
	return s.state.register(temporality, ts, func(prevTimestamp, t time.Time) (metricagg.Metric, error) {
		return s.observe(ctx, prevTimestamp, t)
	})
}

// Unregister implements the same reader-lifecycle contract as Stream.Unregister.
func (s *AsyncStream) Unregister(readerID int) {
	s.state.unregister(readerID)
}

// Collect invokes every registered callback (if ts is non-nil),
// converts their observations into this window's Metric, and returns
// readerID's view at its chosen temporality.
func (s *AsyncStream) Collect(ctx context.Context, readerID int, ts *time.Time) (Data, error) {
	return s.state.collect(readerID, ts, func(prevTimestamp, t time.Time) (metricagg.Metric, error) {
		return s.observe(ctx, prevTimestamp, t)
	})
}

func (s *AsyncStream) observe(ctx context.Context, prevTimestamp, ts time.Time) (metricagg.Metric, error) {
	s.cbMu.Lock()
	callbacks := make([]ObserverCallback, len(s.callbacks))
	copy(callbacks, s.callbacks)
	s.cbMu.Unlock()

	var points []metricagg.DataPoint
	for _, cb := range callbacks {
		observations, err := cb(ctx)
		if err != nil {
			return metricagg.Metric{}, err
		}
		for _, obs := range observations {
			points = append(points, metricagg.DataPoint{
				Attributes: obs.Attributes,
				Value:      s.toPoint(obs, ts),
			})
		}
	}
	return metricagg.Metric{StartTime: prevTimestamp, EndTime: ts, Points: points}, nil
}

func (s *AsyncStream) toPoint(obs Observation, ts time.Time) metricagg.Point {
	if s.kind == AsyncGauge {
		return metricagg.LastValuePoint{Value: obs.Value, Timestamp: ts}
	}

	hash := obs.Attributes.Hash()
	s.cbMu.Lock()
	prev, had := s.previous[hash]
	s.previous[hash] = obs.Value
	s.cbMu.Unlock()

	delta := obs.Value
	if had {
		delta = obs.Value - prev
	}
	return metricagg.SumPoint{Value: delta, Monotonic: s.monotonic, Timestamp: ts}
}
