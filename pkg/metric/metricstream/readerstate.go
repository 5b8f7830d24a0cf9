package metricstream

import (
	"sync"
	"time"

	"github.com/relaycore/metrickit/pkg/metric/metricagg"
	"github.com/relaycore/metrickit/pkg/metric/metricdelta"
	"github.com/relaycore/metrickit/pkg/metric/metricreadermask"
)

// CapacityWarningFunc is invoked at most once per stream the first
// time its reader bitmask widens past the machine-word fast path
// (§4.3: "failing to widen must produce a warning rather than a
// silent overflow" — this is that warning's delivery point).
type CapacityWarningFunc func(readerCount int)

// produceFunc yields the Metric for the window [prevTimestamp, ts),
// differing between Stream (delegates to an Aggregator) and
// AsyncStream (delegates to observer callbacks).
type produceFunc func(prevTimestamp, ts time.Time) (metricagg.Metric, error)

// readerState is the multi-reader bookkeeping shared by Stream and
// AsyncStream: the reader/cumulative bitmasks, the delta ledger, and
// the stream's current timestamp. All mutation happens under mu.
type readerState struct {
	mu                sync.Mutex
	delta             *metricdelta.Storage
	timestamp         time.Time
	readers           metricreadermask.Mask
	cumulative        metricreadermask.Mask
	onCapacityWarning CapacityWarningFunc
}

func newReaderState(aggregation metricagg.Aggregation, start time.Time, onCapacityWarning CapacityWarningFunc) *readerState {
	return &readerState{
		delta:             metricdelta.NewStorage(aggregation),
		timestamp:         start,
		onCapacityWarning: onCapacityWarning,
	}
}

// register finds the lowest unset reader bit, sets it (and the
// cumulative bit if requested), and returns it (§4.3 Register).
//
// Before adding the new bit, it flushes the window pending since the
// last produce call onto the *existing* reader set at ts. Without this
// flush, a reader registering mid-window would be added to r.readers
// before the very next collect flushes that same window, making it
// look like the new reader was owed everything recorded since stream
// creation rather than starting from a clean zero point.
func (r *readerState) register(temporality Temporality, ts time.Time, produce produceFunc) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	metric, err := produce(r.timestamp, ts)
	if err != nil {
		return 0, err
	}
	r.delta.Add(metric, r.readers)
	r.timestamp = ts

	id := r.readers.LowestUnset()
	onWiden := func() {
		if r.onCapacityWarning != nil {
			r.onCapacityWarning(id + 1)
		}
	}
	r.readers.Set(id, onWiden)
	if temporality == Cumulative {
		r.cumulative.Set(id, nil)
	}
	return id, nil
}

// unregister drains and discards any outstanding deltas for readerID
// and clears its bits. No-op if the bit is already clear (§4.3
// Unregister).
func (r *readerState) unregister(readerID int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.readers.Test(readerID) {
		return
	}
	cumulative := r.cumulative.Test(readerID)
	r.delta.Collect(readerID, cumulative)
	r.delta.ForgetReader(readerID)
	r.readers.Clear(readerID)
	r.cumulative.Clear(readerID)
}

// collect implements the four steps of §4.3 Collect, generically over
// how the window's Metric gets produced.
func (r *readerState) collect(readerID int, ts *time.Time, produce produceFunc) (Data, error) {
	r.mu.Lock()
	if ts != nil {
		metric, err := produce(r.timestamp, *ts)
		if err != nil {
			r.mu.Unlock()
			return Data{}, err
		}
		r.delta.Add(metric, r.readers)
		r.timestamp = *ts
	}
	cumulative := r.cumulative.Test(readerID)
	current := r.timestamp
	merged, ok := r.delta.Collect(readerID, cumulative)
	r.mu.Unlock()

	if !ok {
		merged = metricagg.Metric{StartTime: current, EndTime: current}
	}
	temporality := Delta
	if cumulative {
		temporality = Cumulative
	}
	return Data{
		Temporality: temporality,
		StartTime:   merged.StartTime,
		EndTime:     merged.EndTime,
		Points:      merged.Points,
	}, nil
}
