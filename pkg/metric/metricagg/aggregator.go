package metricagg

import (
	"context"
	"sync"
	"time"

	"github.com/relaycore/metrickit/pkg/metric/metricattr"
	"github.com/relaycore/metrickit/pkg/metric/metricexemplar"
)

// entry is one attribute set's accumulated state within a collection
// window.
type entry struct {
	attrs metricattr.Set
	point Point
}

// Aggregator folds measurements into per-attribute summaries for one
// synchronous instrument's stream. Safe for concurrent Record calls
// from many producer goroutines; Collect is safe to call concurrently
// with Record (§5: a single mutex guards the summary map and the
// exemplar reservoir together, so the swap is atomic from a producer's
// point of view).
type Aggregator struct {
	mu          sync.Mutex
	aggregation Aggregation
	processor   metricattr.Processor
	entries     map[uint64]*entry
	reservoir   *metricexemplar.Reservoir
	windowStart time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithAttributeProcessor installs the AttributeProcessor applied to
// every recorded attribute set before grouping (used to honor View
// attribute-key filters/renames).
func WithAttributeProcessor(p metricattr.Processor) Option {
	return func(a *Aggregator) {
		if p != nil {
			a.processor = p
		}
	}
}

// WithExemplarReservoir attaches an exemplar reservoir. Measurements
// are offered to it on every Record; Collect swaps and drains it
// alongside the summary map.
func WithExemplarReservoir(r *metricexemplar.Reservoir) Option {
	return func(a *Aggregator) {
		a.reservoir = r
	}
}

// NewAggregator creates an Aggregator over the given Aggregation,
// starting its first window at windowStart.
func NewAggregator(aggregation Aggregation, windowStart time.Time, opts ...Option) *Aggregator {
	a := &Aggregator{
		aggregation: aggregation,
		processor:   metricattr.Identity(),
		entries:     make(map[uint64]*entry),
		windowStart: windowStart,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Record folds value, observed at ts with attrs, into the running
// summary for this window (§4.1). A negative value recorded against a
// monotonic SumAggregation is dropped.
func (a *Aggregator) Record(ctx context.Context, value float64, attrs metricattr.Set, ts time.Time) {
	if sa, ok := a.aggregation.(SumAggregation); ok && sa.Monotonic && value < 0 {
		return
	}
	canon := metricattr.NewSet(a.processor.Process(attrs.KeyValues()))
	key := canon.Hash()

	a.mu.Lock()
	e, ok := a.entries[key]
	if !ok {
		e = &entry{attrs: canon, point: a.aggregation.Init()}
		a.entries[key] = e
	}
	e.point = a.aggregation.Record(e.point, value, ts)
	if a.reservoir != nil {
		a.reservoir.Offer(ctx, value, canon, ts)
	}
	a.mu.Unlock()
}

// Collect atomically swaps out the working summary map and exemplar
// reservoir, returning everything accumulated since the previous
// Collect (or since construction) as a Metric (§4.1).
func (a *Aggregator) Collect(ts time.Time) Metric {
	a.mu.Lock()
	entries := a.entries
	a.entries = make(map[uint64]*entry, len(entries))
	start := a.windowStart
	a.windowStart = ts
	var exemplars []metricexemplar.Exemplar
	if a.reservoir != nil {
		exemplars = a.reservoir.Collect()
	}
	a.mu.Unlock()

	points := make([]DataPoint, 0, len(entries))
	for _, e := range entries {
		points = append(points, DataPoint{
			Attributes: e.attrs,
			Value:      e.point,
			Exemplars:  exemplarsFor(e.attrs, exemplars),
		})
	}
	return Metric{StartTime: start, EndTime: ts, Points: points}
}

// exemplarsFor filters the collected exemplar batch down to the ones
// whose attribute set matches attrs. The reservoir is shared across
// the whole aggregator, so this is an O(n) scan per attribute set;
// reservoirs are small (default size 4) so this stays cheap.
func exemplarsFor(attrs metricattr.Set, all []metricexemplar.Exemplar) []metricexemplar.Exemplar {
	if len(all) == 0 {
		return nil
	}
	var out []metricexemplar.Exemplar
	for _, ex := range all {
		if ex.Attributes.Equal(attrs) {
			out = append(out, ex)
		}
	}
	return out
}
