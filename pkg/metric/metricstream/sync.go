package metricstream

import (
	"context"
	"time"

	"github.com/relaycore/metrickit/pkg/metric/metricagg"
	"github.com/relaycore/metrickit/pkg/metric/metricattr"
)

// Stream is the synchronous metric stream state machine of §4.3:
// aggregator + delta storage + per-reader bitmasks.
type Stream struct {
	state      *readerState
	aggregator *metricagg.Aggregator
}

// Option configures a Stream.
type Option func(*streamConfig)

type streamConfig struct {
	onCapacityWarning CapacityWarningFunc
	aggregatorOpts    []metricagg.Option
}

// WithCapacityWarning installs the callback fired once when the
// reader bitmask widens past its machine-word fast path.
func WithCapacityWarning(fn CapacityWarningFunc) Option {
	return func(c *streamConfig) { c.onCapacityWarning = fn }
}

// WithAttributeProcessor installs the AttributeProcessor the
// underlying Aggregator applies to every recorded attribute set.
func WithAttributeProcessor(p metricattr.Processor) Option {
	return func(c *streamConfig) { c.aggregatorOpts = append(c.aggregatorOpts, metricagg.WithAttributeProcessor(p)) }
}

// NewStream creates a Stream over aggregation, with its first
// collection window starting at start.
func NewStream(aggregation metricagg.Aggregation, start time.Time, opts ...Option) *Stream {
	cfg := &streamConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Stream{
		state:      newReaderState(aggregation, start, cfg.onCapacityWarning),
		aggregator: metricagg.NewAggregator(aggregation, start, cfg.aggregatorOpts...),
	}
}

// Record folds a measurement into the current window.
func (s *Stream) Record(ctx context.Context, value float64, attrs metricattr.Set, ts time.Time) {
	s.aggregator.Record(ctx, value, attrs, ts)
}

// Register registers a new reader at the given temporality and
// returns its reader id. ts establishes the reader's zero point: any
// window already recorded up to ts is flushed onto the pre-existing
// readers first, so the new reader only ever sees data recorded from
// ts onward (§4.3 Register).
func (s *Stream) Register(temporality Temporality, ts time.Time) (int, error) {
	return s.state.register(temporality, ts, func(_, t time.Time) (metricagg.Metric, error) {
		return s.aggregator.Collect(t), nil
	})
}

// Unregister drains and discards readerID's outstanding deltas and
// frees its reader id (§4.3 Unregister).
func (s *Stream) Unregister(readerID int) {
	s.state.unregister(readerID)
}

// Collect returns readerID's view of the stream at its chosen
// temporality. If ts is non-nil the aggregator's current window is
// collected and appended to the delta ledger first, advancing the
// stream's timestamp; a nil ts replays without advancing (§4.3 Collect).
func (s *Stream) Collect(readerID int, ts *time.Time) Data {
	data, _ := s.state.collect(readerID, ts, func(_, t time.Time) (metricagg.Metric, error) {
		return s.aggregator.Collect(t), nil
	})
	return data
}
