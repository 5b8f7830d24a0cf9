package metricinstrument

import (
	"log/slog"
	"sync"

	"github.com/relaycore/metrickit/pkg/metric/metricagg"
	"github.com/relaycore/metrickit/pkg/metric/metricclock"
	"github.com/relaycore/metrickit/pkg/metric/metricstale"
	"github.com/relaycore/metrickit/pkg/metric/metricstream"
	"github.com/relaycore/metrickit/pkg/metric/metricview"
)

// defaultHistogramBoundaries is used when CreateHistogram is called
// without explicit boundaries and no View override supplies them.
var defaultHistogramBoundaries = []float64{0, 5, 10, 25, 50, 75, 100, 250, 500, 1000, 2500, 5000, 10000}

// registration holds one live (name-deduplicated) instrument entry.
type registration struct {
	descriptor Descriptor
	staleness  metricstale.Handler
	syncStream *metricstream.Stream
	asyncStream *metricstream.AsyncStream
}

// Meter creates and deduplicates instruments for one instrumentation
// scope (§4.5).
type Meter struct {
	scope Scope
	views *metricview.Registry
	clock metricclock.Clock
	log   *slog.Logger

	mu      sync.Mutex
	entries map[string]*registration
}

// MeterOption configures a Meter.
type MeterOption func(*Meter)

// WithViews installs the View registry consulted at instrument
// creation time. A nil registry matches nothing (every instrument
// uses its kind-implied default aggregation).
func WithViews(views *metricview.Registry) MeterOption {
	return func(m *Meter) {
		if views != nil {
			m.views = views
		}
	}
}

// WithClock overrides the Meter's time source, used in tests to
// control Record timestamps deterministically.
func WithClock(clock metricclock.Clock) MeterOption {
	return func(m *Meter) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithLogger overrides the Meter's structured logger, used for
// conflicting-redeclaration and view-drop notices.
func WithLogger(logger *slog.Logger) MeterOption {
	return func(m *Meter) {
		if logger != nil {
			m.log = logger
		}
	}
}

// NewMeter creates a Meter for scope.
func NewMeter(scope Scope, opts ...MeterOption) *Meter {
	m := &Meter{
		scope:   scope,
		views:   metricview.NewRegistry(),
		clock:   metricclock.Real(),
		log:     slog.Default(),
		entries: make(map[string]*registration),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// capacityWarning logs once per stream when its reader bitmask widens
// past the uint64 fast path (§4.3).
func (m *Meter) capacityWarning(name string) metricstream.CapacityWarningFunc {
	return func(readerCount int) {
		m.log.Warn("metricinstrument: reader bitmask widened past machine word",
			slog.String("scope", m.scope.Name), slog.String("instrument", name), slog.Int("reader_count", readerCount))
	}
}

// reclaim removes name's entry once its staleness handler fires. It
// takes the Meter's mutex itself, so it runs outside that lock.
func (m *Meter) reclaim(name string) {
	m.mu.Lock()
	delete(m.entries, name)
	m.mu.Unlock()
}

// lookupOrConflict returns the existing entry for descriptor.Name, if
// present, logging a warning when descriptor conflicts with it, and
// always honoring first-registration-wins.
func (m *Meter) lookupOrConflict(descriptor Descriptor) *registration {
	existing, ok := m.entries[descriptor.Name]
	if !ok {
		return nil
	}
	if existing.descriptor.conflictsWith(descriptor) {
		m.log.Warn("metricinstrument: conflicting instrument re-registration, keeping the first",
			slog.String("scope", m.scope.Name), slog.String("name", descriptor.Name),
			slog.String("existing_kind", existing.descriptor.Kind.String()), slog.String("requested_kind", descriptor.Kind.String()))
	}
	return existing
}

func (m *Meter) matchView(descriptor Descriptor) (metricview.Rule, bool) {
	return m.views.Match(m.scope.Name, descriptor.Name)
}

func (m *Meter) resolveAggregation(kind Kind, rule metricview.Rule, match bool, boundaries []float64) (metricagg.Aggregation, error) {
	if match && rule.Aggregation != nil {
		switch rule.Aggregation.Kind {
		case metricview.AggregationSum:
			return metricagg.SumAggregation{Monotonic: kind.Monotonic()}, nil
		case metricview.AggregationLastValue:
			return metricagg.LastValueAggregation{}, nil
		case metricview.AggregationHistogram:
			b := rule.Aggregation.HistogramBoundaries
			if len(b) == 0 {
				b = boundaries
			}
			return metricagg.NewExplicitBucketHistogram(b)
		}
	}
	switch kind {
	case Counter, UpDownCounter:
		return metricagg.SumAggregation{Monotonic: kind.Monotonic()}, nil
	case Gauge:
		return metricagg.LastValueAggregation{}, nil
	case Histogram:
		return metricagg.NewExplicitBucketHistogram(boundaries)
	default:
		return metricagg.LastValueAggregation{}, nil
	}
}
