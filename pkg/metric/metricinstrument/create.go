package metricinstrument

import (
	"github.com/relaycore/metrickit/pkg/metric/metricstale"
	"github.com/relaycore/metrickit/pkg/metric/metricstream"
	"github.com/relaycore/metrickit/pkg/metric/metricview"
)

// CounterOption configures a single Create* call.
type CounterOption func(*createConfig)

type createConfig struct {
	unit                string
	description         string
	histogramBoundaries []float64
}

// WithUnit sets the instrument's unit string.
func WithUnit(unit string) CounterOption { return func(c *createConfig) { c.unit = unit } }

// WithDescription sets the instrument's description string.
func WithDescription(description string) CounterOption {
	return func(c *createConfig) { c.description = description }
}

// WithHistogramBoundaries sets explicit bucket boundaries for
// CreateHistogram; ignored by other Create* methods.
func WithHistogramBoundaries(boundaries []float64) CounterOption {
	return func(c *createConfig) { c.histogramBoundaries = boundaries }
}

func applyOpts(opts []CounterOption) createConfig {
	cfg := createConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// CreateCounter creates or reuses a monotonic Counter writer.
func (m *Meter) CreateCounter(name string, opts ...CounterOption) (Writer, error) {
	cfg := applyOpts(opts)
	return m.createSync(Descriptor{Kind: Counter, Name: name, Unit: cfg.unit, Description: cfg.description}, opts)
}

// CreateUpDownCounter creates or reuses a non-monotonic UpDownCounter writer.
func (m *Meter) CreateUpDownCounter(name string, opts ...CounterOption) (Writer, error) {
	cfg := applyOpts(opts)
	return m.createSync(Descriptor{Kind: UpDownCounter, Name: name, Unit: cfg.unit, Description: cfg.description}, opts)
}

// CreateHistogram creates or reuses a Histogram writer.
func (m *Meter) CreateHistogram(name string, opts ...CounterOption) (Writer, error) {
	cfg := applyOpts(opts)
	return m.createSync(Descriptor{Kind: Histogram, Name: name, Unit: cfg.unit, Description: cfg.description}, opts)
}

// CreateGauge creates or reuses a synchronous Gauge writer.
func (m *Meter) CreateGauge(name string, opts ...CounterOption) (Writer, error) {
	cfg := applyOpts(opts)
	return m.createSync(Descriptor{Kind: Gauge, Name: name, Unit: cfg.unit, Description: cfg.description}, opts)
}

// CreateObservableCounter creates or reuses a monotonic observable counter.
func (m *Meter) CreateObservableCounter(name string, opts ...CounterOption) (Observable, error) {
	cfg := applyOpts(opts)
	return m.createAsync(Descriptor{Kind: ObservableCounter, Name: name, Unit: cfg.unit, Description: cfg.description}, opts)
}

// CreateObservableUpDownCounter creates or reuses a non-monotonic observable counter.
func (m *Meter) CreateObservableUpDownCounter(name string, opts ...CounterOption) (Observable, error) {
	cfg := applyOpts(opts)
	return m.createAsync(Descriptor{Kind: ObservableUpDownCounter, Name: name, Unit: cfg.unit, Description: cfg.description}, opts)
}

// CreateObservableGauge creates or reuses an observable gauge.
func (m *Meter) CreateObservableGauge(name string, opts ...CounterOption) (Observable, error) {
	cfg := applyOpts(opts)
	return m.createAsync(Descriptor{Kind: ObservableGauge, Name: name, Unit: cfg.unit, Description: cfg.description}, opts)
}

func (m *Meter) createSync(descriptor Descriptor, opts []CounterOption) (Writer, error) {
	cfg := applyOpts(opts)

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing := m.lookupOrConflict(descriptor); existing != nil {
		existing.staleness.Acquire()
		return &streamWriter{stream: existing.syncStream, staleness: existing.staleness, clock: m.clock.Now}, nil
	}

	rule, matched := m.matchView(descriptor)
	if matched && rule.Aggregation != nil && rule.Aggregation.Kind == metricview.AggregationDrop {
		return noopWriter{}, nil
	}

	boundaries := cfg.histogramBoundaries
	if len(boundaries) == 0 {
		boundaries = defaultHistogramBoundaries
	}
	aggregation, err := m.resolveAggregation(descriptor.Kind, rule, matched, boundaries)
	if err != nil {
		return nil, err
	}

	var streamOpts []metricstream.Option
	streamOpts = append(streamOpts, metricstream.WithCapacityWarning(m.capacityWarning(descriptor.Name)))
	if matched {
		streamOpts = append(streamOpts, metricstream.WithAttributeProcessor(rule.AttributeProcessor()))
	}

	stream := metricstream.NewStream(aggregation, m.clock.Now(), streamOpts...)
	staleness := m.newStaleness(descriptor.Name)
	staleness.Acquire()
	m.entries[descriptor.Name] = &registration{descriptor: descriptor, staleness: staleness, syncStream: stream}

	return &streamWriter{stream: stream, staleness: staleness, clock: m.clock.Now}, nil
}

func (m *Meter) createAsync(descriptor Descriptor, _ []CounterOption) (Observable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing := m.lookupOrConflict(descriptor); existing != nil {
		existing.staleness.Acquire()
		return &streamObservable{stream: existing.asyncStream, staleness: existing.staleness}, nil
	}

	rule, matched := m.matchView(descriptor)
	if matched && rule.Aggregation != nil && rule.Aggregation.Kind == metricview.AggregationDrop {
		return noopObservable{}, nil
	}

	kind := metricstream.AsyncGauge
	if descriptor.Kind == ObservableCounter || descriptor.Kind == ObservableUpDownCounter {
		kind = metricstream.AsyncSum
	}

	var streamOpts []metricstream.Option
	streamOpts = append(streamOpts, metricstream.WithCapacityWarning(m.capacityWarning(descriptor.Name)))
	stream := metricstream.NewAsyncStream(kind, descriptor.Kind.Monotonic(), m.clock.Now(), streamOpts...)
	staleness := m.newStaleness(descriptor.Name)
	staleness.Acquire()
	m.entries[descriptor.Name] = &registration{descriptor: descriptor, staleness: staleness, asyncStream: stream}

	return &streamObservable{stream: stream, staleness: staleness}, nil
}

func (m *Meter) newStaleness(name string) metricstale.Handler {
	h := metricstale.NewImmediate()
	h.OnStale(func() { m.reclaim(name) })
	return h
}
