package metricreader

import (
	"context"
	"sync"
	"time"

	"github.com/relaycore/metrickit/pkg/metric/metricexport"
	"github.com/relaycore/metrickit/pkg/metric/metricinstrument"
	"github.com/relaycore/metrickit/pkg/metric/metricotlp"
	"github.com/relaycore/metrickit/pkg/metric/metricsdk"
	"github.com/relaycore/metrickit/pkg/metric/metricstream"
)

// ManualMetricReader performs synchronous, caller-invoked collection
// across every stream a MeterProvider currently knows about, handing
// the resulting batch to an Exporter (§4.9).
type ManualMetricReader struct {
	provider    *metricsdk.MeterProvider
	exporter    metricexport.Exporter
	temporality metricstream.Temporality

	mu       sync.Mutex
	syncIDs  map[*metricstream.Stream]int
	asyncIDs map[*metricstream.AsyncStream]int
}

// Option configures a ManualMetricReader.
type Option func(*ManualMetricReader)

// WithTemporality selects the temporality this reader registers at on
// every stream it discovers. Defaults to Delta.
func WithTemporality(t metricstream.Temporality) Option {
	return func(r *ManualMetricReader) { r.temporality = t }
}

// NewManualMetricReader creates a reader collecting from provider and
// exporting through exporter.
func NewManualMetricReader(provider *metricsdk.MeterProvider, exporter metricexport.Exporter, opts ...Option) (*ManualMetricReader, error) {
	if exporter == nil {
		return nil, ErrNilExporter
	}
	r := &ManualMetricReader{
		provider: provider,
		exporter: exporter,
		syncIDs:  make(map[*metricstream.Stream]int),
		asyncIDs: make(map[*metricstream.AsyncStream]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Collect walks every Meter the provider has created, registering
// this reader against any stream seen for the first time, collecting
// each stream's window at this reader's temporality, and exporting the
// assembled request.
func (r *ManualMetricReader) Collect(ctx context.Context) error {
	now := time.Now()
	var groups []metricotlp.ScopedMetrics

	for _, meter := range r.provider.Meters() {
		group := metricotlp.ScopedMetrics{Scope: meter.Scope()}
		for _, is := range meter.Streams() {
			data, err := r.collectOne(ctx, is, now)
			if err != nil {
				return err
			}
			group.Metrics = append(group.Metrics, metricotlp.MetricWindow{Descriptor: is.Descriptor, Data: data})
		}
		groups = append(groups, group)
	}

	req := metricotlp.BuildRequest(r.provider.Resource().Attributes(), groups)
	return r.exporter.Export(ctx, req)
}

func (r *ManualMetricReader) collectOne(ctx context.Context, is metricinstrument.InstrumentStream, now time.Time) (metricstream.Data, error) {
	if is.Sync != nil {
		id, err := r.syncReaderID(is.Sync, now)
		if err != nil {
			return metricstream.Data{}, err
		}
		return is.Sync.Collect(id, &now), nil
	}
	id, err := r.asyncReaderID(ctx, is.Async, now)
	if err != nil {
		return metricstream.Data{}, err
	}
	return is.Async.Collect(ctx, id, &now)
}

func (r *ManualMetricReader) syncReaderID(stream *metricstream.Stream, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.syncIDs[stream]; ok {
		return id, nil
	}
	id, err := stream.Register(r.temporality, now)
	if err != nil {
		return 0, err
	}
	r.syncIDs[stream] = id
	return id, nil
}

func (r *ManualMetricReader) asyncReaderID(ctx context.Context, stream *metricstream.AsyncStream, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.asyncIDs[stream]; ok {
		return id, nil
	}
	id, err := stream.Register(ctx, r.temporality, now)
	if err != nil {
		return 0, err
	}
	r.asyncIDs[stream] = id
	return id, nil
}

// ForceFlush implements metricsdk.Reader by delegating to the exporter.
func (r *ManualMetricReader) ForceFlush(ctx context.Context) error {
	return r.exporter.ForceFlush(ctx)
}

// Shutdown unregisters this reader from every stream it had registered
// on and shuts down the exporter.
func (r *ManualMetricReader) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	for stream, id := range r.syncIDs {
		stream.Unregister(id)
	}
	for stream, id := range r.asyncIDs {
		stream.Unregister(id)
	}
	r.mu.Unlock()
	return r.exporter.Shutdown(ctx)
}
