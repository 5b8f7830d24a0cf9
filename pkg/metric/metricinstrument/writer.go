package metricinstrument

import (
	"context"
	"time"

	"github.com/relaycore/metrickit/pkg/metric/metricattr"
	"github.com/relaycore/metrickit/pkg/metric/metricstale"
	"github.com/relaycore/metrickit/pkg/metric/metricstream"
)

// Writer is the capability handle returned by Meter.Create{Counter,
// UpDownCounter,Histogram,Gauge}: a synchronous write endpoint that
// must be Closed when the caller is done producing measurements.
type Writer interface {
	Record(ctx context.Context, value float64, attrs ...metricattr.KeyValue)
	Close()
}

// Observable is the capability handle returned by
// Meter.CreateObservable*: registers a sampling callback invoked once
// per collection, with no direct Record path.
type Observable interface {
	RegisterCallback(cb metricstream.ObserverCallback)
	Close()
}

// streamWriter is the live Writer backing a registered instrument.
type streamWriter struct {
	stream    *metricstream.Stream
	staleness metricstale.Handler
	clock     func() time.Time
}

var _ Writer = (*streamWriter)(nil)

func (w *streamWriter) Record(ctx context.Context, value float64, attrs ...metricattr.KeyValue) {
	w.stream.Record(ctx, value, metricattr.NewSet(attrs), w.clock())
}

func (w *streamWriter) Close() {
	w.staleness.Release()
}

// streamObservable is the live Observable backing a registered
// asynchronous instrument.
type streamObservable struct {
	stream    *metricstream.AsyncStream
	staleness metricstale.Handler
}

var _ Observable = (*streamObservable)(nil)

func (o *streamObservable) RegisterCallback(cb metricstream.ObserverCallback) {
	o.stream.RegisterCallback(cb)
}

func (o *streamObservable) Close() {
	o.staleness.Release()
}

// noopWriter is returned when a View rule drops an instrument: Record
// is a no-op, Close does nothing (there is no staleness handle to
// release).
type noopWriter struct{}

var _ Writer = noopWriter{}

func (noopWriter) Record(context.Context, float64, ...metricattr.KeyValue) {}
func (noopWriter) Close()                                                  {}

// noopObservable mirrors noopWriter for dropped observable instruments.
type noopObservable struct{}

var _ Observable = noopObservable{}

func (noopObservable) RegisterCallback(metricstream.ObserverCallback) {}
func (noopObservable) Close()                                         {}
