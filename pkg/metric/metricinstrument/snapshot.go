package metricinstrument

import "github.com/relaycore/metrickit/pkg/metric/metricstream"

// InstrumentStream is a read-only snapshot of one registered
// instrument's identity and stream handle, exposed to a MetricReader's
// collection loop. Exactly one of Sync/Async is non-nil.
type InstrumentStream struct {
	Descriptor Descriptor
	Sync       *metricstream.Stream
	Async      *metricstream.AsyncStream
}

// Streams returns a snapshot of every instrument currently registered
// on m, for a MetricReader to register itself against and collect
// from (§4.8/§4.9). Safe to call concurrently with Create*/Close.
func (m *Meter) Streams() []InstrumentStream {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]InstrumentStream, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, InstrumentStream{Descriptor: e.descriptor, Sync: e.syncStream, Async: e.asyncStream})
	}
	return out
}

// Scope returns the instrumentation scope m was created for.
func (m *Meter) Scope() Scope { return m.scope }
