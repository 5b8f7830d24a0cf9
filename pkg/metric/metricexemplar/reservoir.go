package metricexemplar

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/relaycore/metrickit/pkg/metric/metricattr"
)

// defaultSize is the default reservoir capacity when [NewReservoir] is
// called without [WithSize].
const defaultSize = 4

// Reservoir is a bounded, concurrency-safe exemplar reservoir using
// uniform random sampling without replacement within one collection
// window.
type Reservoir struct {
	mu      sync.Mutex
	size    int
	offered int
	samples []Exemplar
}

// Option configures a [Reservoir].
type Option func(*Reservoir)

// WithSize sets the reservoir capacity. Must be positive; non-positive
// values are ignored.
func WithSize(n int) Option {
	return func(r *Reservoir) {
		if n > 0 {
			r.size = n
		}
	}
}

// NewReservoir creates a reservoir with the given options.
func NewReservoir(opts ...Option) *Reservoir {
	r := &Reservoir{size: defaultSize}
	for _, opt := range opts {
		opt(r)
	}
	r.samples = make([]Exemplar, 0, r.size)
	return r
}

// Offer presents a measurement to the reservoir. Implements Algorithm R:
// the first Size offers are kept unconditionally; subsequent offer n
// (1-indexed) replaces a uniformly random slot with probability
// Size/n.
func (r *Reservoir) Offer(ctx context.Context, value float64, attrs metricattr.Set, ts time.Time) {
	ex := Exemplar{Value: value, Timestamp: ts, Attributes: attrs}
	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			ex.HasTraceID = true
			ex.TraceID = sc.TraceID()
			ex.HasSpanID = true
			ex.SpanID = sc.SpanID()
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.offered++
	if len(r.samples) < r.size {
		r.samples = append(r.samples, ex)
		return
	}
	// rand.N(r.offered) in [0, offered); replace with probability size/offered.
	if j := rand.N(r.offered); j < r.size {
		r.samples[j] = ex
	}
}

// Collect returns the current samples and resets the reservoir for the
// next collection window, mirroring the aggregator's swap-on-collect
// semantics.
func (r *Reservoir) Collect() []Exemplar {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.samples
	r.samples = make([]Exemplar, 0, r.size)
	r.offered = 0
	return out
}
