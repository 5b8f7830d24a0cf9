package metricsdk

import (
	"context"
	"sync"

	"github.com/relaycore/metrickit/pkg/metric/metricclock"
	"github.com/relaycore/metrickit/pkg/metric/metricinstrument"
	"github.com/relaycore/metrickit/pkg/metric/metricview"
)

// Reader is the narrow contract a MeterProvider needs from a
// MetricReader to manage its lifecycle, kept here (rather than
// importing metricreader) so metricreader can depend on metricsdk
// without an import cycle (§4.8).
type Reader interface {
	Shutdown(ctx context.Context) error
	ForceFlush(ctx context.Context) error
}

// MeterProvider is the aggregate root: one Resource, the View registry
// every Meter it creates consults, and every registered Reader (§4.8).
type MeterProvider struct {
	resource Resource
	views    *metricview.Registry
	clock    metricclock.Clock
	readers  []Reader

	mu     sync.Mutex
	meters map[string]*metricinstrument.Meter
}

// ScopeOption configures a Meter returned by MeterProvider.Meter.
type ScopeOption func(*metricinstrument.Scope)

// WithScopeVersion sets the instrumentation scope's version.
func WithScopeVersion(version string) ScopeOption {
	return func(s *metricinstrument.Scope) { s.Version = version }
}

// WithScopeSchemaURL sets the instrumentation scope's schema URL.
func WithScopeSchemaURL(url string) ScopeOption {
	return func(s *metricinstrument.Scope) { s.SchemaURL = url }
}

// Meter returns (creating if absent) the Meter registered for
// scopeName, sharing this provider's View registry and clock.
func (p *MeterProvider) Meter(scopeName string, opts ...ScopeOption) *metricinstrument.Meter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if m, ok := p.meters[scopeName]; ok {
		return m
	}

	scope := metricinstrument.Scope{Name: scopeName}
	for _, opt := range opts {
		opt(&scope)
	}

	m := metricinstrument.NewMeter(scope, metricinstrument.WithViews(p.views), metricinstrument.WithClock(p.clock))
	p.meters[scopeName] = m
	return m
}

// Meters returns a snapshot of every Meter this provider has created,
// for a MetricReader's collection loop to enumerate (§4.9).
func (p *MeterProvider) Meters() []*metricinstrument.Meter {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]*metricinstrument.Meter, 0, len(p.meters))
	for _, m := range p.meters {
		out = append(out, m)
	}
	return out
}

// Resource returns the provider's resource.
func (p *MeterProvider) Resource() Resource { return p.resource }

// RegisterReader attaches r to the provider's shutdown lifecycle. It
// does not, by itself, make r observe any stream — the reader
// registers itself against each Meter's streams as it discovers them.
func (p *MeterProvider) RegisterReader(r Reader) {
	p.mu.Lock()
	p.readers = append(p.readers, r)
	p.mu.Unlock()
}

// Shutdown shuts down every registered Reader, collecting (not
// short-circuiting on) individual failures (§4.8).
func (p *MeterProvider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	readers := make([]Reader, len(p.readers))
	copy(readers, p.readers)
	p.mu.Unlock()

	var firstErr error
	for _, r := range readers {
		if err := r.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
