package metricsdk

import (
	"github.com/relaycore/metrickit/pkg/config/xconf"
	"github.com/relaycore/metrickit/pkg/metric/metricclock"
	"github.com/relaycore/metrickit/pkg/metric/metricinstrument"
	"github.com/relaycore/metrickit/pkg/metric/metricview"
)

// MeterProviderBuilder assembles a MeterProvider one option at a time,
// mirroring the Builder pattern the config and breaker packages use
// (xconf.New, xbreaker.NewBreaker's functional options).
type MeterProviderBuilder struct {
	resource Resource
	views    *metricview.Registry
	clock    metricclock.Clock
	readers  []Reader
}

// NewMeterProviderBuilder starts a builder with an empty resource, an
// empty View registry, and the real clock.
func NewMeterProviderBuilder() *MeterProviderBuilder {
	return &MeterProviderBuilder{
		resource: NewResource(""),
		views:    metricview.NewRegistry(),
		clock:    metricclock.Real(),
	}
}

// WithResource sets the provider's resource.
func (b *MeterProviderBuilder) WithResource(r Resource) *MeterProviderBuilder {
	b.resource = r
	return b
}

// WithViews installs a View registry built directly from rules.
func (b *MeterProviderBuilder) WithViews(views *metricview.Registry) *MeterProviderBuilder {
	if views != nil {
		b.views = views
	}
	return b
}

// WithViewsFromConfig loads the View registry's "views" array from
// cfg, wiring pkg/config/xconf the way metricview.LoadRegistry expects.
func (b *MeterProviderBuilder) WithViewsFromConfig(cfg xconf.Config) (*MeterProviderBuilder, error) {
	registry, err := metricview.LoadRegistry(cfg)
	if err != nil {
		return b, err
	}
	b.views = registry
	return b, nil
}

// WithClock overrides the provider's (and every Meter it creates)
// time source, used in tests.
func (b *MeterProviderBuilder) WithClock(clock metricclock.Clock) *MeterProviderBuilder {
	if clock != nil {
		b.clock = clock
	}
	return b
}

// WithReader registers r on the provider being built; equivalent to
// calling MeterProvider.RegisterReader after Build.
func (b *MeterProviderBuilder) WithReader(r Reader) *MeterProviderBuilder {
	if r != nil {
		b.readers = append(b.readers, r)
	}
	return b
}

// Build returns the assembled MeterProvider.
func (b *MeterProviderBuilder) Build() *MeterProvider {
	p := &MeterProvider{
		resource: b.resource,
		views:    b.views,
		clock:    b.clock,
		readers:  append([]Reader(nil), b.readers...),
		meters:   make(map[string]*metricinstrument.Meter),
	}
	return p
}
