package metricotlp

import (
	collectorpb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	metricspb "go.opentelemetry.io/proto/otlp/metrics/v1"

	"github.com/relaycore/metrickit/pkg/metric/metricattr"
	"github.com/relaycore/metrickit/pkg/metric/metricinstrument"
	"github.com/relaycore/metrickit/pkg/metric/metricstream"
)

// MetricWindow pairs one instrument's identity with the Data window a
// reader just collected for it.
type MetricWindow struct {
	Descriptor metricinstrument.Descriptor
	Data       metricstream.Data
}

// ScopedMetrics groups the windows produced by the instruments of a
// single Meter, keyed by that Meter's Scope.
type ScopedMetrics struct {
	Scope   metricinstrument.Scope
	Metrics []MetricWindow
}

// BuildRequest assembles one export request from a resource's
// attributes and the metric windows collected across however many
// scopes reported in this round (§4.8 Collect/export boundary).
func BuildRequest(resourceAttrs metricattr.Set, groups []ScopedMetrics) *collectorpb.ExportMetricsServiceRequest {
	rm := &metricspb.ResourceMetrics{Resource: ResourceToPB(resourceAttrs)}
	for _, group := range groups {
		sm := &metricspb.ScopeMetrics{Scope: ScopeToPB(group.Scope)}
		for _, w := range group.Metrics {
			sm.Metrics = append(sm.Metrics, MetricToPB(w.Descriptor, w.Data))
		}
		rm.ScopeMetrics = append(rm.ScopeMetrics, sm)
	}
	return &collectorpb.ExportMetricsServiceRequest{ResourceMetrics: []*metricspb.ResourceMetrics{rm}}
}
