package metricsdk

import (
	"github.com/google/uuid"

	"github.com/relaycore/metrickit/pkg/metric/metricattr"
)

// Resource identifies the entity producing metrics, carried once per
// MeterProvider and serialized into every OTLP ResourceMetrics
// envelope (§ DATA MODEL Resource expansion).
type Resource struct {
	attrs metricattr.Set
}

// NewResource builds a Resource from serviceName plus any additional
// attributes, generating a random service.instance.id if one isn't
// already present in extra.
func NewResource(serviceName string, extra ...metricattr.KeyValue) Resource {
	kvs := make([]metricattr.KeyValue, 0, len(extra)+2)
	kvs = append(kvs, metricattr.KV("service.name", metricattr.StringValue(serviceName)))

	hasInstanceID := false
	for _, kv := range extra {
		if kv.Key == "service.instance.id" {
			hasInstanceID = true
		}
	}
	if !hasInstanceID {
		kvs = append(kvs, metricattr.KV("service.instance.id", metricattr.StringValue(uuid.NewString())))
	}
	kvs = append(kvs, extra...)

	return Resource{attrs: metricattr.NewSet(kvs)}
}

// Attributes returns the resource's canonicalized attribute set.
func (r Resource) Attributes() metricattr.Set { return r.attrs }
