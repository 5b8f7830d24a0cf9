package metricexemplar

import (
	"time"

	"github.com/relaycore/metrickit/pkg/metric/metricattr"
)

// Exemplar is a single retained raw measurement sampled to provide
// provenance for an aggregated value.
type Exemplar struct {
	Value      float64
	Timestamp  time.Time
	Attributes metricattr.Set
	HasTraceID bool
	TraceID    [16]byte
	HasSpanID  bool
	SpanID     [8]byte
}
