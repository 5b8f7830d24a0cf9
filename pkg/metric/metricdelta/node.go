package metricdelta

import (
	"github.com/relaycore/metrickit/pkg/metric/metricagg"
	"github.com/relaycore/metrickit/pkg/metric/metricreadermask"
)

// DeltaNode is one collected delta awaiting consumption by every reader
// that was registered when it was produced.
type DeltaNode struct {
	Metric  metricagg.Metric
	Readers metricreadermask.Mask
}
