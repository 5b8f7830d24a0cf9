package metricview

import "errors"

// ErrUnknownAggregationKind is returned when a view rule's
// "aggregation" field is not one of the recognized kind names.
var ErrUnknownAggregationKind = errors.New("metricview: unknown aggregation kind")
