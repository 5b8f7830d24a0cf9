package metricreader

import "errors"

// ErrNilExporter is returned by NewManualMetricReader when exporter is nil.
var ErrNilExporter = errors.New("metricreader: exporter must not be nil")
