package metricexport

import "errors"

// ErrNilTransport is returned by NewExporter when transport is nil.
var ErrNilTransport = errors.New("metricexport: transport must not be nil")
