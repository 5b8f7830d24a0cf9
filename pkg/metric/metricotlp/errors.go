package metricotlp

import "errors"

// ErrUnsupportedContentType is returned by ForContentType when ct is
// not one of the three content types this package serializes (§6).
var ErrUnsupportedContentType = errors.New("metricotlp: unsupported content type")
