package metricexport

import "context"

// Transport is the wire-level send contract an Exporter drives after
// serialization (§6, consumed interface). Implementations live in
// metrictransport and need not import this package — the interface is
// satisfied structurally.
type Transport interface {
	ContentType() string
	Send(ctx context.Context, payload []byte) error
}
