package metrictransport

import (
	"context"
	"sync"
)

// MemoryTransport buffers every sent payload for inspection; used by
// tests and by the demo CLI's --transport=stdout mode as a degenerate
// in-process Transport (§4.10).
type MemoryTransport struct {
	contentType string

	mu       sync.Mutex
	payloads [][]byte
}

// NewMemoryTransport creates a MemoryTransport declaring contentType
// (callers typically pass one of the three metricotlp.ContentType
// values, stringified).
func NewMemoryTransport(contentType string) *MemoryTransport {
	return &MemoryTransport{contentType: contentType}
}

// ContentType implements metricexport.Transport.
func (t *MemoryTransport) ContentType() string { return t.contentType }

// Send appends a copy of payload to the in-memory buffer.
func (t *MemoryTransport) Send(_ context.Context, payload []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.payloads = append(t.payloads, append([]byte(nil), payload...))
	return nil
}

// Payloads returns a copy of every payload sent so far, in order.
func (t *MemoryTransport) Payloads() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([][]byte, len(t.payloads))
	copy(out, t.payloads)
	return out
}
