package metrictransport

import (
	"context"

	"github.com/relaycore/metrickit/pkg/observability/xrotate"
)

// FileTransport appends one NDJSON line per Send call to a rotating
// log file (§4.10), grounded on pkg/observability/xrotate's
// lumberjack-backed Rotator.
type FileTransport struct {
	rotator xrotate.Rotator
}

// NewFileTransport opens (or creates) filename as a rotating NDJSON
// sink. opts configure rotation policy exactly as xrotate.NewLumberjack
// does.
func NewFileTransport(filename string, opts ...xrotate.Option) (*FileTransport, error) {
	rotator, err := xrotate.NewLumberjack(filename, opts...)
	if err != nil {
		return nil, err
	}
	return &FileTransport{rotator: rotator}, nil
}

// ContentType always reports NDJSON: FileTransport is a one-line-per-
// record sink by construction.
func (t *FileTransport) ContentType() string { return "application/x-ndjson" }

// Send appends payload to the rotating file. payload is expected to
// already end in a newline (the NDJSON serializer guarantees this).
func (t *FileTransport) Send(_ context.Context, payload []byte) error {
	_, err := t.rotator.Write(payload)
	return err
}

// Close releases the underlying rotator's file handle, satisfying
// metricexport's optional closableTransport capability.
func (t *FileTransport) Close() error {
	return t.rotator.Close()
}
