package metricexport

import (
	"context"
	"time"

	collectorpb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"

	"github.com/relaycore/metrickit/pkg/metric/metricotlp"
	"github.com/relaycore/metrickit/pkg/resilience/xbreaker"
	"github.com/relaycore/metrickit/pkg/resilience/xretry"
)

// flushableTransport is an optional capability a Transport may
// implement; ForceFlush passes through to it directly, bypassing the
// breaker and retryer.
type flushableTransport interface {
	ForceFlush(ctx context.Context) error
}

// closableTransport is an optional capability a Transport may
// implement; Shutdown passes through to it directly.
type closableTransport interface {
	Close() error
}

//go:generate mockgen -destination=mock_transport_test.go -package=metricexport . fullTransport

// fullTransport composes Transport with both optional capabilities so
// a single generated mock can stand in for a transport that
// implements everything resilientExporter probes for.
type fullTransport interface {
	Transport
	flushableTransport
	closableTransport
}

// Exporter is produced by the core and consumed by a MetricReader
// (§6): Export serializes and sends one batch; ForceFlush and
// Shutdown pass straight through to the transport, bypassing the
// breaker and retry layers.
type Exporter interface {
	Export(ctx context.Context, req *collectorpb.ExportMetricsServiceRequest) error
	ForceFlush(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// resilientExporter wraps a Transport with a serializer chosen by the
// transport's own declared content type, a bounded retryer, and a
// circuit breaker around the retried send (§4.9).
type resilientExporter struct {
	transport  Transport
	serializer metricotlp.Serializer
	retryer    *xretry.Retryer
	breaker    *xbreaker.Breaker
}

// Option configures NewExporter.
type Option func(*resilientExporter)

// WithRetryer overrides the default bounded retryer (3 attempts, fixed
// 200ms backoff).
func WithRetryer(r *xretry.Retryer) Option {
	return func(e *resilientExporter) {
		if r != nil {
			e.retryer = r
		}
	}
}

// WithBreaker overrides the default breaker (opens after 5 consecutive
// failures).
func WithBreaker(b *xbreaker.Breaker) Option {
	return func(e *resilientExporter) {
		if b != nil {
			e.breaker = b
		}
	}
}

// NewExporter builds an Exporter sending over transport, serialized
// according to transport's declared content type.
func NewExporter(transport Transport, opts ...Option) (Exporter, error) {
	if transport == nil {
		return nil, ErrNilTransport
	}
	serializer, err := metricotlp.ForContentType(metricotlp.ContentType(transport.ContentType()))
	if err != nil {
		return nil, err
	}

	e := &resilientExporter{
		transport:  transport,
		serializer: serializer,
		retryer: xretry.NewRetryer(
			xretry.WithRetryPolicy(xretry.NewFixedRetry(3)),
			xretry.WithBackoffPolicy(xretry.NewFixedBackoff(200*time.Millisecond)),
		),
		breaker: xbreaker.NewBreaker("metricexport",
			xbreaker.WithTripPolicy(xbreaker.NewConsecutiveFailures(5)),
		),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *resilientExporter) Export(ctx context.Context, req *collectorpb.ExportMetricsServiceRequest) error {
	payload, err := e.serializer.Serialize(req)
	if err != nil {
		return err
	}
	return e.breaker.Do(ctx, func() error {
		return e.retryer.Do(ctx, func(ctx context.Context) error {
			return e.transport.Send(ctx, payload)
		})
	})
}

func (e *resilientExporter) ForceFlush(ctx context.Context) error {
	if f, ok := e.transport.(flushableTransport); ok {
		return f.ForceFlush(ctx)
	}
	return nil
}

func (e *resilientExporter) Shutdown(ctx context.Context) error {
	if c, ok := e.transport.(closableTransport); ok {
		return c.Close()
	}
	return nil
}
