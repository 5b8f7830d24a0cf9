package metricreader

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/relaycore/metrickit/pkg/lifecycle/xrun"
)

// PeriodicExportingMetricReader wraps a ManualMetricReader in a
// ticking collection loop managed by pkg/lifecycle/xrun, with an
// interval that can be hot-reloaded via SetInterval (typically driven
// by an xconf.Watch callback) without restarting the loop (§4.9).
type PeriodicExportingMetricReader struct {
	manual *ManualMetricReader
	log    *slog.Logger

	mu       sync.Mutex
	interval time.Duration
	timeout  time.Duration

	group   *xrun.Group
	stopped chan struct{}
	runErr  error
}

// PeriodicOption configures a PeriodicExportingMetricReader.
type PeriodicOption func(*PeriodicExportingMetricReader)

// WithLogger overrides the reader's structured logger, used to report
// collection failures that Start's background loop cannot return.
func WithLogger(logger *slog.Logger) PeriodicOption {
	return func(r *PeriodicExportingMetricReader) {
		if logger != nil {
			r.log = logger
		}
	}
}

// NewPeriodicExportingMetricReader wraps manual with a collection loop
// ticking at interval, each tick bounded by timeout.
func NewPeriodicExportingMetricReader(manual *ManualMetricReader, interval, timeout time.Duration, opts ...PeriodicOption) *PeriodicExportingMetricReader {
	r := &PeriodicExportingMetricReader{
		manual:   manual,
		log:      slog.Default(),
		interval: interval,
		timeout:  timeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches the collection loop in a goroutine managed by an
// xrun.Group derived from ctx. Start returns immediately; call
// Shutdown to stop the loop and flush.
func (r *PeriodicExportingMetricReader) Start(ctx context.Context) {
	g, gctx := xrun.NewGroup(ctx, xrun.WithName("metricreader"), xrun.WithLogger(r.log))
	r.group = g
	stopped := make(chan struct{})
	r.stopped = stopped

	g.GoWithName("collect-loop", func(context.Context) error {
		return r.loop(gctx)
	})
	go func() {
		r.runErr = g.Wait()
		close(stopped)
	}()
}

func (r *PeriodicExportingMetricReader) loop(ctx context.Context) error {
	for {
		timer := time.NewTimer(r.currentInterval())
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			r.tick(ctx)
		}
	}
}

func (r *PeriodicExportingMetricReader) tick(ctx context.Context) {
	collectCtx, cancel := context.WithTimeout(ctx, r.currentTimeout())
	defer cancel()
	if err := r.manual.Collect(collectCtx); err != nil {
		r.log.Warn("metricreader: periodic collection failed", slog.Any("error", err))
	}
}

// SetInterval changes the loop's tick interval; takes effect on the
// next tick.
func (r *PeriodicExportingMetricReader) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	r.mu.Lock()
	r.interval = d
	r.mu.Unlock()
}

// SetTimeout changes the per-tick collection timeout.
func (r *PeriodicExportingMetricReader) SetTimeout(d time.Duration) {
	if d <= 0 {
		return
	}
	r.mu.Lock()
	r.timeout = d
	r.mu.Unlock()
}

func (r *PeriodicExportingMetricReader) currentInterval() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.interval
}

func (r *PeriodicExportingMetricReader) currentTimeout() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timeout
}

// ForceFlush delegates to the wrapped ManualMetricReader's exporter.
func (r *PeriodicExportingMetricReader) ForceFlush(ctx context.Context) error {
	return r.manual.ForceFlush(ctx)
}

// Shutdown cancels the collection loop, waits for it to exit (bounded
// by ctx), and performs one final flush.
func (r *PeriodicExportingMetricReader) Shutdown(ctx context.Context) error {
	if r.group != nil {
		r.group.Cancel(nil)
		select {
		case <-r.stopped:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	flushErr := r.manual.ForceFlush(ctx)
	if err := r.manual.Shutdown(ctx); err != nil {
		return err
	}
	return flushErr
}
