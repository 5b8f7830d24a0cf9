package main

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/relaycore/metrickit/pkg/metric/metricattr"
	"github.com/relaycore/metrickit/pkg/metric/metricexport"
	"github.com/relaycore/metrickit/pkg/metric/metricinstrument"
	"github.com/relaycore/metrickit/pkg/metric/metricotlp"
	"github.com/relaycore/metrickit/pkg/metric/metricreader"
	"github.com/relaycore/metrickit/pkg/metric/metricsdk"
	"github.com/relaycore/metrickit/pkg/metric/metricstream"
	"github.com/relaycore/metrickit/pkg/metric/metrictransport"
)

// pipeline bundles the assembled MeterProvider and the instruments the
// demo records against, so both the "run" and "once" commands share
// one wiring path.
type pipeline struct {
	provider      *metricsdk.MeterProvider
	requests      metricinstrument.Writer
	latency       metricinstrument.Writer
	activeConns   metricinstrument.Writer
	memoryUsageMB metricinstrument.Observable
}

// transportOptions captures the --transport/--out flags.
type transportOptions struct {
	kind string // "stdout" or "file"
	path string
}

// buildTransport constructs the Transport named by opts, exposing the
// underlying *metrictransport.MemoryTransport when kind is "stdout" so
// the caller can drain and print its buffered payloads.
func buildTransport(opts transportOptions) (metricexport.Transport, *metrictransport.MemoryTransport, error) {
	switch opts.kind {
	case "stdout":
		mem := metrictransport.NewMemoryTransport(string(metricotlp.ContentTypeNDJSON))
		return mem, mem, nil
	case "file":
		ft, err := metrictransport.NewFileTransport(opts.path)
		if err != nil {
			return nil, nil, fmt.Errorf("metricdemo: open file transport: %w", err)
		}
		return ft, nil, nil
	default:
		return nil, nil, &usageError{msg: fmt.Sprintf("unknown --transport value %q (want stdout or file)", opts.kind)}
	}
}

// buildPipeline assembles a MeterProvider and a small set of synthetic
// instruments representative of a typical service's golden signals.
func buildPipeline() (*pipeline, error) {
	resource := metricsdk.NewResource("metricdemo")
	provider := metricsdk.NewMeterProviderBuilder().WithResource(resource).Build()
	meter := provider.Meter("metricdemo", metricsdk.WithScopeVersion(Version))

	requests, err := meter.CreateCounter("demo.requests_total",
		metricinstrument.WithUnit("{request}"),
		metricinstrument.WithDescription("synthetic request count"))
	if err != nil {
		return nil, fmt.Errorf("metricdemo: create requests_total: %w", err)
	}

	latency, err := meter.CreateHistogram("demo.request_latency_ms",
		metricinstrument.WithUnit("ms"),
		metricinstrument.WithDescription("synthetic request latency"))
	if err != nil {
		return nil, fmt.Errorf("metricdemo: create request_latency_ms: %w", err)
	}

	activeConns, err := meter.CreateUpDownCounter("demo.active_connections",
		metricinstrument.WithUnit("{connection}"),
		metricinstrument.WithDescription("synthetic in-flight connection count"))
	if err != nil {
		return nil, fmt.Errorf("metricdemo: create active_connections: %w", err)
	}

	memoryUsageMB, err := meter.CreateObservableGauge("demo.memory_usage_mb",
		metricinstrument.WithUnit("MB"),
		metricinstrument.WithDescription("synthetic resident memory usage"))
	if err != nil {
		return nil, fmt.Errorf("metricdemo: create memory_usage_mb: %w", err)
	}
	memoryUsageMB.RegisterCallback(func(context.Context) ([]metricstream.Observation, error) {
		return []metricstream.Observation{
			{Value: 128 + rand.Float64()*32},
		}, nil
	})

	return &pipeline{
		provider:      provider,
		requests:      requests,
		latency:       latency,
		activeConns:   activeConns,
		memoryUsageMB: memoryUsageMB,
	}, nil
}

// recordOnce records one synthetic measurement on every synchronous
// instrument, varying the route attribute to exercise attribute-set
// partitioning.
func (p *pipeline) recordOnce(ctx context.Context, route string) {
	attrs := metricattr.KV("route", metricattr.StringValue(route))
	p.requests.Record(ctx, 1, attrs)
	p.latency.Record(ctx, 5+rand.Float64()*45, attrs)
	p.activeConns.Record(ctx, 1, attrs)
}

var demoRoutes = []string{"/health", "/v1/widgets", "/v1/orders"}

// recordSynthetic simulates one tick's worth of traffic across every
// demo route.
func (p *pipeline) recordSynthetic(ctx context.Context) {
	for _, route := range demoRoutes {
		p.recordOnce(ctx, route)
	}
}

// buildExporter wraps transport in a resilient exporter, using the
// defaults resilientExporter ships with (bounded retry + breaker).
func buildExporter(transport metricexport.Transport) (metricexport.Exporter, error) {
	exporter, err := metricexport.NewExporter(transport)
	if err != nil {
		return nil, fmt.Errorf("metricdemo: build exporter: %w", err)
	}
	return exporter, nil
}

// newManualReader wires a ManualMetricReader at cumulative temporality
// — cumulative makes single-shot "once" runs easy to read, since the
// first (and only) collection already reports the total.
func newManualReader(provider *metricsdk.MeterProvider, exporter metricexport.Exporter) (*metricreader.ManualMetricReader, error) {
	reader, err := metricreader.NewManualMetricReader(provider, exporter, metricreader.WithTemporality(metricstream.Cumulative))
	if err != nil {
		return nil, fmt.Errorf("metricdemo: build manual reader: %w", err)
	}
	provider.RegisterReader(reader)
	return reader, nil
}

// drainStdout prints every payload mem has buffered so far, one line
// each (the NDJSON serializer already terminates each with \n).
func drainStdout(mem *metrictransport.MemoryTransport) {
	for _, payload := range mem.Payloads() {
		fmt.Print(string(payload))
	}
}
