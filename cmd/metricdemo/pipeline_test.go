package main

import (
	"context"
	"errors"
	"testing"
)

func TestBuildTransport_Stdout(t *testing.T) {
	transport, mem, err := buildTransport(transportOptions{kind: "stdout"})
	if err != nil {
		t.Fatalf("buildTransport: %v", err)
	}
	if mem == nil {
		t.Fatal("expected non-nil MemoryTransport for stdout kind")
	}
	if transport.ContentType() == "" {
		t.Fatal("expected non-empty content type")
	}
}

func TestBuildTransport_File(t *testing.T) {
	transport, mem, err := buildTransport(transportOptions{kind: "file", path: t.TempDir() + "/out.ndjson"})
	if err != nil {
		t.Fatalf("buildTransport: %v", err)
	}
	if mem != nil {
		t.Fatal("expected nil MemoryTransport for file kind")
	}
	if transport.ContentType() != "application/x-ndjson" {
		t.Fatalf("unexpected content type: %s", transport.ContentType())
	}
}

func TestBuildTransport_UnknownKind(t *testing.T) {
	_, _, err := buildTransport(transportOptions{kind: "carrier-pigeon"})
	if err == nil {
		t.Fatal("expected error for unknown transport kind")
	}
	var usageErr *usageError
	if !errors.As(err, &usageErr) {
		t.Fatalf("expected *usageError, got %T: %v", err, err)
	}
}

func TestBuildPipeline_CreatesAllInstruments(t *testing.T) {
	p, err := buildPipeline()
	if err != nil {
		t.Fatalf("buildPipeline: %v", err)
	}
	if p.requests == nil || p.latency == nil || p.activeConns == nil || p.memoryUsageMB == nil {
		t.Fatal("expected every instrument to be non-nil")
	}

	ctx := context.Background()
	p.recordSynthetic(ctx)

	streams := p.provider.Meter("metricdemo").Streams()
	if len(streams) != 4 {
		t.Fatalf("expected 4 registered instrument streams, got %d", len(streams))
	}
}

func TestCmdOnce_CollectsAndExportsWithoutError(t *testing.T) {
	opts := demoCmdOptions{transport: transportOptions{kind: "stdout"}}
	if err := cmdOnce(context.Background(), opts); err != nil {
		t.Fatalf("cmdOnce: %v", err)
	}
}
