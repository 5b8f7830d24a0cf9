package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/relaycore/metrickit/pkg/metric/metricreader"
)

func createRunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "启动 PeriodicExportingMetricReader，持续记录合成测量数据",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdRun(ctx, demoOptions(cmd))
		},
	}
}

func createOnceCommand() *cli.Command {
	return &cli.Command{
		Name:  "once",
		Usage: "仅创建一次测量，调用一次 ManualMetricReader.Collect 后退出",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdOnce(ctx, demoOptions(cmd))
		},
	}
}

type demoCmdOptions struct {
	transport transportOptions
	interval  time.Duration
	duration  time.Duration
}

func demoOptions(cmd *cli.Command) demoCmdOptions {
	return demoCmdOptions{
		transport: transportOptions{
			kind: cmd.String("transport"),
			path: cmd.String("out"),
		},
		interval: cmd.Duration("interval"),
		duration: cmd.Duration("duration"),
	}
}

// cmdOnce builds the pipeline, records one tick of synthetic traffic,
// collects and exports it once, then shuts down.
func cmdOnce(ctx context.Context, opts demoCmdOptions) error {
	transport, mem, err := buildTransport(opts.transport)
	if err != nil {
		return err
	}

	p, err := buildPipeline()
	if err != nil {
		return err
	}

	exporter, err := buildExporter(transport)
	if err != nil {
		return err
	}

	reader, err := newManualReader(p.provider, exporter)
	if err != nil {
		return err
	}

	p.recordSynthetic(ctx)

	if err := reader.Collect(ctx); err != nil {
		return fmt.Errorf("metricdemo: collect: %w", err)
	}

	if err := p.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("metricdemo: shutdown: %w", err)
	}

	if mem != nil {
		drainStdout(mem)
	}

	return nil
}

// cmdRun builds the pipeline and runs a PeriodicExportingMetricReader
// for opts.duration (or until ctx is canceled by a signal when
// duration is 0), recording one tick of synthetic traffic on every
// collection interval.
func cmdRun(ctx context.Context, opts demoCmdOptions) error {
	transport, mem, err := buildTransport(opts.transport)
	if err != nil {
		return err
	}

	p, err := buildPipeline()
	if err != nil {
		return err
	}

	exporter, err := buildExporter(transport)
	if err != nil {
		return err
	}

	manual, err := metricreader.NewManualMetricReader(p.provider, exporter)
	if err != nil {
		return fmt.Errorf("metricdemo: build manual reader: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	periodic := metricreader.NewPeriodicExportingMetricReader(manual, opts.interval, opts.interval,
		metricreader.WithLogger(logger))
	p.provider.RegisterReader(periodic)

	runCtx := ctx
	var cancel context.CancelFunc
	if opts.duration > 0 {
		runCtx, cancel = context.WithTimeout(ctx, opts.duration)
		defer cancel()
	}

	periodic.Start(runCtx)

	ticker := time.NewTicker(opts.interval)
	defer ticker.Stop()
loop:
	for {
		select {
		case <-runCtx.Done():
			break loop
		case <-ticker.C:
			p.recordSynthetic(ctx)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := p.provider.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("metricdemo: shutdown: %w", err)
	}

	if mem != nil {
		drainStdout(mem)
	}

	return nil
}
