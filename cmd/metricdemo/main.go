// metricdemo 是指标管道核心 SDK 的端到端演示客户端。
//
// 用法:
//
//	metricdemo [全局选项] <命令>
//
// 全局选项:
//
//	--transport    输出目标：stdout 或 file (默认: stdout)
//	--out          file 模式下的输出文件路径 (默认: ./metrics.ndjson)
//	--interval     周期采集间隔 (默认: 2s)
//	--duration     运行总时长，0 表示一直运行直到收到信号 (默认: 10s)
//
// 命令:
//
//	run            启动完整管道：记录合成测量数据并周期性导出
//	once           创建一次测量并立即采集、导出一次后退出
//
// 退出码:
//
//	0: 命令执行成功
//	1: 运行期间出现未恢复的错误（导出失败、采集失败等）
//	2: 参数错误
//
// 示例:
//
//	metricdemo run
//	metricdemo run --transport=file --out=/tmp/metrics.ndjson --duration=30s
//	metricdemo once --transport=stdout
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// usageError 表示参数校验失败（退出码 2）。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func main() {
	os.Exit(run())
}

func createApp() *cli.Command {
	return &cli.Command{
		Name:    "metricdemo",
		Usage:   "指标管道核心 SDK 端到端演示客户端",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "transport",
				Usage: "输出目标：stdout 或 file",
				Value: "stdout",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "file 模式下的输出文件路径",
				Value: "./metrics.ndjson",
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "周期采集间隔",
				Value: 2 * time.Second,
			},
			&cli.DurationFlag{
				Name:  "duration",
				Usage: "运行总时长，0 表示一直运行直到收到信号",
				Value: 10 * time.Second,
			},
		},
		Commands: []*cli.Command{
			createRunCommand(),
			createOnceCommand(),
		},
		DefaultCommand: "run",
		Authors: []any{
			"metrickit contributors",
		},
		// 设计决策: 禁止 urfave/cli 直接调用 os.Exit，
		// 由 run() 统一处理退出码映射。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
		Description: `metricdemo 演示一条完整的指标管道：

  MeterProvider → Meter → 同步/异步 Instrument → Record/Observe
    → MetricReader.Collect（按各自 temporality 对账）
    → Exporter（熔断 + 重试）→ Transport（文件或内存）

主要命令:
  run    启动 PeriodicExportingMetricReader，持续记录合成测量数据
  once   仅创建一次测量，调用一次 ManualMetricReader.Collect 后退出`,
	}
}

func run() int {
	app := createApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setupSignalHandler(cancel)

	if err := app.Run(ctx, os.Args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			// urfave/cli 自身产生的参数错误（未知 flag、未知命令等）
			// 已经通过 ExitErrHandler 写入 stderr，这里只负责设置退出码。
			return exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}

	return 0
}

// setupSignalHandler 设置信号处理：第一次信号优雅取消，第二次信号强制退出。
func setupSignalHandler(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()

		<-sigCh
		signal.Stop(sigCh)
		os.Exit(130)
	}()
}
