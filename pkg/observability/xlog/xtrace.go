package xlog

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// maxTraceAttrs 追踪信息最多注入的属性数量（trace_id, span_id）。
const maxTraceAttrs = 2

// appendTraceAttrs 从 ctx 中的 OpenTelemetry SpanContext 提取 trace_id/span_id
// 并追加到 dst。ctx 中没有有效 SpanContext 时原样返回 dst，不做任何注入。
//
// 使用 go.opentelemetry.io/otel/trace 而非自定义 context key，
// 确保与 metric 核心发出的 exemplar 共用同一份追踪上下文。
func appendTraceAttrs(dst []slog.Attr, ctx context.Context) []slog.Attr {
	if ctx == nil {
		return dst
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return dst
	}
	dst = append(dst,
		slog.String(KeyTraceID, sc.TraceID().String()),
		slog.String(KeySpanID, sc.SpanID().String()),
	)
	return dst
}
