package xlog

import (
	"context"
	"errors"
	"log/slog"
)

// ErrNilHandler 当 NewEnrichHandler 的 base handler 为 nil 时返回
var ErrNilHandler = errors.New("xlog: base handler is nil")

// EnrichHandler 自动从 context 中的 OpenTelemetry SpanContext 提取追踪信息并注入日志
//
// 装饰模式实现，包装底层 slog.Handler，在 Handle() 时自动添加 trace_id/span_id。
// Best-effort 策略：context 中没有有效 SpanContext 时不影响日志记录。
type EnrichHandler struct {
	base slog.Handler
}

// NewEnrichHandler 创建 EnrichHandler
//
// 设计决策: 调用 WithGroup 后，enrich 属性（trace_id 等）会被归入 group 下。
// 这是 slog handler 架构的固有限制——group 作用于 handler 处理的所有属性。
func NewEnrichHandler(base slog.Handler) (*EnrichHandler, error) {
	if base == nil {
		return nil, ErrNilHandler
	}
	return &EnrichHandler{base: base}, nil
}

// Enabled 委托给底层 handler
func (h *EnrichHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

// Handle 在调用底层 handler 前，从 context 提取追踪信息
//
// 重要：根据 slog 契约，必须 Clone record 后再修改，避免影响其他 handler。
// 性能优化：使用栈数组 [maxTraceAttrs]slog.Attr 避免热路径堆分配。
func (h *EnrichHandler) Handle(ctx context.Context, r slog.Record) error {
	var buf [maxTraceAttrs]slog.Attr
	attrs := appendTraceAttrs(buf[:0], ctx)

	if len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}

	return h.base.Handle(ctx, r)
}

// WithAttrs 返回带额外属性的新 handler
func (h *EnrichHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EnrichHandler{
		base: h.base.WithAttrs(attrs),
	}
}

// WithGroup 返回带分组的新 handler
func (h *EnrichHandler) WithGroup(name string) slog.Handler {
	return &EnrichHandler{
		base: h.base.WithGroup(name),
	}
}
