// Package metricexport 实现 Exporter 契约：把一批 OTLP
// ExportMetricsServiceRequest 通过某个 Transport 发送出去，并在
// 发送路径外围套上断路器与重试（§4.9、§6）。
//
// # 设计理念
//
// Export 的失败处理分两层：pkg/resilience/xretry 的 Retryer 先在
// 单次调用内做有限次数的退避重试；外层的 pkg/resilience/xbreaker
// 断路器观察这些调用的整体成功/失败序列，连续失败达到阈值后跳闸，
// 此后的 Export 调用快速失败而不再触达 Transport.Send。ForceFlush
// 与 Shutdown 故意绕开这两层——关闭路径不应被打开的断路器卡住。
package metricexport
