// Package metricexemplar 实现测量值的留样水库：在一次 collect 窗口内，
// 对所有 record 调用做无放回均匀随机抽样，保留少量原始测量作为
// 聚合结果的"证据"。
//
// # 设计理念
//
// 抽样算法是经典水库抽样（Algorithm R 的变体）：前 k 次 Offer 全部保留；
// 第 n (n>k) 次 Offer 以 k/n 的概率替换水库中的一个随机位置。这保证了
// 窗口结束时水库中的每个测量都是等概率被选中的，且不需要提前知道
// 测量总数。
//
// 留样的 trace_id/span_id 来自 go.opentelemetry.io/otel/trace 的
// SpanContext（与 xlog 共用同一份追踪上下文来源，见
// [github.com/relaycore/metrickit/pkg/observability/xlog]）。
package metricexemplar
