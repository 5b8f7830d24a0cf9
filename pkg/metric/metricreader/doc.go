// Package metricreader 实现 MetricReader 契约的两种形态：
// ManualMetricReader（调用方显式触发一次采集）和
// PeriodicExportingMetricReader（按可热更新的固定间隔自动采集，
// 由 pkg/lifecycle/xrun 管理的 goroutine 驱动）（§4.9）。
//
// # 设计理念
//
// 两者共享同一套"遍历 MeterProvider 下所有 Meter 的所有 Stream、
// 在首次发现时 Register、随后按配置的 temporality Collect"逻辑，
// 由 ManualMetricReader 独占持有；PeriodicExportingMetricReader
// 只是在其之上加了一层定时循环。reader 对每个 Stream 的 readerID
// 只在首次发现时分配一次，按指针身份缓存在 map 中。
package metricreader
