// Package metricsdk 提供管线的顶层入口：MeterProvider 聚合一个
// Resource、任意数量的 MetricReader，以及一份从配置加载的 View
// 注册表，按需为每个 instrumentation scope 创建并复用 Meter。
//
// # 设计理念
//
// MeterProvider 本身不做采集或导出的重活——那是 metricreader 和
// metricexport 的职责。它只负责生命周期聚合：持有所有已创建的
// Meter、所有注册的 Reader，并在 Shutdown 时按依赖反序逐一关闭。
// 这与 xconf.Config、xbreaker.Breaker 等教师侧组件遵循的
// Builder + 聚合根模式一致。
package metricsdk
