// Package metricotlp 将核心的内部数据模型（Resource attributes、
// instrumentation scope、instrument descriptor、采集得到的 [metricstream.Data]）
// 翻译为 OTLP 的 pb.ExportMetricsServiceRequest，并提供三种编码：
// protobuf 二进制、JSON、以及换行分隔 JSON（NDJSON）。
//
// # 设计理念
//
// OTLP 的 JSON 编码规范要求枚举字段（如 AggregationTemporality）以整数
// 形式出现，但 protojson 默认输出符号名。[jsonSerializer] 因此在
// protojson 编码之后，用 protoreflect 对已注册的描述符池做一次递归遍历，
// 把每个枚举字段的字符串值替换回其整数表示；未注册的消息类型直接放行，
// 不中断整条导出管线。描述符查找按消息类型名缓存在 sync.Map 中，避免
// 每次调用重复构建字段表。
package metricotlp
