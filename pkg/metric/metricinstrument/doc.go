// Package metricinstrument 实现 Instrument 的七种互斥类型、Meter 的创建/
// 去重/过期回收逻辑，以及暴露给应用代码的 Writable/Observable 句柄。
//
// # 设计理念
//
// Meter 把"同一 (scope, name) 的重复创建"折叠为引用计数的加法
// （[metricstale.Handler].Acquire），而不是每次都分配新的
// [metricstream.Stream]；当最后一个句柄 Close 且没有未消费的增量时，
// Handler 的过期回调把该 instrument 从去重表中移除。kind/unit/description
// 冲突（同名但签名不同）按"先注册者生效"处理并记一条警告日志，而不是报错
// 中断调用方——这与 Meter.Create* 的"尽力返回可用句柄"定位一致。
package metricinstrument
