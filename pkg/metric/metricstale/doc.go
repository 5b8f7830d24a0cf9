// Package metricstale 实现引用计数的过期通知器（StalenessHandler），用于
// 在一个 instrument 不再被任何写入句柄持有、且没有未消费的增量时，安全地
// 将其从 Meter 的去重表中回收。
//
// # 设计理念
//
// [Handler] 只做一件事：维护引用计数，在计数由正转零时触发一次性回调。
// [Immediate] 变体在 Release 内同步触发回调（在计数归零的那次 Release
// 调用中执行；Meter 的回收回调自行获取 Meter 的互斥锁）；[Delayed] 变体将触发
// 推迟到一个可配置时长之后，期间若计数重新变为正数则取消本次触发，用于
// 吸收短暂的"创建—销毁—再创建"抖动而不必立即回收再重建。
package metricstale
