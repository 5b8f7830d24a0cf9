// Package metricstream 实现 instrument 的采集状态机：同步的 [Stream]
// 与基于回调的 [AsyncStream]，二者共享同一套多 reader 增量分发逻辑
// （readerState），只在"如何产生本窗口的 Metric"这一点上不同——前者委托给
// [metricagg.Aggregator]，后者委托给注册的观测回调。
//
// # 设计理念
//
// readerState 把"谁还没看过这个增量""谁要累计视图"两件事完全交给
// [metricreadermask.Mask] 和 [metricdelta.Storage]，自身只负责在持锁期间
// 按需产生新窗口、追加到 DeltaStorage、再转交给当前 reader 收集——这使得
// Collect 对调用者呈现为单次原子操作，即使聚合与分发内部分两步完成。
package metricstream
