// Package metricclock 提供单调纳秒时间源的抽象。
//
// # 设计理念
//
// MetricStream 和 DeltaStorage 的所有状态转换都以"时间戳"为输入参数，
// 而非在内部调用 time.Now()——这样测试可以注入确定性的时钟，驱动
// 时间戳严格递增/不变的边界场景（例如"同一时间戳的两次 collect 应如何
// 排序"），而不必依赖真实时间的流逝。
//
// 生产环境使用 [Real]，基于 github.com/jonboulle/clockwork；
// 测试使用 [NewFake] 构造可手动推进的时钟。
package metricclock
