// Package metricreadermask 实现可变宽度的 reader 位图：readers_bitmask
// 与 cumulative_bitmask 共用的抽象。
//
// # 设计理念
//
// 快路径使用机器字（uint64）位图，避免小规模场景下的堆分配。当第 65 个
// reader（位索引 64）注册时，透明地迁移到 math/big.Int 表示，此后所有操作委托给
// big.Int 的位运算。迁移对调用方不可见——[Mask] 的 API 在两种内部表示下
// 完全一致，迁移仅在第一次越界 Set 时触发一次性回调（用于记录
// CapacityWarning，§7），之后静默生效，不再重复告警。
package metricreadermask
