// Package metricagg 实现聚合器（Aggregator）：将单次测量值折叠为按属性集
// 分组的汇总值（Summary），并在采集时将其原子地转移给 DeltaStorage。
//
// # 设计理念
//
// 聚合算法本身（Sum、LastValue、ExplicitBucketHistogram）被抽象为
// [Aggregation] 接口，与承载具体数值的 [Point] 分离：[Aggregator] 只负责
// "按属性集分组 + 加锁 + 采集时整体替换"，折叠与合并的语义完全委托给
// Aggregation 实现。这样 metricdelta 在合并跨采集窗口的增量节点时可以复用
// 同一套 Aggregation 实现，而不必重复理解每种聚合的数值语义。
package metricagg
