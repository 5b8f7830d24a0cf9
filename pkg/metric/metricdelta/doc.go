// Package metricdelta 实现 DeltaStorage：缓冲已采集的增量，使得多个采集
// 节奏不同的 reader 都能恰好观察到每个增量一次，同时为 cumulative reader
// 维护累计汇总。
//
// # 设计理念
//
// 增量以最旧到最新的链表形式保存，每个节点携带一个"尚未消费本节点的
// reader"位图（[metricreadermask.Mask]）。reader 采集时合并所有位图中
// 仍设置了自己那一位的节点，清除该位；位图归零的节点立即从链表摘除，
// 从而保证链表长度天然受"最慢 reader 落后的采集次数"约束（§5 Invariant
// C），无需额外的 GC 扫描。
package metricdelta
