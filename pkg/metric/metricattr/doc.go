// Package metricattr 实现度量测量值的属性集合：一个规范化、可哈希的
// 键值包。
//
// # 设计理念
//
// 属性集一旦附加到某次测量上即不可变（参见 [Set]）。规范化保证
// "以任意插入顺序构造的相同键值集合，其哈希和相等性判定一致"——
// 这是聚合器按属性分桶、以及增量合并时判断"同一分桶"的唯一依据。
//
// 哈希使用 github.com/cespare/xxhash/v2，在构造时一次性计算并缓存，
// 而非在每次比较时重新计算。
//
// 属性值允许任意层级的嵌套数组（用于兼容允许嵌套属性值的上游实现），
// 但默认在深度 4 处截断，超出的子树被丢弃并记录一次性告警（见
// [WithMaxDepth]）。
package metricattr
