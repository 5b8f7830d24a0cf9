// Package metricview 实现 View Registry：按 (instrument, scope) 匹配的
// 聚合策略覆盖表。规则来自 pkg/config/xconf 加载的配置，在
// `Meter.Create*` 时与新创建的 instrument 匹配，决定它使用的聚合算法与
// 属性处理器。
//
// # 设计理念
//
// 规则按注册顺序匹配，命中第一条即停止（与防火墙/路由规则表的直觉一致，
// 而不是"全部命中规则合并"——合并语义在存在多条 attribute_keys
// 规则时含义含糊，先匹配优先更符合配置可预测性）。模式匹配使用标准库
// path.Match 的 glob 语法（`*`、`?`、字符类），不引入额外的通配符匹配库。
package metricview
