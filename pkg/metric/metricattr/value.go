package metricattr

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind 标识 Value 携带的数据种类。
type Kind int

const (
	// KindInvalid 表示零值 Value，不应出现在规范化后的属性集合中。
	KindInvalid Kind = iota
	KindString
	KindBool
	KindInt64
	KindFloat64
	KindArray
)

// String 实现 fmt.Stringer，便于日志输出。
func (k Kind) String() string {
	switch k {
	case KindString:
		return "STRING"
	case KindBool:
		return "BOOL"
	case KindInt64:
		return "INT64"
	case KindFloat64:
		return "FLOAT64"
	case KindArray:
		return "ARRAY"
	default:
		return "INVALID"
	}
}

// Value 是属性值：标量（string/bool/int64/float64）或同构/异构数组。
//
// Value 的零值是 KindInvalid，不携带任何数据。
type Value struct {
	kind Kind
	str  string
	b    bool
	i    int64
	f    float64
	arr  []Value
}

// StringValue 构造字符串属性值。
func StringValue(v string) Value { return Value{kind: KindString, str: v} }

// BoolValue 构造布尔属性值。
func BoolValue(v bool) Value { return Value{kind: KindBool, b: v} }

// Int64Value 构造整数属性值。
func Int64Value(v int64) Value { return Value{kind: KindInt64, i: v} }

// Float64Value 构造浮点属性值。
func Float64Value(v float64) Value { return Value{kind: KindFloat64, f: v} }

// ArrayValue 构造数组属性值，元素可以是标量或嵌套数组。
// 实际嵌套深度受 [Set] 构造时配置的 [WithMaxDepth] 限制。
func ArrayValue(elems ...Value) Value { return Value{kind: KindArray, arr: elems} }

// Kind 返回值的种类。
func (v Value) Kind() Kind { return v.kind }

// AsString 返回字符串值；种类不为 KindString 时返回空字符串。
func (v Value) AsString() string { return v.str }

// AsBool 返回布尔值；种类不为 KindBool 时返回 false。
func (v Value) AsBool() bool { return v.b }

// AsInt64 返回整数值；种类不为 KindInt64 时返回 0。
func (v Value) AsInt64() int64 { return v.i }

// AsFloat64 返回浮点值；种类不为 KindFloat64 时返回 0。
func (v Value) AsFloat64() float64 { return v.f }

// AsArray 返回数组元素；种类不为 KindArray 时返回 nil。
func (v Value) AsArray() []Value { return v.arr }

// canonicalString 返回用于哈希与序列化的规范字符串表示。
// 数组以 "[e1,e2,...]" 的形式递归展开，保证排列不变性仅对属性键排序负责——
// 数组元素顺序本身是值的一部分，不做重排。
func (v Value) canonicalString() string {
	switch v.kind {
	case KindString:
		return "s:" + v.str
	case KindBool:
		return "b:" + strconv.FormatBool(v.b)
	case KindInt64:
		return "i:" + strconv.FormatInt(v.i, 10)
	case KindFloat64:
		return "f:" + strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindArray:
		var sb strings.Builder
		sb.WriteString("a:[")
		for i, e := range v.arr {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(e.canonicalString())
		}
		sb.WriteByte(']')
		return sb.String()
	default:
		return "?"
	}
}

// truncate 递归截断超过 maxDepth 的数组子树，返回截断后的值与是否发生截断。
// depth 为该值在树中的当前深度，根值的深度为 0。
func (v Value) truncate(maxDepth, depth int) (Value, bool) {
	if v.kind != KindArray {
		return v, false
	}
	if depth >= maxDepth {
		return Value{kind: KindArray, arr: nil}, len(v.arr) > 0
	}
	truncated := false
	out := make([]Value, 0, len(v.arr))
	for _, e := range v.arr {
		if e.kind == KindArray && depth+1 >= maxDepth {
			truncated = true
			continue
		}
		nv, cut := e.truncate(maxDepth, depth+1)
		if cut {
			truncated = true
		}
		out = append(out, nv)
	}
	return Value{kind: KindArray, arr: out}, truncated
}

// GoString 支持 %#v 调试打印。
func (v Value) GoString() string {
	return fmt.Sprintf("metricattr.Value{%s}", v.canonicalString())
}

// KeyValue 是一条属性键值对。
type KeyValue struct {
	Key   string
	Value Value
}

// KV 是构造 KeyValue 的便捷函数。
func KV(key string, value Value) KeyValue {
	return KeyValue{Key: key, Value: value}
}
