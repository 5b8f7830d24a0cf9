package metricattr

import "errors"

// ErrEmptyKey 表示属性键为空字符串，该键值对会被丢弃。
var ErrEmptyKey = errors.New("metricattr: empty attribute key")

// ErrUnsupportedValue 表示属性值既非标量也非数组。
var ErrUnsupportedValue = errors.New("metricattr: unsupported attribute value kind")
