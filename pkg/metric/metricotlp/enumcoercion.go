package metricotlp

import (
	"encoding/json"
	"sync"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// fieldIndex maps a protojson camelCase field name to its descriptor,
// built once per message type and memoized by fullFieldIndexCache so
// repeated serialize calls for the same message kind don't walk the
// descriptor pool again.
type fieldIndex map[string]protoreflect.FieldDescriptor

var fullFieldIndexCache sync.Map // protoreflect.FullName -> fieldIndex

func fieldIndexFor(desc protoreflect.MessageDescriptor) fieldIndex {
	if cached, ok := fullFieldIndexCache.Load(desc.FullName()); ok {
		return cached.(fieldIndex)
	}
	fields := desc.Fields()
	idx := make(fieldIndex, fields.Len())
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		idx[fd.JSONName()] = fd
	}
	fullFieldIndexCache.Store(desc.FullName(), idx)
	return idx
}

// coerceEnumsToInt re-encodes raw (a protojson document describing a
// message of kind desc) with every ENUM-typed field's symbolic string
// value replaced by its integer ordinal, per the OTLP JSON encoding
// convention (§4.7). Message types protojson emitted that are not
// reachable from desc's own descriptor pool pass through untouched.
func coerceEnumsToInt(raw []byte, desc protoreflect.MessageDescriptor) ([]byte, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	walked := walkValue(doc, desc)
	return json.Marshal(walked)
}

func walkValue(v any, desc protoreflect.MessageDescriptor) any {
	obj, ok := v.(map[string]any)
	if !ok || desc == nil {
		return v
	}
	idx := fieldIndexFor(desc)
	out := make(map[string]any, len(obj))
	for key, val := range obj {
		fd, known := idx[key]
		if !known {
			out[key] = val
			continue
		}
		out[key] = walkField(val, fd)
	}
	return out
}

func walkField(val any, fd protoreflect.FieldDescriptor) any {
	if list, ok := val.([]any); ok {
		out := make([]any, len(list))
		for i, elem := range list {
			out[i] = walkFieldScalar(elem, fd)
		}
		return out
	}
	return walkFieldScalar(val, fd)
}

func walkFieldScalar(val any, fd protoreflect.FieldDescriptor) any {
	switch fd.Kind() {
	case protoreflect.EnumKind:
		name, ok := val.(string)
		if !ok {
			return val
		}
		evd := fd.Enum().Values().ByName(protoreflect.Name(name))
		if evd == nil {
			return val
		}
		return float64(evd.Number())
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return walkValue(val, fd.Message())
	default:
		return val
	}
}
