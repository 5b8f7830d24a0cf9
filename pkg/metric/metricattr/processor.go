package metricattr

// Processor rewrites a raw key/value list before it is canonicalized
// into a [Set]. Views use it to drop or rename attribute keys per
// instrument.
type Processor interface {
	Process(kvs []KeyValue) []KeyValue
}

// ProcessorFunc adapts a function to [Processor].
type ProcessorFunc func(kvs []KeyValue) []KeyValue

// Process implements [Processor].
func (f ProcessorFunc) Process(kvs []KeyValue) []KeyValue { return f(kvs) }

// Identity returns a [Processor] that passes its input through unchanged.
func Identity() Processor {
	return ProcessorFunc(func(kvs []KeyValue) []KeyValue { return kvs })
}

// KeyFilter returns a [Processor] that keeps only the keys for which
// keep returns true.
func KeyFilter(keep func(key string) bool) Processor {
	return ProcessorFunc(func(kvs []KeyValue) []KeyValue {
		out := make([]KeyValue, 0, len(kvs))
		for _, kv := range kvs {
			if keep(kv.Key) {
				out = append(out, kv)
			}
		}
		return out
	})
}

// KeyRename returns a [Processor] that renames keys present in the
// mapping, leaving unmapped keys untouched.
func KeyRename(mapping map[string]string) Processor {
	return ProcessorFunc(func(kvs []KeyValue) []KeyValue {
		out := make([]KeyValue, len(kvs))
		for i, kv := range kvs {
			if newKey, ok := mapping[kv.Key]; ok {
				out[i] = KeyValue{Key: newKey, Value: kv.Value}
				continue
			}
			out[i] = kv
		}
		return out
	})
}

// Chain composes processors left to right.
func Chain(procs ...Processor) Processor {
	return ProcessorFunc(func(kvs []KeyValue) []KeyValue {
		for _, p := range procs {
			if p != nil {
				kvs = p.Process(kvs)
			}
		}
		return kvs
	})
}
