package metricattr

import (
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Set is a canonicalized, immutable attribute key/value bag.
//
// Two Sets built from the same key/value pairs in any insertion order
// produce the same [Set.Hash] and compare equal via [Set.Equal].
type Set struct {
	kvs  []KeyValue // sorted by Key, deduplicated (last write wins)
	hash uint64
}

// NewSet canonicalizes kvs into a [Set]: empty keys are dropped (with a
// one-time warning), duplicate keys keep the last occurrence, nested
// array values are truncated per [WithMaxDepth] (default depth 4), and
// the result is sorted by key for stable hashing.
func NewSet(kvs []KeyValue, opts ...Option) Set {
	cfg := defaultSetConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	byKey := make(map[string]Value, len(kvs))
	order := make([]string, 0, len(kvs))
	for _, kv := range kvs {
		if kv.Key == "" {
			warnOnce("empty_key", kv.Key)
			continue
		}
		v, truncated := kv.Value.truncate(cfg.maxDepth, 0)
		if truncated {
			warnOnce("truncated_depth", kv.Key)
		}
		if _, exists := byKey[kv.Key]; !exists {
			order = append(order, kv.Key)
		}
		byKey[kv.Key] = v
	}

	sort.Strings(order)
	out := make([]KeyValue, len(order))
	for i, k := range order {
		out[i] = KeyValue{Key: k, Value: byKey[k]}
	}

	return Set{kvs: out, hash: hashKeyValues(out)}
}

func hashKeyValues(kvs []KeyValue) uint64 {
	var sb strings.Builder
	for _, kv := range kvs {
		sb.WriteString(kv.Key)
		sb.WriteByte('=')
		sb.WriteString(kv.Value.canonicalString())
		sb.WriteByte(';')
	}
	return xxhash.Sum64String(sb.String())
}

// Hash returns the canonical hash of the set, stable across equivalent
// permutations of the input key/value pairs.
func (s Set) Hash() uint64 { return s.hash }

// Equal reports whether two sets contain the same key/value pairs.
func (s Set) Equal(other Set) bool {
	if s.hash != other.hash || len(s.kvs) != len(other.kvs) {
		return false
	}
	for i, kv := range s.kvs {
		o := other.kvs[i]
		if kv.Key != o.Key || kv.Value.canonicalString() != o.Value.canonicalString() {
			return false
		}
	}
	return true
}

// Len returns the number of key/value pairs in the set.
func (s Set) Len() int { return len(s.kvs) }

// KeyValues returns the canonicalized, sorted key/value pairs. The
// returned slice must not be mutated by the caller.
func (s Set) KeyValues() []KeyValue { return s.kvs }

// Get returns the value for key and whether it was present.
func (s Set) Get(key string) (Value, bool) {
	// kvs is sorted; linear scan is fine at the attribute-set sizes this
	// library is designed for (a handful of dimensions per measurement).
	for _, kv := range s.kvs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return Value{}, false
}

// Empty is the canonical empty attribute set.
var Empty = NewSet(nil)
