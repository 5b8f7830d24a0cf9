package metricattr

// defaultMaxDepth is the truncation depth applied to nested array
// attribute values when no explicit [WithMaxDepth] option is supplied.
const defaultMaxDepth = 4

// Option configures [NewSet].
type Option func(*setConfig)

type setConfig struct {
	maxDepth int
}

func defaultSetConfig() *setConfig {
	return &setConfig{maxDepth: defaultMaxDepth}
}

// WithMaxDepth bounds how deeply nested array attribute values may be
// before being truncated. Values beyond the limit are dropped and a
// one-time warning is logged per offending key.
func WithMaxDepth(depth int) Option {
	return func(c *setConfig) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}
