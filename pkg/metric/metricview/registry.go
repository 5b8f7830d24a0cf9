package metricview

import (
	"path"

	"github.com/relaycore/metrickit/pkg/metric/metricattr"
)

// Registry holds an ordered set of View rules, matched first-hit-wins
// against newly created instruments (§4.5, DATA MODEL ViewRule).
type Registry struct {
	rules []Rule
}

// NewRegistry creates a Registry over rules, preserving their order
// for match priority.
func NewRegistry(rules ...Rule) *Registry {
	return &Registry{rules: rules}
}

// Match returns the first rule whose patterns match (scopeName,
// instrumentName), and whether any rule matched. An empty Registry
// never matches.
func (r *Registry) Match(scopeName, instrumentName string) (Rule, bool) {
	for _, rule := range r.rules {
		if matchesPattern(rule.ScopeNamePattern, scopeName) && matchesPattern(rule.InstrumentNamePattern, instrumentName) {
			return rule, true
		}
	}
	return Rule{}, false
}

func matchesPattern(pattern, value string) bool {
	if pattern == "" {
		return true
	}
	ok, err := path.Match(pattern, value)
	return err == nil && ok
}

// AttributeProcessor returns the metricattr.Processor implied by rule:
// a key allowlist filter if AttributeKeys is set, otherwise identity.
func (rule Rule) AttributeProcessor() metricattr.Processor {
	if rule.AttributeKeys == nil {
		return metricattr.Identity()
	}
	allow := make(map[string]struct{}, len(rule.AttributeKeys))
	for _, k := range rule.AttributeKeys {
		allow[k] = struct{}{}
	}
	return metricattr.KeyFilter(func(key string) bool {
		_, ok := allow[key]
		return ok
	})
}
