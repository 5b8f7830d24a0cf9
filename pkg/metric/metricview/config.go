package metricview

import (
	"fmt"

	"github.com/relaycore/metrickit/pkg/config/xconf"
)

// ruleConfig mirrors Rule's shape for koanf/mapstructure unmarshaling
// from the "views" key of a loaded xconf.Config.
type ruleConfig struct {
	Name                  string   `koanf:"name"`
	InstrumentNamePattern string   `koanf:"instrument_name_pattern"`
	ScopeNamePattern      string   `koanf:"scope_name_pattern"`
	AggregationKind       string   `koanf:"aggregation"`
	HistogramBoundaries   []float64 `koanf:"histogram_boundaries"`
	AttributeKeys         []string `koanf:"attribute_keys"`
}

func (rc ruleConfig) toRule() (Rule, error) {
	rule := Rule{
		Name:                  rc.Name,
		InstrumentNamePattern: rc.InstrumentNamePattern,
		ScopeNamePattern:      rc.ScopeNamePattern,
		AttributeKeys:         rc.AttributeKeys,
	}
	kind, err := parseAggregationKind(rc.AggregationKind)
	if err != nil {
		return Rule{}, fmt.Errorf("view rule %q: %w", rc.Name, err)
	}
	if kind != AggregationDefault {
		rule.Aggregation = &AggregationOverride{Kind: kind, HistogramBoundaries: rc.HistogramBoundaries}
	}
	return rule, nil
}

func parseAggregationKind(s string) (AggregationKind, error) {
	switch s {
	case "", "default":
		return AggregationDefault, nil
	case "sum":
		return AggregationSum, nil
	case "last_value":
		return AggregationLastValue, nil
	case "histogram":
		return AggregationHistogram, nil
	case "drop":
		return AggregationDrop, nil
	default:
		return AggregationDefault, fmt.Errorf("%w: %q", ErrUnknownAggregationKind, s)
	}
}

// LoadRegistry unmarshals the "views" array from cfg into a Registry,
// preserving declaration order as match priority (§4.8: MeterProvider
// loads its metricview.Registry from pkg/config/xconf).
func LoadRegistry(cfg xconf.Config) (*Registry, error) {
	var raw []ruleConfig
	if err := cfg.Unmarshal("views", &raw); err != nil {
		return nil, fmt.Errorf("metricview: unmarshal views: %w", err)
	}
	rules := make([]Rule, 0, len(raw))
	for _, rc := range raw {
		rule, err := rc.toRule()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return NewRegistry(rules...), nil
}
