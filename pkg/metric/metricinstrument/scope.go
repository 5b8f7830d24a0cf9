package metricinstrument

// Scope identifies the instrumentation library that created a Meter,
// carried through to every metric the Meter's instruments produce and
// matched against metricview.Rule.ScopeNamePattern.
type Scope struct {
	Name      string
	Version   string
	SchemaURL string
}
