package metricinstrument

// Kind is the closed set of instrument kinds an instrument may have.
// Counters and ObservableCounter are monotonic non-negative by
// definition.
type Kind int

const (
	Counter Kind = iota
	UpDownCounter
	Histogram
	Gauge
	ObservableCounter
	ObservableUpDownCounter
	ObservableGauge
)

// String implements fmt.Stringer for logging.
func (k Kind) String() string {
	switch k {
	case Counter:
		return "counter"
	case UpDownCounter:
		return "updowncounter"
	case Histogram:
		return "histogram"
	case Gauge:
		return "gauge"
	case ObservableCounter:
		return "observable_counter"
	case ObservableUpDownCounter:
		return "observable_updowncounter"
	case ObservableGauge:
		return "observable_gauge"
	default:
		return "unknown"
	}
}

// Monotonic reports whether k is a monotonic, non-negative-only kind.
func (k Kind) Monotonic() bool {
	return k == Counter || k == ObservableCounter
}

// Asynchronous reports whether k is one of the observable kinds.
func (k Kind) Asynchronous() bool {
	switch k {
	case ObservableCounter, ObservableUpDownCounter, ObservableGauge:
		return true
	default:
		return false
	}
}

// Descriptor is an instrument's identity tuple: (kind, name, unit,
// description). Deduplication within a Meter is keyed on Name alone;
// the remaining fields are compared to detect conflicting
// re-registration (§4.5).
type Descriptor struct {
	Kind        Kind
	Name        string
	Unit        string
	Description string
}

// conflictsWith reports whether other describes the same name with a
// different kind, unit, or description.
func (d Descriptor) conflictsWith(other Descriptor) bool {
	return d.Kind != other.Kind || d.Unit != other.Unit || d.Description != other.Description
}
