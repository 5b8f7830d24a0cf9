package metricotlp

import (
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	metricspb "go.opentelemetry.io/proto/otlp/metrics/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"

	"github.com/relaycore/metrickit/pkg/metric/metricagg"
	"github.com/relaycore/metrickit/pkg/metric/metricattr"
	"github.com/relaycore/metrickit/pkg/metric/metricexemplar"
	"github.com/relaycore/metrickit/pkg/metric/metricinstrument"
	"github.com/relaycore/metrickit/pkg/metric/metricstream"
)

// ResourceToPB translates a resource attribute Set into an OTLP
// Resource envelope (§ DATA MODEL Resource expansion).
func ResourceToPB(attrs metricattr.Set) *resourcepb.Resource {
	return &resourcepb.Resource{Attributes: attrsToPB(attrs)}
}

// ScopeToPB translates an instrumentation scope.
func ScopeToPB(scope metricinstrument.Scope) *commonpb.InstrumentationScope {
	return &commonpb.InstrumentationScope{Name: scope.Name, Version: scope.Version}
}

// MetricToPB translates one collected Data window for descriptor into
// an OTLP Metric, dispatching on the concrete Point type found in its
// data points (§ WIRE FORMATS, §4.7).
func MetricToPB(descriptor metricinstrument.Descriptor, data metricstream.Data) *metricspb.Metric {
	m := &metricspb.Metric{Name: descriptor.Name, Unit: descriptor.Unit, Description: descriptor.Description}
	if len(data.Points) == 0 {
		return m
	}

	switch data.Points[0].Value.(type) {
	case metricagg.SumPoint:
		m.Data = &metricspb.Metric_Sum{Sum: sumToPB(descriptor, data)}
	case metricagg.LastValuePoint:
		m.Data = &metricspb.Metric_Gauge{Gauge: gaugeToPB(data)}
	case metricagg.HistogramPoint:
		m.Data = &metricspb.Metric_Histogram{Histogram: histogramToPB(data)}
	}
	return m
}

func temporalityToPB(t metricstream.Temporality) metricspb.AggregationTemporality {
	if t == metricstream.Cumulative {
		return metricspb.AggregationTemporality_AGGREGATION_TEMPORALITY_CUMULATIVE
	}
	return metricspb.AggregationTemporality_AGGREGATION_TEMPORALITY_DELTA
}

func sumToPB(descriptor metricinstrument.Descriptor, data metricstream.Data) *metricspb.Sum {
	sum := &metricspb.Sum{
		AggregationTemporality: temporalityToPB(data.Temporality),
		IsMonotonic:            descriptor.Kind.Monotonic(),
	}
	for _, dp := range data.Points {
		p, ok := dp.Value.(metricagg.SumPoint)
		if !ok {
			continue
		}
		sum.DataPoints = append(sum.DataPoints, &metricspb.NumberDataPoint{
			Attributes:        attrsToPB(dp.Attributes),
			StartTimeUnixNano: uint64(data.StartTime.UnixNano()),
			TimeUnixNano:      uint64(data.EndTime.UnixNano()),
			Value:             &metricspb.NumberDataPoint_AsDouble{AsDouble: p.Value},
			Exemplars:         exemplarsToPB(dp.Exemplars),
		})
	}
	return sum
}

func gaugeToPB(data metricstream.Data) *metricspb.Gauge {
	gauge := &metricspb.Gauge{}
	for _, dp := range data.Points {
		p, ok := dp.Value.(metricagg.LastValuePoint)
		if !ok {
			continue
		}
		gauge.DataPoints = append(gauge.DataPoints, &metricspb.NumberDataPoint{
			Attributes:        attrsToPB(dp.Attributes),
			StartTimeUnixNano: uint64(data.StartTime.UnixNano()),
			TimeUnixNano:      uint64(data.EndTime.UnixNano()),
			Value:             &metricspb.NumberDataPoint_AsDouble{AsDouble: p.Value},
			Exemplars:         exemplarsToPB(dp.Exemplars),
		})
	}
	return gauge
}

func histogramToPB(data metricstream.Data) *metricspb.Histogram {
	hist := &metricspb.Histogram{AggregationTemporality: temporalityToPB(data.Temporality)}
	for _, dp := range data.Points {
		p, ok := dp.Value.(metricagg.HistogramPoint)
		if !ok {
			continue
		}
		sum := p.Sum
		hdp := &metricspb.HistogramDataPoint{
			Attributes:        attrsToPB(dp.Attributes),
			StartTimeUnixNano: uint64(data.StartTime.UnixNano()),
			TimeUnixNano:      uint64(data.EndTime.UnixNano()),
			Count:             p.Count,
			Sum:               &sum,
			BucketCounts:      p.BucketCounts,
			ExplicitBounds:    p.Boundaries,
			Exemplars:         exemplarsToPB(dp.Exemplars),
		}
		if p.HasMinMax {
			min, max := p.Min, p.Max
			hdp.Min = &min
			hdp.Max = &max
		}
		hist.DataPoints = append(hist.DataPoints, hdp)
	}
	return hist
}

func exemplarsToPB(exemplars []metricexemplar.Exemplar) []*metricspb.Exemplar {
	out := make([]*metricspb.Exemplar, 0, len(exemplars))
	for _, ex := range exemplars {
		pbEx := &metricspb.Exemplar{
			FilteredAttributes: attrsToPB(ex.Attributes),
			TimeUnixNano:       uint64(ex.Timestamp.UnixNano()),
			Value:              &metricspb.Exemplar_AsDouble{AsDouble: ex.Value},
		}
		if ex.HasTraceID {
			pbEx.TraceId = ex.TraceID[:]
		}
		if ex.HasSpanID {
			pbEx.SpanId = ex.SpanID[:]
		}
		out = append(out, pbEx)
	}
	return out
}

func attrsToPB(attrs metricattr.Set) []*commonpb.KeyValue {
	kvs := attrs.KeyValues()
	if len(kvs) == 0 {
		return nil
	}
	out := make([]*commonpb.KeyValue, 0, len(kvs))
	for _, kv := range kvs {
		out = append(out, &commonpb.KeyValue{Key: kv.Key, Value: valueToPB(kv.Value)})
	}
	return out
}

func valueToPB(v metricattr.Value) *commonpb.AnyValue {
	switch v.Kind() {
	case metricattr.KindString:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: v.AsString()}}
	case metricattr.KindBool:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_BoolValue{BoolValue: v.AsBool()}}
	case metricattr.KindInt64:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_IntValue{IntValue: v.AsInt64()}}
	case metricattr.KindFloat64:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_DoubleValue{DoubleValue: v.AsFloat64()}}
	case metricattr.KindArray:
		elems := v.AsArray()
		values := make([]*commonpb.AnyValue, 0, len(elems))
		for _, e := range elems {
			values = append(values, valueToPB(e))
		}
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_ArrayValue{ArrayValue: &commonpb.ArrayValue{Values: values}}}
	default:
		return &commonpb.AnyValue{}
	}
}
