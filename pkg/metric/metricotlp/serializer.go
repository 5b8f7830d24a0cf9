package metricotlp

import (
	"encoding/hex"
	"fmt"

	"google.golang.org/protobuf/proto"

	collectorpb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
)

// Serializer converts an ExportMetricsServiceRequest to and from one
// wire encoding, and renders trace/span identifiers the way that
// encoding expects them (§4.7).
type Serializer interface {
	ContentType() ContentType
	Serialize(req *collectorpb.ExportMetricsServiceRequest) ([]byte, error)
	Hydrate(payload []byte) (*collectorpb.ExportMetricsServiceRequest, error)
	SerializeTraceID(id [16]byte) string
	SerializeSpanID(id [8]byte) string
}

// ForContentType returns the Serializer registered for ct.
func ForContentType(ct ContentType) (Serializer, error) {
	switch ct {
	case ContentTypeProtobuf:
		return protobufSerializer{}, nil
	case ContentTypeJSON:
		return jsonSerializer{ndjson: false}, nil
	case ContentTypeNDJSON:
		return jsonSerializer{ndjson: true}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContentType, ct)
	}
}

type protobufSerializer struct{}

func (protobufSerializer) ContentType() ContentType { return ContentTypeProtobuf }

func (protobufSerializer) Serialize(req *collectorpb.ExportMetricsServiceRequest) ([]byte, error) {
	return proto.Marshal(req)
}

func (protobufSerializer) Hydrate(payload []byte) (*collectorpb.ExportMetricsServiceRequest, error) {
	req := &collectorpb.ExportMetricsServiceRequest{}
	if err := proto.Unmarshal(payload, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (protobufSerializer) SerializeTraceID(id [16]byte) string { return string(id[:]) }
func (protobufSerializer) SerializeSpanID(id [8]byte) string   { return string(id[:]) }

type jsonSerializer struct {
	ndjson bool
}

func (s jsonSerializer) ContentType() ContentType {
	if s.ndjson {
		return ContentTypeNDJSON
	}
	return ContentTypeJSON
}

func (s jsonSerializer) Serialize(req *collectorpb.ExportMetricsServiceRequest) ([]byte, error) {
	raw, err := marshalJSON(req)
	if err != nil {
		return nil, err
	}
	coerced, err := coerceEnumsToInt(raw, req.ProtoReflect().Descriptor())
	if err != nil {
		return nil, err
	}
	if s.ndjson {
		coerced = append(coerced, '\n')
	}
	return coerced, nil
}

func (s jsonSerializer) Hydrate(payload []byte) (*collectorpb.ExportMetricsServiceRequest, error) {
	req := &collectorpb.ExportMetricsServiceRequest{}
	if err := unmarshalJSON(payload, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (jsonSerializer) SerializeTraceID(id [16]byte) string { return hex.EncodeToString(id[:]) }
func (jsonSerializer) SerializeSpanID(id [8]byte) string    { return hex.EncodeToString(id[:]) }
