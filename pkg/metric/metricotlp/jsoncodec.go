package metricotlp

import (
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

func marshalJSON(msg proto.Message) ([]byte, error) {
	return protojson.MarshalOptions{UseProtoNames: false, EmitUnpopulated: false}.Marshal(msg)
}

func unmarshalJSON(payload []byte, msg proto.Message) error {
	return protojson.UnmarshalOptions{DiscardUnknown: true}.Unmarshal(payload, msg)
}
