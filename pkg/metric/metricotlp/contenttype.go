package metricotlp

// ContentType is one of the three wire encodings this package can
// produce and consume (§4.7).
type ContentType string

const (
	ContentTypeProtobuf ContentType = "application/x-protobuf"
	ContentTypeJSON     ContentType = "application/json"
	ContentTypeNDJSON   ContentType = "application/x-ndjson"
)
