// Package jsoncodec registers a gRPC codec that carries messages as JSON.
// Clients select it with grpc.CallContentSubtype(jsoncodec.Name).
package jsoncodec

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Name is the content-subtype of the codec
const Name = "json"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec marshals plain structs with encoding/json and protobuf messages with
// protojson, so health checks keep working over the same subtype.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	if m, ok := v.(proto.Message); ok {
		return protojson.UnmarshalOptions{DiscardUnknown: true}.Unmarshal(data, m)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func (Codec) Name() string {
	return Name
}
