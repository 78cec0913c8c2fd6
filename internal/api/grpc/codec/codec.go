// Package codec registers a JSON wire codec for gRPC.
//
// Clients select it with grpc.CallContentSubtype(codec.Name). Protobuf
// messages are encoded with protojson, everything else with encoding/json.
package codec

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Name is the content subtype of the codec: application/grpc+json.
const Name = "json"

func init() {
	encoding.RegisterCodec(JSON{})
}

// JSON implements encoding.Codec.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", v, err)
	}
	return b, nil
}

func (JSON) Unmarshal(data []byte, v any) error {
	if m, ok := v.(proto.Message); ok {
		return protojson.Unmarshal(data, m)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", v, err)
	}
	return nil
}

func (JSON) Name() string {
	return Name
}
