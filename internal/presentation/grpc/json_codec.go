package grpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"google.golang.org/grpc/encoding"
)

// CodecName is the content-subtype clients select to call RiskService with
// JSON payloads.
const CodecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return CodecName }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s codec: marshal %T: %w", CodecName, v, err)
	}
	return data, nil
}

// Unmarshal accepts exactly one JSON value per message.
func (jsonCodec) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%s codec: unmarshal %T: %w", CodecName, v, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s codec: unmarshal %T: trailing data after JSON value", CodecName, v)
	}
	return nil
}
