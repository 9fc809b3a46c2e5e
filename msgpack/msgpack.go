// Package msgpack exports anonymized values as MessagePack.
package msgpack

import (
	"bytes"
	"context"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/shroud"
)

// msgpackCodec implements shroud.Codec for MessagePack.
// Fields without a msgpack tag fall back to their json tag, so one set of
// struct tags serves both encodings.
type msgpackCodec struct{}

// New returns a MessagePack codec.
func New() shroud.Codec {
	return &msgpackCodec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes v as MessagePack.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes MessagePack data into v.
func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}

// Export anonymizes v with a and encodes the result as MessagePack.
func Export(ctx context.Context, a *shroud.Anonymizer, v any) ([]byte, error) {
	return a.Export(ctx, New(), v)
}
