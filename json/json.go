// Package json exports anonymized values as JSON.
package json

import (
	"context"
	"encoding/json"

	"github.com/zoobzio/shroud"
)

// jsonCodec implements shroud.Codec for JSON.
type jsonCodec struct {
	indent string
}

// New returns a compact JSON codec.
func New() shroud.Codec {
	return &jsonCodec{}
}

// NewIndent returns a JSON codec that indents each nesting level with indent.
func NewIndent(indent string) shroud.Codec {
	return &jsonCodec{indent: indent}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	if c.indent != "" {
		return json.MarshalIndent(v, "", c.indent)
	}
	return json.Marshal(v)
}

// Unmarshal decodes JSON data into v.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Export anonymizes v with a and encodes the result as JSON.
func Export(ctx context.Context, a *shroud.Anonymizer, v any) ([]byte, error) {
	return a.Export(ctx, New(), v)
}
