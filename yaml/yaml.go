// Package yaml exports anonymized values as YAML.
package yaml

import (
	"bytes"
	"context"

	"github.com/zoobzio/shroud"
	"gopkg.in/yaml.v3"
)

// yamlCodec implements shroud.Codec for YAML.
type yamlCodec struct {
	indent int
}

// New returns a YAML codec with yaml.v3's default indentation.
func New() shroud.Codec {
	return &yamlCodec{}
}

// NewIndent returns a YAML codec that indents nested blocks by n spaces.
func NewIndent(n int) shroud.Codec {
	return &yamlCodec{indent: n}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as YAML.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	if c.indent <= 0 {
		return yaml.Marshal(v)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(c.indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes YAML data into v.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// Export anonymizes v with a and encodes the result as YAML.
func Export(ctx context.Context, a *shroud.Anonymizer, v any) ([]byte, error) {
	return a.Export(ctx, New(), v)
}
