// Package xml exports anonymized values as XML.
package xml

import (
	"context"
	"encoding/xml"

	"github.com/zoobzio/shroud"
)

// xmlCodec implements shroud.Codec for XML.
type xmlCodec struct {
	header bool
}

// New returns an XML codec that emits bare elements.
func New() shroud.Codec {
	return &xmlCodec{}
}

// NewDocument returns an XML codec that prefixes output with xml.Header.
func NewDocument() shroud.Codec {
	return &xmlCodec{header: true}
}

// ContentType returns the MIME type for XML.
func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// Marshal encodes v as XML.
func (c *xmlCodec) Marshal(v any) ([]byte, error) {
	data, err := xml.Marshal(v)
	if err != nil || !c.header {
		return data, err
	}
	return append([]byte(xml.Header), data...), nil
}

// Unmarshal decodes XML data into v.
func (c *xmlCodec) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}

// Export anonymizes v with a and encodes the result as XML.
func Export(ctx context.Context, a *shroud.Anonymizer, v any) ([]byte, error) {
	return a.Export(ctx, New(), v)
}
