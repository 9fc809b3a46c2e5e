// Package bson exports anonymized values as BSON documents.
package bson

import (
	"context"

	"github.com/zoobzio/shroud"
	"go.mongodb.org/mongo-driver/bson"
)

// bsonCodec implements shroud.Codec for BSON.
// BSON documents must be structs or maps; other values fail to marshal.
type bsonCodec struct{}

// New returns a BSON codec.
func New() shroud.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as a BSON document.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	return bson.Marshal(v)
}

// Unmarshal decodes a BSON document into v.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	return bson.Unmarshal(data, v)
}

// Export anonymizes v with a and encodes the result as BSON.
func Export(ctx context.Context, a *shroud.Anonymizer, v any) ([]byte, error) {
	return a.Export(ctx, New(), v)
}
