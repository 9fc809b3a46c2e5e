// Package shroud produces privacy-safe copies of in-memory object graphs.
//
// An Anonymizer walks a value recursively and replaces every field declared
// sensitive with the output of a transform, leaving everything else intact.
// The input is never modified; each call allocates its own output.
//
// # Tag Syntax
//
// Sensitive fields are declared with the anonymize struct tag:
//
//	anonymize:"{method}[,{key}={value}...]"
//
// Built-in methods and their options:
//
//	anonymize:"hash"                   - SHA-256 hex digest
//	anonymize:"hash,algo=blake2b"      - sha256, sha512, blake2b, sha3
//	anonymize:"redact"                 - replaced by "***"
//	anonymize:"redact,with=[removed]"  - replaced by a literal
//	anonymize:"mask"                   - all but the last four characters masked
//	anonymize:"mask,format=email"      - tail, email, phone, card, ip, name
//	anonymize:"range"                  - generalized to a power-of-ten bucket
//	anonymize:"range,interval=25,rounding=ceiling"
//	anonymize:"-"                      - dropped (zero value in the output)
//
// The with option consumes the rest of the tag, so it may contain commas.
//
// # Basic Usage
//
//	type Patient struct {
//	    ID      string
//	    Name    string   `anonymize:"mask,format=name"`
//	    Email   string   `anonymize:"mask,format=email"`
//	    SSN     string   `anonymize:"hash"`
//	    Age     int      `anonymize:"range,interval=5"`
//	    Notes   string   `anonymize:"redact"`
//	    Address *Address
//	}
//
//	anon := shroud.New()
//	safe, err := shroud.Anonymize(ctx, anon, patient)
//
// # Traversal
//
// Structs, pointers to structs and interfaces holding them are walked at
// every depth. Scalars, strings, time.Time, structs without exported fields
// and types registered with WithAtomic are copied whole. Slices, arrays and
// maps are copied as a whole and their elements are never inspected.
// Self-referential pointer graphs are not detected.
//
// # Errors
//
// Anonymize returns an error only for configuration problems: a malformed
// tag (ErrInvalidTag) or a method with no registered transform
// (ErrMissingTransform). A transform that fails for one value is reported to
// the Sink, the field keeps its original value, and its siblings are still
// anonymized. Validate surfaces configuration problems without an instance.
//
// # Custom Transforms
//
// The registry is fixed at construction:
//
//	enc, _ := shroud.AES(key)
//	anon := shroud.New(
//	    shroud.WithTransform(shroud.MethodEncrypt, shroud.Encrypt(enc)),
//	    shroud.WithTransform(shroud.MethodRedact, shroud.TransformFunc(func(v any) (any, error) {
//	        return "[redacted]", nil
//	    })),
//	)
//
// Types may implement Anonymizable to replace reflection entirely.
//
// # Export
//
// Export anonymizes and marshals in one step. Codec implementations are
// available as submodules:
//
//   - json - JSON encoding (application/json)
//   - xml - XML encoding (application/xml)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
//
// # Observability
//
// Lifecycle events and per-field failures are emitted as capitan signals.
// Each Anonymizer carries a metricz registry and a tracez tracer.
package shroud
