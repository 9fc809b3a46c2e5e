package shroud

// Anonymizable bypasses reflection for a type.
//
// When a composite value implements Anonymizable, the walker calls
// AnonymizeWith instead of scanning the type's fields. This is intended for
// code generators that emit per-type anonymization from the same struct tags,
// and for types whose anonymized form cannot be expressed with tags.
//
// The receiver must not be mutated. The returned value replaces the original
// and must be assignable to the original's type. If AnonymizeWith returns an
// error, it is reported to the Sink and the original value is kept.
type Anonymizable interface {
	AnonymizeWith(transforms map[Method]Transform) (any, error)
}
