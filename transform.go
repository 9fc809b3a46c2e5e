package shroud

import (
	"fmt"
	"reflect"
)

// Transform anonymizes a single value.
// Implementations must return nil for nil input and must not retain or
// mutate the value they are given.
type Transform interface {
	Apply(value any) (any, error)
}

// ConfigurableTransform is a Transform that reads parameters from the
// field's Sensitivity. The walker prefers ApplyWith when it is available.
type ConfigurableTransform interface {
	Transform
	ApplyWith(value any, s Sensitivity) (any, error)
}

// TransformFunc adapts a plain function to the Transform interface.
type TransformFunc func(value any) (any, error)

// Apply calls f(value).
func (f TransformFunc) Apply(value any) (any, error) {
	return f(value)
}

// builtinTransforms returns the default transform registry.
func builtinTransforms() map[Method]Transform {
	return map[Method]Transform{
		MethodHash:   Hash(),
		MethodRedact: Redact(),
		MethodMask:   Mask(),
		MethodRange:  Range(),
	}
}

// textOf returns the textual form a transform operates on.
// Pointers are followed so that *string hashes like string.
func textOf(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.String {
		return rv.String()
	}
	return fmt.Sprint(rv.Interface())
}
