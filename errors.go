package shroud

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrMissingTransform indicates a field names a method with no registered transform.
	ErrMissingTransform = errors.New("missing transform")

	// ErrInvalidTag indicates an anonymize struct tag has an invalid format or value.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrTransform indicates a transform failed for a single field value.
	ErrTransform = errors.New("transform failed")

	// ErrNotNumeric indicates a non-numeric value was routed to a numeric transform.
	ErrNotNumeric = errors.New("value is not numeric")

	// ErrOverflow indicates a transformed number does not fit the field's kind.
	ErrOverflow = errors.New("numeric overflow")

	// ErrUnassignable indicates a transform result cannot be stored in the field.
	ErrUnassignable = errors.New("result not assignable to field")

	// ErrMarshal indicates the codec failed to marshal the anonymized value.
	ErrMarshal = errors.New("marshal failed")
)

// ConfigError represents an anonymizer configuration error.
// It wraps a sentinel error with the field and method that triggered it.
type ConfigError struct {
	Err    error  // Underlying sentinel error (ErrMissingTransform, ErrInvalidTag)
	Field  string // Field name that triggered the error
	Method string // Method or tag value that was missing/invalid
}

func (e *ConfigError) Error() string {
	if e.Field != "" && e.Method != "" {
		return fmt.Sprintf("%s for method %q (field %s)", e.Err.Error(), e.Method, e.Field)
	}
	if e.Method != "" {
		return fmt.Sprintf("%s for method %q", e.Err.Error(), e.Method)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s (field %s)", e.Err.Error(), e.Field)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// TransformError represents a failure while anonymizing one field value.
// These never reach the caller of Anonymize; they are reported to the Sink.
type TransformError struct {
	Err    error  // Underlying sentinel error (ErrTransform)
	Field  string // Field name that failed
	Method Method // Method that failed
	Cause  error  // Original error from the transform
}

func (e *TransformError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s field %s: %v", e.Method, e.Field, e.Cause)
	}
	return fmt.Sprintf("%s field %s", e.Method, e.Field)
}

func (e *TransformError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// CodecError represents a marshal error during Export.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

func newConfigError(sentinel error, method, field string) error {
	return &ConfigError{
		Err:    sentinel,
		Method: method,
		Field:  field,
	}
}

func newTransformError(method Method, field string, cause error) *TransformError {
	return &TransformError{
		Err:    ErrTransform,
		Field:  field,
		Method: method,
		Cause:  cause,
	}
}

func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
