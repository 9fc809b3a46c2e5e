package shroud

import (
	"context"
	"reflect"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Metric keys.
var (
	AnonymizeCallsTotal    = metricz.Key("anonymize.calls.total")
	AnonymizeErrorsTotal   = metricz.Key("anonymize.errors.total")
	FieldsTransformedTotal = metricz.Key("anonymize.fields.transformed.total")
	FieldsFailedTotal      = metricz.Key("anonymize.fields.failed.total")
	AnonymizeDurationMs    = metricz.Key("anonymize.duration.ms")
)

// Span keys and tags.
var (
	AnonymizeProcessSpan = tracez.Key("anonymize.process")
	AnonymizeTagType     = tracez.Tag("anonymize.type")
	AnonymizeTagSuccess  = tracez.Tag("anonymize.success")
	AnonymizeTagError    = tracez.Tag("anonymize.error")
)

var timeType = reflect.TypeFor[time.Time]()

// Anonymizer produces anonymized copies of object graphs.
//
// The transform registry is fixed at construction, and the per-type field
// plans are shared process-wide, so an Anonymizer is safe for concurrent use.
//
// Metrics:
//   - anonymize.calls.total: Counter of Anonymize calls
//   - anonymize.errors.total: Counter of calls aborted by a configuration error
//   - anonymize.fields.transformed.total: Counter of fields replaced by a transform
//   - anonymize.fields.failed.total: Counter of fields kept after a transform failure
//   - anonymize.duration.ms: Gauge of the last call's duration
//
// Traces:
//   - anonymize.process: Span per Anonymize call
type Anonymizer struct {
	transforms map[Method]Transform
	sink       Sink
	atomic     map[reflect.Type]bool
	clock      clockz.Clock
	metrics    *metricz.Registry
	tracer     *tracez.Tracer
}

// New creates an Anonymizer with the built-in hash, redact, mask and range
// transforms, adjusted by opts.
func New(opts ...Option) *Anonymizer {
	metrics := metricz.New()
	metrics.Counter(AnonymizeCallsTotal)
	metrics.Counter(AnonymizeErrorsTotal)
	metrics.Counter(FieldsTransformedTotal)
	metrics.Counter(FieldsFailedTotal)
	metrics.Gauge(AnonymizeDurationMs)

	a := &Anonymizer{
		transforms: builtinTransforms(),
		sink:       CapitanSink(),
		atomic:     map[reflect.Type]bool{timeType: true},
		clock:      clockz.RealClock,
		metrics:    metrics,
		tracer:     tracez.New(),
	}
	for _, opt := range opts {
		opt(a)
	}

	emitAnonymizerCreated(context.Background(), len(a.transforms))
	return a
}

// Anonymize returns a copy of v in which every sensitive field has been
// replaced by its transform's output. v is not modified.
//
// Structs and pointers to structs are walked recursively. Scalars, atomic
// types and collections (slices, arrays, maps) are returned unchanged;
// elements of collections are never inspected. A nil v returns nil.
//
// The returned error is always a configuration error: a field named a
// method with no registered transform, or carried a malformed tag. Failures
// of individual transforms are reported to the Sink and leave that field's
// original value in place.
//
// Self-referential pointer graphs are not detected and recurse without bound.
func (a *Anonymizer) Anonymize(ctx context.Context, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	out, err := a.run(ctx, reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

// Anonymize is the typed form of (*Anonymizer).Anonymize.
func Anonymize[T any](ctx context.Context, a *Anonymizer, v T) (T, error) {
	scan[T]()

	var zero T
	out, err := a.run(ctx, reflect.ValueOf(&v).Elem())
	if err != nil {
		return zero, err
	}
	if !out.IsValid() || (out.Kind() == reflect.Interface && out.IsNil()) {
		return zero, nil
	}
	return out.Interface().(T), nil
}

// Export anonymizes v and marshals the result with codec.
func (a *Anonymizer) Export(ctx context.Context, codec Codec, v any) ([]byte, error) {
	out, err := a.Anonymize(ctx, v)
	if err != nil {
		return nil, err
	}
	data, err := codec.Marshal(out)
	if err != nil {
		return nil, newCodecError(ErrMarshal, err)
	}
	return data, nil
}

// Validate checks, without an instance, that every sensitive field reachable
// from T through struct and pointer-to-struct fields has a well-formed tag
// and a registered transform. Anonymize performs the same checks lazily;
// Validate surfaces them at startup.
func Validate[T any](a *Anonymizer) error {
	scan[T]()
	return a.validateType(reflect.TypeFor[T](), make(map[reflect.Type]bool))
}

func (a *Anonymizer) validateType(rt reflect.Type, seen map[reflect.Type]bool) error {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct || a.isAtomic(rt) || seen[rt] {
		return nil
	}
	seen[rt] = true

	plan, err := planFor(rt)
	if err != nil {
		return err
	}
	for _, f := range plan.fields {
		if !f.writable {
			continue
		}
		if f.sensitivity != nil {
			if _, ok := a.transforms[f.sensitivity.Method]; !ok {
				return newConfigError(ErrMissingTransform, string(f.sensitivity.Method), f.name)
			}
			continue
		}
		if err := a.validateType(rt.FieldByIndex(f.index).Type, seen); err != nil {
			return err
		}
	}
	return nil
}

func (a *Anonymizer) run(ctx context.Context, rv reflect.Value) (reflect.Value, error) {
	typeName := "<nil>"
	if rv.IsValid() {
		typeName = rv.Type().String()
	}

	ctx, span := a.tracer.StartSpan(ctx, AnonymizeProcessSpan)
	defer span.Finish()
	span.SetTag(AnonymizeTagType, typeName)

	start := a.clock.Now()
	a.metrics.Counter(AnonymizeCallsTotal).Inc()
	emitAnonymizeStart(ctx, typeName)

	w := &walker{a: a, ctx: ctx}
	out, err := w.walk(rv)

	elapsed := a.clock.Since(start)
	a.metrics.Gauge(AnonymizeDurationMs).Set(float64(elapsed.Milliseconds()))
	emitAnonymizeComplete(ctx, typeName, elapsed, w.transformed, w.failed, err)

	if err != nil {
		a.metrics.Counter(AnonymizeErrorsTotal).Inc()
		span.SetTag(AnonymizeTagSuccess, "false")
		span.SetTag(AnonymizeTagError, err.Error())
		return reflect.Value{}, err
	}
	span.SetTag(AnonymizeTagSuccess, "true")
	return out, nil
}

// Metrics returns the anonymizer's metrics registry.
func (a *Anonymizer) Metrics() *metricz.Registry {
	return a.metrics
}

// Tracer returns the anonymizer's tracer.
func (a *Anonymizer) Tracer() *tracez.Tracer {
	return a.tracer
}

// Close releases the tracer.
func (a *Anonymizer) Close() error {
	a.tracer.Close()
	return nil
}
