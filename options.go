package shroud

import (
	"reflect"

	"github.com/zoobzio/clockz"
)

// Option configures an Anonymizer at construction.
type Option func(*Anonymizer)

// WithTransform registers t for method m, replacing any built-in.
// A nil t removes the method from the registry.
func WithTransform(m Method, t Transform) Option {
	return func(a *Anonymizer) {
		if t == nil {
			delete(a.transforms, m)
			return
		}
		a.transforms[m] = t
	}
}

// WithTransforms registers every entry of custom, as WithTransform does.
func WithTransforms(custom map[Method]Transform) Option {
	return func(a *Anonymizer) {
		for m, t := range custom {
			WithTransform(m, t)(a)
		}
	}
}

// WithSink sets where per-field transform failures are reported.
// The default emits SignalTransformFailed through capitan.
func WithSink(s Sink) Option {
	return func(a *Anonymizer) {
		if s != nil {
			a.sink = s
		}
	}
}

// WithAtomic marks types that must be copied as a whole and never walked,
// in addition to scalars, time.Time and structs without exported fields.
func WithAtomic(types ...reflect.Type) Option {
	return func(a *Anonymizer) {
		for _, t := range types {
			a.atomic[t] = true
		}
	}
}

// WithClock sets the clock used to time operations.
func WithClock(c clockz.Clock) Option {
	return func(a *Anonymizer) {
		if c != nil {
			a.clock = c
		}
	}
}
