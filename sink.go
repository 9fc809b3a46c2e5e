package shroud

import "context"

// Sink receives a warning whenever a field's transform fails and the
// original value is kept. Warn must not block.
type Sink interface {
	Warn(ctx context.Context, message string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, message string)

// Warn calls f(ctx, message).
func (f SinkFunc) Warn(ctx context.Context, message string) {
	f(ctx, message)
}

type capitanSink struct{}

// CapitanSink returns the default Sink, which emits SignalTransformFailed.
func CapitanSink() Sink {
	return capitanSink{}
}

func (capitanSink) Warn(ctx context.Context, message string) {
	emitTransformFailed(ctx, message)
}
