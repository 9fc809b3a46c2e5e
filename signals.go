package shroud

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for anonymizer events.
var (
	SignalAnonymizerCreated = capitan.NewSignal("shroud.anonymizer.created", "Anonymizer instantiated")
	SignalAnonymizeStart    = capitan.NewSignal("shroud.anonymize.start", "Anonymize operation beginning")
	SignalAnonymizeComplete = capitan.NewSignal("shroud.anonymize.complete", "Anonymize operation finished")
	SignalTransformFailed   = capitan.NewSignal("shroud.transform.failed", "Field transform failed; original value kept")
)

// Keys for typed event data.
var (
	KeyTypeName         = capitan.NewStringKey("type_name")
	KeyTransformCount   = capitan.NewIntKey("transform_count")
	KeyDuration         = capitan.NewDurationKey("duration")
	KeyTransformedCount = capitan.NewIntKey("transformed_count")
	KeyFailedCount      = capitan.NewIntKey("failed_count")
	KeyMessage          = capitan.NewStringKey("message")
	KeyError            = capitan.NewErrorKey("error")
)

func emitAnonymizerCreated(ctx context.Context, transforms int) {
	capitan.Emit(ctx, SignalAnonymizerCreated,
		KeyTransformCount.Field(transforms),
	)
}

func emitAnonymizeStart(ctx context.Context, typeName string) {
	capitan.Emit(ctx, SignalAnonymizeStart,
		KeyTypeName.Field(typeName),
	)
}

func emitAnonymizeComplete(ctx context.Context, typeName string, duration time.Duration, transformed, failed int, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyDuration.Field(duration),
		KeyTransformedCount.Field(transformed),
		KeyFailedCount.Field(failed),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalAnonymizeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalAnonymizeComplete, fields...)
	}
}

func emitTransformFailed(ctx context.Context, message string) {
	capitan.Warn(ctx, SignalTransformFailed,
		KeyMessage.Field(message),
	)
}
