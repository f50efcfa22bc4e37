package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// GlobalTracer resolves against whatever provider NewProvider installed, so
// it is safe to use before tracing is configured.
var GlobalTracer = otel.Tracer("gymmora")

// EndSpanWithErrCheck marks span as failed when err is set, then ends it.
func EndSpanWithErrCheck(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	}
	span.End()
}
