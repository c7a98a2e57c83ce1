package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer returns the tracer of the run, a no-op before InitTracing
func Tracer() trace.Tracer {
	mu.Lock()
	defer mu.Unlock()
	return tracer
}

// StartSpan starts a span named operation
func StartSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, operation, trace.WithAttributes(attrs...))
}

// EndSpan sets the span status from err and ends it
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// Attribute keys used on conversion spans
const (
	SubtypeKey = attribute.Key("nanoconv.subtype")
	InputKey   = attribute.Key("nanoconv.input")
	LineKey    = attribute.Key("nanoconv.line")
	RowKey     = attribute.Key("nanoconv.row")
	NanopubKey = attribute.Key("nanoconv.nanopub")
	QuadsKey   = attribute.Key("nanoconv.quads")
	ReasonKey  = attribute.Key("nanoconv.skip_reason")
)
