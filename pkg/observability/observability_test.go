package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSpans_NoopBeforeInit(t *testing.T) {
	_, span := StartSpan(context.Background(), "convert")
	assert.False(t, span.SpanContext().IsValid())
	EndSpan(span, nil)
}

func TestSpans_Recorded(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	config := DefaultTracingConfig("test")
	require.NoError(t, install(config, sdktrace.WithSyncer(exporter)))
	t.Cleanup(func() { _ = Shutdown(context.Background()) })

	ctx, run := StartSpan(context.Background(), "convert", SubtypeKey.String("cage_clusters"))
	_, row := StartSpan(ctx, "row", LineKey.Int(12))
	EndSpan(row, errors.New("remote store unreachable"))
	EndSpan(run, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "row", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, spans[1].SpanContext.TraceID(), spans[0].SpanContext.TraceID())
	assert.Equal(t, codes.Ok, spans[1].Status.Code)
}

func TestInitTracing_WritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultTracingConfig("test")
	config.Writer = &buf
	require.NoError(t, InitTracing(config))

	_, span := StartSpan(context.Background(), "flush")
	EndSpan(span, nil)
	require.NoError(t, Shutdown(context.Background()))

	assert.Contains(t, buf.String(), `"Name":"flush"`)
}
