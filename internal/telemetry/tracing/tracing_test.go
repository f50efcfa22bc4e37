package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/nitesh-dev/gymmora-sub000/internal/config"
)

func TestEndSpanWithErrCheck(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)).Tracer("test")

	_, ok := tracer.Start(context.Background(), "ok")
	EndSpanWithErrCheck(ok, nil)
	_, failed := tracer.Start(context.Background(), "failed")
	EndSpanWithErrCheck(failed, errors.New("boom"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "boom", spans[1].Status().Description)
	require.Len(t, spans[1].Events(), 1)
	assert.Equal(t, "exception", spans[1].Events()[0].Name)
}

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	disabled, err := NewProvider(ctx, config.TracingConfig{})
	require.NoError(t, err)
	assert.False(t, disabled.Enabled())
	assert.NotNil(t, disabled.Tracer())
	assert.NoError(t, disabled.Shutdown(ctx))

	enabled, err := NewProvider(ctx, config.TracingConfig{Enabled: true, Exporter: "none"})
	require.NoError(t, err)
	assert.True(t, enabled.Enabled())
	assert.NoError(t, enabled.Shutdown(ctx))

	_, err = NewProvider(ctx, config.TracingConfig{Enabled: true, Exporter: "carrier-pigeon"})
	assert.ErrorContains(t, err, "unsupported exporter type")
}
