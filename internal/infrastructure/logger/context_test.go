package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGetTraceIDWithoutSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
	assert.Empty(t, GetSpanID(context.Background()))
}

func TestWithTraceContextWithoutSpanReturnsSameLogger(t *testing.T) {
	log := zap.NewNop()
	assert.Same(t, log, WithTraceContext(context.Background(), log))
}

func TestWithTraceContextAddsTraceFields(t *testing.T) {
	provider := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	ctx, span := provider.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	core, logs := observer.New(zapcore.InfoLevel)
	WithTraceContext(ctx, zap.New(core)).Info("traced")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, GetTraceID(ctx), fields["trace_id"])
	assert.Equal(t, GetSpanID(ctx), fields["span_id"])
	assert.NotEmpty(t, fields["trace_id"])
}
