package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func restoreTracerProvider(t *testing.T, provider *sdktrace.TracerProvider) {
	t.Helper()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})
}

func newObservedCore(level zapcore.Level) (zapcore.Core, *observer.ObservedLogs) {
	return observer.New(level)
}

func TestDisabledProvidersAreNoops(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	tp, err := NewTracerProvider(ctx, Config{Enabled: false}, log)
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NoError(t, tp.Shutdown(ctx))
	assert.NoError(t, tp.ForceFlush(ctx))

	mp, err := NewMeterProvider(ctx, MetricsConfig{Enabled: false}, log)
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NoError(t, mp.Shutdown(ctx))
	assert.NotNil(t, mp.Meter("test"))

	lp, err := NewLoggerProvider(ctx, LogsConfig{Enabled: false}, log)
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.Shutdown(ctx))

	core := lp.NewZapCore(zapcore.InfoLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))
}

func TestStartSpanRecordsServiceAndMethod(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	restoreTracerProvider(t, provider)

	ctx, span := StartSpan(context.Background(), "reconcile", "run")
	assert.NotNil(t, ctx)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "reconcile.run", spans[0].Name())
}

func TestReconcileMetricsRecordsCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	metrics, err := NewReconcileMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	tenantID := uuid.New()
	metrics.RecordRun(ctx, tenantID, "manual", "completed", 120*time.Millisecond)
	metrics.RecordOutcomes(ctx, tenantID, 2, 1, 0, 0)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.NotEmpty(t, rm.ScopeMetrics)

	names := make(map[string]bool)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}
	assert.True(t, names["slotadmin_reconcile_runs_total"])
	assert.True(t, names["slotadmin_reconcile_duration_seconds"])
	assert.True(t, names["slotadmin_fee_products_created_total"])
	assert.True(t, names["slotadmin_fee_products_updated_total"])
	// Zero-valued outcomes are never recorded
	assert.False(t, names["slotadmin_fee_products_deleted_total"])
	assert.False(t, names["slotadmin_reconcile_amount_errors_total"])
}

func TestNilReconcileMetricsIsSafe(t *testing.T) {
	var metrics *ReconcileMetrics
	metrics.RecordRun(context.Background(), uuid.New(), "manual", "completed", time.Second)
	metrics.RecordOutcomes(context.Background(), uuid.New(), 1, 1, 1, 1)
}

func TestLevelFilterCoreDropsBelowMinimum(t *testing.T) {
	observed, logs := newObservedCore(zapcore.DebugLevel)
	filtered := &levelFilterCore{Core: observed, minLevel: zapcore.WarnLevel}
	logger := zap.New(filtered)

	logger.Info("dropped")
	logger.Warn("kept")
	logger.Error("also kept")

	require.Len(t, logs.All(), 2)
	assert.Equal(t, "kept", logs.All()[0].Message)
}
