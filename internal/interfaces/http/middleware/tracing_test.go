package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})
	return recorder
}

func spanAttributes(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	return attrs
}

func TestTracingDisabledPassesThrough(t *testing.T) {
	recorder := newSpanRecorder(t)

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(Tracing(TracingConfig{Enabled: false}))
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, recorder.Ended())
}

func TestTraceEnrichmentAddsRequestAndTenantIDs(t *testing.T) {
	recorder := newSpanRecorder(t)
	tenantID := uuid.New()

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(
		RequestID(),
		Tracing(TracingConfig{ServiceName: "slotadmin", Enabled: true}),
		TraceEnrichment(),
	)
	engine.GET("/tenants/:id/timeslots", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tenants/"+tenantID.String()+"/timeslots", nil)
	req.Header.Set("X-Request-ID", "req-123")
	engine.ServeHTTP(rec, req)

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	attrs := spanAttributes(spans[0])
	assert.Equal(t, "req-123", attrs["request_id"].AsString())
	assert.Equal(t, tenantID.String(), attrs["tenant_id"].AsString())
}

func TestTraceEnrichmentIgnoresNonUUIDPathParam(t *testing.T) {
	recorder := newSpanRecorder(t)

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(
		Tracing(TracingConfig{ServiceName: "slotadmin", Enabled: true}),
		TraceEnrichment(),
	)
	engine.GET("/tenants/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tenants/not-a-uuid", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	attrs := spanAttributes(spans[0])
	_, hasTenant := attrs["tenant_id"]
	assert.False(t, hasTenant)
}

func TestTraceEnrichmentMarksErrorResponses(t *testing.T) {
	recorder := newSpanRecorder(t)

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(
		Tracing(TracingConfig{ServiceName: "slotadmin", Enabled: true}),
		TraceEnrichment(),
	)
	engine.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}
