package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/slotadmin/backend/internal/domain/expressfee"
	"github.com/slotadmin/backend/internal/infrastructure/scheduler"
)

type blockableReconciler struct {
	blocking chan struct{}
	inFlight chan struct{}
}

func (r *blockableReconciler) Reconcile(ctx context.Context, tenantID uuid.UUID, trigger string) (*expressfee.ReconcileResult, error) {
	if r.inFlight != nil {
		r.inFlight <- struct{}{}
	}
	if r.blocking != nil {
		select {
		case <-r.blocking:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &expressfee.ReconcileResult{
		Created:     []decimal.Decimal{decimal.RequireFromString("5.99")},
		StartedAt:   time.Now(),
		CompletedAt: time.Now(),
	}, nil
}

func newAutomationRouter(t *testing.T, reconciler scheduler.Reconciler) (*gin.Engine, *scheduler.ReconcileScheduler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sched, err := scheduler.NewReconcileScheduler(scheduler.DefaultConfig(), reconciler, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, sched.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = sched.Stop(ctx)
	})

	engine := gin.New()
	NewAutomationHandler(sched, nil, zap.NewNop()).RegisterRoutes(engine.Group("/api/v1"))
	return engine, sched
}

func TestRunReconcileReturnsResult(t *testing.T) {
	engine, _ := newAutomationRouter(t, &blockableReconciler{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tenants/"+uuid.NewString()+"/reconcile", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"created":["5.99"]`)
}

func TestRunReconcileConflictsWhileRunActive(t *testing.T) {
	reconciler := &blockableReconciler{
		blocking: make(chan struct{}),
		inFlight: make(chan struct{}, 1),
	}
	engine, sched := newAutomationRouter(t, reconciler)
	tenantID := uuid.New()

	sched.Schedule(tenantID, "webhook")
	<-reconciler.inFlight

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tenants/"+tenantID.String()+"/reconcile", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_RUN_IN_PROGRESS")

	close(reconciler.blocking)
}

func TestRunReconcileRejectsBadTenantID(t *testing.T) {
	engine, _ := newAutomationRouter(t, &blockableReconciler{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tenants/not-a-uuid/reconcile", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
