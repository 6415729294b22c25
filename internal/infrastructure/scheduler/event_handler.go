package scheduler

import (
	"context"

	"go.uber.org/zap"

	"github.com/slotadmin/backend/internal/domain/scheduling"
	"github.com/slotadmin/backend/internal/domain/shared"
	"github.com/slotadmin/backend/internal/domain/tenant"
)

// ReconcileEventHandler schedules a catalog reconciliation whenever timeslot
// configuration or tenant credentials change
type ReconcileEventHandler struct {
	scheduler *ReconcileScheduler
	logger    *zap.Logger
}

// NewReconcileEventHandler creates the handler
func NewReconcileEventHandler(scheduler *ReconcileScheduler, logger *zap.Logger) *ReconcileEventHandler {
	return &ReconcileEventHandler{
		scheduler: scheduler,
		logger:    logger.Named("reconcile_events"),
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *ReconcileEventHandler) EventTypes() []string {
	return []string{
		scheduling.EventTypeConfigChanged,
		tenant.EventTypeCredentialsSaved,
	}
}

// Handle schedules a run for the event's tenant
func (h *ReconcileEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.logger.Debug("Scheduling reconciliation from event",
		zap.String("event_type", event.EventType()),
		zap.String("tenant_id", event.TenantID().String()),
	)
	h.scheduler.Schedule(event.TenantID(), event.EventType())
	return nil
}

var _ shared.EventHandler = (*ReconcileEventHandler)(nil)
