package expressfee

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RunKind distinguishes audit records
type RunKind string

const (
	RunKindReconcile RunKind = "RECONCILE"
	RunKindCleanup   RunKind = "CLEANUP"
)

// RunStatus is the outcome of a run
type RunStatus string

const (
	RunStatusSuccess RunStatus = "SUCCESS"
	RunStatusPartial RunStatus = "PARTIAL"
	RunStatusFailed  RunStatus = "FAILED"
)

// ReconciliationLog is the persisted audit record of a run
type ReconciliationLog struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Kind         RunKind
	Status       RunStatus
	Trigger      string // webhook topic, config change or manual
	CreatedCount int
	UpdatedCount int
	SkippedCount int
	DeletedCount int
	ErrorCount   int
	ErrorDetail  string
	StartedAt    time.Time
	CompletedAt  time.Time
}

// StatusFor derives the run status from processed and failed counts
func StatusFor(processed, failed int) RunStatus {
	switch {
	case failed == 0:
		return RunStatusSuccess
	case processed > failed:
		return RunStatusPartial
	default:
		return RunStatusFailed
	}
}

// LogRepository persists reconciliation audit records
type LogRepository interface {
	Save(ctx context.Context, log *ReconciliationLog) error
	FindRecentForTenant(ctx context.Context, tenantID uuid.UUID, limit int) ([]ReconciliationLog, error)
	DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error
}
