package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/slotadmin/backend/internal/domain/expressfee"
)

// ReconciliationLogModel is the persistence model for reconciliation audit records
type ReconciliationLogModel struct {
	ID           uuid.UUID            `gorm:"type:uuid;primary_key"`
	TenantID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	Kind         expressfee.RunKind   `gorm:"type:varchar(20);not null"`
	Status       expressfee.RunStatus `gorm:"type:varchar(20);not null"`
	Trigger      string               `gorm:"type:varchar(100)"`
	CreatedCount int                  `gorm:"not null;default:0"`
	UpdatedCount int                  `gorm:"not null;default:0"`
	SkippedCount int                  `gorm:"not null;default:0"`
	DeletedCount int                  `gorm:"not null;default:0"`
	ErrorCount   int                  `gorm:"not null;default:0"`
	ErrorDetail  string               `gorm:"type:text"`
	StartedAt    time.Time            `gorm:"not null"`
	CompletedAt  time.Time            `gorm:"not null"`
	CreatedAt    time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReconciliationLogModel) TableName() string {
	return "reconciliation_logs"
}

// ToDomain converts the persistence model to a domain ReconciliationLog
func (m *ReconciliationLogModel) ToDomain() *expressfee.ReconciliationLog {
	return &expressfee.ReconciliationLog{
		ID:           m.ID,
		TenantID:     m.TenantID,
		Kind:         m.Kind,
		Status:       m.Status,
		Trigger:      m.Trigger,
		CreatedCount: m.CreatedCount,
		UpdatedCount: m.UpdatedCount,
		SkippedCount: m.SkippedCount,
		DeletedCount: m.DeletedCount,
		ErrorCount:   m.ErrorCount,
		ErrorDetail:  m.ErrorDetail,
		StartedAt:    m.StartedAt,
		CompletedAt:  m.CompletedAt,
	}
}

// ReconciliationLogModelFromDomain creates a persistence model from a domain ReconciliationLog
func ReconciliationLogModelFromDomain(l *expressfee.ReconciliationLog) *ReconciliationLogModel {
	return &ReconciliationLogModel{
		ID:           l.ID,
		TenantID:     l.TenantID,
		Kind:         l.Kind,
		Status:       l.Status,
		Trigger:      l.Trigger,
		CreatedCount: l.CreatedCount,
		UpdatedCount: l.UpdatedCount,
		SkippedCount: l.SkippedCount,
		DeletedCount: l.DeletedCount,
		ErrorCount:   l.ErrorCount,
		ErrorDetail:  l.ErrorDetail,
		StartedAt:    l.StartedAt,
		CompletedAt:  l.CompletedAt,
		CreatedAt:    time.Now(),
	}
}
