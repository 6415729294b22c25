package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/slotadmin/backend/internal/domain/scheduling"
)

// TimeslotModel is the persistence model for the Timeslot domain entity
type TimeslotModel struct {
	ID         uuid.UUID         `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	Method     scheduling.Method `gorm:"type:varchar(20);not null"`
	DayOfWeek  int               `gorm:"not null"`
	StartTime  string            `gorm:"type:varchar(5);not null"`
	EndTime    string            `gorm:"type:varchar(5);not null"`
	Capacity   int               `gorm:"not null;default:0"`
	Express    bool              `gorm:"not null;default:false"`
	ExpressFee decimal.Decimal   `gorm:"type:decimal(10,2);not null;default:0"`
	Enabled    bool              `gorm:"not null;default:true"`
	CreatedAt  time.Time         `gorm:"not null"`
	UpdatedAt  time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TimeslotModel) TableName() string {
	return "timeslots"
}

// ToDomain converts the persistence model to a domain Timeslot
func (m *TimeslotModel) ToDomain() *scheduling.Timeslot {
	return &scheduling.Timeslot{
		ID:         m.ID,
		TenantID:   m.TenantID,
		Method:     m.Method,
		DayOfWeek:  time.Weekday(m.DayOfWeek),
		StartTime:  m.StartTime,
		EndTime:    m.EndTime,
		Capacity:   m.Capacity,
		Express:    m.Express,
		ExpressFee: m.ExpressFee,
		Enabled:    m.Enabled,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// TimeslotModelFromDomain creates a persistence model from a domain Timeslot
func TimeslotModelFromDomain(s *scheduling.Timeslot) *TimeslotModel {
	return &TimeslotModel{
		ID:         s.ID,
		TenantID:   s.TenantID,
		Method:     s.Method,
		DayOfWeek:  int(s.DayOfWeek),
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		Capacity:   s.Capacity,
		Express:    s.Express,
		ExpressFee: s.ExpressFee,
		Enabled:    s.Enabled,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// BlockedDateModel is the persistence model for the BlockedDate domain entity
type BlockedDateModel struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	Date      time.Time         `gorm:"type:date;not null"`
	Method    scheduling.Method `gorm:"type:varchar(20)"`
	Reason    string            `gorm:"type:varchar(255)"`
	CreatedAt time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BlockedDateModel) TableName() string {
	return "blocked_dates"
}

// ToDomain converts the persistence model to a domain BlockedDate
func (m *BlockedDateModel) ToDomain() *scheduling.BlockedDate {
	return &scheduling.BlockedDate{
		ID:        m.ID,
		TenantID:  m.TenantID,
		Date:      m.Date,
		Method:    m.Method,
		Reason:    m.Reason,
		CreatedAt: m.CreatedAt,
	}
}

// BlockedDateModelFromDomain creates a persistence model from a domain BlockedDate
func BlockedDateModelFromDomain(b *scheduling.BlockedDate) *BlockedDateModel {
	return &BlockedDateModel{
		ID:        b.ID,
		TenantID:  b.TenantID,
		Date:      b.Date,
		Method:    b.Method,
		Reason:    b.Reason,
		CreatedAt: b.CreatedAt,
	}
}

// SettingsModel is the persistence model for per-tenant booking settings.
// One row per tenant, enforced by the unique index on tenant_id.
type SettingsModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	DeliveryEnabled   bool      `gorm:"not null;default:true"`
	CollectionEnabled bool      `gorm:"not null;default:true"`
	LeadTimeHours     int       `gorm:"not null;default:24"`
	MaxAdvanceDays    int       `gorm:"not null;default:14"`
	CutoffTime        string    `gorm:"type:varchar(5);not null;default:'17:00'"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SettingsModel) TableName() string {
	return "scheduling_settings"
}

// ToDomain converts the persistence model to a domain Settings
func (m *SettingsModel) ToDomain() *scheduling.Settings {
	return &scheduling.Settings{
		ID:                m.ID,
		TenantID:          m.TenantID,
		DeliveryEnabled:   m.DeliveryEnabled,
		CollectionEnabled: m.CollectionEnabled,
		LeadTimeHours:     m.LeadTimeHours,
		MaxAdvanceDays:    m.MaxAdvanceDays,
		CutoffTime:        m.CutoffTime,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// SettingsModelFromDomain creates a persistence model from a domain Settings
func SettingsModelFromDomain(s *scheduling.Settings) *SettingsModel {
	return &SettingsModel{
		ID:                s.ID,
		TenantID:          s.TenantID,
		DeliveryEnabled:   s.DeliveryEnabled,
		CollectionEnabled: s.CollectionEnabled,
		LeadTimeHours:     s.LeadTimeHours,
		MaxAdvanceDays:    s.MaxAdvanceDays,
		CutoffTime:        s.CutoffTime,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}
