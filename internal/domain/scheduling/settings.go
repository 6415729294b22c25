package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/slotadmin/backend/internal/domain/shared"
)

// Settings holds per-tenant storefront booking configuration
type Settings struct {
	ID                 uuid.UUID
	TenantID           uuid.UUID
	DeliveryEnabled    bool
	CollectionEnabled  bool
	LeadTimeHours      int // minimum notice before the earliest bookable window
	MaxAdvanceDays     int // how far ahead customers can book
	CutoffTime         string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DefaultSettings returns the settings a fresh tenant starts with
func DefaultSettings(tenantID uuid.UUID) *Settings {
	now := time.Now()
	return &Settings{
		ID:                uuid.New(),
		TenantID:          tenantID,
		DeliveryEnabled:   true,
		CollectionEnabled: true,
		LeadTimeHours:     24,
		MaxAdvanceDays:    14,
		CutoffTime:        "17:00",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Update applies a settings change
func (s *Settings) Update(deliveryEnabled, collectionEnabled bool, leadTimeHours, maxAdvanceDays int, cutoffTime string) error {
	if leadTimeHours < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Lead time cannot be negative")
	}
	if maxAdvanceDays < 1 {
		return shared.NewDomainError("INVALID_INPUT", "Max advance days must be at least 1")
	}
	if cutoffTime != "" {
		if _, err := time.Parse("15:04", cutoffTime); err != nil {
			return shared.NewDomainError("INVALID_INPUT", "Cutoff time must be in HH:MM format")
		}
		s.CutoffTime = cutoffTime
	}
	s.DeliveryEnabled = deliveryEnabled
	s.CollectionEnabled = collectionEnabled
	s.LeadTimeHours = leadTimeHours
	s.MaxAdvanceDays = maxAdvanceDays
	s.UpdatedAt = time.Now()
	return nil
}
