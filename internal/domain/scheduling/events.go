package scheduling

import (
	"github.com/google/uuid"

	"github.com/slotadmin/backend/internal/domain/shared"
)

// Event types
const (
	EventTypeConfigChanged = "scheduling.config_changed"
)

// ConfigChangedEvent is published whenever timeslot configuration changes in
// a way that can affect the express fee set (slot saved, deleted, express
// flag or fee edited). Subscribers use it to trigger catalog reconciliation.
type ConfigChangedEvent struct {
	shared.BaseDomainEvent
}

// NewConfigChangedEvent creates a config changed event for a tenant
func NewConfigChangedEvent(tenantID uuid.UUID) *ConfigChangedEvent {
	return &ConfigChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeConfigChanged, "TimeslotConfig", tenantID, tenantID),
	}
}
