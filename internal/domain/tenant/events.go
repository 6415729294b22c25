package tenant

import (
	"github.com/google/uuid"

	"github.com/slotadmin/backend/internal/domain/shared"
)

// Event types
const (
	EventTypeCredentialsSaved = "tenant.credentials_saved"
	EventTypeUninstalled      = "tenant.uninstalled"
)

const aggregateType = "Tenant"

// CredentialsSavedEvent is published when a tenant's storefront credentials
// are created or updated
type CredentialsSavedEvent struct {
	shared.BaseDomainEvent
	ShopDomain string `json:"shop_domain"`
}

// NewCredentialsSavedEvent creates a credentials saved event
func NewCredentialsSavedEvent(t *Tenant) *CredentialsSavedEvent {
	return &CredentialsSavedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCredentialsSaved, aggregateType, t.ID, t.ID),
		ShopDomain:      t.ShopDomain,
	}
}

// UninstalledEvent is published when the app is removed from a store
type UninstalledEvent struct {
	shared.BaseDomainEvent
	ShopDomain string `json:"shop_domain"`
}

// NewUninstalledEvent creates an uninstalled event
func NewUninstalledEvent(id uuid.UUID, shopDomain string) *UninstalledEvent {
	return &UninstalledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUninstalled, aggregateType, id, id),
		ShopDomain:      shopDomain,
	}
}
