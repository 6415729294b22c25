package tenant

import (
	"context"

	"github.com/google/uuid"

	"github.com/slotadmin/backend/internal/domain/shared"
)

// Repository provides access to tenant credentials.
// FindByShopDomain is the hot path: every webhook delivery resolves its
// tenant through it, so implementations must back it with a unique index
// on the normalized shop domain rather than scanning.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByShopDomain(ctx context.Context, shopDomain string) (*Tenant, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Tenant, int64, error)
	Save(ctx context.Context, t *Tenant) error
	Delete(ctx context.Context, id uuid.UUID) error
}
