package expressfee

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Catalog errors
var (
	ErrCatalogUnavailable   = errors.New("expressfee: remote catalog unavailable")
	ErrCatalogRequestFailed = errors.New("expressfee: remote catalog request failed")
	ErrCatalogUnauthorized  = errors.New("expressfee: remote catalog rejected credentials")
	ErrProductNotFound      = errors.New("expressfee: fee product not found")
)

// CatalogCredentials carries what a catalog call needs to reach a store
type CatalogCredentials struct {
	ShopDomain  string
	AccessToken string
	APIVersion  string
}

// RemoteCatalog is the port to the storefront product catalog. Implementations
// talk to the platform Admin API; the reconciliation engine only sees fee
// products and amounts.
type RemoteCatalog interface {
	// FindBySignature looks up the fee product for an amount by its
	// deterministic title. Returns ErrProductNotFound when absent.
	FindBySignature(ctx context.Context, creds CatalogCredentials, amount decimal.Decimal) (*FeeProduct, error)

	// Create creates a hidden fee product for the amount and returns it
	Create(ctx context.Context, creds CatalogCredentials, amount decimal.Decimal) (*FeeProduct, error)

	// UpdatePrice sets the price of an existing fee product
	UpdatePrice(ctx context.Context, creds CatalogCredentials, product *FeeProduct, amount decimal.Decimal) error

	// ListByMarker returns every product carrying the fee product marker tag
	ListByMarker(ctx context.Context, creds CatalogCredentials) ([]FeeProduct, error)

	// Delete removes a fee product from the catalog
	Delete(ctx context.Context, creds CatalogCredentials, remoteID int64) error
}
