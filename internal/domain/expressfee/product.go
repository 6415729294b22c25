package expressfee

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Fee products are identified in the remote catalog purely by a deterministic
// signature: a title derived from the amount, plus a fixed vendor, product
// type and tag. No product-ID-to-amount mapping is persisted locally; the
// mapping is re-derived from the catalog on every reconciliation, so local
// state can never drift from the store.
const (
	// ProductVendor marks fee products as owned by this app
	ProductVendor = "Slot Admin"
	// ProductType categorizes fee products in the catalog
	ProductType = "Delivery Surcharge"
	// ProductTag is the marker tag used to list all fee products
	ProductTag = "slotadmin-express-fee"
)

// ProductTitle returns the deterministic title for a fee amount.
// The amount is always rendered with two decimals so "5", "5.0" and "5.00"
// produce the same product.
func ProductTitle(amount decimal.Decimal) string {
	return fmt.Sprintf("Express Slot Fee %s", amount.Round(2).StringFixed(2))
}

// ProductSKU returns the deterministic SKU for a fee amount
func ProductSKU(amount decimal.Decimal) string {
	return fmt.Sprintf("SLOTADMIN-EXPRESS-%s", amount.Round(2).StringFixed(2))
}

// FeeProduct is the catalog-side representation of a fee amount
type FeeProduct struct {
	RemoteID  int64
	VariantID int64
	Title     string
	SKU       string
	Price     decimal.Decimal
	Vendor    string
	Tags      string
}

// PriceMatches reports whether the remote price equals the amount at
// two-decimal precision
func (p *FeeProduct) PriceMatches(amount decimal.Decimal) bool {
	return p.Price.Round(2).Equal(amount.Round(2))
}
