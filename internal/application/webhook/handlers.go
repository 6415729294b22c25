package webhook

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/slotadmin/backend/internal/domain/expressfee"
)

// ReconcileTrigger schedules a fee product reconciliation run.
// Scheduling is fire-and-forget: webhook handlers must never block on a
// catalog round trip.
type ReconcileTrigger interface {
	Schedule(tenantID uuid.UUID, reason string)
}

// TenantOffboarder removes all stored data for a tenant
type TenantOffboarder interface {
	Offboard(ctx context.Context, tenantID uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Catalog topics
// ---------------------------------------------------------------------------

// CatalogHandler reacts to remote product changes. When a merchant edits or
// deletes one of our fee products in the store admin, reconciliation puts it
// back in the expected state.
type CatalogHandler struct {
	trigger ReconcileTrigger
	logger  *zap.Logger
}

// NewCatalogHandler creates a catalog topic handler
func NewCatalogHandler(trigger ReconcileTrigger, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{trigger: trigger, logger: logger}
}

// Topics implements TopicHandler
func (h *CatalogHandler) Topics() []string {
	return []string{"products/create", "products/update", "products/delete"}
}

type productPayload struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Vendor string `json:"vendor"`
	Tags   string `json:"tags"`
}

// Handle schedules reconciliation when the changed product looks like one of
// ours. products/delete payloads carry only the ID, so those always schedule.
func (h *CatalogHandler) Handle(ctx context.Context, delivery *Delivery) error {
	var product productPayload
	if err := json.Unmarshal(delivery.Payload, &product); err != nil {
		// Verified JSON that doesn't match the product shape: nothing to do
		return nil
	}

	if delivery.Topic != "products/delete" && !isFeeProduct(product) {
		return nil
	}

	h.logger.Info("catalog change touches fee products, scheduling reconciliation",
		zap.String("shop_domain", delivery.Tenant.ShopDomain),
		zap.String("topic", delivery.Topic),
		zap.Int64("product_id", product.ID),
	)
	h.trigger.Schedule(delivery.Tenant.ID, delivery.Topic)
	return nil
}

func isFeeProduct(p productPayload) bool {
	if p.Vendor == expressfee.ProductVendor {
		return true
	}
	for _, tag := range strings.Split(p.Tags, ",") {
		if strings.TrimSpace(tag) == expressfee.ProductTag {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Order topics
// ---------------------------------------------------------------------------

// OrderHandler records slot bookings carried on order note attributes
type OrderHandler struct {
	logger *zap.Logger
}

// NewOrderHandler creates an order topic handler
func NewOrderHandler(logger *zap.Logger) *OrderHandler {
	return &OrderHandler{logger: logger}
}

// Topics implements TopicHandler
func (h *OrderHandler) Topics() []string {
	return []string{"orders/create", "orders/updated", "orders/cancelled", "fulfillments/create", "fulfillments/update"}
}

type orderPayload struct {
	ID             int64 `json:"id"`
	NoteAttributes []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"note_attributes"`
}

// Handle logs the booked slot for observability
func (h *OrderHandler) Handle(ctx context.Context, delivery *Delivery) error {
	var order orderPayload
	if err := json.Unmarshal(delivery.Payload, &order); err != nil {
		return nil
	}

	fields := []zap.Field{
		zap.String("shop_domain", delivery.Tenant.ShopDomain),
		zap.String("topic", delivery.Topic),
		zap.Int64("order_id", order.ID),
	}
	for _, attr := range order.NoteAttributes {
		switch attr.Name {
		case "Delivery Date", "Collection Date":
			fields = append(fields, zap.String("slot_date", attr.Value))
		case "Delivery Time", "Collection Time":
			fields = append(fields, zap.String("slot_window", attr.Value))
		}
	}

	h.logger.Info("order event received", fields...)
	return nil
}

// ---------------------------------------------------------------------------
// Store activity topics
// ---------------------------------------------------------------------------

// ActivityHandler acknowledges informational topics the app subscribes to
// but takes no action on
type ActivityHandler struct {
	logger *zap.Logger
}

// NewActivityHandler creates an activity topic handler
func NewActivityHandler(logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{logger: logger}
}

// Topics implements TopicHandler
func (h *ActivityHandler) Topics() []string {
	return []string{
		"carts/create", "carts/update",
		"customers/create", "customers/update",
		"inventory_levels/update",
	}
}

// Handle implements TopicHandler
func (h *ActivityHandler) Handle(ctx context.Context, delivery *Delivery) error {
	h.logger.Debug("store activity received",
		zap.String("shop_domain", delivery.Tenant.ShopDomain),
		zap.String("topic", delivery.Topic),
	)
	return nil
}

// ---------------------------------------------------------------------------
// App lifecycle topics
// ---------------------------------------------------------------------------

// LifecycleHandler handles app install lifecycle. On uninstall all tenant
// data is removed; the store keeps its fee products since the app has no
// credentials to clean them up after the token is revoked.
type LifecycleHandler struct {
	offboarder TenantOffboarder
	logger     *zap.Logger
}

// NewLifecycleHandler creates a lifecycle topic handler
func NewLifecycleHandler(offboarder TenantOffboarder, logger *zap.Logger) *LifecycleHandler {
	return &LifecycleHandler{offboarder: offboarder, logger: logger}
}

// Topics implements TopicHandler
func (h *LifecycleHandler) Topics() []string {
	return []string{"app/uninstalled"}
}

// Handle implements TopicHandler
func (h *LifecycleHandler) Handle(ctx context.Context, delivery *Delivery) error {
	h.logger.Info("app uninstalled, removing tenant data",
		zap.String("shop_domain", delivery.Tenant.ShopDomain),
	)
	return h.offboarder.Offboard(ctx, delivery.Tenant.ID)
}
