package webhook

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/slotadmin/backend/internal/domain/tenant"
)

// Delivery is a verified webhook delivery handed to topic handlers
type Delivery struct {
	Tenant     *tenant.Tenant
	Topic      string
	WebhookID  string
	APIVersion string
	Payload    []byte
}

// TopicHandler processes deliveries for a set of topics
type TopicHandler interface {
	// Topics returns the webhook topics this handler subscribes to
	Topics() []string
	// Handle processes a delivery for one of the handler's topics
	Handle(ctx context.Context, delivery *Delivery) error
}

// Dispatcher routes verified deliveries to topic handlers.
//
// The dispatch contract is deliberately forgiving: unknown topics are
// acknowledged without work, and handler errors or panics are logged but
// never surface to the HTTP layer. Returning an error there would make the
// platform retry a delivery that already passed verification, which at best
// duplicates work and at worst loops forever on a poison payload.
type Dispatcher struct {
	handlers map[string]TopicHandler
	logger   *zap.Logger
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]TopicHandler),
		logger:   logger,
	}
}

// Register wires a handler for all of its topics.
// Registering a second handler for the same topic replaces the first.
func (d *Dispatcher) Register(handler TopicHandler) {
	for _, topic := range handler.Topics() {
		d.handlers[topic] = handler
	}
}

// Topics returns all registered topics (for webhook subscription setup)
func (d *Dispatcher) Topics() []string {
	topics := make([]string, 0, len(d.handlers))
	for topic := range d.handlers {
		topics = append(topics, topic)
	}
	return topics
}

// Dispatch routes a delivery to its topic handler
func (d *Dispatcher) Dispatch(ctx context.Context, delivery *Delivery) {
	handler, ok := d.handlers[delivery.Topic]
	if !ok {
		d.logger.Debug("no handler for webhook topic, acknowledging",
			zap.String("topic", delivery.Topic),
			zap.String("shop_domain", delivery.Tenant.ShopDomain),
		)
		return
	}

	if err := d.invoke(ctx, handler, delivery); err != nil {
		d.logger.Error("webhook handler failed",
			zap.String("topic", delivery.Topic),
			zap.String("shop_domain", delivery.Tenant.ShopDomain),
			zap.String("webhook_id", delivery.WebhookID),
			zap.Error(err),
		)
	}
}

// invoke runs a handler, converting panics into errors
func (d *Dispatcher) invoke(ctx context.Context, handler TopicHandler, delivery *Delivery) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("webhook: handler panicked: %v", r)
		}
	}()

	return handler.Handle(ctx, delivery)
}
