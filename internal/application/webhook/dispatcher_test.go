package webhook

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/slotadmin/backend/internal/domain/tenant"
)

type stubHandler struct {
	topics  []string
	calls   []string
	err     error
	panicky bool
}

func (h *stubHandler) Topics() []string { return h.topics }

func (h *stubHandler) Handle(ctx context.Context, delivery *Delivery) error {
	h.calls = append(h.calls, delivery.Topic)
	if h.panicky {
		panic("boom")
	}
	return h.err
}

func testDelivery(t *testing.T, topic string) *Delivery {
	t.Helper()
	tn, err := tenant.NewTenant("demo.myshopify.com", "token", "", "secret")
	require.NoError(t, err)
	return &Delivery{Tenant: tn, Topic: topic, WebhookID: "wh-1", Payload: []byte(`{}`)}
}

func TestDispatcherRoutesByTopic(t *testing.T) {
	d := NewDispatcher(zap.NewNop())
	orders := &stubHandler{topics: []string{"orders/create", "orders/updated"}}
	products := &stubHandler{topics: []string{"products/update"}}
	d.Register(orders)
	d.Register(products)

	d.Dispatch(context.Background(), testDelivery(t, "orders/create"))
	d.Dispatch(context.Background(), testDelivery(t, "products/update"))

	assert.Equal(t, []string{"orders/create"}, orders.calls)
	assert.Equal(t, []string{"products/update"}, products.calls)
}

func TestDispatcherIgnoresUnknownTopics(t *testing.T) {
	d := NewDispatcher(zap.NewNop())
	h := &stubHandler{topics: []string{"orders/create"}}
	d.Register(h)

	// Must not panic or call anything
	d.Dispatch(context.Background(), testDelivery(t, "themes/publish"))

	assert.Empty(t, h.calls)
}

func TestDispatcherSwallowsHandlerErrors(t *testing.T) {
	d := NewDispatcher(zap.NewNop())
	h := &stubHandler{topics: []string{"orders/create"}, err: errors.New("downstream broken")}
	d.Register(h)

	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), testDelivery(t, "orders/create"))
	})
	assert.Len(t, h.calls, 1)
}

func TestDispatcherRecoversHandlerPanics(t *testing.T) {
	d := NewDispatcher(zap.NewNop())
	h := &stubHandler{topics: []string{"orders/create"}, panicky: true}
	d.Register(h)

	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), testDelivery(t, "orders/create"))
	})
}

func TestDispatcherTopics(t *testing.T) {
	d := NewDispatcher(zap.NewNop())
	d.Register(&stubHandler{topics: []string{"orders/create", "products/update"}})

	assert.ElementsMatch(t, []string{"orders/create", "products/update"}, d.Topics())
}
