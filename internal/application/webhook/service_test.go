package webhook

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/slotadmin/backend/internal/domain/shared"
	"github.com/slotadmin/backend/internal/domain/tenant"
)

type fakeTenantRepo struct {
	byDomain map[string]*tenant.Tenant
}

func (r *fakeTenantRepo) FindByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	for _, t := range r.byDomain {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTenantRepo) FindByShopDomain(ctx context.Context, shopDomain string) (*tenant.Tenant, error) {
	if t, ok := r.byDomain[shopDomain]; ok {
		return t, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTenantRepo) FindAll(ctx context.Context, filter shared.Filter) ([]tenant.Tenant, int64, error) {
	return nil, 0, nil
}

func (r *fakeTenantRepo) Save(ctx context.Context, t *tenant.Tenant) error { return nil }

func (r *fakeTenantRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type fakeDedupe struct {
	seen map[string]bool
}

func (d *fakeDedupe) MarkProcessed(ctx context.Context, deliveryID string, ttl time.Duration) (bool, error) {
	if d.seen == nil {
		d.seen = make(map[string]bool)
	}
	if d.seen[deliveryID] {
		return false, nil
	}
	d.seen[deliveryID] = true
	return true, nil
}

func (d *fakeDedupe) IsProcessed(ctx context.Context, deliveryID string) (bool, error) {
	return d.seen[deliveryID], nil
}

func (d *fakeDedupe) Close() error { return nil }

func newServiceFixture(t *testing.T) (*Service, *tenant.Tenant, *stubHandler) {
	t.Helper()

	tn, err := tenant.NewTenant("demo.myshopify.com", "token", "", "whsec_test")
	require.NoError(t, err)

	repo := &fakeTenantRepo{byDomain: map[string]*tenant.Tenant{tn.ShopDomain: tn}}
	dispatcher := NewDispatcher(zap.NewNop())
	handler := &stubHandler{topics: []string{"orders/create"}}
	dispatcher.Register(handler)

	svc := NewService(repo, dispatcher, &fakeDedupe{}, shared.DefaultIdempotencyConfig(), zap.NewNop())
	return svc, tn, handler
}

func validInput(tn *tenant.Tenant, body []byte) ProcessInput {
	return ProcessInput{
		ShopDomain: tn.ShopDomain,
		Topic:      "orders/create",
		Signature:  sign(body, tn.WebhookSecret),
		WebhookID:  uuid.NewString(),
		RawBody:    body,
	}
}

func TestProcessHappyPath(t *testing.T) {
	svc, tn, handler := newServiceFixture(t)
	body := []byte(`{"id":1}`)

	err := svc.Process(context.Background(), validInput(tn, body))

	require.NoError(t, err)
	assert.Equal(t, []string{"orders/create"}, handler.calls)
}

func TestProcessUnknownShopDomain(t *testing.T) {
	svc, tn, handler := newServiceFixture(t)
	body := []byte(`{"id":1}`)

	input := validInput(tn, body)
	input.ShopDomain = "other.myshopify.com"

	err := svc.Process(context.Background(), input)

	assert.ErrorIs(t, err, ErrUnknownTenant)
	assert.Empty(t, handler.calls)
}

func TestProcessShopDomainCaseInsensitive(t *testing.T) {
	svc, tn, handler := newServiceFixture(t)
	body := []byte(`{"id":1}`)

	input := validInput(tn, body)
	input.ShopDomain = "DEMO.MyShopify.com"

	require.NoError(t, svc.Process(context.Background(), input))
	assert.Len(t, handler.calls, 1)
}

func TestProcessBadSignature(t *testing.T) {
	svc, tn, handler := newServiceFixture(t)
	body := []byte(`{"id":1}`)

	input := validInput(tn, body)
	input.Signature = sign(body, "wrong-secret")

	err := svc.Process(context.Background(), input)

	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Empty(t, handler.calls)
}

func TestProcessMalformedJSONAfterValidSignature(t *testing.T) {
	// The platform signed garbage; signature passes, parsing does not
	svc, tn, handler := newServiceFixture(t)
	body := []byte(`{"id":`)

	err := svc.Process(context.Background(), validInput(tn, body))

	assert.ErrorIs(t, err, ErrMalformedPayload)
	assert.Empty(t, handler.calls)
}

func TestProcessSignatureCheckedBeforeParsing(t *testing.T) {
	// Garbage with a bad signature must fail with 401 semantics, not 400
	svc, tn, handler := newServiceFixture(t)
	body := []byte(`{"id":`)

	input := validInput(tn, body)
	input.Signature = "bogus"

	err := svc.Process(context.Background(), input)

	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Empty(t, handler.calls)
}

func TestProcessHandlerErrorStillAcks(t *testing.T) {
	svc, tn, handler := newServiceFixture(t)
	handler.err = assert.AnError
	body := []byte(`{"id":1}`)

	err := svc.Process(context.Background(), validInput(tn, body))

	require.NoError(t, err)
	assert.Len(t, handler.calls, 1)
}

func TestProcessDuplicateDeliveryAckedWithoutRedispatch(t *testing.T) {
	svc, tn, handler := newServiceFixture(t)
	body := []byte(`{"id":1}`)
	input := validInput(tn, body)

	require.NoError(t, svc.Process(context.Background(), input))
	require.NoError(t, svc.Process(context.Background(), input))

	assert.Len(t, handler.calls, 1)
}

func TestProcessUnknownTopicAcks(t *testing.T) {
	svc, tn, _ := newServiceFixture(t)
	body := []byte(`{"id":1}`)

	input := validInput(tn, body)
	input.Topic = "themes/publish"

	assert.NoError(t, svc.Process(context.Background(), input))
}
