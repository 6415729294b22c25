package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/slotadmin/backend/internal/application/webhook"
	"github.com/slotadmin/backend/internal/domain/shared"
	"github.com/slotadmin/backend/internal/domain/tenant"
)

type stubTenantRepo struct {
	byDomain map[string]*tenant.Tenant
}

func (r *stubTenantRepo) FindByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return nil, shared.ErrNotFound
}

func (r *stubTenantRepo) FindByShopDomain(ctx context.Context, shopDomain string) (*tenant.Tenant, error) {
	if t, ok := r.byDomain[shopDomain]; ok {
		return t, nil
	}
	return nil, shared.ErrNotFound
}

func (r *stubTenantRepo) FindAll(ctx context.Context, filter shared.Filter) ([]tenant.Tenant, int64, error) {
	return nil, 0, nil
}

func (r *stubTenantRepo) Save(ctx context.Context, t *tenant.Tenant) error { return nil }
func (r *stubTenantRepo) Delete(ctx context.Context, id uuid.UUID) error   { return nil }

type noopDedupe struct{}

func (noopDedupe) MarkProcessed(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	return true, nil
}
func (noopDedupe) IsProcessed(ctx context.Context, id string) (bool, error) { return false, nil }
func (noopDedupe) Close() error                                             { return nil }

const testSecret = "whsec_test"

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func newWebhookRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	shop, err := tenant.NewTenant("test-shop.myshopify.com", "shpat_x", "2024-10", testSecret)
	require.NoError(t, err)

	repo := &stubTenantRepo{byDomain: map[string]*tenant.Tenant{shop.ShopDomain: shop}}
	dispatcher := webhook.NewDispatcher(zap.NewNop())
	service := webhook.NewService(repo, dispatcher, noopDedupe{}, shared.IdempotencyConfig{}, zap.NewNop())

	engine := gin.New()
	NewWebhookHandler(service, zap.NewNop()).RegisterRoutes(engine.Group("/webhooks"))
	return engine
}

func deliver(engine *gin.Engine, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/shopify", bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestWebhookAcknowledgesValidDelivery(t *testing.T) {
	engine := newWebhookRouter(t)
	body := []byte(`{"id":123}`)

	w := deliver(engine, body, map[string]string{
		headerShopDomain: "test-shop.myshopify.com",
		headerTopic:      "products/update",
		headerHmac:       sign(body, testSecret),
		headerWebhookID:  "wh-1",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"received":true`)
}

func TestWebhookUnknownShopIs404(t *testing.T) {
	engine := newWebhookRouter(t)
	body := []byte(`{"id":123}`)

	w := deliver(engine, body, map[string]string{
		headerShopDomain: "stranger.myshopify.com",
		headerTopic:      "products/update",
		headerHmac:       sign(body, testSecret),
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebhookBadSignatureIs401(t *testing.T) {
	engine := newWebhookRouter(t)
	body := []byte(`{"id":123}`)

	w := deliver(engine, body, map[string]string{
		headerShopDomain: "test-shop.myshopify.com",
		headerTopic:      "products/update",
		headerHmac:       sign([]byte("tampered"), testSecret),
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookMissingSignatureIs401(t *testing.T) {
	engine := newWebhookRouter(t)

	w := deliver(engine, []byte(`{"id":123}`), map[string]string{
		headerShopDomain: "test-shop.myshopify.com",
		headerTopic:      "products/update",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookMalformedJSONIs400AfterSignaturePasses(t *testing.T) {
	engine := newWebhookRouter(t)
	body := []byte(`{"id":`)

	w := deliver(engine, body, map[string]string{
		headerShopDomain: "test-shop.myshopify.com",
		headerTopic:      "products/update",
		headerHmac:       sign(body, testSecret),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookUnknownTopicStillAcknowledged(t *testing.T) {
	engine := newWebhookRouter(t)
	body := []byte(`{"id":123}`)

	w := deliver(engine, body, map[string]string{
		headerShopDomain: "test-shop.myshopify.com",
		headerTopic:      "themes/publish",
		headerHmac:       sign(body, testSecret),
	})

	assert.Equal(t, http.StatusOK, w.Code)
}
