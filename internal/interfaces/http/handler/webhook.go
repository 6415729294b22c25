package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/slotadmin/backend/internal/application/webhook"
	"github.com/slotadmin/backend/internal/interfaces/http/dto"
)

// Shopify webhook headers
const (
	headerHmac       = "X-Shopify-Hmac-Sha256"
	headerShopDomain = "X-Shopify-Shop-Domain"
	headerTopic      = "X-Shopify-Topic"
	headerWebhookID  = "X-Shopify-Webhook-Id"
	headerAPIVersion = "X-Shopify-Api-Version"
)

// WebhookHandler receives storefront webhook deliveries.
//
// The status code is a contract with the platform's retry machinery:
// 401 and 404 tell it the delivery was rejected before the payload was
// trusted, 400 flags a broken payload, and 200 means "received" — even
// when downstream processing fails, since the platform would otherwise
// retry a delivery we already accepted.
type WebhookHandler struct {
	BaseHandler
	service *webhook.Service
}

// NewWebhookHandler creates a webhook handler
func NewWebhookHandler(service *webhook.Service, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// RegisterRoutes registers webhook routes. These must stay outside the
// authenticated API group; deliveries authenticate via HMAC instead.
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/shopify", h.Receive)
}

// Receive handles POST /webhooks/shopify
func (h *WebhookHandler) Receive(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}

	input := webhook.ProcessInput{
		ShopDomain: c.GetHeader(headerShopDomain),
		Topic:      c.GetHeader(headerTopic),
		Signature:  c.GetHeader(headerHmac),
		WebhookID:  c.GetHeader(headerWebhookID),
		APIVersion: c.GetHeader(headerAPIVersion),
		RawBody:    rawBody,
	}

	if err := h.service.Process(c.Request.Context(), input); err != nil {
		switch {
		case errors.Is(err, webhook.ErrUnknownTenant):
			h.NotFound(c, "Unknown shop domain")
		case errors.Is(err, webhook.ErrInvalidSignature):
			h.Unauthorized(c, "Webhook signature verification failed")
		case errors.Is(err, webhook.ErrMalformedPayload):
			h.ErrorWithStatus(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Webhook payload is not valid JSON")
		default:
			h.InternalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
