package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apptenant "github.com/slotadmin/backend/internal/application/tenant"
	"github.com/slotadmin/backend/internal/domain/shared"
	"github.com/slotadmin/backend/internal/interfaces/http/dto"
)

// TenantHandler manages storefront credentials and tenant lifecycle
type TenantHandler struct {
	BaseHandler
	credentials *apptenant.CredentialService
}

// NewTenantHandler creates a tenant handler
func NewTenantHandler(credentials *apptenant.CredentialService, logger *zap.Logger) *TenantHandler {
	return &TenantHandler{
		BaseHandler: NewBaseHandler(logger),
		credentials: credentials,
	}
}

// RegisterRoutes registers tenant routes
func (h *TenantHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tenants := rg.Group("/tenants")
	{
		tenants.GET("", h.List)
		tenants.POST("", h.SaveCredentials)
		tenants.GET("/:id", h.Get)
		tenants.DELETE("/:id", h.Offboard)
	}
}

// List handles GET /tenants
func (h *TenantHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}
	req.Normalize()

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}

	tenants, total, err := h.credentials.ListTenants(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]dto.TenantResponse, 0, len(tenants))
	for i := range tenants {
		responses = append(responses, dto.TenantResponseFromDomain(&tenants[i]))
	}
	h.SuccessWithMeta(c, responses, req.Page, req.PageSize, total)
}

// SaveCredentials handles POST /tenants. Registering the same shop domain
// twice updates the stored credentials in place.
func (h *TenantHandler) SaveCredentials(c *gin.Context) {
	var req dto.SaveCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	t, err := h.credentials.SaveCredentials(c.Request.Context(), apptenant.SaveCredentialsInput{
		ShopDomain:    req.ShopDomain,
		AccessToken:   req.AccessToken,
		APIVersion:    req.APIVersion,
		WebhookSecret: req.WebhookSecret,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.TenantResponseFromDomain(t))
}

// Get handles GET /tenants/:id
func (h *TenantHandler) Get(c *gin.Context) {
	tenantID, ok := h.bindTenantID(c)
	if !ok {
		return
	}

	t, err := h.credentials.GetTenant(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.TenantResponseFromDomain(t))
}

// Offboard handles DELETE /tenants/:id, removing the tenant and all of
// its stored configuration
func (h *TenantHandler) Offboard(c *gin.Context) {
	tenantID, ok := h.bindTenantID(c)
	if !ok {
		return
	}

	if err := h.credentials.Offboard(c.Request.Context(), tenantID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// bindTenantID parses the :id path parameter, responding 400 on failure
func (h *BaseHandler) bindTenantID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.HandleBindingError(c, err)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return uuid.Nil, false
	}
	return id, true
}
