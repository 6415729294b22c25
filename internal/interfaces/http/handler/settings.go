package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appscheduling "github.com/slotadmin/backend/internal/application/scheduling"
	"github.com/slotadmin/backend/internal/interfaces/http/dto"
)

// SettingsHandler manages per-tenant booking settings
type SettingsHandler struct {
	BaseHandler
	settings *appscheduling.SettingsService
}

// NewSettingsHandler creates a settings handler
func NewSettingsHandler(settings *appscheduling.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		BaseHandler: NewBaseHandler(logger),
		settings:    settings,
	}
}

// RegisterRoutes registers settings routes
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tenants := rg.Group("/tenants/:id")
	{
		tenants.GET("/settings", h.Get)
		tenants.PUT("/settings", h.Update)
	}
}

// Get handles GET /tenants/:id/settings. A tenant without stored settings
// gets defaults created on first read.
func (h *SettingsHandler) Get(c *gin.Context) {
	tenantID, ok := h.bindTenantID(c)
	if !ok {
		return
	}

	settings, err := h.settings.GetSettings(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.SettingsResponseFromDomain(settings))
}

// Update handles PUT /tenants/:id/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	tenantID, ok := h.bindTenantID(c)
	if !ok {
		return
	}

	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	settings, err := h.settings.UpdateSettings(c.Request.Context(), tenantID, appscheduling.UpdateSettingsInput{
		DeliveryEnabled:   req.DeliveryEnabled,
		CollectionEnabled: req.CollectionEnabled,
		LeadTimeHours:     req.LeadTimeHours,
		MaxAdvanceDays:    req.MaxAdvanceDays,
		CutoffTime:        req.CutoffTime,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.SettingsResponseFromDomain(settings))
}
