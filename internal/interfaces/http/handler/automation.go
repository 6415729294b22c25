package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appexpressfee "github.com/slotadmin/backend/internal/application/expressfee"
	"github.com/slotadmin/backend/internal/infrastructure/scheduler"
	"github.com/slotadmin/backend/internal/interfaces/http/dto"
)

// TriggerManual marks runs started from the admin dashboard in the audit log
const TriggerManual = "manual"

// AutomationHandler exposes the catalog reconciliation controls
type AutomationHandler struct {
	BaseHandler
	scheduler *scheduler.ReconcileScheduler
	reconcile *appexpressfee.ReconcileService
}

// NewAutomationHandler creates an automation handler
func NewAutomationHandler(
	sched *scheduler.ReconcileScheduler,
	reconcile *appexpressfee.ReconcileService,
	logger *zap.Logger,
) *AutomationHandler {
	return &AutomationHandler{
		BaseHandler: NewBaseHandler(logger),
		scheduler:   sched,
		reconcile:   reconcile,
	}
}

// RegisterRoutes registers automation routes
func (h *AutomationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tenants := rg.Group("/tenants/:id")
	{
		tenants.POST("/reconcile", h.RunReconcile)
		tenants.POST("/reconcile/cleanup", h.RunCleanup)
		tenants.GET("/reconcile/runs", h.ListRuns)
		tenants.GET("/fee-products", h.ListFeeProducts)
	}
}

// RunReconcile handles POST /tenants/:id/reconcile, running a reconciliation
// synchronously. Returns 409 when a run for the tenant is already in flight.
func (h *AutomationHandler) RunReconcile(c *gin.Context) {
	tenantID, ok := h.bindTenantID(c)
	if !ok {
		return
	}

	result, err := h.scheduler.RunNow(c.Request.Context(), tenantID, TriggerManual)
	if err != nil {
		h.handleAutomationError(c, err)
		return
	}
	h.Success(c, result)
}

// RunCleanup handles POST /tenants/:id/reconcile/cleanup, deleting fee
// products whose amount is not in the active set. The body may supply the
// active amounts explicitly; otherwise the configured fee set is used.
func (h *AutomationHandler) RunCleanup(c *gin.Context) {
	tenantID, ok := h.bindTenantID(c)
	if !ok {
		return
	}

	var activeAmounts []decimal.Decimal
	if c.Request.ContentLength > 0 {
		var req dto.CleanupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.HandleBindingError(c, err)
			return
		}
		if req.ActiveAmounts != nil {
			activeAmounts = make([]decimal.Decimal, 0, len(req.ActiveAmounts))
			for _, raw := range req.ActiveAmounts {
				amount, err := decimal.NewFromString(raw)
				if err != nil {
					h.BadRequest(c, "Active amounts must be decimal values")
					return
				}
				activeAmounts = append(activeAmounts, amount)
			}
		}
	}

	result, err := h.reconcile.Cleanup(c.Request.Context(), tenantID, activeAmounts, TriggerManual)
	if err != nil {
		h.handleAutomationError(c, err)
		return
	}
	h.Success(c, result)
}

// ListRuns handles GET /tenants/:id/reconcile/runs
func (h *AutomationHandler) ListRuns(c *gin.Context) {
	tenantID, ok := h.bindTenantID(c)
	if !ok {
		return
	}

	var req dto.RunsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	runs, err := h.reconcile.RecentRuns(c.Request.Context(), tenantID, req.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]dto.RunResponse, 0, len(runs))
	for i := range runs {
		responses = append(responses, dto.RunResponseFromDomain(&runs[i]))
	}
	h.Success(c, responses)
}

// ListFeeProducts handles GET /tenants/:id/fee-products, listing the fee
// products currently present in the storefront catalog
func (h *AutomationHandler) ListFeeProducts(c *gin.Context) {
	tenantID, ok := h.bindTenantID(c)
	if !ok {
		return
	}

	products, err := h.reconcile.ListRemoteProducts(c.Request.Context(), tenantID)
	if err != nil {
		h.handleAutomationError(c, err)
		return
	}

	responses := make([]dto.FeeProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, dto.FeeProductResponseFromDomain(&products[i]))
	}
	h.Success(c, responses)
}

func (h *AutomationHandler) handleAutomationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduler.ErrRunInProgress):
		h.Conflict(c, dto.ErrCodeRunInProgress, "A reconciliation run is already in progress for this tenant")
	case errors.Is(err, appexpressfee.ErrTenantInactive):
		h.Error(c, dto.ErrCodeTenantInactive, "Tenant is not active")
	default:
		h.HandleError(c, err)
	}
}
