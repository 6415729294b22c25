package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appscheduling "github.com/slotadmin/backend/internal/application/scheduling"
	"github.com/slotadmin/backend/internal/interfaces/http/dto"
)

// TimeslotHandler manages the weekly schedule and blocked dates
type TimeslotHandler struct {
	BaseHandler
	timeslots *appscheduling.TimeslotService
}

// NewTimeslotHandler creates a timeslot handler
func NewTimeslotHandler(timeslots *appscheduling.TimeslotService, logger *zap.Logger) *TimeslotHandler {
	return &TimeslotHandler{
		BaseHandler: NewBaseHandler(logger),
		timeslots:   timeslots,
	}
}

// RegisterRoutes registers timeslot and blocked date routes
func (h *TimeslotHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tenants := rg.Group("/tenants/:id")
	{
		tenants.GET("/timeslots", h.List)
		tenants.POST("/timeslots", h.Create)
		tenants.PUT("/timeslots/:childID", h.Update)
		tenants.DELETE("/timeslots/:childID", h.Delete)

		tenants.GET("/blocked-dates", h.ListBlockedDates)
		tenants.POST("/blocked-dates", h.BlockDate)
		tenants.DELETE("/blocked-dates/:childID", h.UnblockDate)
	}
}

// List handles GET /tenants/:id/timeslots
func (h *TimeslotHandler) List(c *gin.Context) {
	tenantID, ok := h.bindTenantID(c)
	if !ok {
		return
	}

	slots, err := h.timeslots.ListTimeslots(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]dto.TimeslotResponse, 0, len(slots))
	for i := range slots {
		responses = append(responses, dto.TimeslotResponseFromDomain(&slots[i]))
	}
	h.Success(c, responses)
}

// Create handles POST /tenants/:id/timeslots
func (h *TimeslotHandler) Create(c *gin.Context) {
	tenantID, ok := h.bindTenantID(c)
	if !ok {
		return
	}

	var req dto.CreateTimeslotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	fee := decimal.Zero
	if req.ExpressFee != "" {
		parsed, err := decimal.NewFromString(req.ExpressFee)
		if err != nil {
			h.BadRequest(c, "Express fee must be a decimal amount")
			return
		}
		fee = parsed
	}

	slot, err := h.timeslots.CreateTimeslot(c.Request.Context(), tenantID, appscheduling.CreateTimeslotInput{
		Method:     req.Method,
		DayOfWeek:  req.DayOfWeek,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Capacity:   req.Capacity,
		Express:    req.Express,
		ExpressFee: fee,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.TimeslotResponseFromDomain(slot))
}

// Update handles PUT /tenants/:id/timeslots/:childID
func (h *TimeslotHandler) Update(c *gin.Context) {
	tenantID, slotID, ok := h.bindScopedIDs(c)
	if !ok {
		return
	}

	var req dto.UpdateTimeslotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	input := appscheduling.UpdateTimeslotInput{
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Capacity:  req.Capacity,
		Express:   req.Express,
		Enabled:   req.Enabled,
	}
	if req.ExpressFee != nil {
		fee, err := decimal.NewFromString(*req.ExpressFee)
		if err != nil {
			h.BadRequest(c, "Express fee must be a decimal amount")
			return
		}
		input.ExpressFee = &fee
	}

	slot, err := h.timeslots.UpdateTimeslot(c.Request.Context(), tenantID, slotID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.TimeslotResponseFromDomain(slot))
}

// Delete handles DELETE /tenants/:id/timeslots/:childID
func (h *TimeslotHandler) Delete(c *gin.Context) {
	tenantID, slotID, ok := h.bindScopedIDs(c)
	if !ok {
		return
	}

	if err := h.timeslots.DeleteTimeslot(c.Request.Context(), tenantID, slotID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListBlockedDates handles GET /tenants/:id/blocked-dates
func (h *TimeslotHandler) ListBlockedDates(c *gin.Context) {
	tenantID, ok := h.bindTenantID(c)
	if !ok {
		return
	}

	dates, err := h.timeslots.ListBlockedDates(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]dto.BlockedDateResponse, 0, len(dates))
	for i := range dates {
		responses = append(responses, dto.BlockedDateResponseFromDomain(&dates[i]))
	}
	h.Success(c, responses)
}

// BlockDate handles POST /tenants/:id/blocked-dates
func (h *TimeslotHandler) BlockDate(c *gin.Context) {
	tenantID, ok := h.bindTenantID(c)
	if !ok {
		return
	}

	var req dto.BlockDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		h.BadRequest(c, "Date must match format 2006-01-02")
		return
	}

	blocked, err := h.timeslots.BlockDate(c.Request.Context(), tenantID, date, req.Method, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.BlockedDateResponseFromDomain(blocked))
}

// UnblockDate handles DELETE /tenants/:id/blocked-dates/:childID
func (h *TimeslotHandler) UnblockDate(c *gin.Context) {
	tenantID, dateID, ok := h.bindScopedIDs(c)
	if !ok {
		return
	}

	if err := h.timeslots.UnblockDate(c.Request.Context(), tenantID, dateID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// bindScopedIDs parses the :id and :childID path parameters
func (h *BaseHandler) bindScopedIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	var req dto.TenantScopedIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.HandleBindingError(c, err)
		return uuid.Nil, uuid.Nil, false
	}
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return uuid.Nil, uuid.Nil, false
	}
	childID, err := uuid.Parse(req.ChildID)
	if err != nil {
		h.BadRequest(c, "Invalid resource ID")
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, childID, true
}
