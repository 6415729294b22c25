package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/slotadmin/backend/internal/domain/shared"
	"github.com/slotadmin/backend/internal/interfaces/http/dto"
)

// BaseHandler provides shared response helpers for all HTTP handlers
type BaseHandler struct {
	logger *zap.Logger
}

// NewBaseHandler creates a base handler
func NewBaseHandler(logger *zap.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// Success sends a 200 response with data
func (h *BaseHandler) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a 200 response with data and pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data interface{}, page, pageSize int, total int64) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, page, pageSize, total))
}

// Created sends a 201 response with data
func (h *BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the status derived from the code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	h.ErrorWithStatus(c, dto.GetHTTPStatus(code), code, message)
}

// ErrorWithStatus sends an error response with an explicit status
func (h *BaseHandler) ErrorWithStatus(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, h.requestID(c)))
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.ErrorWithStatus(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.ErrorWithStatus(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.ErrorWithStatus(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// Conflict sends a 409 response
func (h *BaseHandler) Conflict(c *gin.Context, code, message string) {
	h.ErrorWithStatus(c, http.StatusConflict, code, message)
}

// InternalError sends a 500 response and logs the underlying error
func (h *BaseHandler) InternalError(c *gin.Context, err error) {
	h.logger.Error("internal server error",
		zap.String("path", c.FullPath()),
		zap.String("request_id", h.requestID(c)),
		zap.Error(err),
	)
	h.ErrorWithStatus(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An internal error occurred")
}

// HandleBindingError sends a 400 response for a failed request binding,
// expanding validator errors into per-field details
func (h *BaseHandler) HandleBindingError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]dto.ValidationDetail, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			details = append(details, dto.ValidationDetail{
				Field:   fieldErr.Field(),
				Message: validationMessage(fieldErr),
			})
		}
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(details, h.requestID(c)))
		return
	}
	h.BadRequest(c, "Invalid request payload")
}

// HandleError maps service and domain errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.ErrorWithStatus(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}
	h.InternalError(c, err)
}

func (h *BaseHandler) requestID(c *gin.Context) string {
	if id, exists := c.Get("X-Request-ID"); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "This field is required"
	case "uuid":
		return "Must be a valid UUID"
	case "oneof":
		return "Must be one of: " + fieldErr.Param()
	case "min":
		return "Must be at least " + fieldErr.Param()
	case "max":
		return "Must be at most " + fieldErr.Param()
	case "datetime":
		return "Must match format " + fieldErr.Param()
	default:
		return "Invalid value"
	}
}
