package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/slotadmin/backend/internal/application/identity"
	"github.com/slotadmin/backend/internal/interfaces/http/dto"
)

// AuthHandler serves the admin dashboard login
type AuthHandler struct {
	BaseHandler
	auth *identity.AuthService
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(auth *identity.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		auth:        auth,
	}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			h.Unauthorized(c, "Invalid username or password")
			return
		}
		h.InternalError(c, err)
		return
	}

	h.Success(c, result)
}
