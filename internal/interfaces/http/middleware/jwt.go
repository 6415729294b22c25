package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/slotadmin/backend/internal/infrastructure/auth"
	"github.com/slotadmin/backend/internal/interfaces/http/dto"
)

// UsernameKey is the context key the authenticated username is stored under
const UsernameKey = "auth.username"

// JWTConfig configures the session token middleware
type JWTConfig struct {
	// SkipPaths are exact paths served without authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes served without authentication
	SkipPathPrefixes []string
}

// JWT returns a middleware that validates the Bearer session token
func JWT(jwtService *auth.JWTService, cfg JWTConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, path := range cfg.SkipPaths {
		skip[path] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "Missing or malformed Authorization header")
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, "Session has expired")
				return
			}
			abortUnauthorized(c, "Invalid session token")
			return
		}

		c.Set(UsernameKey, claims.Username)
		c.Next()
	}
}

// GetUsername returns the authenticated username from the request context
func GetUsername(c *gin.Context) (string, bool) {
	value, exists := c.Get(UsernameKey)
	if !exists {
		return "", false
	}
	username, ok := value.(string)
	return username, ok
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func abortUnauthorized(c *gin.Context, message string) {
	requestID, _ := c.Get(RequestIDKey)
	id, _ := requestID.(string)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, id))
}
