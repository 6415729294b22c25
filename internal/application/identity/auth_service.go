package identity

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/slotadmin/backend/internal/infrastructure/auth"
)

// ErrInvalidCredentials is returned for any failed login attempt. Username
// and password failures are indistinguishable on purpose.
var ErrInvalidCredentials = errors.New("identity: invalid credentials")

// AdminAccount is the single dashboard login, configured at deploy time
type AdminAccount struct {
	Username     string
	PasswordHash string // bcrypt
}

// AuthService authenticates the admin dashboard
type AuthService struct {
	account AdminAccount
	jwt     *auth.JWTService
	logger  *zap.Logger
}

// NewAuthService creates an auth service
func NewAuthService(account AdminAccount, jwtService *auth.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{
		account: account,
		jwt:     jwtService,
		logger:  logger,
	}
}

// LoginResult carries a successful login's session token
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
}

// Login verifies credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username != s.account.Username {
		// Burn a bcrypt comparison anyway to keep timing uniform
		_ = bcrypt.CompareHashAndPassword([]byte(s.account.PasswordHash), []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.account.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("failed admin login attempt", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwt.GenerateToken(username)
	if err != nil {
		return nil, err
	}

	s.logger.Info("admin logged in", zap.String("username", username))
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Username:  username,
	}, nil
}

// HashPassword produces the bcrypt hash to store in configuration
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
