package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func productionConfig() *Config {
	return &Config{
		App: AppConfig{Env: "production"},
		JWT: JWTConfig{Secret: "0123456789abcdef0123456789abcdef"},
		Admin: AdminConfig{
			PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		},
		Database:  DatabaseConfig{Password: "secret"},
		Telemetry: TelemetryConfig{SamplingRatio: 1.0},
	}
}

func TestValidateAcceptsCompleteProductionConfig(t *testing.T) {
	assert.NoError(t, productionConfig().Validate())
}

func TestValidateRejectsShortJWTSecretInProduction(t *testing.T) {
	cfg := productionConfig()
	cfg.JWT.Secret = "short"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsFullSQLTracingInProduction(t *testing.T) {
	cfg := productionConfig()
	cfg.Telemetry.DBLogFullSQL = true
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsSamplingRatioOutOfRange(t *testing.T) {
	cfg := productionConfig()
	cfg.Telemetry.SamplingRatio = 1.5
	assert.Error(t, cfg.Validate())

	cfg.Telemetry.SamplingRatio = -0.1
	assert.Error(t, cfg.Validate())
}

func TestValidateSkipsProductionChecksInDevelopment(t *testing.T) {
	cfg := &Config{App: AppConfig{Env: "development"}}
	assert.NoError(t, cfg.Validate())
}
