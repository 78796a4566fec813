package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// JWTConfig holds configuration for validating bearer tokens on the upload endpoints
type JWTConfig struct {
	Secret          string `validate:"required,min=16"`
	Issuer          string
	ExpirationHours int `validate:"min=1"`
}

// NewJWTConfig creates a JWT configuration from JWT_SECRET, JWT_ISSUER and
// JWT_EXPIRATION_HOURS (default 24). It returns nil, nil when JWT_SECRET is
// unset, which disables authentication.
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, nil
	}

	expirationStr := os.Getenv("JWT_EXPIRATION_HOURS")
	if expirationStr == "" {
		expirationStr = "24"
	}
	expirationHours, err := strconv.Atoi(expirationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %w", err)
	}

	cfg := &JWTConfig{
		Secret:          secret,
		Issuer:          os.Getenv("JWT_ISSUER"),
		ExpirationHours: expirationHours,
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid JWT configuration: %w", err)
	}
	return cfg, nil
}
