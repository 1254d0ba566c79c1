// Package config - token.go hashes and verifies the service API token used
// to bootstrap sessions against the HTTP surface.
package config

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// TokenConfig holds configuration for API token hashing and verification.
type TokenConfig struct {
	BcryptCost int
	Pepper     string // optional global secret mixed into every token
}

// NewTokenConfig reads BCRYPT_COST (default: 12) and optionally TOKEN_PEPPER
// from the environment.
func NewTokenConfig() (*TokenConfig, error) {
	cost := 12
	if raw := os.Getenv("BCRYPT_COST"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_COST: %v", err)
		}
		cost = parsed
	}

	cfg := &TokenConfig{
		BcryptCost: cost,
		Pepper:     os.Getenv("TOKEN_PEPPER"),
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *TokenConfig) normalize() error {
	if c.BcryptCost < 10 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", c.BcryptCost)
	}
	return nil
}

// HashToken hashes an API token using bcrypt (with optional pepper).
func (c *TokenConfig) HashToken(token string) (string, error) {
	if c.Pepper != "" {
		token = token + c.Pepper
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token: %w", err)
	}
	return string(hash), nil
}

// VerifyToken verifies an API token against a stored hash.
func (c *TokenConfig) VerifyToken(token, storedHash string) bool {
	if c.Pepper != "" {
		token = token + c.Pepper
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(token)) == nil
}
