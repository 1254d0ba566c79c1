package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashToken_RoundTrip(t *testing.T) {
	cfg := &TokenConfig{BcryptCost: 10}

	hash, err := cfg.HashToken("svc-token-1")
	require.NoError(t, err)

	assert.True(t, cfg.VerifyToken("svc-token-1", hash))
	assert.False(t, cfg.VerifyToken("wrong", hash))
}

func TestHashToken_PepperChangesVerification(t *testing.T) {
	peppered := &TokenConfig{BcryptCost: 10, Pepper: "pepper"}
	plain := &TokenConfig{BcryptCost: 10}

	hash, err := peppered.HashToken("svc-token-1")
	require.NoError(t, err)

	assert.True(t, peppered.VerifyToken("svc-token-1", hash))
	assert.False(t, plain.VerifyToken("svc-token-1", hash))
}

func TestNewTokenConfig_RejectsCostOutOfRange(t *testing.T) {
	t.Setenv("BCRYPT_COST", "4")
	_, err := NewTokenConfig()
	assert.Error(t, err)
}
