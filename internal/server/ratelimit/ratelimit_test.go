package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_AllowsWithinLimit(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, Limit: 5, Window: time.Minute, SessionLimit: 5})

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("client-a", "/score", "POST")
		assert.True(t, allowed)
	}
}

func TestLimiter_BlocksOverLimit(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, Limit: 2, Window: time.Minute, SessionLimit: 2})

	limiter.Allow("client-a", "/score", "POST")
	limiter.Allow("client-a", "/score", "POST")
	allowed, info := limiter.Allow("client-a", "/score", "POST")

	assert.False(t, allowed)
	assert.Equal(t, 2, info.Limit)
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, Limit: 1, Window: time.Minute, SessionLimit: 1})

	limiter.Allow("client-a", "/score", "POST")
	allowed, _ := limiter.Allow("client-b", "/score", "POST")
	assert.True(t, allowed)
}

func TestLimiter_SessionCreationLimitedSeparately(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, Limit: 100, Window: time.Minute, SessionLimit: 1})

	allowed, _ := limiter.Allow("client-a", "/sessions", "POST")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("client-a", "/sessions", "POST")
	assert.False(t, allowed)

	// Other endpoints still fine.
	allowed, _ = limiter.Allow("client-a", "/score", "POST")
	assert.True(t, allowed)
}

func TestLimiter_DisabledAllowsEverything(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	for i := 0; i < 50; i++ {
		allowed, _ := limiter.Allow("client-a", "/sessions", "POST")
		assert.True(t, allowed)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "7")
	t.Setenv("RATE_LIMIT_SESSIONS_PER_MINUTE", "3")

	cfg := LoadConfig()
	assert.Equal(t, 7, cfg.Limit)
	assert.Equal(t, 3, cfg.SessionLimit)
}
