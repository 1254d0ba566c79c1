// Package ratelimit provides per-client token bucket rate limiting for the
// session API.
package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// tokenBucket refills at a steady rate up to a burst capacity.
type tokenBucket struct {
	mu         sync.Mutex
	capacity   int
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
}

func newTokenBucket(capacity int, refillRate float64) *tokenBucket {
	return &tokenBucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

func (tb *tokenBucket) allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	tb.tokens = min(float64(tb.capacity), tb.tokens+now.Sub(tb.lastRefill).Seconds()*tb.refillRate)
	tb.lastRefill = now

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

// Info describes the rate limit decision for a request.
type Info struct {
	Allowed   bool
	Limit     int
	Remaining int
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled bool
	// Limit is requests per Window for most endpoints.
	Limit  int
	Window time.Duration
	// SessionLimit caps session creation separately, since each new session
	// fans out to the agent backend.
	SessionLimit int
}

// LoadConfig reads rate limit settings from the environment, falling back to
// defaults that suit a single-user deployment.
func LoadConfig() *Config {
	cfg := &Config{
		Enabled:      true,
		Limit:        120,
		Window:       time.Minute,
		SessionLimit: 10,
	}
	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		cfg.Enabled = v != "false" && v != "0"
	}
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Limit = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_SESSIONS_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionLimit = n
		}
	}
	return cfg
}

// Limiter manages token buckets per client and endpoint class.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*tokenBucket
	config  *Config
}

// NewLimiter creates a limiter from config; nil config uses LoadConfig
// defaults.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = LoadConfig()
	}
	return &Limiter{
		buckets: make(map[string]*tokenBucket),
		config:  config,
	}
}

// Allow reports whether the client may hit the endpoint now.
func (l *Limiter) Allow(clientID, endpoint, method string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Allowed: true}
	}

	limit := l.config.Limit
	if method == "POST" && strings.TrimRight(endpoint, "/") == "/sessions" {
		limit = l.config.SessionLimit
	}

	key := clientID + ":" + strconv.Itoa(limit)
	l.mu.Lock()
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = newTokenBucket(limit, float64(limit)/l.config.Window.Seconds())
		l.buckets[key] = bucket
	}
	l.mu.Unlock()

	allowed := bucket.allow()
	bucket.mu.Lock()
	remaining := int(bucket.tokens)
	bucket.mu.Unlock()

	return allowed, Info{Allowed: allowed, Limit: limit, Remaining: remaining}
}
