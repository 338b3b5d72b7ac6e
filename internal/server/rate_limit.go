package server

import (
	"sync"
	"time"
)

// This file implements pre-parse admission control using token bucket
// rate limiting, applied at two levels: a server-wide limit and a
// per-source-IP limit. Both use the token bucket algorithm, allowing
// short bursts while enforcing an average rate over time.

// RateLimiter combines the global and per-IP limiters. A request must
// pass both to be admitted.
type RateLimiter struct {
	global *TokenBucket
	ip     *TokenBucket
}

// RateLimitSettings contains rate limiting configuration values.
// A rate or burst of zero disables that level.
type RateLimitSettings struct {
	CleanupSeconds float64
	MaxIPEntries   int
	GlobalQPS      float64
	GlobalBurst    int
	IPQPS          float64
	IPBurst        int
}

// NewRateLimiter creates a RateLimiter from the provided settings.
func NewRateLimiter(s RateLimitSettings) *RateLimiter {
	cleanup := time.Duration(s.CleanupSeconds * float64(time.Second))
	if cleanup <= 0 {
		cleanup = 60 * time.Second
	}
	return &RateLimiter{
		global: NewTokenBucket(TokenBucketConfig{
			Rate: s.GlobalQPS, Burst: s.GlobalBurst, CleanupInterval: cleanup, MaxEntries: 1,
		}),
		ip: NewTokenBucket(TokenBucketConfig{
			Rate: s.IPQPS, Burst: s.IPBurst, CleanupInterval: cleanup, MaxEntries: s.MaxIPEntries,
		}),
	}
}

// Allow checks whether a request from srcIP should be admitted.
func (r *RateLimiter) Allow(srcIP string) bool {
	if r == nil {
		return true
	}
	if !r.global.Allow("*") {
		return false
	}
	return r.ip.Allow(srcIP)
}

// TokenBucketConfig configures a token bucket rate limiter.
type TokenBucketConfig struct {
	Rate            float64       // Tokens replenished per second
	Burst           int           // Maximum tokens (burst capacity)
	CleanupInterval time.Duration // How often stale keys are dropped
	MaxEntries      int           // Maximum tracked keys
}

// TokenBucket rate-limits per key: each key holds up to Burst tokens,
// replenished at Rate tokens per second, and each request consumes one.
type TokenBucket struct {
	rate            float64
	burst           float64
	cleanupInterval time.Duration
	maxEntries      int

	mu          sync.Mutex
	lastCleanup time.Time
	lastUpdate  map[string]time.Time
	tokens      map[string]float64
}

// NewTokenBucket creates a token bucket limiter with the given
// configuration.
func NewTokenBucket(cfg TokenBucketConfig) *TokenBucket {
	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 1
	}
	ci := cfg.CleanupInterval
	if ci <= 0 {
		ci = 60 * time.Second
	}
	return &TokenBucket{
		rate:            cfg.Rate,
		burst:           float64(cfg.Burst),
		cleanupInterval: ci,
		maxEntries:      maxEntries,
		lastCleanup:     time.Now(),
		lastUpdate:      map[string]time.Time{},
		tokens:          map[string]float64{},
	}
}

// Allow consumes one token for key if available. A rate or burst of
// zero disables the limiter and always admits.
func (b *TokenBucket) Allow(key string) bool {
	if b == nil || b.rate <= 0.0 || b.burst <= 0.0 {
		return true
	}

	now := time.Now()

	b.mu.Lock()
	defer b.mu.Unlock()

	if now.Sub(b.lastCleanup) > b.cleanupInterval {
		b.cleanupLocked(now)
	}

	last, exists := b.lastUpdate[key]
	if !exists && len(b.lastUpdate) >= b.maxEntries {
		// Table full: admit rather than let an attacker starve new
		// clients by filling the table.
		return true
	}

	tokens := b.burst
	if exists {
		tokens = b.tokens[key] + now.Sub(last).Seconds()*b.rate
		if tokens > b.burst {
			tokens = b.burst
		}
	}

	if tokens < 1.0 {
		b.tokens[key] = tokens
		b.lastUpdate[key] = now
		return false
	}

	b.tokens[key] = tokens - 1.0
	b.lastUpdate[key] = now
	return true
}

// cleanupLocked drops keys that have been idle long enough to have a
// full bucket again. Caller holds the mutex.
func (b *TokenBucket) cleanupLocked(now time.Time) {
	idle := time.Duration(b.burst/b.rate*float64(time.Second)) + b.cleanupInterval
	for key, last := range b.lastUpdate {
		if now.Sub(last) > idle {
			delete(b.lastUpdate, key)
			delete(b.tokens, key)
		}
	}
	b.lastCleanup = now
}
