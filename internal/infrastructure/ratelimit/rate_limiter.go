package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// RateLimiter is a per-key token bucket. Every key gets `limit` requests
// per `window`; the bucket refills continuously in window-sized steps.
type RateLimiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = time.Second
	}
	rl := &RateLimiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string]*bucket),
	}
	go rl.sweep()
	return rl
}

// Allow consumes one token for the key. When the bucket is empty it
// returns false and how long until the next token.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.limit, lastRefill: now}
		rl.buckets[key] = b
	}

	refillEvery := rl.window / time.Duration(rl.limit)
	elapsed := now.Sub(b.lastRefill)
	if refill := int(elapsed / refillEvery); refill > 0 {
		b.tokens += refill
		if b.tokens > rl.limit {
			b.tokens = rl.limit
		}
		b.lastRefill = now
	}

	if b.tokens <= 0 {
		return false, refillEvery - elapsed%refillEvery
	}
	b.tokens--
	return true, 0
}

// sweep drops buckets idle for several windows so the map cannot grow
// without bound.
func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-3 * rl.window)
		rl.mu.Lock()
		for key, b := range rl.buckets {
			if b.lastRefill.Before(cutoff) && b.tokens >= rl.limit {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}
