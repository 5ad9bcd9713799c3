package ratelimiter

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// maxKeys bounds the number of tracked keys; idle keys are forgotten
// after keyTTL and start again with a full burst.
const (
	maxKeys = 10000
	keyTTL  = 10 * time.Minute
)

// RateLimiter applies one token bucket per key, e.g. per user.
type RateLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters *expirable.LRU[string, *rate.Limiter]
}

// NewRateLimiter allows perMinute events per key with the given burst.
// A burst below 1 is raised to 1.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
		limiters: expirable.NewLRU[string, *rate.Limiter](maxKeys, nil, keyTTL),
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.limiters.Get(key); ok {
		return limiter
	}
	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.limiters.Add(key, limiter)
	return limiter
}

// Allow consumes a token of key and reports whether one was available.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.limiter(key).Allow()
}

// RetryAfter is how long key has to wait for its next token.
func (rl *RateLimiter) RetryAfter(key string) time.Duration {
	r := rl.limiter(key).Reserve()
	defer r.Cancel()
	return r.Delay()
}
