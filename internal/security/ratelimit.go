package security

import (
	"net/http"
	"sync"
	"time"
)

// RateLimiter is a fixed-window limiter keyed by caller. PDF rendering holds
// a Chrome process for several seconds, so the report endpoints are throttled
// per caller instead of queueing unbounded work.
type RateLimiter struct {
	callers map[string]*callerState
	mu      sync.Mutex
	rate    int
	window  time.Duration
}

type callerState struct {
	remaining  int
	lastRefill time.Time
}

// NewRateLimiter allows rate requests per caller per window.
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		callers: make(map[string]*callerState),
		rate:    rate,
		window:  window,
	}
	go rl.cleanup()
	return rl
}

// Allow reports whether a request from the given caller may proceed.
func (rl *RateLimiter) Allow(caller string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	c, ok := rl.callers[caller]
	if !ok {
		c = &callerState{remaining: rl.rate, lastRefill: now}
		rl.callers[caller] = c
	}

	if now.Sub(c.lastRefill) >= rl.window {
		c.remaining = rl.rate
		c.lastRefill = now
	}

	if c.remaining > 0 {
		c.remaining--
		return true
	}
	return false
}

// cleanup drops callers idle for more than two windows.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for caller, c := range rl.callers {
			if now.Sub(c.lastRefill) > rl.window*2 {
				delete(rl.callers, caller)
			}
		}
		rl.mu.Unlock()
	}
}

// ClientKey identifies the caller for rate limiting, preferring proxy headers
// over the socket address.
func ClientKey(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
