package resolver

import (
	"sync"
	"time"
)

// RateLimiter is a sliding-window limiter keeping API calls under a
// per-minute budget.
type RateLimiter struct {
	mu          sync.Mutex
	perMinute   int
	windowStart time.Time
	inWindow    int
}

func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		perMinute:   perMinute,
		windowStart: time.Now(),
	}
}

// Wait blocks until the next request fits in the current window.
func (rl *RateLimiter) Wait() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.windowStart) >= time.Minute {
		rl.windowStart = now
		rl.inWindow = 0
	}

	if rl.inWindow >= rl.perMinute {
		sleep := time.Minute - now.Sub(rl.windowStart)
		if sleep > 0 {
			rl.mu.Unlock()
			time.Sleep(sleep)
			rl.mu.Lock()
		}
		rl.windowStart = time.Now()
		rl.inWindow = 0
	}

	rl.inWindow++
}

// Remaining returns how many requests are left in the current window.
func (rl *RateLimiter) Remaining() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if time.Since(rl.windowStart) >= time.Minute {
		return rl.perMinute
	}
	return rl.perMinute - rl.inWindow
}
