package ratelimiter

import (
	"sync"
	"time"
)

// RateLimiter holds the two per-minute budgets of one image model. A request
// passes only when both budgets cover it.
type RateLimiter struct {
	TokensBucket   *TokenBucket
	RequestsBucket *TokenBucket
}

var _ Limiter = (*RateLimiter)(nil)

// New creates a RateLimiter whose buckets refill every minute. A
// non-positive limit leaves that budget unlimited.
func New(tokensPerMinute, requestsPerMinute int) *RateLimiter {
	return &RateLimiter{
		TokensBucket:   perMinute(tokensPerMinute),
		RequestsBucket: perMinute(requestsPerMinute),
	}
}

func perMinute(limit int) *TokenBucket {
	if limit <= 0 {
		return nil
	}
	return NewTokenBucket(limit, limit, time.Minute)
}

// HasCapacity reports whether numTokens and one request fit right now.
func (rl *RateLimiter) HasCapacity(numTokens int) bool {
	return rl.TokensBucket.HasCapacity(numTokens) && rl.RequestsBucket.HasCapacity(1)
}

// TryConsume charges numTokens and one request, or nothing at all.
func (rl *RateLimiter) TryConsume(numTokens int) bool {
	if !rl.HasCapacity(numTokens) {
		return false
	}
	return rl.TokensBucket.TryConsume(numTokens) && rl.RequestsBucket.TryConsume(1)
}

// TimeUntilAvailable is the longer of the two buckets' waits.
func (rl *RateLimiter) TimeUntilAvailable(numTokens int) time.Duration {
	return max(rl.TokensBucket.TimeUntilAvailable(numTokens), rl.RequestsBucket.TimeUntilAvailable(1))
}

// TokenBucket is a budget that resets to full capacity once per interval.
// A nil *TokenBucket never limits.
type TokenBucket struct {
	mu         sync.Mutex
	capacity   int
	remaining  int
	interval   time.Duration
	lastRefill time.Time
	now        func() time.Time
}

// NewTokenBucket creates a bucket holding initialTokens out of capacity.
func NewTokenBucket(capacity, initialTokens int, interval time.Duration) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		remaining:  initialTokens,
		interval:   interval,
		lastRefill: time.Now(),
		now:        time.Now,
	}
}

// refillLocked resets the budget when a full interval has passed.
// tb.mu must be held.
func (tb *TokenBucket) refillLocked() time.Time {
	now := tb.now()
	if now.Sub(tb.lastRefill) >= tb.interval {
		tb.remaining = tb.capacity
		tb.lastRefill = now
	}
	return now
}

func (tb *TokenBucket) HasCapacity(tokens int) bool {
	if tb == nil {
		return true
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.refillLocked()
	return tokens <= tb.remaining
}

func (tb *TokenBucket) TryConsume(tokens int) bool {
	if tb == nil {
		return true
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.refillLocked()
	if tokens > tb.remaining {
		return false
	}
	tb.remaining -= tokens
	return true
}

// TimeUntilAvailable estimates the wait for tokens as if the budget trickled
// back linearly over the interval, plus 10%.
func (tb *TokenBucket) TimeUntilAvailable(tokens int) time.Duration {
	if tb == nil {
		return 0
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.refillLocked()
	elapsed := now.Sub(tb.lastRefill)
	trickled := int(float64(tb.capacity) * float64(elapsed) / float64(tb.interval))
	available := min(tb.capacity, tb.remaining+trickled)
	if tokens <= available {
		return 0
	}

	perToken := float64(tb.interval) / float64(tb.capacity)
	wait := time.Duration(float64(tokens-available) * perToken)
	return wait + wait/10
}
