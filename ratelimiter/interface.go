// Package ratelimiter guards each image model with per-minute token and
// request budgets, so a batch never outruns the provider's published limits.
package ratelimiter

import "time"

// Limiter is consulted once per generation request.
type Limiter interface {
	// TryConsume consumes numTokens and one request if both budgets allow it.
	TryConsume(numTokens int) bool

	// TimeUntilAvailable reports how long until numTokens could be consumed.
	TimeUntilAvailable(numTokens int) time.Duration
}
