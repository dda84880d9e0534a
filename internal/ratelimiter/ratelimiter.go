// Package ratelimiter throttles outbound API requests using a token bucket.
//
// The NocoDB cloud service enforces per-token request quotas; exceeding
// them yields 429 responses. Wiring a RateLimiter into the client keeps
// sustained request rates under the quota while still allowing short
// bursts up to the bucket capacity.
package ratelimiter

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter wraps golang.org/x/time/rate with the client's conventions:
// a zero rate means unlimited, and batch operations can reserve multiple
// tokens at once.
//
// All methods are safe for concurrent use.
type RateLimiter struct {
	limiter *rate.Limiter
}

// New creates a RateLimiter allowing requestsPerSecond sustained requests
// with the given burst capacity.
//
// A requestsPerSecond of 0 disables limiting (effectively unlimited).
// The burst should typically be at least requestsPerSecond.
func New(requestsPerSecond, burst uint) *RateLimiter {
	if requestsPerSecond == 0 {
		// Unlimited: rate.Inf has edge cases with Wait, so use a value
		// far above any realistic API quota.
		requestsPerSecond = 1_000_000_000
		burst = requestsPerSecond
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), int(burst)),
	}
}

// Allow reports whether a request may proceed right now, consuming one
// token if so. Use this to reject over-quota work instead of waiting.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// AllowN reports whether n requests may proceed right now, consuming n
// tokens if so. Useful before issuing a batch of uploads.
func (r *RateLimiter) AllowN(n uint) bool {
	return r.limiter.AllowN(time.Now(), int(n))
}

// Wait blocks until a token is available or the context is cancelled.
// This is the path the client uses before each API request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// SetLimit updates the sustained rate. The burst is raised to twice the
// new rate when the previous burst was at or below the old default, so the
// bucket can hold tokens accumulated at the new rate.
func (r *RateLimiter) SetLimit(requestsPerSecond uint) {
	if requestsPerSecond == 0 {
		requestsPerSecond = 1_000_000_000
	}

	oldRate := uint(r.limiter.Limit())
	oldBurst := uint(r.limiter.Burst())
	r.limiter.SetLimit(rate.Limit(requestsPerSecond))

	if oldBurst == oldRate*2 || oldBurst <= oldRate {
		r.limiter.SetBurst(int(requestsPerSecond * 2))
	}
}

// SetBurst updates the burst capacity.
func (r *RateLimiter) SetBurst(burst uint) {
	r.limiter.SetBurst(int(burst))
}

// Tokens returns the current number of available tokens. Primarily useful
// for monitoring and tests; the value may change immediately after return.
func (r *RateLimiter) Tokens() float64 {
	return r.limiter.Tokens()
}
