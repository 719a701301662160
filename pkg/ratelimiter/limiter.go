package ratelimiter

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter is a token bucket in front of the draw API.
type RateLimiter struct {
	limiter *rate.Limiter
	burst   int
	rps     int
}

func NewRateLimiter(rps int, burst int) *RateLimiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		burst:   burst,
		rps:     rps,
	}
}

// Wait blocks until a token is available or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.limiter.Wait(ctx)
}

func (rl *RateLimiter) TryAcquire() bool {
	return rl.limiter.Allow()
}

type Stats struct {
	AvailableTokens int
	Capacity        int
	Rate            time.Duration
}

// Stats is approximate: the bucket keeps refilling while it is read.
func (rl *RateLimiter) Stats() Stats {
	return Stats{
		AvailableTokens: max(int(rl.limiter.Tokens()), 0),
		Capacity:        rl.burst,
		Rate:            time.Second / time.Duration(rl.rps),
	}
}
