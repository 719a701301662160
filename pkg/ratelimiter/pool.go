package ratelimiter

import (
	"context"
	"sync"
)

// PooledRateLimiter keeps one bucket per mirror so a slow mirror does not
// starve the others.
type PooledRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*RateLimiter
	rps      int
	burst    int
}

func NewPooledRateLimiter(rps int, burst int) *PooledRateLimiter {
	return &PooledRateLimiter{
		limiters: make(map[string]*RateLimiter),
		rps:      rps,
		burst:    burst,
	}
}

func (p *PooledRateLimiter) Wait(ctx context.Context, node string) error {
	return p.get(node).Wait(ctx)
}

func (p *PooledRateLimiter) TryAcquire(node string) bool {
	return p.get(node).TryAcquire()
}

func (p *PooledRateLimiter) Stats() map[string]Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(map[string]Stats, len(p.limiters))
	for node, l := range p.limiters {
		out[node] = l.Stats()
	}
	return out
}

func (p *PooledRateLimiter) get(node string) *RateLimiter {
	p.mu.RLock()
	l, ok := p.limiters[node]
	p.mu.RUnlock()
	if ok {
		return l
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if l, ok := p.limiters[node]; ok {
		return l
	}
	l = NewRateLimiter(p.rps, p.burst)
	p.limiters[node] = l
	return l
}
