package server

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiters hands out one token bucket per client id. Buckets unused
// for idleTTL are dropped on the next sweep.
type clientLimiters struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiters(limit rate.Limit, burst int, idleTTL time.Duration) *clientLimiters {
	return &clientLimiters{
		buckets: make(map[string]*bucket),
		limit:   limit,
		burst:   burst,
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

func (c *clientLimiters) Allow(id string) bool {
	c.mu.Lock()
	now := c.now()
	if now.Sub(c.lastSweep) >= c.idleTTL {
		c.sweep(now)
	}
	b, ok := c.buckets[id]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.buckets[id] = b
	}
	b.lastSeen = now
	c.mu.Unlock()
	return b.limiter.AllowN(now, 1)
}

// sweep must be called with mu held.
func (c *clientLimiters) sweep(now time.Time) {
	for id, b := range c.buckets {
		if now.Sub(b.lastSeen) >= c.idleTTL {
			delete(c.buckets, id)
		}
	}
	c.lastSweep = now
}

// Forget drops the bucket of a client that disconnected.
func (c *clientLimiters) Forget(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.buckets, id)
}

func (c *clientLimiters) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buckets)
}
