package health

import (
	"context"
	"sync"
	"time"
)

// Checker memoizes the result of a dependency ping for a short interval so
// that per-request availability gates do not hit the database every time.
type Checker struct {
	ping     func(context.Context) error
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time

	mu      sync.Mutex
	checked time.Time
	lastErr error
}

func NewChecker(ping func(context.Context) error, interval time.Duration) *Checker {
	return &Checker{
		ping:     ping,
		interval: interval,
		timeout:  2 * time.Second,
		now:      time.Now,
	}
}

// Check returns the cached result when it is younger than the interval,
// otherwise pings again. Concurrent callers share one ping.
func (c *Checker) Check(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.checked.IsZero() && c.now().Sub(c.checked) < c.interval {
		return c.lastErr
	}

	pingCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.lastErr = c.ping(pingCtx)
	c.checked = c.now()

	return c.lastErr
}

// Invalidate forces the next Check to ping.
func (c *Checker) Invalidate() {
	c.mu.Lock()
	c.checked = time.Time{}
	c.mu.Unlock()
}
