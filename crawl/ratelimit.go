package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/olxgpu"
	"golang.org/x/time/rate"
)

var _ olxgpu.HostLimiter = (*HostLimiter)(nil)

// HostLimiter spaces requests to the same host by a fixed delay using one
// token bucket per host. The bucket starts empty, so the first request to a
// host waits the full delay too. Done empties the bucket again, so the delay
// is a pause between the end of one request and the start of the next.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	delay    time.Duration
}

// NewHostLimiter creates a HostLimiter with the given delay between requests.
// A zero delay disables waiting.
func NewHostLimiter(delay time.Duration) *HostLimiter {
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		delay:    delay,
	}
}

// Wait blocks until a request to host may be sent.
// Returns an error if the context is canceled before the wait completes.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	if l.delay <= 0 {
		return ctx.Err()
	}

	l.mu.Lock()
	limiter, ok := l.limiters[host]
	if !ok {
		limiter = l.emptyLimiter()
		l.limiters[host] = limiter
	}
	l.mu.Unlock()

	return limiter.Wait(ctx)
}

// Done restarts the delay for host.
func (l *HostLimiter) Done(host string) {
	if l.delay <= 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiters[host] = l.emptyLimiter()
}

// emptyLimiter returns a bucket whose only token was just spent.
func (l *HostLimiter) emptyLimiter() *rate.Limiter {
	limiter := rate.NewLimiter(rate.Every(l.delay), 1)
	limiter.Allow()
	return limiter
}
