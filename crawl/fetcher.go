package crawl

import (
	"context"
	"net/url"

	"github.com/fwojciec/olxgpu"
)

var _ olxgpu.Fetcher = (*PoliteFetcher)(nil)

// PoliteFetcher wraps a transport Fetcher with per-host pacing and a bounded
// number of attempts. Failures after the last attempt are reported as
// *olxgpu.FetchError.
type PoliteFetcher struct {
	Fetcher  olxgpu.Fetcher
	Limiter  olxgpu.HostLimiter
	Attempts int
	Logger   LogFunc
}

// NewPoliteFetcher returns a PoliteFetcher pacing requests by cfg.Delay and
// trying each URL up to cfg.Retries times.
func NewPoliteFetcher(f olxgpu.Fetcher, cfg olxgpu.Config) *PoliteFetcher {
	return &PoliteFetcher{
		Fetcher:  f,
		Limiter:  NewHostLimiter(cfg.Delay),
		Attempts: cfg.Retries,
	}
}

// Fetch retrieves rawURL, pausing on the limiter before every attempt. The
// pause is counted from the end of the previous attempt.
func (f *PoliteFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if f.Limiter == nil {
		return Retry(ctx, rawURL, f.Attempts, nil, f.Fetcher.Fetch, f.Logger)
	}

	host := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Host
	}
	wait := func(ctx context.Context) error {
		return f.Limiter.Wait(ctx, host)
	}
	fetch := func(ctx context.Context, rawURL string) (string, error) {
		defer f.Limiter.Done(host)
		return f.Fetcher.Fetch(ctx, rawURL)
	}
	return Retry(ctx, rawURL, f.Attempts, wait, fetch, f.Logger)
}

// Close closes the underlying transport.
func (f *PoliteFetcher) Close() error {
	return f.Fetcher.Close()
}
