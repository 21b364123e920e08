package mock

import (
	"context"

	"github.com/fwojciec/olxgpu"
)

var (
	_ olxgpu.Fetcher     = (*Fetcher)(nil)
	_ olxgpu.HostLimiter = (*HostLimiter)(nil)
)

// Fetcher is a mock implementation of olxgpu.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

// HostLimiter is a mock implementation of olxgpu.HostLimiter.
type HostLimiter struct {
	WaitFn func(ctx context.Context, host string) error
	DoneFn func(host string)
}

func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	return l.WaitFn(ctx, host)
}

func (l *HostLimiter) Done(host string) {
	l.DoneFn(host)
}
