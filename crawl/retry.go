package crawl

import (
	"context"

	"github.com/fwojciec/olxgpu"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// WaitFunc blocks before an attempt. It returns an error only when the
// context is canceled.
type WaitFunc func(ctx context.Context) error

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// Retry calls fetch up to attempts times, calling wait before every attempt
// including the first. There is no backoff: pacing comes from wait alone.
// After the last failed attempt it returns an *olxgpu.FetchError wrapping the
// final error. Context cancellation returns ctx.Err() as is.
func Retry(ctx context.Context, url string, attempts int, wait WaitFunc, fetch FetchFunc, logger LogFunc) (string, error) {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if wait != nil {
			if err := wait(ctx); err != nil {
				return "", err
			}
		}

		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err

		if logger != nil && attempt < attempts {
			logger("retry %s (attempt %d of %d): %v", url, attempt+1, attempts, err)
		}
	}

	return "", &olxgpu.FetchError{URL: url, Attempts: attempts, Err: lastErr}
}
