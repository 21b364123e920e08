package olxgpu

import "context"

// Fetcher retrieves HTML from URLs.
type Fetcher interface {
	// Fetch requests the URL and returns the response body.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases network resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// HostLimiter provides per-host request pacing.
type HostLimiter interface {
	// Wait blocks until a request to host may be sent.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, host string) error

	// Done reports that a request to host has finished. The next Wait for
	// host then pauses the full delay counted from this moment.
	Done(host string)
}
