package mock

import "github.com/fwojciec/olxgpu"

var _ olxgpu.ListingWriter = (*ListingWriter)(nil)

// ListingWriter is a mock implementation of olxgpu.ListingWriter.
type ListingWriter struct {
	WriteListingsFn func(listings []olxgpu.Listing) error
}

func (w *ListingWriter) WriteListings(listings []olxgpu.Listing) error {
	return w.WriteListingsFn(listings)
}
