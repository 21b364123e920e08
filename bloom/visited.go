// Package bloom tracks visited result pages with a Bloom filter.
package bloom

import (
	"net/url"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// Visited is a set of page URLs backed by a Bloom filter. A false positive
// ends pagination one page early; a false negative cannot happen.
type Visited struct {
	f *bloom.BloomFilter
	n uint
}

// NewVisited creates a set sized for n pages with the given false positive rate.
func NewVisited(n uint, fpRate float64) *Visited {
	return &Visited{f: bloom.NewWithEstimates(n, fpRate)}
}

// Mark records pageURL as visited.
func (v *Visited) Mark(pageURL string) {
	v.f.AddString(pageKey(pageURL))
	v.n++
}

// Seen reports whether pageURL may have been visited already.
func (v *Visited) Seen(pageURL string) bool {
	return v.f.TestString(pageKey(pageURL))
}

// Len returns how many times Mark was called.
func (v *Visited) Len() uint {
	return v.n
}

// pageKey drops the fragment and lower-cases the host so that links that
// point to the same results page compare equal.
func pageKey(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		if i := strings.IndexByte(pageURL, '#'); i >= 0 {
			return pageURL[:i]
		}
		return pageURL
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Host = strings.ToLower(u.Host)
	return u.String()
}
