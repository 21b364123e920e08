// Package jsonl reads and writes listings as JSON lines, one object per line.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fwojciec/olxgpu"
)

var (
	_ olxgpu.ListingWriter = (*ListingWriter)(nil)
	_ olxgpu.ListingReader = (*ListingReader)(nil)
)

// record is the line format. Price is null when absent and url is always present.
type record struct {
	Model    string `json:"model"`
	Price    *int   `json:"price"`
	State    string `json:"state"`
	RawTitle string `json:"raw_title"`
	URL      string `json:"url"`
}

// ListingWriter writes listings as JSON lines.
type ListingWriter struct {
	w io.Writer
}

// NewListingWriter creates a ListingWriter writing to w.
func NewListingWriter(w io.Writer) *ListingWriter {
	return &ListingWriter{w: w}
}

// WriteListings writes one line per listing.
func (lw *ListingWriter) WriteListings(listings []olxgpu.Listing) error {
	bw := bufio.NewWriter(lw.w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, l := range listings {
		if err := enc.Encode(record{
			Model:    l.Model,
			Price:    l.Price,
			State:    string(l.Condition),
			RawTitle: l.RawTitle,
			URL:      l.URL,
		}); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ListingReader reads listings written by ListingWriter.
type ListingReader struct {
	r io.Reader
}

// NewListingReader creates a ListingReader reading from r.
func NewListingReader(r io.Reader) *ListingReader {
	return &ListingReader{r: r}
}

// ReadListings reads all lines. Blank lines are ignored.
func (lr *ListingReader) ReadListings() ([]olxgpu.Listing, error) {
	sc := bufio.NewScanner(lr.r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var listings []olxgpu.Listing
	for line := 1; sc.Scan(); line++ {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		listings = append(listings, olxgpu.Listing{
			Model:     rec.Model,
			Price:     rec.Price,
			Condition: olxgpu.ConditionFromString(rec.State),
			RawTitle:  rec.RawTitle,
			URL:       rec.URL,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return listings, nil
}
