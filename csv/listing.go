package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fwojciec/olxgpu"
)

// Header is the header row of a listing export.
var Header = []string{"model", "price", "state", "raw_title"}

var (
	_ olxgpu.ListingWriter = (*ListingWriter)(nil)
	_ olxgpu.ListingReader = (*ListingReader)(nil)
)

// ListingWriter writes listings as CSV with a header row. An absent price is
// written as an empty cell.
type ListingWriter struct {
	w io.Writer
}

// NewListingWriter creates a ListingWriter writing to w.
func NewListingWriter(w io.Writer) *ListingWriter {
	return &ListingWriter{w: w}
}

// WriteListings writes the header followed by one row per listing.
func (lw *ListingWriter) WriteListings(listings []olxgpu.Listing) error {
	cw := csv.NewWriter(lw.w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, l := range listings {
		price := ""
		if l.Price != nil {
			price = strconv.Itoa(*l.Price)
		}
		if err := cw.Write([]string{l.Model, price, string(l.Condition), l.RawTitle}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ListingReader reads listings written by ListingWriter.
type ListingReader struct {
	r io.Reader
}

// NewListingReader creates a ListingReader reading from r.
func NewListingReader(r io.Reader) *ListingReader {
	return &ListingReader{r: r}
}

// ReadListings reads all rows. Columns are located by header name, so extra
// columns and a different column order are accepted.
func (lr *ListingReader) ReadListings() ([]olxgpu.Listing, error) {
	cr := csv.NewReader(lr.r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, olxgpu.Errorf(olxgpu.EINVALID, "missing header")
	} else if err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range Header {
		if _, ok := idx[name]; !ok {
			return nil, olxgpu.Errorf(olxgpu.EINVALID, "missing column %q", name)
		}
	}

	var listings []olxgpu.Listing
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}
		field := func(name string) string {
			if i := idx[name]; i < len(rec) {
				return rec[i]
			}
			return ""
		}

		l := olxgpu.Listing{
			Model:     field("model"),
			Condition: olxgpu.ConditionFromString(field("state")),
			RawTitle:  field("raw_title"),
		}
		if s := field("price"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid price %q", line, s)
			}
			l.Price = &v
		}
		listings = append(listings, l)
	}
	return listings, nil
}
