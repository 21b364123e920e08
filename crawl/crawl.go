// Package crawl walks the paginated results of a listing category and turns
// every offer card into an olxgpu.Listing.
package crawl

import (
	"context"
	"errors"

	"github.com/fwojciec/olxgpu"
	"github.com/fwojciec/olxgpu/bloom"
)

// Visited-page guard sizing.
const (
	visitedExpectedPages     = 1000
	visitedFalsePositiveRate = 1e-9
)

// Crawler walks result pages from a base URL up to a page limit.
type Crawler struct {
	Fetcher   olxgpu.Fetcher
	Pages     olxgpu.PageParser
	Offers    olxgpu.OfferParser
	Resolver  olxgpu.ModelResolver
	PageLimit int

	// SkipVisited ends the crawl when the next link points to a page that
	// was already fetched. Off by default: only a missing next link or the
	// page limit end a crawl.
	SkipVisited bool
}

// NewCrawler creates a Crawler configured from cfg.
func NewCrawler(cfg olxgpu.Config, fetcher olxgpu.Fetcher, pages olxgpu.PageParser, offers olxgpu.OfferParser, resolver olxgpu.ModelResolver) *Crawler {
	return &Crawler{
		Fetcher:     fetcher,
		Pages:       pages,
		Offers:      offers,
		Resolver:    resolver,
		PageLimit:   cfg.PageLimit,
		SkipVisited: cfg.SkipVisited,
	}
}

// Result holds the outcome of a crawl.
type Result struct {
	// Listings in page order, then card order within a page.
	Listings []olxgpu.Listing

	PagesVisited int

	// Skipped counts barter offers left out of Listings.
	Skipped int

	// Failures counts listings recorded with a price or model error.
	Failures int

	// Err is the fetch error that ended the crawl early, if any.
	Err error
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type     ProgressType
	Page     int
	URL      string
	Listings int
	Title    string
	Error    error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressPage ProgressType = iota
	ProgressOfferFailed
	ProgressFetchFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

type state int

const (
	stateFetching state = iota
	stateParsing
	stateAdvancing
	stateDone
)

// Crawl visits baseURL and follows next-page links until there is no next
// page or the page limit is reached. With SkipVisited set, a link back to a
// page already fetched also ends it. A fetch failure ends the
// crawl with the listings gathered so far and Result.Err set; it is not
// returned as an error. Context cancellation returns the partial result
// together with ctx.Err().
func (c *Crawler) Crawl(ctx context.Context, baseURL string, progress ProgressFunc) (*Result, error) {
	if c.PageLimit < 1 {
		return nil, olxgpu.Errorf(olxgpu.EINVALID, "page limit must be at least 1")
	}
	if baseURL == "" {
		return nil, olxgpu.Errorf(olxgpu.EINVALID, "base URL required")
	}

	notify := func(ev ProgressEvent) {
		if progress != nil {
			progress(ev)
		}
	}

	res := &Result{}
	visited := bloom.NewVisited(visitedExpectedPages, visitedFalsePositiveRate)
	current := baseURL
	var html string
	var page *olxgpu.Page

	for st := stateFetching; st != stateDone; {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		switch st {
		case stateFetching:
			var err error
			html, err = c.Fetcher.Fetch(ctx, current)
			if err != nil {
				if ctx.Err() != nil {
					return res, ctx.Err()
				}
				res.Err = err
				notify(ProgressEvent{Type: ProgressFetchFailed, Page: res.PagesVisited + 1, URL: current, Error: err})
				st = stateDone
				continue
			}
			visited.Mark(current)
			st = stateParsing

		case stateParsing:
			var err error
			page, err = c.Pages.ParsePage(html, current)
			if err != nil {
				res.Err = err
				st = stateDone
				continue
			}
			before := len(res.Listings)
			for _, card := range page.Offers {
				offer := c.Offers.ParseOffer(card, current)
				listing, skip, err := ListingFromOffer(offer, c.Resolver)
				if skip {
					res.Skipped++
					continue
				}
				if err != nil {
					res.Failures++
					notify(ProgressEvent{Type: ProgressOfferFailed, Page: res.PagesVisited + 1, URL: offer.URL, Title: offer.Title, Error: err})
				}
				res.Listings = append(res.Listings, listing)
			}
			res.PagesVisited++
			notify(ProgressEvent{Type: ProgressPage, Page: res.PagesVisited, URL: current, Listings: len(res.Listings) - before})
			st = stateAdvancing

		case stateAdvancing:
			next := page.NextURL
			switch {
			case next == "":
				st = stateDone
			case res.PagesVisited >= c.PageLimit:
				st = stateDone
			case c.SkipVisited && visited.Seen(next):
				st = stateDone
			default:
				current = next
				st = stateFetching
			}
		}
	}

	notify(ProgressEvent{Type: ProgressFinished, Page: res.PagesVisited, Listings: len(res.Listings), Error: res.Err})
	return res, nil
}

// ListingFromOffer converts the raw fields of an offer card into a Listing.
//
// Barter offers report skip=true and must be left out. A price that does not
// parse yields a listing with no model, ConditionError and no price. A title
// that resolves to no single model yields a listing with an empty model and
// the parsed price and condition. In both cases the listing is still returned
// together with the error.
func ListingFromOffer(offer olxgpu.Offer, resolver olxgpu.ModelResolver) (listing olxgpu.Listing, skip bool, err error) {
	listing = olxgpu.Listing{
		RawTitle: offer.Title,
		URL:      offer.URL,
	}

	price, err := olxgpu.ParsePrice(offer.PriceText)
	if errors.Is(err, olxgpu.ErrBarter) {
		return olxgpu.Listing{}, true, nil
	} else if err != nil {
		listing.Condition = olxgpu.ConditionError
		return listing, false, err
	}
	listing.Price = price
	listing.Condition = olxgpu.ParseCondition(offer.ConditionText)

	model, err := resolver.Resolve(offer.Title)
	if err != nil {
		return listing, false, err
	}
	listing.Model = model
	return listing, false, nil
}
