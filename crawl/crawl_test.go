package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fwojciec/olxgpu"
	"github.com/fwojciec/olxgpu/crawl"
	"github.com/fwojciec/olxgpu/goquery"
	"github.com/fwojciec/olxgpu/mock"
	"github.com/fwojciec/olxgpu/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "https://www.olx.pl/karty-graficzne/"

type card struct {
	title, price, condition string
}

// resultsPage renders a results page with the given cards and an optional
// forward link.
func resultsPage(next string, cards ...card) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="css-j0t2x2">`)
	for i, c := range cards {
		fmt.Fprintf(&b, `<div class="css-1apmciz"><a href="/d/oferta/%d.html"><h6>%s</h6></a>`, i, c.title)
		if c.price != "" {
			fmt.Fprintf(&b, `<p class="css-13afqrm">%s</p>`, c.price)
		}
		if c.condition != "" {
			fmt.Fprintf(&b, `<span class="css-up4xui">%s</span>`, c.condition)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	if next != "" {
		fmt.Fprintf(&b, `<ul class="pagination-list"><li><a data-testid="pagination-forward" href="%s">Następna</a></li></ul>`, next)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

func newResolver(t *testing.T) *resolve.Resolver {
	t.Helper()
	catalog, err := olxgpu.NewCatalog([]string{"RTX 3080", "RTX 3080 Ti", "RX 580", "RTX 4090"})
	require.NoError(t, err)
	return resolve.NewResolver(catalog)
}

func newCrawler(t *testing.T, fetch func(ctx context.Context, url string) (string, error), limit int) *crawl.Crawler {
	t.Helper()
	return &crawl.Crawler{
		Fetcher:   &mock.Fetcher{FetchFn: fetch},
		Pages:     goquery.NewPageParser(),
		Offers:    goquery.NewOfferParser(),
		Resolver:  newResolver(t),
		PageLimit: limit,
	}
}

func TestCrawler_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("stops at page limit on endless pagination", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		c := newCrawler(t, func(_ context.Context, url string) (string, error) {
			fetched = append(fetched, url)
			n := len(fetched)
			return resultsPage(fmt.Sprintf("?page=%d", n+1), card{"RTX 3080", "2 000 zł", "Używane"}), nil
		}, 3)

		res, err := c.Crawl(context.Background(), baseURL, nil)

		require.NoError(t, err)
		assert.Equal(t, 3, res.PagesVisited)
		assert.Len(t, res.Listings, 3)
		assert.Equal(t, []string{
			baseURL,
			baseURL + "?page=2",
			baseURL + "?page=3",
		}, fetched)
		assert.NoError(t, res.Err)
	})

	t.Run("stops when there is no next page", func(t *testing.T) {
		t.Parallel()

		calls := 0
		c := newCrawler(t, func(context.Context, string) (string, error) {
			calls++
			return resultsPage("", card{"RX 580 8GB", "450 zł", "Nowe"}), nil
		}, 10)

		res, err := c.Crawl(context.Background(), baseURL, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, 1, res.PagesVisited)
		assert.Equal(t, []olxgpu.Listing{{
			Model:     "RX 580",
			Price:     olxgpu.IntPtr(450),
			Condition: olxgpu.ConditionNew,
			RawTitle:  "RX 580 8GB",
			URL:       "https://www.olx.pl/d/oferta/0.html",
		}}, res.Listings)
	})

	t.Run("fetch failure keeps earlier pages", func(t *testing.T) {
		t.Parallel()

		fetchErr := &olxgpu.FetchError{URL: baseURL + "?page=2", Attempts: 3, Err: errors.New("status 500")}
		c := newCrawler(t, func(_ context.Context, url string) (string, error) {
			if url == baseURL {
				return resultsPage("?page=2",
					card{"RTX 3080", "2 000 zł", "Używane"},
					card{"RTX 4090", "8 000 zł", "Nowe"}), nil
			}
			return "", fetchErr
		}, 3)

		var events []crawl.ProgressType
		res, err := c.Crawl(context.Background(), baseURL, func(ev crawl.ProgressEvent) {
			events = append(events, ev.Type)
		})

		require.NoError(t, err)
		assert.Equal(t, 1, res.PagesVisited)
		assert.Len(t, res.Listings, 2)
		assert.ErrorIs(t, res.Err, fetchErr)
		assert.Equal(t, []crawl.ProgressType{crawl.ProgressPage, crawl.ProgressFetchFailed, crawl.ProgressFinished}, events)
	})

	t.Run("first page failure yields empty result", func(t *testing.T) {
		t.Parallel()

		c := newCrawler(t, func(context.Context, string) (string, error) {
			return "", &olxgpu.FetchError{URL: baseURL, Attempts: 3, Err: errors.New("timeout")}
		}, 3)

		res, err := c.Crawl(context.Background(), baseURL, nil)

		require.NoError(t, err)
		assert.Equal(t, 0, res.PagesVisited)
		assert.Empty(t, res.Listings)
		var fe *olxgpu.FetchError
		assert.ErrorAs(t, res.Err, &fe)
	})

	t.Run("follows a repeating next link up to the page limit", func(t *testing.T) {
		t.Parallel()

		calls := 0
		c := newCrawler(t, func(_ context.Context, _ string) (string, error) {
			calls++
			return resultsPage("?page=2", card{"RTX 3080", "1 000 zł", "Używane"}), nil
		}, 3)

		res, err := c.Crawl(context.Background(), baseURL, nil)

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, 3, res.PagesVisited)
		assert.Len(t, res.Listings, 3)
	})

	t.Run("stops at a page already visited when SkipVisited is set", func(t *testing.T) {
		t.Parallel()

		calls := 0
		c := newCrawler(t, func(_ context.Context, url string) (string, error) {
			calls++
			if url == baseURL {
				return resultsPage("?page=2", card{"RTX 3080", "1 000 zł", "Używane"}), nil
			}
			return resultsPage(baseURL, card{"RX 580", "300 zł", "Używane"}), nil
		}, 10)
		c.SkipVisited = true

		res, err := c.Crawl(context.Background(), baseURL, nil)

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Equal(t, 2, res.PagesVisited)
	})

	t.Run("NewCrawler takes limits from the config", func(t *testing.T) {
		t.Parallel()

		cfg := olxgpu.DefaultConfig()
		cfg.PageLimit = 7
		cfg.SkipVisited = true

		c := crawl.NewCrawler(cfg, &mock.Fetcher{}, goquery.NewPageParser(), goquery.NewOfferParser(), newResolver(t))

		assert.Equal(t, 7, c.PageLimit)
		assert.True(t, c.SkipVisited)
	})

	t.Run("page without offers still advances", func(t *testing.T) {
		t.Parallel()

		c := newCrawler(t, func(_ context.Context, url string) (string, error) {
			if url == baseURL {
				return resultsPage("?page=2"), nil
			}
			return resultsPage("", card{"RTX 4090", "7 500 zł", "Nowe"}), nil
		}, 3)

		res, err := c.Crawl(context.Background(), baseURL, nil)

		require.NoError(t, err)
		assert.Equal(t, 2, res.PagesVisited)
		require.Len(t, res.Listings, 1)
		assert.Equal(t, "RTX 4090", res.Listings[0].Model)
	})

	t.Run("skips barter offers and records failures", func(t *testing.T) {
		t.Parallel()

		c := newCrawler(t, func(context.Context, string) (string, error) {
			return resultsPage("",
				card{"RTX 3080 Ti", "Zamienię", "Używane"},
				card{"Radeon HD 7970", "200 zł", "Używane"},
				card{"RTX 3080", "dużo", "Używane"},
				card{"RX 580", "350 zł do negocjacji", "Uszkodzone"},
			), nil
		}, 1)

		var failed []string
		res, err := c.Crawl(context.Background(), baseURL, func(ev crawl.ProgressEvent) {
			if ev.Type == crawl.ProgressOfferFailed {
				failed = append(failed, ev.Title)
			}
		})

		require.NoError(t, err)
		assert.Equal(t, 1, res.Skipped)
		assert.Equal(t, 2, res.Failures)
		assert.Equal(t, []string{"Radeon HD 7970", "RTX 3080"}, failed)
		require.Len(t, res.Listings, 3)

		assert.Equal(t, "", res.Listings[0].Model)
		assert.Equal(t, olxgpu.IntPtr(200), res.Listings[0].Price)
		assert.Equal(t, olxgpu.ConditionUsed, res.Listings[0].Condition)

		assert.Equal(t, "", res.Listings[1].Model)
		assert.Nil(t, res.Listings[1].Price)
		assert.Equal(t, olxgpu.ConditionError, res.Listings[1].Condition)

		assert.Equal(t, "RX 580", res.Listings[2].Model)
		assert.Equal(t, olxgpu.IntPtr(350), res.Listings[2].Price)
		assert.Equal(t, olxgpu.ConditionDamaged, res.Listings[2].Condition)
	})

	t.Run("cancellation returns partial result", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		c := newCrawler(t, func(_ context.Context, url string) (string, error) {
			if url != baseURL {
				cancel()
				return "", context.Canceled
			}
			return resultsPage("?page=2", card{"RTX 3080", "2 000 zł", "Używane"}), nil
		}, 5)

		res, err := c.Crawl(ctx, baseURL, nil)

		assert.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, res)
		assert.Equal(t, 1, res.PagesVisited)
		assert.Len(t, res.Listings, 1)
	})

	t.Run("parser error ends crawl", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{FetchFn: func(context.Context, string) (string, error) { return "x", nil }},
			Pages: &mock.PageParser{ParsePageFn: func(string, string) (*olxgpu.Page, error) {
				return nil, olxgpu.Errorf(olxgpu.EINVALID, "bad html")
			}},
			Offers:    &mock.OfferParser{},
			Resolver:  &mock.ModelResolver{},
			PageLimit: 3,
		}

		res, err := c.Crawl(context.Background(), baseURL, nil)

		require.NoError(t, err)
		assert.Equal(t, 0, res.PagesVisited)
		assert.Equal(t, olxgpu.EINVALID, olxgpu.ErrorCode(res.Err))
	})

	t.Run("hands every card to the offer parser in page order", func(t *testing.T) {
		t.Parallel()

		titleCard := func(title string) olxgpu.Element {
			return &mock.Element{TextFn: func() string { return title }}
		}
		var seen []string
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{FetchFn: func(context.Context, string) (string, error) { return "<html></html>", nil }},
			Pages: &mock.PageParser{ParsePageFn: func(_ string, pageURL string) (*olxgpu.Page, error) {
				assert.Equal(t, baseURL, pageURL)
				return &olxgpu.Page{Offers: []olxgpu.Element{titleCard("RTX 4090 FE"), titleCard("RX 580 8GB")}}, nil
			}},
			Offers: &mock.OfferParser{ParseOfferFn: func(card olxgpu.Element, _ string) olxgpu.Offer {
				seen = append(seen, card.Text())
				return olxgpu.Offer{Title: card.Text(), PriceText: "100 zł", ConditionText: "Nowe"}
			}},
			Resolver:  newResolver(t),
			PageLimit: 3,
		}

		res, err := c.Crawl(context.Background(), baseURL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"RTX 4090 FE", "RX 580 8GB"}, seen)
		require.Len(t, res.Listings, 2)
		assert.Equal(t, "RTX 4090", res.Listings[0].Model)
		assert.Equal(t, "RX 580", res.Listings[1].Model)
		assert.Equal(t, 1, res.PagesVisited)
	})

	t.Run("rejects invalid page limit", func(t *testing.T) {
		t.Parallel()

		c := newCrawler(t, nil, 0)

		_, err := c.Crawl(context.Background(), baseURL, nil)

		assert.Equal(t, olxgpu.EINVALID, olxgpu.ErrorCode(err))
	})
}

func TestListingFromOffer(t *testing.T) {
	t.Parallel()

	resolver := &mock.ModelResolver{
		ResolveFn: func(title string) (string, error) {
			if strings.Contains(title, "3080") {
				return "RTX 3080", nil
			}
			if strings.Contains(title, "/") {
				return "", &olxgpu.AmbiguousMatchError{Title: title, Candidates: []string{"RTX 3080", "RTX 4090"}}
			}
			return "", &olxgpu.NoMatchError{Title: title}
		},
	}

	t.Run("builds complete listing", func(t *testing.T) {
		t.Parallel()

		l, skip, err := crawl.ListingFromOffer(olxgpu.Offer{
			Title: "MSI RTX 3080", PriceText: "2 100 zł", ConditionText: "Używane", URL: "https://www.olx.pl/d/1",
		}, resolver)

		require.NoError(t, err)
		assert.False(t, skip)
		assert.Equal(t, olxgpu.Listing{
			Model: "RTX 3080", Price: olxgpu.IntPtr(2100), Condition: olxgpu.ConditionUsed,
			RawTitle: "MSI RTX 3080", URL: "https://www.olx.pl/d/1",
		}, l)
	})

	t.Run("barter offer is skipped", func(t *testing.T) {
		t.Parallel()

		_, skip, err := crawl.ListingFromOffer(olxgpu.Offer{Title: "RTX 3080", PriceText: "zamienię"}, resolver)

		require.NoError(t, err)
		assert.True(t, skip)
	})

	t.Run("invalid price records error state", func(t *testing.T) {
		t.Parallel()

		l, skip, err := crawl.ListingFromOffer(olxgpu.Offer{Title: "RTX 3080", PriceText: "za darmo", ConditionText: "Nowe"}, resolver)

		var ipe *olxgpu.InvalidPriceError
		require.ErrorAs(t, err, &ipe)
		assert.False(t, skip)
		assert.Equal(t, olxgpu.Listing{Condition: olxgpu.ConditionError, RawTitle: "RTX 3080"}, l)
	})

	t.Run("missing price and condition use sentinels", func(t *testing.T) {
		t.Parallel()

		l, _, err := crawl.ListingFromOffer(olxgpu.Offer{Title: "RTX 3080"}, resolver)

		require.NoError(t, err)
		assert.Nil(t, l.Price)
		assert.Equal(t, olxgpu.ConditionError, l.Condition)
		assert.Equal(t, "RTX 3080", l.Model)
	})

	t.Run("ambiguous title keeps price and condition", func(t *testing.T) {
		t.Parallel()

		l, _, err := crawl.ListingFromOffer(olxgpu.Offer{Title: "3070/4090", PriceText: "500 zł", ConditionText: "Uszkodzone"}, resolver)

		var ame *olxgpu.AmbiguousMatchError
		require.ErrorAs(t, err, &ame)
		assert.Empty(t, l.Model)
		assert.Equal(t, olxgpu.IntPtr(500), l.Price)
		assert.Equal(t, olxgpu.ConditionDamaged, l.Condition)
	})

	t.Run("empty title is no match", func(t *testing.T) {
		t.Parallel()

		l, _, err := crawl.ListingFromOffer(olxgpu.Offer{PriceText: "100 zł", ConditionText: "Nowe"}, resolver)

		var nme *olxgpu.NoMatchError
		require.ErrorAs(t, err, &nme)
		assert.Empty(t, l.Model)
		assert.Equal(t, olxgpu.ConditionNew, l.Condition)
	})
}
