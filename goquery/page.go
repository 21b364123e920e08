package goquery

import "github.com/fwojciec/olxgpu"

// Ensure PageParser implements olxgpu.PageParser at compile time.
var _ olxgpu.PageParser = (*PageParser)(nil)

// PageParser splits an OLX results page into offer cards and finds the link
// to the next page.
type PageParser struct {
	sel Selectors
}

// NewPageParser creates a new PageParser.
func NewPageParser(opts ...Option) *PageParser {
	p := &PageParser{sel: DefaultSelectors()}
	for _, opt := range opts {
		opt(&p.sel)
	}
	return p
}

// ParsePage parses html fetched from pageURL.
// A missing offer container yields no offers; a missing or empty forward
// control yields an empty NextURL.
func (p *PageParser) ParsePage(html string, pageURL string) (*olxgpu.Page, error) {
	doc, err := Parse(html)
	if err != nil {
		return nil, err
	}

	page := &olxgpu.Page{}
	if container, ok := doc.FindFirst(p.sel.Container); ok {
		page.Offers = container.FindAll(p.sel.Offer)
	}
	page.NextURL = p.nextURL(doc, pageURL)
	return page, nil
}

func (p *PageParser) nextURL(doc olxgpu.Element, pageURL string) string {
	pagination, ok := doc.FindFirst(p.sel.Pagination)
	if !ok {
		return ""
	}
	next, ok := pagination.FindFirst(p.sel.Next)
	if !ok {
		return ""
	}
	href, ok := next.Attr("href")
	if !ok {
		return ""
	}
	return resolveURL(pageURL, href)
}
