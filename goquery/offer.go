package goquery

import "github.com/fwojciec/olxgpu"

// Ensure OfferParser implements olxgpu.OfferParser at compile time.
var _ olxgpu.OfferParser = (*OfferParser)(nil)

// OfferParser reads the raw fields of an OLX offer card.
type OfferParser struct {
	sel Selectors
}

// NewOfferParser creates a new OfferParser.
func NewOfferParser(opts ...Option) *OfferParser {
	p := &OfferParser{sel: DefaultSelectors()}
	for _, opt := range opts {
		opt(&p.sel)
	}
	return p
}

// ParseOffer reads title, price text, condition label and offer link.
// Missing elements yield empty fields.
func (p *OfferParser) ParseOffer(card olxgpu.Element, pageURL string) olxgpu.Offer {
	offer := olxgpu.Offer{
		Title:         firstText(card, p.sel.Title),
		PriceText:     firstText(card, p.sel.Price),
		ConditionText: firstText(card, p.sel.Condition),
	}
	if link, ok := card.FindFirst(p.sel.Link); ok {
		href, _ := link.Attr("href")
		offer.URL = resolveURL(pageURL, href)
	}
	return offer
}
