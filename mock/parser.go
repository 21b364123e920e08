package mock

import "github.com/fwojciec/olxgpu"

var (
	_ olxgpu.PageParser    = (*PageParser)(nil)
	_ olxgpu.OfferParser   = (*OfferParser)(nil)
	_ olxgpu.ModelResolver = (*ModelResolver)(nil)
	_ olxgpu.Element       = (*Element)(nil)
)

// PageParser is a mock implementation of olxgpu.PageParser.
type PageParser struct {
	ParsePageFn func(html string, pageURL string) (*olxgpu.Page, error)
}

func (p *PageParser) ParsePage(html string, pageURL string) (*olxgpu.Page, error) {
	return p.ParsePageFn(html, pageURL)
}

// OfferParser is a mock implementation of olxgpu.OfferParser.
type OfferParser struct {
	ParseOfferFn func(card olxgpu.Element, pageURL string) olxgpu.Offer
}

func (p *OfferParser) ParseOffer(card olxgpu.Element, pageURL string) olxgpu.Offer {
	return p.ParseOfferFn(card, pageURL)
}

// ModelResolver is a mock implementation of olxgpu.ModelResolver.
type ModelResolver struct {
	ResolveFn func(title string) (string, error)
}

func (r *ModelResolver) Resolve(title string) (string, error) {
	return r.ResolveFn(title)
}

// Element is a mock implementation of olxgpu.Element.
type Element struct {
	FindFirstFn func(selector string) (olxgpu.Element, bool)
	FindAllFn   func(selector string) []olxgpu.Element
	TextFn      func() string
	AttrFn      func(name string) (string, bool)
}

func (e *Element) FindFirst(selector string) (olxgpu.Element, bool) {
	return e.FindFirstFn(selector)
}

func (e *Element) FindAll(selector string) []olxgpu.Element {
	return e.FindAllFn(selector)
}

func (e *Element) Text() string {
	return e.TextFn()
}

func (e *Element) Attr(name string) (string, bool) {
	return e.AttrFn(name)
}
