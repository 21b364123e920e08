// Package goquery implements the OLX markup contract on top of goquery:
// parsing results pages into offer cards and reading the fields of a card.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/olxgpu"
	"golang.org/x/net/html"
)

// Ensure Element implements olxgpu.Element at compile time.
var _ olxgpu.Element = (*Element)(nil)

// Element wraps a single-node goquery selection.
type Element struct {
	sel *goquery.Selection
}

// Parse parses an HTML document and returns its root element.
func Parse(s string) (*Element, error) {
	node, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return nil, olxgpu.Errorf(olxgpu.EINVALID, "failed to parse HTML: %v", err)
	}
	return &Element{sel: goquery.NewDocumentFromNode(node).Selection}, nil
}

// FindFirst returns the first descendant matching the selector.
func (e *Element) FindFirst(selector string) (olxgpu.Element, bool) {
	sel := e.sel.Find(selector).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return &Element{sel: sel}, true
}

// FindAll returns all descendants matching the selector in document order.
func (e *Element) FindAll(selector string) []olxgpu.Element {
	var elems []olxgpu.Element
	e.sel.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		elems = append(elems, &Element{sel: sel})
	})
	return elems
}

// Text returns the trimmed text content of the element.
func (e *Element) Text() string {
	return strings.TrimSpace(e.sel.Text())
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

// firstText returns the text of the first match of selector, or "".
func firstText(e olxgpu.Element, selector string) string {
	if found, ok := e.FindFirst(selector); ok {
		return found.Text()
	}
	return ""
}

// resolveURL resolves href against the page URL. Returns "" for empty or
// unparseable references.
func resolveURL(pageURL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil || !base.IsAbs() {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
