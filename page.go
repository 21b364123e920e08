package olxgpu

// Element is a node of a parsed HTML document. Absence is reported through
// return values rather than nil elements.
type Element interface {
	// FindFirst returns the first descendant matching the CSS selector.
	FindFirst(selector string) (Element, bool)

	// FindAll returns all descendants matching the CSS selector in document order.
	FindAll(selector string) []Element

	// Text returns the combined text of the element with surrounding
	// whitespace trimmed.
	Text() string

	// Attr returns the value of the named attribute.
	Attr(name string) (string, bool)
}

// Page is a parsed search results page.
type Page struct {
	// Offers are the offer cards in page order.
	Offers []Element

	// NextURL is the absolute URL of the following page, empty on the last page.
	NextURL string
}

// PageParser extracts offer cards and pagination from a results page.
type PageParser interface {
	// ParsePage parses html fetched from pageURL. Missing markup never fails;
	// it yields no offers or no next page.
	ParsePage(html string, pageURL string) (*Page, error)
}
