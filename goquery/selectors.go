package goquery

// Selectors locates the parts of an OLX results page.
type Selectors struct {
	// Container holds the offer grid.
	Container string
	// Offer matches one offer card inside the container.
	Offer string
	// Title, Price, Condition and Link are looked up inside a card.
	Title     string
	Price     string
	Condition string
	Link      string
	// Pagination holds the page controls; Next is the forward control inside it.
	Pagination string
	Next       string
}

// DefaultSelectors returns the selectors for the current OLX markup.
func DefaultSelectors() Selectors {
	return Selectors{
		Container:  "div.css-j0t2x2",
		Offer:      "div.css-1apmciz",
		Title:      "h6",
		Price:      "p.css-13afqrm",
		Condition:  "span.css-up4xui",
		Link:       "a[href]",
		Pagination: "ul.pagination-list",
		Next:       `a[data-testid="pagination-forward"]`,
	}
}

// Option configures a parser.
type Option func(*Selectors)

// WithSelectors replaces the default selectors.
func WithSelectors(s Selectors) Option {
	return func(dst *Selectors) {
		*dst = s
	}
}
