package olxgpu

import (
	"context"
	"strconv"
	"strings"
	"unicode"
)

// Condition is the item condition declared by the seller.
type Condition string

// Condition values. The string form is used in exports and storage.
const (
	ConditionNew     Condition = "new"
	ConditionUsed    Condition = "used"
	ConditionDamaged Condition = "broken"
	ConditionError   Condition = "error"
)

// Condition labels as printed on the marketplace.
const (
	labelNew     = "Nowe"
	labelUsed    = "Używane"
	labelDamaged = "Uszkodzone"
)

// ParseCondition maps a condition label from an offer card to a Condition.
// Labels are matched exactly; anything else yields ConditionError.
func ParseCondition(label string) Condition {
	switch label {
	case labelNew:
		return ConditionNew
	case labelUsed:
		return ConditionUsed
	case labelDamaged:
		return ConditionDamaged
	default:
		return ConditionError
	}
}

// ConditionFromString parses the serialized form of a Condition.
// Unknown values yield ConditionError.
func ConditionFromString(s string) Condition {
	switch c := Condition(s); c {
	case ConditionNew, ConditionUsed, ConditionDamaged:
		return c
	default:
		return ConditionError
	}
}

// Listing is one graphics card offer extracted from a results page.
// Model is empty when the title could not be resolved; Price is nil when the
// offer shows no price.
type Listing struct {
	Model     string    `json:"model"`
	Price     *int      `json:"price"`
	Condition Condition `json:"state"`
	RawTitle  string    `json:"raw_title"`
	URL       string    `json:"url,omitempty"`
}

// Validate returns an error if the listing contains invalid fields.
func (l *Listing) Validate() error {
	if l.Price != nil && *l.Price < 0 {
		return Errorf(EINVALID, "listing price must not be negative")
	}
	if ConditionFromString(string(l.Condition)) != l.Condition {
		return Errorf(EINVALID, "unknown listing condition %q", l.Condition)
	}
	return nil
}

// IntPtr returns a pointer to v. Handy for building listings.
func IntPtr(v int) *int {
	return &v
}

// Offer holds the raw text fields of one offer card.
type Offer struct {
	Title         string
	PriceText     string
	ConditionText string
	URL           string
}

// OfferParser extracts raw fields from an offer card.
type OfferParser interface {
	// ParseOffer reads the title, price, condition and link of a card.
	// Missing elements yield empty strings.
	ParseOffer(card Element, pageURL string) Offer
}

// ListingFilter represents a filter for FindListings.
type ListingFilter struct {
	RunID     *string    `json:"runId"`
	Model     *string    `json:"model"`
	Condition *Condition `json:"condition"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ListingService represents a service for persisting listings.
type ListingService interface {
	// CreateListings stores listings for a run, preserving their order.
	CreateListings(ctx context.Context, runID string, listings []Listing) error

	// FindListings retrieves listings matching the filter in crawl order.
	FindListings(ctx context.Context, filter ListingFilter) ([]Listing, error)

	// CountDuplicates returns how many listings of a run repeat an earlier
	// listing of the same run by title, price and condition.
	CountDuplicates(ctx context.Context, runID string) (int, error)
}

// ListingWriter serializes listings to an export format.
type ListingWriter interface {
	WriteListings(listings []Listing) error
}

// ListingReader reads back listings written by a ListingWriter.
type ListingReader interface {
	ReadListings() ([]Listing, error)
}

// Price qualifiers removed before reading the amount, longest first.
var priceQualifiers = []string{"cenadonegocjacji", "donegocjacji"}

const (
	barterMarker   = "zamienię"
	currencySuffix = "zł"
)

// ParsePrice reads a whole-zloty amount from the price text of an offer.
// It returns nil without error for empty text, ErrBarter for trade offers and
// an *InvalidPriceError when the text does not reduce to digits.
func ParsePrice(text string) (*int, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, barterMarker) {
		return nil, ErrBarter
	}

	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, lower)
	s = strings.ReplaceAll(s, currencySuffix, "")
	for _, q := range priceQualifiers {
		s = strings.ReplaceAll(s, q, "")
	}
	if i := strings.IndexAny(s, ",."); i >= 0 {
		s = s[:i]
	}

	if s == "" || strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return nil, &InvalidPriceError{Text: text}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, &InvalidPriceError{Text: text}
	}
	return &v, nil
}
