package olxgpu

import (
	"errors"
	"strings"
	"unicode"
)

// Catalog is the ordered list of canonical GPU model names that offer titles
// are resolved against.
type Catalog struct {
	models     []string
	normalized []string
}

// NewCatalog builds a catalog from model names in display form.
// Blank names are ignored and names that normalize to an earlier entry are
// dropped, so every entry is unique for matching purposes.
// Returns an error if no usable names remain.
func NewCatalog(names []string) (*Catalog, error) {
	c := &Catalog{}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := Normalize(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		c.models = append(c.models, name)
		c.normalized = append(c.normalized, key)
	}
	if len(c.models) == 0 {
		return nil, errors.New("catalog is empty")
	}
	return c, nil
}

// Len returns the number of models in the catalog.
func (c *Catalog) Len() int {
	return len(c.models)
}

// Models returns the model names in catalog order.
func (c *Catalog) Models() []string {
	out := make([]string, len(c.models))
	copy(out, c.models)
	return out
}

// Model returns the display name and normalized key of the i-th model.
func (c *Catalog) Model(i int) (name, key string) {
	return c.models[i], c.normalized[i]
}

// Normalize lower-cases s and removes all whitespace. Titles and catalog
// models are compared in this form.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// ModelResolver maps an offer title to a canonical catalog model.
type ModelResolver interface {
	// Resolve returns the catalog model named in title.
	// Returns *NoMatchError or *AmbiguousMatchError when no single model fits.
	Resolve(title string) (string, error)
}
