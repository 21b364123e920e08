package olxgpu

import (
	"net/url"
	"time"
)

// Configuration defaults.
const (
	DefaultBaseURL   = "https://www.olx.pl/elektronika/komputery/podzespoly-i-czesci/karty-graficzne/"
	DefaultPageLimit = 3
	DefaultDelay     = 100 * time.Millisecond
	DefaultRetries   = 3
)

// Config holds the settings of a scrape.
type Config struct {
	// BaseURL is the first results page.
	BaseURL string `json:"baseUrl"`

	// PageLimit caps the number of pages visited.
	PageLimit int `json:"pageLimit"`

	// Delay is the politeness pause before every request.
	Delay time.Duration `json:"delay"`

	// Retries is the number of fetch attempts per page.
	Retries int `json:"retries"`

	// SkipVisited stops the crawl at a next link to a page already fetched.
	SkipVisited bool `json:"skipVisited"`

	// CatalogPath is the model catalog file. Empty means the built-in catalog.
	CatalogPath string `json:"catalogPath"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		PageLimit: DefaultPageLimit,
		Delay:     DefaultDelay,
		Retries:   DefaultRetries,
	}
}

// Validate returns an error if the configuration contains invalid fields.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return Errorf(EINVALID, "base URL required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Errorf(EINVALID, "base URL must be absolute: %q", c.BaseURL)
	}
	if c.PageLimit < 1 {
		return Errorf(EINVALID, "page limit must be at least 1")
	}
	if c.Delay < 0 {
		return Errorf(EINVALID, "delay must not be negative")
	}
	if c.Retries < 1 {
		return Errorf(EINVALID, "retries must be at least 1")
	}
	return nil
}
