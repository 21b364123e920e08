package crawl

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/olxgpu"
)

// Fingerprint identifies a listing by its title, price and condition.
// Promoted offers repeat across pages and share a fingerprint.
func Fingerprint(l olxgpu.Listing) string {
	price := ""
	if l.Price != nil {
		price = strconv.Itoa(*l.Price)
	}
	h := xxhash.New()
	_, _ = h.WriteString(l.RawTitle)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(price)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(string(l.Condition))
	return fmt.Sprintf("%016x", h.Sum64())
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
// Lengths count runes, so multi-byte characters are never split.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(url)
	if maxLen < 4 {
		return string(runes[:min(len(runes), maxLen)])
	}
	if len(runes) <= maxLen {
		return url
	}
	return "..." + string(runes[len(runes)-maxLen+3:])
}

// FormatPrice formats an optional price for display.
func FormatPrice(price *int) string {
	if price == nil {
		return "-"
	}
	return strconv.Itoa(*price) + " zł"
}
