// Package resolve maps free-text offer titles to canonical catalog models.
package resolve

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
	"github.com/fwojciec/olxgpu"
)

// Ensure Resolver implements olxgpu.ModelResolver at compile time.
var _ olxgpu.ModelResolver = (*Resolver)(nil)

// minSuggestionSimilarity is the Jaro-Winkler score below which no
// suggestion is attached to a NoMatchError.
const minSuggestionSimilarity = 0.85

// Resolver finds the catalog model whose normalized name occurs in the
// normalized title. When several models occur, the longest one wins; models
// tied at the longest length make the title ambiguous.
type Resolver struct {
	catalog *olxgpu.Catalog
}

// NewResolver creates a Resolver over the catalog.
func NewResolver(catalog *olxgpu.Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve returns the catalog model named in title.
func (r *Resolver) Resolve(title string) (string, error) {
	normalized := olxgpu.Normalize(title)

	var best []string
	bestLen := 0
	for i := 0; i < r.catalog.Len(); i++ {
		name, key := r.catalog.Model(i)
		if !strings.Contains(normalized, key) {
			continue
		}
		n := utf8.RuneCountInString(key)
		switch {
		case n > bestLen:
			best = []string{name}
			bestLen = n
		case n == bestLen:
			best = append(best, name)
		}
	}

	switch len(best) {
	case 0:
		return "", &olxgpu.NoMatchError{Title: title, Suggestion: r.suggest(title)}
	case 1:
		return best[0], nil
	default:
		sort.Strings(best)
		return "", &olxgpu.AmbiguousMatchError{Title: title, Candidates: best}
	}
}

// suggest returns the catalog model most similar to some run of title words
// as long as the model name.
func (r *Resolver) suggest(title string) string {
	words := strings.Fields(title)
	if len(words) == 0 {
		return ""
	}
	var suggestion string
	var score float64
	for i := 0; i < r.catalog.Len(); i++ {
		name, key := r.catalog.Model(i)
		for _, run := range wordRuns(words, len(strings.Fields(name))) {
			if s := matchr.JaroWinkler(key, olxgpu.Normalize(run), false); s > score {
				score = s
				suggestion = name
			}
		}
	}
	if score < minSuggestionSimilarity {
		return ""
	}
	return suggestion
}

// wordRuns returns every run of n consecutive words joined by spaces, or the
// whole text when it has fewer than n words.
func wordRuns(words []string, n int) []string {
	if n < 1 || len(words) <= n {
		return []string{strings.Join(words, " ")}
	}
	runs := make([]string, 0, len(words)-n+1)
	for i := 0; i+n <= len(words); i++ {
		runs = append(runs, strings.Join(words[i:i+n], " "))
	}
	return runs
}
