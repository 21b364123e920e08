package resolve_test

import (
	"testing"

	"github.com/fwojciec/olxgpu"
	"github.com/fwojciec/olxgpu/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(t *testing.T, models ...string) *resolve.Resolver {
	t.Helper()
	catalog, err := olxgpu.NewCatalog(models)
	require.NoError(t, err)
	return resolve.NewResolver(catalog)
}

var gpuModels = []string{
	"GTX 1060", "GTX 1660", "GTX 1660 Ti", "GTX 1660 Super",
	"RTX 3060", "RTX 3060 Ti", "RTX 3080", "RTX 3080 Ti", "RTX 4090",
	"RX 580", "RX 5800", "RX 6700 XT", "RX 7900 XT", "RX 7900 XTX",
	"A380", "A770",
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("every catalog model resolves to itself", func(t *testing.T) {
		t.Parallel()

		r := newResolver(t, gpuModels...)
		for _, m := range gpuModels {
			got, err := r.Resolve(m)
			require.NoError(t, err, m)
			assert.Equal(t, m, got)
		}
	})

	t.Run("ignores case and whitespace", func(t *testing.T) {
		t.Parallel()

		r := newResolver(t, gpuModels...)
		got, err := r.Resolve("  rtx3060TI  ")
		require.NoError(t, err)
		assert.Equal(t, "RTX 3060 Ti", got)
	})

	t.Run("single model in noisy title", func(t *testing.T) {
		t.Parallel()

		r := newResolver(t, gpuModels...)
		got, err := r.Resolve("Karta graficzna Gigabyte GeForce GTX 1060 6GB stan bdb")
		require.NoError(t, err)
		assert.Equal(t, "GTX 1060", got)
	})

	t.Run("longest match wins", func(t *testing.T) {
		t.Parallel()

		r := newResolver(t, "RTX 3080", "RTX 3080 Ti")
		got, err := r.Resolve("RTX 3080 Ti 12GB")
		require.NoError(t, err)
		assert.Equal(t, "RTX 3080 Ti", got)
	})

	t.Run("longer overlapping model wins", func(t *testing.T) {
		t.Parallel()

		r := newResolver(t, "RX 580", "RX 5800")
		got, err := r.Resolve("Sapphire RX 5800 Nitro")
		require.NoError(t, err)
		assert.Equal(t, "RX 5800", got)
	})

	t.Run("catalog order does not matter", func(t *testing.T) {
		t.Parallel()

		r := newResolver(t, "RX 7900 XTX", "RX 7900 XT")
		got, err := r.Resolve("Radeon RX 7900 XTX 24GB")
		require.NoError(t, err)
		assert.Equal(t, "RX 7900 XTX", got)
	})

	t.Run("equal length matches are ambiguous", func(t *testing.T) {
		t.Parallel()

		r := newResolver(t, gpuModels...)
		_, err := r.Resolve("Zestaw RTX 3080 + RTX 4090")

		var ambErr *olxgpu.AmbiguousMatchError
		require.ErrorAs(t, err, &ambErr)
		assert.Equal(t, "Zestaw RTX 3080 + RTX 4090", ambErr.Title)
		assert.Equal(t, []string{"RTX 3080", "RTX 4090"}, ambErr.Candidates)
	})

	t.Run("no model in title", func(t *testing.T) {
		t.Parallel()

		r := newResolver(t, gpuModels...)
		_, err := r.Resolve("Zasilacz 650W")

		var noMatch *olxgpu.NoMatchError
		require.ErrorAs(t, err, &noMatch)
		assert.Equal(t, "Zasilacz 650W", noMatch.Title)
	})

	t.Run("suggests close model on typo", func(t *testing.T) {
		t.Parallel()

		r := newResolver(t, "RTX 3080", "A380")
		_, err := r.Resolve("RTX 3008")

		var noMatch *olxgpu.NoMatchError
		require.ErrorAs(t, err, &noMatch)
		assert.Equal(t, "RTX 3080", noMatch.Suggestion)
	})

	t.Run("suggests a model named among other title words", func(t *testing.T) {
		t.Parallel()

		r := newResolver(t, "GTX 1050", "RTX 3080")
		_, err := r.Resolve("Sprzedam MSI GTX 1060 6GB stan idealny")

		var noMatch *olxgpu.NoMatchError
		require.ErrorAs(t, err, &noMatch)
		assert.Equal(t, "GTX 1050", noMatch.Suggestion)
	})

	t.Run("does not suggest a loosely similar model", func(t *testing.T) {
		t.Parallel()

		r := newResolver(t, "RTX 3080", "A380")
		_, err := r.Resolve("gtx 1060")

		var noMatch *olxgpu.NoMatchError
		require.ErrorAs(t, err, &noMatch)
		assert.Empty(t, noMatch.Suggestion)
	})

	t.Run("empty title has no match and no suggestion", func(t *testing.T) {
		t.Parallel()

		r := newResolver(t, gpuModels...)
		_, err := r.Resolve("")

		var noMatch *olxgpu.NoMatchError
		require.ErrorAs(t, err, &noMatch)
		assert.Empty(t, noMatch.Suggestion)
	})
}
