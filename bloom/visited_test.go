package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/olxgpu/bloom"
	"github.com/stretchr/testify/assert"
)

func TestVisited(t *testing.T) {
	t.Parallel()

	t.Run("marks and reports pages", func(t *testing.T) {
		t.Parallel()

		v := bloom.NewVisited(100, 1e-6)

		assert.False(t, v.Seen("https://www.olx.pl/karty/?page=2"))
		v.Mark("https://www.olx.pl/karty/?page=2")
		assert.True(t, v.Seen("https://www.olx.pl/karty/?page=2"))
		assert.False(t, v.Seen("https://www.olx.pl/karty/?page=3"))
	})

	t.Run("ignores fragment and host case", func(t *testing.T) {
		t.Parallel()

		v := bloom.NewVisited(100, 1e-6)
		v.Mark("https://www.olx.pl/karty/?page=2#top")

		assert.True(t, v.Seen("https://WWW.OLX.PL/karty/?page=2"))
	})

	t.Run("query distinguishes pages", func(t *testing.T) {
		t.Parallel()

		v := bloom.NewVisited(100, 1e-6)
		v.Mark("https://www.olx.pl/karty/?page=1")

		assert.False(t, v.Seen("https://www.olx.pl/karty/?page=10"))
	})

	t.Run("counts marks", func(t *testing.T) {
		t.Parallel()

		v := bloom.NewVisited(100, 1e-6)
		for i := range 5 {
			v.Mark(fmt.Sprintf("https://www.olx.pl/karty/?page=%d", i))
		}

		assert.Equal(t, uint(5), v.Len())
	})

	t.Run("no false negatives at capacity", func(t *testing.T) {
		t.Parallel()

		const n = 500
		v := bloom.NewVisited(n, 1e-6)
		for i := range n {
			v.Mark(fmt.Sprintf("https://www.olx.pl/karty/?page=%d", i))
		}
		for i := range n {
			assert.True(t, v.Seen(fmt.Sprintf("https://www.olx.pl/karty/?page=%d", i)))
		}
	})
}
