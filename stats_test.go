package olxgpu_test

import (
	"testing"

	"github.com/fwojciec/olxgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func used(model string, price int) olxgpu.Listing {
	return olxgpu.Listing{Model: model, Price: olxgpu.IntPtr(price), Condition: olxgpu.ConditionUsed}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	t.Run("groups by model sorted by mean", func(t *testing.T) {
		t.Parallel()

		listings := []olxgpu.Listing{
			used("RTX 3080", 2500), used("RTX 3080", 2700), used("RTX 3080", 2600),
			used("RX 580", 300), used("RX 580", 400),
		}

		stats := olxgpu.Summarize(listings, olxgpu.StatsFilter{Condition: olxgpu.ConditionUsed, MinCount: 1})

		require.Len(t, stats, 2)
		assert.Equal(t, olxgpu.ModelStats{Model: "RX 580", Count: 2, Mean: 350, Median: 350, Min: 300, Max: 400}, stats[0])
		assert.Equal(t, olxgpu.ModelStats{Model: "RTX 3080", Count: 3, Mean: 2600, Median: 2600, Min: 2500, Max: 2700}, stats[1])
	})

	t.Run("skips unresolved, unpriced and other conditions", func(t *testing.T) {
		t.Parallel()

		listings := []olxgpu.Listing{
			used("A770", 1000),
			{Model: "", Price: olxgpu.IntPtr(500), Condition: olxgpu.ConditionUsed},
			{Model: "A770", Condition: olxgpu.ConditionUsed},
			{Model: "A770", Price: olxgpu.IntPtr(1200), Condition: olxgpu.ConditionNew},
		}

		stats := olxgpu.Summarize(listings, olxgpu.StatsFilter{Condition: olxgpu.ConditionUsed, MinCount: 1})

		require.Len(t, stats, 1)
		assert.Equal(t, 1, stats[0].Count)
	})

	t.Run("applies default filter bounds", func(t *testing.T) {
		t.Parallel()

		var listings []olxgpu.Listing
		for _, p := range []int{100, 200, 800, 900, 1000, 1100, 1200, 5000, 9000} {
			listings = append(listings, used("RTX 2060", p))
		}
		for _, p := range []int{800, 900} {
			listings = append(listings, used("GTX 1060", p))
		}

		stats := olxgpu.Summarize(listings, olxgpu.DefaultStatsFilter())

		require.Len(t, stats, 1)
		assert.Equal(t, "RTX 2060", stats[0].Model)
		assert.Equal(t, 5, stats[0].Count)
		assert.Equal(t, 1000.0, stats[0].Median)
	})

	t.Run("empty condition accepts all", func(t *testing.T) {
		t.Parallel()

		listings := []olxgpu.Listing{
			used("A380", 400),
			{Model: "A380", Price: olxgpu.IntPtr(600), Condition: olxgpu.ConditionNew},
		}

		stats := olxgpu.Summarize(listings, olxgpu.StatsFilter{MinCount: 2})

		require.Len(t, stats, 1)
		assert.Equal(t, 500.0, stats[0].Median)
	})
}
