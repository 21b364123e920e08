package olxgpu

import "sort"

// Stats filter defaults, matching the price analysis the dataset feeds.
const (
	DefaultStatsMinCount = 5
	DefaultStatsMinPrice = 200
	DefaultStatsMaxPrice = 5000
)

// StatsFilter selects the listings that enter a price summary.
// Prices must lie strictly between MinPrice and MaxPrice; a zero MaxPrice
// means no upper bound.
type StatsFilter struct {
	Condition Condition
	MinCount  int
	MinPrice  int
	MaxPrice  int
}

// DefaultStatsFilter returns the filter for used cards in the usual price band.
func DefaultStatsFilter() StatsFilter {
	return StatsFilter{
		Condition: ConditionUsed,
		MinCount:  DefaultStatsMinCount,
		MinPrice:  DefaultStatsMinPrice,
		MaxPrice:  DefaultStatsMaxPrice,
	}
}

// ModelStats summarizes the prices of one model.
type ModelStats struct {
	Model  string
	Count  int
	Mean   float64
	Median float64
	Min    int
	Max    int
}

// Summarize groups priced, resolved listings by model and returns one entry
// per model with at least filter.MinCount listings, cheapest mean first.
// Listings without a model or a price never contribute.
func Summarize(listings []Listing, filter StatsFilter) []ModelStats {
	prices := make(map[string][]int)
	for _, l := range listings {
		if l.Model == "" || l.Price == nil {
			continue
		}
		if filter.Condition != "" && l.Condition != filter.Condition {
			continue
		}
		p := *l.Price
		if p <= filter.MinPrice || (filter.MaxPrice > 0 && p >= filter.MaxPrice) {
			continue
		}
		prices[l.Model] = append(prices[l.Model], p)
	}

	stats := make([]ModelStats, 0, len(prices))
	for model, ps := range prices {
		if len(ps) < filter.MinCount {
			continue
		}
		sort.Ints(ps)
		sum := 0
		for _, p := range ps {
			sum += p
		}
		stats = append(stats, ModelStats{
			Model:  model,
			Count:  len(ps),
			Mean:   float64(sum) / float64(len(ps)),
			Median: median(ps),
			Min:    ps[0],
			Max:    ps[len(ps)-1],
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Mean != stats[j].Mean {
			return stats[i].Mean < stats[j].Mean
		}
		return stats[i].Model < stats[j].Model
	})
	return stats
}

// median expects sorted, non-empty input.
func median(sorted []int) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}
