package roc

import "glyco/pkg/stats"

type CategoryStats struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type Stats struct {
	Mean   float64                    `json:"mean"`
	Min    float64                    `json:"min"`
	Max    float64                    `json:"max"`
	StdDev float64                    `json:"stdDev"`
	Count  int                        `json:"count"`
	ByCat  map[Category]CategoryStats `json:"categories"`
}

// Summarize rolls up population statistics of RoC with per category counts
// and percentages rounded to one decimal. Empty input yields zeros.
func Summarize(points []Point) Stats {
	values := make([]float64, len(points))
	counts := make(map[Category]int, len(Categories))
	for i, p := range points {
		values[i] = p.RoC
		counts[p.Category]++
	}

	ss := stats.Summary(values)
	out := Stats{
		Mean:   ss.Average,
		Min:    ss.Min,
		Max:    ss.Max,
		StdDev: ss.Deviation,
		Count:  len(points),
		ByCat:  make(map[Category]CategoryStats, len(Categories)),
	}
	for _, c := range Categories {
		out.ByCat[c] = CategoryStats{
			Count:   counts[c],
			Percent: stats.Percentage(counts[c], len(points), 1),
		}
	}
	return out
}
