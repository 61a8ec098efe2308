package stats

import (
	"math"

	"github.com/montanaflynn/stats"
)

type SummaryStatistics struct {
	Average   float64
	Deviation float64
	Min       float64
	Max       float64
	Count     int
}

// Summary returns population statistics for values. The zero value is
// returned for empty input; callers decide how to present "no data".
func Summary(values []float64) SummaryStatistics {
	if len(values) == 0 {
		return SummaryStatistics{}
	}
	avg, _ := stats.Mean(values)
	dev, _ := stats.StandardDeviationPopulation(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	return SummaryStatistics{
		Average:   avg,
		Deviation: dev,
		Min:       min,
		Max:       max,
		Count:     len(values),
	}
}

// Round rounds v to precision decimal places.
func Round(v float64, precision int) float64 {
	if precision < 0 {
		precision = 0
	}
	r, err := stats.Round(v, precision)
	if err != nil {
		return v
	}
	return r
}

// Percentage is count/total*100 rounded to precision, or 0 when total is 0.
func Percentage(count, total, precision int) float64 {
	if total == 0 {
		return 0
	}
	return Round(float64(count)/float64(total)*100, precision)
}

// Percentile interpolates linearly between the two closest ranks of sorted,
// which must be in ascending order. Rank is (p/100)*(n-1).
func Percentile(sorted []float64, p float64) float64 {
	switch len(sorted) {
	case 0:
		return 0
	case 1:
		return sorted[0]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := math.Floor(rank)
	hi := math.Ceil(rank)
	lower, upper := sorted[int(lo)], sorted[int(hi)]
	return lower + (rank-lo)*(upper-lower)
}
