package roc

import (
	"math"
	"time"
)

// SmoothingWindow is the full width of the centred moving average.
const SmoothingWindow = 15 * time.Minute

// Smooth replaces each point's rate with the mean rate of all points within
// SmoothingWindow/2 of it. Category and colour are recomputed from the
// smoothed rate. The result is sorted by time.
func Smooth(points []Point) []Point {
	sorted := sortedPoints(points)
	half := SmoothingWindow / 2

	smoothed := make([]Point, len(sorted))
	lo, hi := 0, 0
	for i, p := range sorted {
		for hi < len(sorted) && sorted[hi].Time.Sub(p.Time) <= half {
			hi++
		}
		for p.Time.Sub(sorted[lo].Time) > half {
			lo++
		}

		rate, signed := windowMean(sorted[lo:hi])
		sp := p
		sp.Signed = signed
		// Mean of the absolute rates, not the absolute mean of signed ones.
		sp.RoC = math.Max(0, rate)
		sp.Category = Categorize(sp.RoC)
		sp.Color = Color(sp.RoC)
		smoothed[i] = sp
	}
	return smoothed
}

// windowMean averages incrementally so equal rates come back bit for bit.
func windowMean(window []Point) (rate, signed float64) {
	for k, p := range window {
		n := float64(k + 1)
		rate += (p.RoC - rate) / n
		signed += (p.Signed - signed) / n
	}
	return rate, signed
}
