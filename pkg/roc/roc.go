// Package roc estimates glucose rate of change. Rates are kept in mmol/L per
// 5 minutes; use the units package to convert at the display boundary.
package roc

import (
	"fmt"
	"math"
	"sort"
	"time"

	"glyco/defs"
	"glyco/pkg/units"
)

// Category thresholds on the absolute per-5-minute rate.
const (
	GoodMax   = 0.3
	MediumMax = 0.55
)

// Pair and match heuristics. These are tuned values, not derived ones.
const (
	MaxGap            = 30 * time.Minute
	MinGap            = 1 * time.Minute
	IntervalTolerance = 0.2
)

type Category string

const (
	Good   Category = "good"
	Medium Category = "medium"
	Bad    Category = "bad"
)

var Categories = []Category{Good, Medium, Bad}

func Categorize(rate float64) Category {
	switch {
	case rate <= GoodMax:
		return Good
	case rate <= MediumMax:
		return Medium
	default:
		return Bad
	}
}

type Point struct {
	Time time.Time `json:"timestamp"`
	// RoC is the absolute rate in mmol/L per 5 minutes.
	RoC float64 `json:"roc"`
	// Signed keeps the direction of RoC; positive means rising.
	Signed   float64  `json:"signedRoc"`
	Category Category `json:"category"`
	Color    string   `json:"color"`
	Glucose  float64  `json:"glucoseValue"`
}

func newPoint(prev, cur defs.GlucoseReading) Point {
	minutes := cur.Time.Sub(prev.Time).Minutes()
	signed := units.PerMinuteToPerFive((cur.Mmol - prev.Mmol) / minutes)
	return withRate(Point{Time: cur.Time, Glucose: cur.Mmol}, signed)
}

func withRate(p Point, signed float64) Point {
	p.Signed = signed
	p.RoC = math.Abs(signed)
	p.Category = Categorize(p.RoC)
	p.Color = Color(p.RoC)
	return p
}

// Compute dispatches on interval: Consecutive compares adjacent readings,
// anything else uses the matching lookback.
func Compute(trs []defs.GlucoseReading, interval defs.RoCInterval) ([]Point, error) {
	if err := interval.Validate(); err != nil {
		return nil, err
	}
	if interval == defs.Consecutive {
		return Consecutive(trs), nil
	}
	return AtInterval(trs, interval)
}

// Consecutive computes a rate for each pair of adjacent readings. Pairs
// further apart than MaxGap or closer than MinGap are skipped.
func Consecutive(trs []defs.GlucoseReading) []Point {
	sorted := sortedCopy(trs)
	points := make([]Point, 0, len(sorted))
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].Time.Sub(sorted[i-1].Time)
		if gap > MaxGap || gap < MinGap {
			continue
		}
		points = append(points, newPoint(sorted[i-1], sorted[i]))
	}
	return points
}

// AtInterval pairs every reading with the earlier reading closest to
// interval before it, accepting matches within IntervalTolerance of the
// interval. Readings without a match are skipped.
func AtInterval(trs []defs.GlucoseReading, interval defs.RoCInterval) ([]Point, error) {
	if err := interval.Validate(); err != nil {
		return nil, err
	}
	if interval == defs.Consecutive {
		return nil, fmt.Errorf("%w: interval mode needs a non-zero interval", defs.ErrInvalidRoCInterval)
	}

	d := interval.Duration()
	tolerance := time.Duration(float64(d) * IntervalTolerance)
	sorted := sortedCopy(trs)

	points := make([]Point, 0, len(sorted))
	for i, cur := range sorted {
		target := cur.Time.Add(-d)
		j, ok := closestBefore(sorted[:i], target, tolerance)
		if !ok {
			continue
		}
		points = append(points, newPoint(sorted[j], cur))
	}
	return points, nil
}

// closestBefore finds the reading in sorted closest to target, within
// tolerance. Ties go to the earlier reading.
func closestBefore(sorted []defs.GlucoseReading, target time.Time, tolerance time.Duration) (int, bool) {
	k := sort.Search(len(sorted), func(i int) bool {
		return !sorted[i].Time.Before(target)
	})

	best, bestDiff := -1, time.Duration(math.MaxInt64)
	for _, c := range []int{k - 1, k} {
		if c < 0 || c >= len(sorted) {
			continue
		}
		diff := absDuration(sorted[c].Time.Sub(target))
		if diff < bestDiff {
			best, bestDiff = c, diff
		}
	}
	if best < 0 || bestDiff > tolerance {
		return 0, false
	}
	return best, true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func sortedCopy(trs []defs.GlucoseReading) []defs.GlucoseReading {
	sorted := append([]defs.GlucoseReading(nil), trs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})
	return sorted
}

func sortedPoints(points []Point) []Point {
	sorted := append([]Point(nil), points...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})
	return sorted
}
