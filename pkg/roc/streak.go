package roc

import "time"

// StreakGap is the largest spacing between two points of one streak.
const StreakGap = 10 * time.Minute

// LongestStreak returns the duration in whole minutes of the longest run of
// consecutive points sharing category c, or 0 if no point has c.
func LongestStreak(points []Point, c Category) int {
	sorted := sortedPoints(points)

	var longest time.Duration
	var start, prev time.Time
	inRun := false
	for _, p := range sorted {
		if p.Category != c {
			inRun = false
			continue
		}
		if !inRun || p.Time.Sub(prev) > StreakGap {
			start = p.Time
			inRun = true
		}
		prev = p.Time
		if d := prev.Sub(start); d > longest {
			longest = d
		}
	}
	return int(longest / time.Minute)
}

// Streaks returns LongestStreak for every category.
func Streaks(points []Point) map[Category]int {
	out := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		out[c] = LongestStreak(points, c)
	}
	return out
}
