// Package agp builds the ambulatory glucose profile: percentile bands per
// 5-minute time-of-day slot, folding all days onto one 24 hour axis.
package agp

import (
	"fmt"
	"sort"
	"time"

	"glyco/defs"
	"glyco/pkg/stats"
)

const (
	SlotMinutes = 5
	SlotCount   = 24 * 60 / SlotMinutes
)

type TimeSlotStats struct {
	TimeSlot string  `json:"timeSlot"`
	Lowest   float64 `json:"lowest"`
	P10      float64 `json:"p10"`
	P25      float64 `json:"p25"`
	P50      float64 `json:"p50"`
	P75      float64 `json:"p75"`
	P90      float64 `json:"p90"`
	Highest  float64 `json:"highest"`
	Count    int     `json:"count"`
}

// SlotIndex returns the 5-minute slot of t's clock time in loc.
func SlotIndex(t time.Time, loc *time.Location) int {
	t = t.In(loc)
	return (t.Hour()*60 + t.Minute()) / SlotMinutes
}

func SlotLabel(i int) string {
	m := i * SlotMinutes
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Build always returns SlotCount entries ordered 00:00..23:55. Slots without
// readings are zero-filled with Count 0 and should not be drawn.
func Build(trs []defs.GlucoseReading, loc *time.Location) []TimeSlotStats {
	var buckets [SlotCount][]float64
	for _, tr := range trs {
		i := SlotIndex(tr.Time, loc)
		buckets[i] = append(buckets[i], tr.Mmol)
	}

	profile := make([]TimeSlotStats, SlotCount)
	for i := range buckets {
		profile[i] = slotStats(SlotLabel(i), buckets[i])
	}
	return profile
}

func slotStats(label string, values []float64) TimeSlotStats {
	if len(values) == 0 {
		return TimeSlotStats{TimeSlot: label}
	}

	sort.Float64s(values)
	return TimeSlotStats{
		TimeSlot: label,
		Lowest:   values[0],
		P10:      stats.Percentile(values, 10),
		P25:      stats.Percentile(values, 25),
		P50:      stats.Percentile(values, 50),
		P75:      stats.Percentile(values, 75),
		P90:      stats.Percentile(values, 90),
		Highest:  values[len(values)-1],
		Count:    len(values),
	}
}
