package tir

import (
	"fmt"
	"sort"
	"time"

	"glyco/defs"
)

const (
	WorkdayLabel = "Workday"
	WeekendLabel = "Weekend"

	dateFormat = "2006-01-02"
)

// TrailingPeriods are the candidate windows for ByPeriod, longest first.
var TrailingPeriods = []int{28, 14, 7, 3}

// weekdayOrder lists calendar days Monday first.
var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

type DayStats struct {
	Label string `json:"label"`
	Stats Stats  `json:"stats"`
}

// ByDayOfWeek returns Monday..Sunday followed by the Workday and Weekend
// aggregates. The aggregates are sums of the daily buckets.
func ByDayOfWeek(trs []defs.GlucoseReading, cfg Config, loc *time.Location) ([]DayStats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var days [7]Stats
	for _, tr := range trs {
		days[tr.Time.In(loc).Weekday()].add(Classify(tr.Mmol, cfg.Thresholds, cfg.Mode))
	}

	out := make([]DayStats, 0, 9)
	var workday, weekend Stats
	for _, wd := range weekdayOrder {
		out = append(out, DayStats{Label: wd.String(), Stats: days[wd]})
		if wd == time.Saturday || wd == time.Sunday {
			weekend = weekend.Add(days[wd])
		} else {
			workday = workday.Add(days[wd])
		}
	}
	out = append(out,
		DayStats{Label: WorkdayLabel, Stats: workday},
		DayStats{Label: WeekendLabel, Stats: weekend},
	)
	return out, nil
}

type WeekStats struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
	Stats Stats     `json:"stats"`
}

// StartOfWeek returns the Monday at midnight of t's ISO week in loc.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, loc)
}

// ByWeek buckets readings by ISO week. Only weeks with readings are returned,
// oldest first.
func ByWeek(trs []defs.GlucoseReading, cfg Config, loc *time.Location) ([]WeekStats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	weeks := make(map[time.Time]*Stats)
	for _, tr := range trs {
		start := StartOfWeek(tr.Time, loc)
		s, ok := weeks[start]
		if !ok {
			s = &Stats{}
			weeks[start] = s
		}
		s.add(Classify(tr.Mmol, cfg.Thresholds, cfg.Mode))
	}

	out := make([]WeekStats, 0, len(weeks))
	for start, s := range weeks {
		end := start.AddDate(0, 0, 6)
		out = append(out, WeekStats{
			Start: start,
			End:   end,
			Label: fmt.Sprintf("%s - %s", start.Format(dateFormat), end.Format(dateFormat)),
			Stats: *s,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out, nil
}

type PeriodStats struct {
	Days  int       `json:"days"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
	Stats Stats     `json:"stats"`
}

// ByPeriod computes the trailing windows in TrailingPeriods ending on the
// date of end, or on the date of the latest reading when end is zero. A
// window is only returned when readings span all of its days, from the
// first reading's date through end.
func ByPeriod(trs []defs.GlucoseReading, cfg Config, loc *time.Location, end time.Time) ([]PeriodStats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(trs) == 0 {
		return []PeriodStats{}, nil
	}

	first, last := trs[0].Time, trs[0].Time
	for _, tr := range trs[1:] {
		if tr.Time.Before(first) {
			first = tr.Time
		}
		if tr.Time.After(last) {
			last = tr.Time
		}
	}
	if end.IsZero() {
		end = last
	}
	endDay := dayOf(end, loc)
	// A reference end past the latest reading's date yields no windows.
	span := 0
	if !endDay.After(dayOf(last, loc)) {
		span = daysBetween(dayOf(first, loc), endDay) + 1
	}

	out := make([]PeriodStats, 0, len(TrailingPeriods))
	for _, days := range TrailingPeriods {
		if span < days {
			continue
		}
		startDay := endDay.AddDate(0, 0, -(days - 1))
		limit := endDay.AddDate(0, 0, 1)

		var s Stats
		for _, tr := range trs {
			if !tr.Time.Before(startDay) && tr.Time.Before(limit) {
				s.add(Classify(tr.Mmol, cfg.Thresholds, cfg.Mode))
			}
		}
		out = append(out, PeriodStats{
			Days:  days,
			Start: startDay,
			End:   endDay,
			Label: fmt.Sprintf("%d days", days),
			Stats: s,
		})
	}
	return out, nil
}

type HourStats struct {
	StartHour int    `json:"startHour"`
	EndHour   int    `json:"endHour"`
	Label     string `json:"label"`
	Stats     Stats  `json:"stats"`
}

// ByHour buckets readings by hour of day, coalescing groupSize consecutive
// hours into one bucket. groupSize 1 yields the plain 24 hour form.
func ByHour(trs []defs.GlucoseReading, cfg Config, loc *time.Location, groupSize int) ([]HourStats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := defs.ValidateHourGroup(groupSize); err != nil {
		return nil, err
	}

	buckets := make([]Stats, 24/groupSize)
	for _, tr := range trs {
		buckets[tr.Time.In(loc).Hour()/groupSize].add(Classify(tr.Mmol, cfg.Thresholds, cfg.Mode))
	}

	out := make([]HourStats, len(buckets))
	for i, s := range buckets {
		start := i * groupSize
		out[i] = HourStats{
			StartHour: start,
			EndHour:   start + groupSize,
			Label:     fmt.Sprintf("%02d:00-%02d:00", start, start+groupSize),
			Stats:     s,
		}
	}
	return out, nil
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// daysBetween counts calendar days from a to b, ignoring DST shifts.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
