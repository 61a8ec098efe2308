// Package filter narrows reading lists by calendar date, weekday and time of
// day. Filtering never mutates its input.
package filter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"glyco/defs"
)

const dateFormat = "2006-01-02"

// ClockTime is a time of day as minutes past midnight.
type ClockTime int

func Clock(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

func ClockOf(t time.Time) ClockTime {
	return Clock(t.Hour(), t.Minute())
}

func ParseClock(s string) (ClockTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("unable to parse clock time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time out of range: %q", s)
	}
	return Clock(h, m), nil
}

func (ct ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(ct)/60, int(ct)%60)
}

// Day truncates t to midnight in loc.
func Day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// ByDateRange keeps readings whose calendar date in loc lies within
// [start, end], both inclusive. Only the date part of start and end is used.
func ByDateRange[T defs.TimePoint](readings []T, start, end time.Time, loc *time.Location) []T {
	first, last := Day(start, loc), Day(end, loc).AddDate(0, 0, 1)
	out := make([]T, 0, len(readings))
	for _, r := range readings {
		t := r.GetTime()
		if !t.Before(first) && t.Before(last) {
			out = append(out, r)
		}
	}
	return out
}

// ByWeekdays keeps readings falling on one of days in loc.
func ByWeekdays[T defs.TimePoint](readings []T, loc *time.Location, days ...time.Weekday) []T {
	var keep [7]bool
	for _, d := range days {
		keep[d] = true
	}
	out := make([]T, 0, len(readings))
	for _, r := range readings {
		if keep[r.GetTime().In(loc).Weekday()] {
			out = append(out, r)
		}
	}
	return out
}

// ByTimeOfDay keeps readings with clock time in [from, to). A window with
// from > to wraps past midnight, e.g. 22:00-06:00.
func ByTimeOfDay[T defs.TimePoint](readings []T, from, to ClockTime, loc *time.Location) []T {
	out := make([]T, 0, len(readings))
	for _, r := range readings {
		if inWindow(ClockOf(r.GetTime().In(loc)), from, to) {
			out = append(out, r)
		}
	}
	return out
}

func inWindow(ct, from, to ClockTime) bool {
	if from <= to {
		return ct >= from && ct < to
	}
	return ct >= from || ct < to
}

// Filter combines the individual filters. Zero fields are not applied.
type Filter struct {
	Start    time.Time
	End      time.Time
	Weekdays []time.Weekday
	From     *ClockTime
	To       *ClockTime
}

func Apply[T defs.TimePoint](readings []T, f Filter, loc *time.Location) []T {
	out := readings
	if !f.Start.IsZero() || !f.End.IsZero() {
		start, end := f.Start, f.End
		if start.IsZero() {
			start = time.Date(1, 1, 1, 0, 0, 0, 0, loc)
		}
		if end.IsZero() {
			end = time.Date(9999, 12, 31, 0, 0, 0, 0, loc)
		}
		out = ByDateRange(out, start, end, loc)
	}
	if len(f.Weekdays) > 0 {
		out = ByWeekdays(out, loc, f.Weekdays...)
	}
	if f.From != nil && f.To != nil {
		out = ByTimeOfDay(out, *f.From, *f.To, loc)
	}
	if f.IsZero() {
		// Hand back a copy so callers can sort freely.
		out = append(make([]T, 0, len(readings)), readings...)
	}
	return out
}

func (f Filter) IsZero() bool {
	return f.Start.IsZero() && f.End.IsZero() && len(f.Weekdays) == 0 && (f.From == nil || f.To == nil)
}

// Key identifies the filter for memoization. Equal filters give equal keys.
func (f Filter) Key() string {
	var sb strings.Builder
	if !f.Start.IsZero() {
		sb.WriteString(f.Start.Format(dateFormat))
	}
	sb.WriteString("..")
	if !f.End.IsZero() {
		sb.WriteString(f.End.Format(dateFormat))
	}

	days := append([]time.Weekday(nil), f.Weekdays...)
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	sb.WriteString("|")
	for _, d := range days {
		fmt.Fprintf(&sb, "%d", d)
	}

	sb.WriteString("|")
	if f.From != nil && f.To != nil {
		sb.WriteString(f.From.String() + "-" + f.To.String())
	}
	return sb.String()
}
