// Package iob estimates insulin on board with a single exponential decay
// whose half life is half the duration of insulin action.
package iob

import (
	"math"
	"time"

	"glyco/defs"
)

// DefaultStep is the timeline sampling interval.
const DefaultStep = 15 * time.Minute

type Point struct {
	Time  time.Time `json:"time"`
	Basal float64   `json:"basalIOB"`
	Bolus float64   `json:"bolusIOB"`
	Total float64   `json:"totalIOB"`
}

// Active is the insulin remaining from dose after elapsed, for an action
// duration of duration. It is zero outside [0, duration).
func Active(dose float64, elapsed, duration time.Duration) float64 {
	if duration <= 0 || elapsed < 0 || elapsed >= duration {
		return 0
	}
	halfLife := duration.Hours() / 2
	return dose * math.Exp(-math.Ln2/halfLife*elapsed.Hours())
}

// At sums the active insulin of every dose given in [t-duration, t].
func At(doses []defs.InsulinReading, t time.Time, duration time.Duration) (Point, error) {
	if err := defs.ValidateInsulinDuration(duration); err != nil {
		return Point{}, err
	}
	return at(doses, t, duration), nil
}

func at(doses []defs.InsulinReading, t time.Time, duration time.Duration) Point {
	p := Point{Time: t}
	from := t.Add(-duration)
	for _, d := range doses {
		if d.Time.Before(from) || d.Time.After(t) {
			continue
		}
		active := Active(d.Dose, t.Sub(d.Time), duration)
		switch d.Kind {
		case defs.Basal:
			p.Basal += active
		default:
			p.Bolus += active
		}
	}
	p.Total = p.Basal + p.Bolus
	return p
}

// LookbackStart is the earliest dose time that can still be active during
// the calendar day containing day. Callers pre-filtering doses for Timeline
// must start here, not at midnight.
func LookbackStart(day time.Time, duration time.Duration, loc *time.Location) time.Time {
	return startOfDay(day, loc).Add(-duration)
}

// Timeline samples IOB every step across the calendar day containing day in
// loc. A step of zero selects DefaultStep.
func Timeline(doses []defs.InsulinReading, day time.Time, duration, step time.Duration, loc *time.Location) ([]Point, error) {
	if err := defs.ValidateInsulinDuration(duration); err != nil {
		return nil, err
	}
	if step <= 0 {
		step = DefaultStep
	}

	start := startOfDay(day, loc)
	end := start.AddDate(0, 0, 1)
	points := make([]Point, 0, int(end.Sub(start)/step))
	for t := start; t.Before(end); t = t.Add(step) {
		points = append(points, at(doses, t, duration))
	}
	return points, nil
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
