// Package tir classifies glucose readings into range categories and
// aggregates the counts by weekday, ISO week, trailing period and hour.
package tir

import (
	"glyco/defs"
	"glyco/pkg/stats"
)

type Category string

const (
	VeryLow  Category = "veryLow"
	Low      Category = "low"
	InRange  Category = "inRange"
	High     Category = "high"
	VeryHigh Category = "veryHigh"
)

// Classify puts mmol into a category. Both ends of the in-range band are
// inclusive. In 3-band mode VeryLow folds into Low and VeryHigh into High.
func Classify(mmol float64, th defs.GlucoseThresholds, mode defs.CategoryMode) Category {
	switch {
	case mmol < th.VeryLow:
		if mode == defs.FiveBands {
			return VeryLow
		}
		return Low
	case mmol < th.Low:
		return Low
	case mmol <= th.High:
		return InRange
	case mmol <= th.VeryHigh:
		return High
	default:
		if mode == defs.FiveBands {
			return VeryHigh
		}
		return High
	}
}

// Stats holds mutually exclusive category counts summing to Total. VeryLow
// and VeryHigh are always zero in 3-band mode.
type Stats struct {
	VeryLow  int `json:"veryLow,omitempty"`
	Low      int `json:"low"`
	InRange  int `json:"inRange"`
	High     int `json:"high"`
	VeryHigh int `json:"veryHigh,omitempty"`
	Total    int `json:"total"`
}

func (s *Stats) add(c Category) {
	switch c {
	case VeryLow:
		s.VeryLow++
	case Low:
		s.Low++
	case InRange:
		s.InRange++
	case High:
		s.High++
	case VeryHigh:
		s.VeryHigh++
	}
	s.Total++
}

func (s Stats) Add(o Stats) Stats {
	return Stats{
		VeryLow:  s.VeryLow + o.VeryLow,
		Low:      s.Low + o.Low,
		InRange:  s.InRange + o.InRange,
		High:     s.High + o.High,
		VeryHigh: s.VeryHigh + o.VeryHigh,
		Total:    s.Total + o.Total,
	}
}

type Percentages struct {
	VeryLow  float64 `json:"veryLow,omitempty"`
	Low      float64 `json:"low"`
	InRange  float64 `json:"inRange"`
	High     float64 `json:"high"`
	VeryHigh float64 `json:"veryHigh,omitempty"`
}

// Percentages of Total rounded to precision; all zero when Total is 0.
func (s Stats) Percentages(precision int) Percentages {
	return Percentages{
		VeryLow:  stats.Percentage(s.VeryLow, s.Total, precision),
		Low:      stats.Percentage(s.Low, s.Total, precision),
		InRange:  stats.Percentage(s.InRange, s.Total, precision),
		High:     stats.Percentage(s.High, s.Total, precision),
		VeryHigh: stats.Percentage(s.VeryHigh, s.Total, precision),
	}
}

// Config is the classification configuration shared by every aggregation.
type Config struct {
	Thresholds defs.GlucoseThresholds
	Mode       defs.CategoryMode
}

func (c Config) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	return c.Mode.Validate()
}

func Compute(trs []defs.GlucoseReading, cfg Config) (Stats, error) {
	if err := cfg.Validate(); err != nil {
		return Stats{}, err
	}
	return count(trs, cfg), nil
}

func count(trs []defs.GlucoseReading, cfg Config) Stats {
	var s Stats
	for _, tr := range trs {
		s.add(Classify(tr.Mmol, cfg.Thresholds, cfg.Mode))
	}
	return s
}
