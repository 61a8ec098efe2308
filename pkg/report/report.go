// Package report runs every analytics component over one reading set and
// bundles the results. Components are independent and run concurrently.
package report

import (
	"context"
	"fmt"
	"time"

	"glyco/defs"
	"glyco/pkg/agp"
	"glyco/pkg/filter"
	"glyco/pkg/iob"
	"glyco/pkg/risk"
	"glyco/pkg/roc"
	"glyco/pkg/tir"
	"glyco/pkg/units"

	"golang.org/x/sync/errgroup"
)

type Request struct {
	Glucose []defs.GlucoseReading
	Insulin []defs.InsulinReading

	Filter     filter.Filter
	Thresholds defs.GlucoseThresholds
	Analytics  defs.AnalyticsConfig
	Location   *time.Location

	// Day selects the IOB timeline day. Zero skips the timeline.
	Day time.Time
	// ReferenceEnd aligns trailing periods; zero uses the latest reading.
	ReferenceEnd time.Time
}

func (r Request) Validate() error {
	if err := r.Thresholds.Validate(); err != nil {
		return err
	}
	return r.Analytics.Validate()
}

type TIRReport struct {
	Overall     tir.Stats         `json:"overall"`
	Percentages tir.Percentages   `json:"percentages"`
	ByDay       []tir.DayStats    `json:"byDay"`
	ByWeek      []tir.WeekStats   `json:"byWeek"`
	ByPeriod    []tir.PeriodStats `json:"byPeriod"`
	ByHour      []tir.HourStats   `json:"byHour"`
}

type RoCReport struct {
	Points   []roc.Point          `json:"points"`
	Smoothed []roc.Point          `json:"smoothed"`
	Stats    roc.Stats            `json:"stats"`
	Streaks  map[roc.Category]int `json:"streaks"`
}

type RiskReport struct {
	risk.Stats
	CV           *float64 `json:"cv"`
	HbA1c        *float64 `json:"hba1c"`
	HbA1cMmolMol *float64 `json:"hba1cMmolMol"`
}

type Report struct {
	Readings int                 `json:"readings"`
	AGP      []agp.TimeSlotStats `json:"agp"`
	TIR      TIRReport           `json:"tir"`
	RoC      RoCReport           `json:"roc"`
	Risk     RiskReport          `json:"risk"`
	IOB      []iob.Point         `json:"iob,omitempty"`
}

// Build validates the configuration, filters the glucose readings and
// computes every section. Insulin is not filtered so the IOB lookback can
// reach before the requested day.
func Build(ctx context.Context, req Request) (*Report, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("unable to build report: %w", err)
	}
	loc := req.Location
	if loc == nil {
		loc = time.Local
	}

	trs := filter.Apply(req.Glucose, req.Filter, loc)
	rep := &Report{Readings: len(trs)}
	cfg := tir.Config{Thresholds: req.Thresholds, Mode: req.Analytics.CategoryMode}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rep.AGP = agp.Build(trs, loc)
		return ctx.Err()
	})
	g.Go(func() error {
		var err error
		rep.TIR, err = buildTIR(trs, cfg, req, loc)
		return err
	})
	g.Go(func() error {
		var err error
		rep.RoC, err = buildRoC(trs, req.Analytics.RoCInterval)
		return err
	})
	g.Go(func() error {
		rep.Risk = buildRisk(trs)
		return ctx.Err()
	})
	if !req.Day.IsZero() {
		g.Go(func() error {
			var err error
			rep.IOB, err = iob.Timeline(req.Insulin, req.Day, req.Analytics.InsulinActionDuration(), iob.DefaultStep, loc)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("unable to build report: %w", err)
	}
	return rep, nil
}

func buildTIR(trs []defs.GlucoseReading, cfg tir.Config, req Request, loc *time.Location) (TIRReport, error) {
	var tr TIRReport
	var err error

	if tr.Overall, err = tir.Compute(trs, cfg); err != nil {
		return tr, err
	}
	tr.Percentages = tr.Overall.Percentages(req.Analytics.Precision)
	if tr.ByDay, err = tir.ByDayOfWeek(trs, cfg, loc); err != nil {
		return tr, err
	}
	if tr.ByWeek, err = tir.ByWeek(trs, cfg, loc); err != nil {
		return tr, err
	}
	if tr.ByPeriod, err = tir.ByPeriod(trs, cfg, loc, req.ReferenceEnd); err != nil {
		return tr, err
	}
	tr.ByHour, err = tir.ByHour(trs, cfg, loc, req.Analytics.HourGroup)
	return tr, err
}

func buildRoC(trs []defs.GlucoseReading, interval defs.RoCInterval) (RoCReport, error) {
	points, err := roc.Compute(trs, interval)
	if err != nil {
		return RoCReport{}, err
	}
	smoothed := roc.Smooth(points)
	return RoCReport{
		Points:   points,
		Smoothed: smoothed,
		Stats:    roc.Summarize(smoothed),
		Streaks:  roc.Streaks(smoothed),
	}, nil
}

func buildRisk(trs []defs.GlucoseReading) RiskReport {
	return RiskReport{
		Stats:        risk.Compute(trs),
		CV:           risk.CoefficientOfVariation(trs),
		HbA1c:        risk.EstimatedHbA1c(trs),
		HbA1cMmolMol: risk.EstimatedHbA1cIn(trs, units.MmolMol),
	}
}
