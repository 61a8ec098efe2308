// Package risk computes glycemic risk and variability indices. All formulas
// are defined in mg/dL and applied after converting the canonical mmol/L.
// Empty input yields nil indices so that "no data" is never shown as zero.
package risk

import (
	"math"

	"glyco/defs"
	"glyco/pkg/stats"
	"glyco/pkg/units"
)

type Stats struct {
	LBGI   *float64 `json:"lbgi"`
	HBGI   *float64 `json:"hbgi"`
	BGRI   *float64 `json:"bgri"`
	JIndex *float64 `json:"jIndex"`
}

// Transform maps a mg/dL value into the symmetric risk space of Kovatchev
// et al.
func Transform(mgdl float64) float64 {
	return 1.509 * (math.Pow(math.Log(mgdl), 1.084) - 5.381)
}

// Risk returns the low and high risk components for a mg/dL value.
func Risk(mgdl float64) (rl, rh float64) {
	f := Transform(mgdl)
	r := 10 * f * f
	switch {
	case f < 0:
		return r, 0
	case f > 0:
		return 0, r
	}
	return 0, 0
}

func Compute(trs []defs.GlucoseReading) Stats {
	if len(trs) == 0 {
		return Stats{}
	}

	mgdl := toMgdl(trs)
	var sumLow, sumHigh float64
	for _, v := range mgdl {
		rl, rh := Risk(v)
		sumLow += rl
		sumHigh += rh
	}
	n := float64(len(mgdl))
	lbgi, hbgi := sumLow/n, sumHigh/n
	bgri := lbgi + hbgi

	ss := stats.Summary(mgdl)
	j := 0.001 * math.Pow(ss.Average+ss.Deviation, 2)

	return Stats{LBGI: &lbgi, HBGI: &hbgi, BGRI: &bgri, JIndex: &j}
}

// CoefficientOfVariation is 100*SD/mean in percent. It is nil for empty
// input or a zero mean.
func CoefficientOfVariation(trs []defs.GlucoseReading) *float64 {
	if len(trs) == 0 {
		return nil
	}
	values := make([]float64, len(trs))
	for i, tr := range trs {
		values[i] = tr.Mmol
	}
	ss := stats.Summary(values)
	if ss.Average == 0 {
		return nil
	}
	cv := 100 * ss.Deviation / ss.Average
	return &cv
}

// EstimatedHbA1c applies the ADAG regression to the mean glucose and returns
// the estimate in percent.
func EstimatedHbA1c(trs []defs.GlucoseReading) *float64 {
	if len(trs) == 0 {
		return nil
	}
	ss := stats.Summary(toMgdl(trs))
	a1c := (ss.Average + 46.7) / 28.7
	return &a1c
}

// EstimatedHbA1cIn is EstimatedHbA1c converted to unit.
func EstimatedHbA1cIn(trs []defs.GlucoseReading, unit units.HbA1cUnit) *float64 {
	a1c := EstimatedHbA1c(trs)
	if a1c == nil {
		return nil
	}
	v := units.HbA1cToDisplay(*a1c, unit)
	return &v
}

func toMgdl(trs []defs.GlucoseReading) []float64 {
	mgdl := make([]float64, len(trs))
	for i, tr := range trs {
		mgdl[i] = units.MmolToMgdl(tr.Mmol)
	}
	return mgdl
}
