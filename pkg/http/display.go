package http

import (
	"glyco/pkg/agp"
	"glyco/pkg/report"
	"glyco/pkg/roc"
	"glyco/pkg/units"
)

// displayReport converts the glucose valued parts of rep into unit. Reports
// are shared through the cache, so rep is copied rather than modified.
func displayReport(rep *report.Report, unit units.GlucoseUnit) *report.Report {
	if unit == units.MmolL {
		return rep
	}

	out := *rep
	out.AGP = make([]agp.TimeSlotStats, len(rep.AGP))
	for i, slot := range rep.AGP {
		out.AGP[i] = displaySlot(slot, unit)
	}
	out.RoC.Points = displayPoints(rep.RoC.Points, unit)
	out.RoC.Smoothed = displayPoints(rep.RoC.Smoothed, unit)

	st := rep.RoC.Stats
	st.Mean = units.RoCToDisplay(st.Mean, unit)
	st.Min = units.RoCToDisplay(st.Min, unit)
	st.Max = units.RoCToDisplay(st.Max, unit)
	st.StdDev = units.RoCToDisplay(st.StdDev, unit)
	out.RoC.Stats = st
	return &out
}

func displayGlucose(mmol float64, unit units.GlucoseUnit) float64 {
	return units.RoundDisplay(units.ToDisplay(mmol, unit), unit)
}

func displaySlot(slot agp.TimeSlotStats, unit units.GlucoseUnit) agp.TimeSlotStats {
	slot.Lowest = displayGlucose(slot.Lowest, unit)
	slot.P10 = displayGlucose(slot.P10, unit)
	slot.P25 = displayGlucose(slot.P25, unit)
	slot.P50 = displayGlucose(slot.P50, unit)
	slot.P75 = displayGlucose(slot.P75, unit)
	slot.P90 = displayGlucose(slot.P90, unit)
	slot.Highest = displayGlucose(slot.Highest, unit)
	return slot
}

// Rates keep full precision; categories and colours stay those of the
// canonical rate.
func displayPoints(points []roc.Point, unit units.GlucoseUnit) []roc.Point {
	out := make([]roc.Point, len(points))
	for i, p := range points {
		p.RoC = units.RoCToDisplay(p.RoC, unit)
		p.Signed = units.RoCToDisplay(p.Signed, unit)
		p.Glucose = displayGlucose(p.Glucose, unit)
		out[i] = p
	}
	return out
}
