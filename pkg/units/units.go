// Package units converts glucose, HbA1c and rate of change values between the
// canonical mmol/L representation and display units.
package units

import (
	"fmt"
	"math"
	"strings"
)

// MgdlPerMmol is the mg/dL equivalent of 1 mmol/L of glucose.
const MgdlPerMmol = 18.0182

type GlucoseUnit string

const (
	MmolL GlucoseUnit = "mmol/L"
	MgdL  GlucoseUnit = "mg/dL"
)

// ParseGlucoseUnit accepts "mmol/L" or "mg/dL" in any case, with or
// without the slash.
func ParseGlucoseUnit(s string) (GlucoseUnit, error) {
	switch strings.ReplaceAll(strings.ToLower(s), "/", "") {
	case "mmoll", "mmol":
		return MmolL, nil
	case "mgdl":
		return MgdL, nil
	}
	return "", fmt.Errorf("unknown glucose unit %q", s)
}

func MmolToMgdl(mmol float64) float64 {
	return mmol * MgdlPerMmol
}

func MgdlToMmol(mgdl float64) float64 {
	return mgdl / MgdlPerMmol
}

// ToDisplay converts a canonical mmol/L value into unit.
func ToDisplay(mmol float64, unit GlucoseUnit) float64 {
	if unit == MgdL {
		return MmolToMgdl(mmol)
	}
	return mmol
}

// FromDisplay converts a value in unit back to mmol/L.
func FromDisplay(v float64, unit GlucoseUnit) float64 {
	if unit == MgdL {
		return MgdlToMmol(v)
	}
	return v
}

// RoundDisplay rounds to the customary precision of unit: whole numbers for
// mg/dL, one decimal for mmol/L.
func RoundDisplay(v float64, unit GlucoseUnit) float64 {
	if unit == MgdL {
		return math.Round(v)
	}
	return math.Round(v*10) / 10
}

type HbA1cUnit string

const (
	Percent HbA1cUnit = "%"
	MmolMol HbA1cUnit = "mmol/mol"
)

// PercentToMmolMol converts an NGSP HbA1c percentage to IFCC mmol/mol.
func PercentToMmolMol(percent float64) float64 {
	return (percent - 2.15) * 10.929
}

func MmolMolToPercent(mmolMol float64) float64 {
	return mmolMol/10.929 + 2.15
}

func HbA1cToDisplay(percent float64, unit HbA1cUnit) float64 {
	if unit == MmolMol {
		return PercentToMmolMol(percent)
	}
	return percent
}

// Rates of change are kept in mmol/L per 5 minutes internally.
const rocWindowMinutes = 5

func PerMinuteToPerFive(perMinute float64) float64 {
	return perMinute * rocWindowMinutes
}

func PerFiveToPerMinute(perFive float64) float64 {
	return perFive / rocWindowMinutes
}

// RoCToDisplay converts a mmol/L per 5 minute rate into unit per 5 minutes.
func RoCToDisplay(perFive float64, unit GlucoseUnit) float64 {
	return ToDisplay(perFive, unit)
}
