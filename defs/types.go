package defs

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TimePoint interface {
	GetTime() time.Time
}

// GlucoseReading is a single sensor value. Mmol is always mmol/L; conversion
// to mg/dL only happens when values leave the analytics packages.
type GlucoseReading struct {
	ID   *primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Time time.Time           `bson:"time" json:"time"`
	Mmol float64             `bson:"mmol" json:"mmol"`
}

func (gr GlucoseReading) GetTime() time.Time {
	return gr.Time
}

type InsulinKind int

const (
	Bolus InsulinKind = iota
	Basal
)

func (ik InsulinKind) String() string {
	switch ik {
	case Bolus:
		return "bolus"
	case Basal:
		return "basal"
	}
	return "unknown"
}

type InsulinReading struct {
	ID   *primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Time time.Time           `bson:"time" json:"time"`
	Dose float64             `bson:"dose" json:"dose"`
	Kind InsulinKind         `bson:"kind" json:"kind"`
}

func (ir InsulinReading) GetTime() time.Time {
	return ir.Time
}

// GlucoseThresholds are the category boundaries in mmol/L. They must satisfy
// VeryLow < Low < High < VeryHigh; see Validate.
type GlucoseThresholds struct {
	VeryLow  float64 `yaml:"veryLow" json:"veryLow"`
	Low      float64 `yaml:"low" json:"low"`
	High     float64 `yaml:"high" json:"high"`
	VeryHigh float64 `yaml:"veryHigh" json:"veryHigh"`
}

// DefaultThresholds are the consensus CGM targets (3.0/3.9/10.0/13.9 mmol/L).
var DefaultThresholds = GlucoseThresholds{
	VeryLow:  3.0,
	Low:      3.9,
	High:     10.0,
	VeryHigh: 13.9,
}

func (gt GlucoseThresholds) Validate() error {
	if !(gt.VeryLow < gt.Low && gt.Low < gt.High && gt.High < gt.VeryHigh) {
		return fmt.Errorf("%w: want veryLow < low < high < veryHigh, got %.2f/%.2f/%.2f/%.2f",
			ErrInvalidThresholds, gt.VeryLow, gt.Low, gt.High, gt.VeryHigh)
	}
	return nil
}

// CategoryMode selects 3-band or 5-band range classification.
type CategoryMode int

const (
	ThreeBands CategoryMode = 3
	FiveBands  CategoryMode = 5
)

func (cm CategoryMode) Validate() error {
	if cm != ThreeBands && cm != FiveBands {
		return fmt.Errorf("%w: %d", ErrInvalidCategoryMode, cm)
	}
	return nil
}
