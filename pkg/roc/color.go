package roc

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Colors run from green (hue 120) at a flat rate to red (hue 0) at
// ColorMaxRate and beyond.
const (
	ColorMaxRate    = 0.6
	colorSaturation = 0.85
	colorValue      = 0.8
)

// Color returns the hex colour for an absolute per-5-minute rate.
func Color(rate float64) string {
	t := math.Max(0, math.Min(rate/ColorMaxRate, 1))
	return colorful.Hsv(120*(1-t), colorSaturation, colorValue).Hex()
}
