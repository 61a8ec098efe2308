package defs

import "errors"

// Configuration defects. Data conditions (empty input, gaps) are never errors.
var (
	ErrInvalidThresholds      = errors.New("invalid glucose thresholds")
	ErrInvalidCategoryMode    = errors.New("invalid category mode")
	ErrInvalidRoCInterval     = errors.New("invalid rate of change interval")
	ErrInvalidHourGroup       = errors.New("invalid hour group")
	ErrInvalidInsulinDuration = errors.New("invalid insulin duration")
)
