package defs

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

const DefaultDB = "glyco"

const (
	TimeoutInterval  = 2 * time.Second
	DefaultAddress   = ":4242"
	DefaultCacheSize = 256
)

type Config struct {
	Mongo     MongoConfig       `yaml:"mongo"`
	Glucose   GlucoseThresholds `yaml:"glucose"`
	Analytics AnalyticsConfig   `yaml:"analytics"`
	HTTP      HTTPConfig        `yaml:"http"`
	Timezone  string            `yaml:"timezone"`
	Logger    *zap.Logger       `yaml:"-"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
	// CacheSize caps the number of memoized reports.
	CacheSize int `yaml:"cacheSize"`
}

type AnalyticsConfig struct {
	CategoryMode CategoryMode `yaml:"categoryMode"`
	RoCInterval  RoCInterval  `yaml:"rocInterval"`
	HourGroup    int          `yaml:"hourGroup"`
	// InsulinDuration is the duration of insulin action in hours.
	InsulinDuration float64 `yaml:"insulinDuration"`
	Precision       int     `yaml:"precision"`
}

// DefaultAnalytics mirrors what most CGM reports use out of the box.
var DefaultAnalytics = AnalyticsConfig{
	CategoryMode:    FiveBands,
	RoCInterval:     Consecutive,
	HourGroup:       1,
	InsulinDuration: 4,
	Precision:       1,
}

func (ac AnalyticsConfig) InsulinActionDuration() time.Duration {
	return time.Duration(ac.InsulinDuration * float64(time.Hour))
}

func (ac AnalyticsConfig) Validate() error {
	if err := ac.CategoryMode.Validate(); err != nil {
		return err
	}
	if err := ac.RoCInterval.Validate(); err != nil {
		return err
	}
	if err := ValidateHourGroup(ac.HourGroup); err != nil {
		return err
	}
	return ValidateInsulinDuration(ac.InsulinActionDuration())
}

func (c Config) Validate() error {
	if err := c.Glucose.Validate(); err != nil {
		return fmt.Errorf("unable to validate glucose config: %w", err)
	}
	if err := c.Analytics.Validate(); err != nil {
		return fmt.Errorf("unable to validate analytics config: %w", err)
	}
	return nil
}

// Location resolves the configured timezone, falling back to time.Local.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// RoCInterval is the lookback used for interval-mode rate of change, in
// minutes. Consecutive (0) compares adjacent readings instead.
type RoCInterval int

const (
	Consecutive RoCInterval = 0
	Interval15  RoCInterval = 15
	Interval30  RoCInterval = 30
	Interval60  RoCInterval = 60
	Interval120 RoCInterval = 120
)

func (ri RoCInterval) Duration() time.Duration {
	return time.Duration(ri) * time.Minute
}

func (ri RoCInterval) Validate() error {
	switch ri {
	case Consecutive, Interval15, Interval30, Interval60, Interval120:
		return nil
	}
	return fmt.Errorf("%w: %d minutes", ErrInvalidRoCInterval, ri)
}

func ValidateHourGroup(size int) error {
	switch size {
	case 1, 2, 3, 4, 6:
		return nil
	}
	return fmt.Errorf("%w: %d hours", ErrInvalidHourGroup, size)
}

func ValidateInsulinDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInsulinDuration, d)
	}
	return nil
}
