package backtest

import (
	"fmt"

	"github.com/ducminhle1904/crypto-pairs-lab/internal/hedge"
)

// Default simulation parameters.
const (
	DefaultWindow         = 60
	DefaultEntryThreshold = 2.0
	DefaultExitThreshold  = 0.0
	DefaultCommission     = 0.001
	DefaultInitialCapital = 10000.0
	DefaultPeriodsPerYear = 252.0
)

// Config holds everything one backtest run needs beyond the price pair
// itself: the estimation strategy, the signal window, the entry/exit
// hysteresis thresholds, and the execution accounting parameters.
type Config struct {
	Mode hedge.Mode

	// Signal parameters.
	Window         int
	EntryThreshold float64
	ExitThreshold  float64

	// Execution accounting.
	Commission     float64
	InitialCapital float64
	PeriodsPerYear float64

	// Static mode: regression window in bars, 0 = full history.
	TrainingBars int

	// Kalman mode.
	ProcessNoise      float64
	ObservationNoise  float64
	InitialRatio      float64
	InitialCovariance float64
	WarmStartBars     int
}

// DefaultConfig returns a static-mode configuration with the standard
// window, thresholds and filter parameters.
func DefaultConfig() Config {
	return Config{
		Mode:              hedge.ModeStatic,
		Window:            DefaultWindow,
		EntryThreshold:    DefaultEntryThreshold,
		ExitThreshold:     DefaultExitThreshold,
		Commission:        DefaultCommission,
		InitialCapital:    DefaultInitialCapital,
		PeriodsPerYear:    DefaultPeriodsPerYear,
		ProcessNoise:      hedge.DefaultProcessNoise,
		ObservationNoise:  hedge.DefaultObservationNoise,
		InitialCovariance: hedge.DefaultInitialCovariance,
	}
}

// Validate checks the configuration and returns a ConfigError describing the
// first violated constraint.
func (c Config) Validate() error {
	if !c.Mode.Valid() {
		return &ConfigError{Field: "mode", Reason: fmt.Sprintf("unknown estimator mode %q", c.Mode)}
	}
	if c.Window <= 0 {
		return &ConfigError{Field: "window", Reason: fmt.Sprintf("must be positive, got %d", c.Window)}
	}
	if c.EntryThreshold <= 0 {
		return &ConfigError{Field: "entry_threshold", Reason: fmt.Sprintf("must be positive, got %v", c.EntryThreshold)}
	}
	if c.ExitThreshold < 0 {
		return &ConfigError{Field: "exit_threshold", Reason: fmt.Sprintf("must be non-negative, got %v", c.ExitThreshold)}
	}
	if c.EntryThreshold <= c.ExitThreshold {
		return &ConfigError{
			Field:  "entry_threshold",
			Reason: fmt.Sprintf("entry (%v) must exceed exit (%v)", c.EntryThreshold, c.ExitThreshold),
		}
	}
	if c.Commission < 0 {
		return &ConfigError{Field: "commission", Reason: fmt.Sprintf("must be non-negative, got %v", c.Commission)}
	}
	if c.InitialCapital <= 0 {
		return &ConfigError{Field: "initial_capital", Reason: fmt.Sprintf("must be positive, got %v", c.InitialCapital)}
	}
	if c.PeriodsPerYear <= 0 {
		return &ConfigError{Field: "periods_per_year", Reason: fmt.Sprintf("must be positive, got %v", c.PeriodsPerYear)}
	}
	if c.TrainingBars < 0 {
		return &ConfigError{Field: "training_bars", Reason: fmt.Sprintf("must be non-negative, got %d", c.TrainingBars)}
	}

	if c.Mode == hedge.ModeKalman {
		if c.ProcessNoise <= 0 {
			return &ConfigError{Field: "process_noise", Reason: fmt.Sprintf("must be positive in kalman mode, got %v", c.ProcessNoise)}
		}
		if c.ObservationNoise <= 0 {
			return &ConfigError{Field: "observation_noise", Reason: fmt.Sprintf("must be positive in kalman mode, got %v", c.ObservationNoise)}
		}
		if c.InitialCovariance <= 0 {
			return &ConfigError{Field: "initial_covariance", Reason: fmt.Sprintf("must be positive in kalman mode, got %v", c.InitialCovariance)}
		}
	}

	return nil
}

// Estimator builds the hedge-ratio estimator this configuration selects.
func (c Config) Estimator() hedge.Estimator {
	if c.Mode == hedge.ModeKalman {
		return &hedge.KalmanEstimator{
			ProcessNoise:      c.ProcessNoise,
			ObservationNoise:  c.ObservationNoise,
			InitialRatio:      c.InitialRatio,
			InitialCovariance: c.InitialCovariance,
			WarmStartBars:     c.WarmStartBars,
		}
	}
	return hedge.NewStaticEstimator(c.TrainingBars)
}
