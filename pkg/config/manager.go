package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ducminhle1904/crypto-pairs-lab/internal/backtest"
	"github.com/ducminhle1904/crypto-pairs-lab/internal/hedge"
	"github.com/ducminhle1904/crypto-pairs-lab/internal/screen"
)

// NewDefaultPairConfig returns a config with every default filled in.
func NewDefaultPairConfig() *PairConfig {
	return &PairConfig{
		Data: DataConfig{
			Root:       DefaultDataRoot,
			Exchange:   DefaultExchange,
			Interval:   DefaultInterval,
			MatrixFile: DefaultMatrixFile,
		},
		Estimator: EstimatorConfig{
			Mode:              string(hedge.ModeStatic),
			ProcessNoise:      hedge.DefaultProcessNoise,
			ObservationNoise:  hedge.DefaultObservationNoise,
			InitialCovariance: hedge.DefaultInitialCovariance,
		},
		Signal: SignalConfig{
			Window:         backtest.DefaultWindow,
			EntryThreshold: backtest.DefaultEntryThreshold,
			ExitThreshold:  backtest.DefaultExitThreshold,
		},
		Execution: ExecutionConfig{
			Commission:     backtest.DefaultCommission,
			InitialCapital: backtest.DefaultInitialCapital,
			PeriodsPerYear: backtest.DefaultPeriodsPerYear,
		},
		Grid: GridConfig{
			WindowMin:  20,
			WindowMax:  100,
			WindowStep: 20,
			EntryMin:   1.0,
			EntryMax:   3.0,
			EntryStep:  0.5,
		},
		Screen: ScreenConfig{
			MinCorrelation: screen.DefaultMinCorrelation,
			MaxHalfLife:    screen.DefaultMaxHalfLife,
			TopN:           15,
		},
		Monitoring: MonitoringConfig{
			Port: 8080,
		},
	}
}

// LoadPairConfig loads configuration from a YAML file on top of the
// defaults. An empty path returns the defaults unchanged.
func LoadPairConfig(path string) (*PairConfig, error) {
	cfg := NewDefaultPairConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// SavePairConfig writes the configuration as YAML, creating parent
// directories as needed.
func SavePairConfig(cfg *PairConfig, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	return os.WriteFile(path, data, 0644)
}

// ToBacktestConfig maps the estimator, signal, and execution sections onto
// an engine config.
func (c *PairConfig) ToBacktestConfig() backtest.Config {
	return backtest.Config{
		Mode:              hedge.Mode(c.Estimator.Mode),
		Window:            c.Signal.Window,
		EntryThreshold:    c.Signal.EntryThreshold,
		ExitThreshold:     c.Signal.ExitThreshold,
		Commission:        c.Execution.Commission,
		InitialCapital:    c.Execution.InitialCapital,
		PeriodsPerYear:    c.Execution.PeriodsPerYear,
		TrainingBars:      c.Estimator.TrainingBars,
		ProcessNoise:      c.Estimator.ProcessNoise,
		ObservationNoise:  c.Estimator.ObservationNoise,
		InitialRatio:      c.Estimator.InitialRatio,
		InitialCovariance: c.Estimator.InitialCovariance,
		WarmStartBars:     c.Estimator.WarmStartBars,
	}
}

// GridWindows expands the grid section's window range.
func (c *PairConfig) GridWindows() []int {
	return backtest.WindowRange(c.Grid.WindowMin, c.Grid.WindowMax, c.Grid.WindowStep)
}

// GridThresholds expands the grid section's entry-threshold range.
func (c *PairConfig) GridThresholds() []float64 {
	return backtest.ThresholdRange(c.Grid.EntryMin, c.Grid.EntryMax, c.Grid.EntryStep)
}

// ToScreenConfig maps the screen section onto screener settings.
func (c *PairConfig) ToScreenConfig() screen.Config {
	return screen.Config{
		MinCorrelation: c.Screen.MinCorrelation,
		MaxHalfLife:    c.Screen.MaxHalfLife,
		TopN:           c.Screen.TopN,
	}
}
