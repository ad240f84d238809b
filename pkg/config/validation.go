package config

import (
	"fmt"

	"github.com/ducminhle1904/crypto-pairs-lab/internal/hedge"
)

// Validate checks every section. Estimator, signal, and execution rules are
// enforced by the engine config so flags and YAML hit the same checks.
func (c *PairConfig) Validate() error {
	if c.Data.Root == "" {
		return fmt.Errorf("data.root must not be empty")
	}
	if c.Data.Exchange == "" {
		return fmt.Errorf("data.exchange must not be empty")
	}
	if c.Data.Interval == "" {
		return fmt.Errorf("data.interval must not be empty")
	}

	if !hedge.Mode(c.Estimator.Mode).Valid() {
		return fmt.Errorf("estimator.mode must be %q or %q, got %q",
			hedge.ModeStatic, hedge.ModeKalman, c.Estimator.Mode)
	}

	if err := c.ToBacktestConfig().Validate(); err != nil {
		return err
	}

	if err := c.validateGrid(); err != nil {
		return err
	}

	if c.Screen.MinCorrelation < -1 || c.Screen.MinCorrelation > 1 {
		return fmt.Errorf("screen.min_correlation must be in [-1, 1], got %v", c.Screen.MinCorrelation)
	}
	if c.Screen.MaxHalfLife <= 0 {
		return fmt.Errorf("screen.max_half_life must be positive, got %v", c.Screen.MaxHalfLife)
	}
	if c.Screen.TopN < 0 {
		return fmt.Errorf("screen.top_n must not be negative, got %d", c.Screen.TopN)
	}

	if c.Monitoring.Enabled && (c.Monitoring.Port < 1 || c.Monitoring.Port > 65535) {
		return fmt.Errorf("monitoring.port must be in [1, 65535], got %d", c.Monitoring.Port)
	}

	return nil
}

func (c *PairConfig) validateGrid() error {
	g := c.Grid
	if g.WindowMin < 1 {
		return fmt.Errorf("grid.window_min must be at least 1, got %d", g.WindowMin)
	}
	if g.WindowMax < g.WindowMin {
		return fmt.Errorf("grid.window_max (%d) must not be below grid.window_min (%d)", g.WindowMax, g.WindowMin)
	}
	if g.WindowStep < 1 {
		return fmt.Errorf("grid.window_step must be at least 1, got %d", g.WindowStep)
	}
	if g.EntryMin <= 0 {
		return fmt.Errorf("grid.entry_min must be positive, got %v", g.EntryMin)
	}
	if g.EntryMax < g.EntryMin {
		return fmt.Errorf("grid.entry_max (%v) must not be below grid.entry_min (%v)", g.EntryMax, g.EntryMin)
	}
	if g.EntryStep <= 0 {
		return fmt.Errorf("grid.entry_step must be positive, got %v", g.EntryStep)
	}
	if g.Workers < 0 {
		return fmt.Errorf("grid.workers must not be negative, got %d", g.Workers)
	}
	return nil
}
