package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/ducminhle1904/crypto-pairs-lab/cmd/common"
	datamanager "github.com/ducminhle1904/crypto-pairs-lab/pkg/data"
)

// OptimizeFlags holds all command line flags for the grid sweep command
type OptimizeFlags struct {
	// Configuration
	ConfigFile *string

	// Pair selection
	SymbolA *string
	SymbolB *string

	// Data location
	Exchange *string
	Interval *string
	DataRoot *string
	Period   *string

	// Estimator
	Mode *string

	// Grid dimensions (zero means "use config value")
	WindowMin  *int
	WindowMax  *int
	WindowStep *int
	EntryMin   *float64
	EntryMax   *float64
	EntryStep  *float64
	Workers    *int

	// Walk-forward validation
	WFEnable     *bool
	WFSplitRatio *float64
	WFRolling    *bool
	WFTrainDays  *int
	WFTestDays   *int
	WFRollDays   *int

	// Monitoring
	Monitor     *bool
	MonitorPort *int

	// Journal
	JournalPath *string

	// Output options
	TopN        *int
	OutputDir   *string
	BestOut     *string
	ConsoleOnly *bool
	EnvFile     *string

	// Help and version
	ShowVersion *bool
	ShowHelp    *bool
}

// NewOptimizeFlags creates and registers all sweep-specific command line flags
func NewOptimizeFlags() *OptimizeFlags {
	return &OptimizeFlags{
		// Configuration
		ConfigFile: flag.String("config", "", "Path to YAML configuration file"),

		// Pair selection
		SymbolA: flag.String("symbol-a", "", "First leg symbol (e.g. BTCUSDT)"),
		SymbolB: flag.String("symbol-b", "", "Second leg symbol (e.g. ETHUSDT)"),

		// Data location
		Exchange: flag.String("exchange", "", "Exchange directory in the data tree (default: from config)"),
		Interval: flag.String("interval", "", "Candle interval (default: from config)"),
		DataRoot: flag.String("data-root", "", "Data root directory (default: from config)"),
		Period:   flag.String("period", "", "Limit data to a trailing period (30d, 90d, 180d)"),

		// Estimator
		Mode: flag.String("mode", "", "Hedge estimator mode (static, kalman; default: from config)"),

		// Grid dimensions
		WindowMin:  flag.Int("window-min", 0, "Smallest z-score window (default: from config)"),
		WindowMax:  flag.Int("window-max", 0, "Largest z-score window (default: from config)"),
		WindowStep: flag.Int("window-step", 0, "Window step (default: from config)"),
		EntryMin:   flag.Float64("entry-min", 0, "Smallest entry threshold (default: from config)"),
		EntryMax:   flag.Float64("entry-max", 0, "Largest entry threshold (default: from config)"),
		EntryStep:  flag.Float64("entry-step", 0, "Entry threshold step (default: from config)"),
		Workers:    flag.Int("workers", 0, "Parallel cell workers (default: one per CPU)"),

		// Walk-forward validation
		WFEnable:     flag.Bool("wf-enable", false, "Enable walk-forward validation"),
		WFSplitRatio: flag.Float64("wf-split-ratio", 0.7, "Train/test split (0.7 = 70% train)"),
		WFRolling:    flag.Bool("wf-rolling", false, "Use rolling walk-forward"),
		WFTrainDays:  flag.Int("wf-train-days", 180, "Training window (days)"),
		WFTestDays:   flag.Int("wf-test-days", 60, "Test window (days)"),
		WFRollDays:   flag.Int("wf-roll-days", 30, "Roll step (days)"),

		// Monitoring
		Monitor:     flag.Bool("monitor", false, "Expose /health and /metrics during the sweep"),
		MonitorPort: flag.Int("monitor-port", 0, "Monitoring port (default: from config)"),

		// Journal
		JournalPath: flag.String("journal", "", "SQLite journal path for the best run (default: from config; empty disables)"),

		// Output options
		TopN:        flag.Int("top", 10, "Leaderboard size"),
		OutputDir:   flag.String("output", "", "Report output directory (default: results/<pair>/<interval>)"),
		BestOut:     flag.String("best-out", "", "Best configuration JSON path (default: <output>/best_config.json)"),
		ConsoleOnly: flag.Bool("console-only", false, "Console output only (no files)"),
		EnvFile:     flag.String("env", ".env", "Environment file path"),

		// Help and version
		ShowVersion: flag.Bool("version", false, "Show version information"),
		ShowHelp:    flag.Bool("help", false, "Show detailed help"),
	}
}

// ValidateOptimizeFlags performs validation on sweep flag combinations
func ValidateOptimizeFlags(flags *OptimizeFlags) error {
	v := common.NewFlagValidator()

	v.ValidateFile("config", *flags.ConfigFile, false)

	if *flags.Mode != "" {
		v.ValidateChoice("mode", *flags.Mode, []string{"static", "kalman"})
	}

	for name, value := range map[string]int{
		"window-min":  *flags.WindowMin,
		"window-max":  *flags.WindowMax,
		"window-step": *flags.WindowStep,
		"workers":     *flags.Workers,
		"top":         *flags.TopN,
	} {
		if value < 0 {
			v.AddError(fmt.Sprintf("%s must not be negative, got: %d", name, value))
		}
	}
	for name, value := range map[string]float64{
		"entry-min":  *flags.EntryMin,
		"entry-max":  *flags.EntryMax,
		"entry-step": *flags.EntryStep,
	} {
		if value < 0 {
			v.AddError(fmt.Sprintf("%s must not be negative, got: %.2f", name, value))
		}
	}
	if *flags.WindowMin > 0 && *flags.WindowMax > 0 && *flags.WindowMax < *flags.WindowMin {
		v.AddError(fmt.Sprintf("window-max (%d) must not be below window-min (%d)", *flags.WindowMax, *flags.WindowMin))
	}
	if *flags.EntryMin > 0 && *flags.EntryMax > 0 && *flags.EntryMax < *flags.EntryMin {
		v.AddError(fmt.Sprintf("entry-max (%.2f) must not be below entry-min (%.2f)", *flags.EntryMax, *flags.EntryMin))
	}

	if *flags.WFEnable {
		if *flags.WFSplitRatio <= 0 || *flags.WFSplitRatio >= 1.0 {
			v.AddError(fmt.Sprintf("wf-split-ratio must be between 0 and 1.0, got: %.2f", *flags.WFSplitRatio))
		}
		if *flags.WFRolling {
			if *flags.WFTrainDays <= 0 || *flags.WFTestDays <= 0 || *flags.WFRollDays <= 0 {
				v.AddError("walk-forward rolling days must be positive")
			}
			if *flags.WFTrainDays <= *flags.WFTestDays {
				v.AddError(fmt.Sprintf("training days (%d) should be greater than test days (%d)",
					*flags.WFTrainDays, *flags.WFTestDays))
			}
		}
	}

	if *flags.MonitorPort != 0 {
		v.ValidateInt("monitor-port", *flags.MonitorPort, 1, 65535)
	}

	for _, symbol := range []string{*flags.SymbolA, *flags.SymbolB} {
		if symbol != "" && len(symbol) < 3 {
			v.AddError(fmt.Sprintf("symbol must be at least 3 characters, got: %s", symbol))
		}
	}

	if *flags.Period != "" {
		if _, ok := datamanager.ParseTrailingPeriod(*flags.Period); !ok {
			v.AddError(fmt.Sprintf("invalid period format: %s (use 30d, 90d, 180d)", *flags.Period))
		}
	}

	return v.GetError()
}

// PrintOptimizeUsageExamples prints usage examples specific to grid sweeps
func PrintOptimizeUsageExamples() {
	examples := []struct {
		command     string
		description string
	}{
		{
			"pair-optimize -symbol-a BTCUSDT -symbol-b ETHUSDT -interval 1h",
			"Sweep the default window and entry-threshold grid for BTC/ETH",
		},
		{
			"pair-optimize -symbol-a BTCUSDT -symbol-b ETHUSDT -mode kalman -workers 8",
			"Sweep with the Kalman hedge estimator on 8 workers",
		},
		{
			"pair-optimize -symbol-a BTCUSDT -symbol-b ETHUSDT -window-min 20 -window-max 120 -window-step 10",
			"Widen the window axis of the grid",
		},
		{
			"pair-optimize -config configs/pairs_lab.yaml -period 180d -wf-enable",
			"Sweep the last 180 days, then validate the winner out of sample",
		},
		{
			"pair-optimize -symbol-a BTCUSDT -symbol-b ETHUSDT -wf-enable -wf-rolling -wf-train-days 90 -wf-test-days 30",
			"Rolling walk-forward validation (90-day train, 30-day test)",
		},
		{
			"pair-optimize -symbol-a SOLUSDT -symbol-b BNBUSDT -monitor -journal runs.db",
			"Sweep with live /health and /metrics, journaling the best run",
		},
	}

	fmt.Printf("\n📚 USAGE EXAMPLES:\n")
	fmt.Printf("%s\n", strings.Repeat("-", 60))

	for _, example := range examples {
		fmt.Printf("\n• %s\n", example.description)
		fmt.Printf("  %s\n", example.command)
	}
}
