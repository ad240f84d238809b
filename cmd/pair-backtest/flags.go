package main

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/ducminhle1904/crypto-pairs-lab/cmd/common"
	datamanager "github.com/ducminhle1904/crypto-pairs-lab/pkg/data"
)

// BacktestFlags holds all command line flags for the pair backtest command
type BacktestFlags struct {
	// Configuration
	ConfigFile *string

	// Pair selection
	SymbolA *string
	SymbolB *string

	// Data location
	Exchange *string
	Interval *string
	DataRoot *string

	// Data slicing
	Period    *string
	StartDate *string
	EndDate   *string

	// Strategy parameters (zero means "use config value"; exit and
	// commission use -1 because zero is a legitimate setting for both)
	Mode       *string
	Window     *int
	Entry      *float64
	Exit       *float64
	Commission *float64
	Capital    *float64

	// Journal
	JournalPath *string
	ListRuns    *bool
	ShowRun     *string

	// Output options
	OutputDir   *string
	ConsoleOnly *bool
	ShowTrades  *int
	EnvFile     *string

	// Help and version
	ShowVersion *bool
	ShowHelp    *bool
}

// NewBacktestFlags creates and registers all backtest-specific command line flags
func NewBacktestFlags() *BacktestFlags {
	return &BacktestFlags{
		// Configuration
		ConfigFile: flag.String("config", "", "Path to YAML configuration file"),

		// Pair selection
		SymbolA: flag.String("symbol-a", "", "First leg symbol (e.g. BTCUSDT)"),
		SymbolB: flag.String("symbol-b", "", "Second leg symbol (e.g. ETHUSDT)"),

		// Data location
		Exchange: flag.String("exchange", "", "Exchange directory in the data tree (default: from config)"),
		Interval: flag.String("interval", "", "Candle interval (default: from config)"),
		DataRoot: flag.String("data-root", "", "Data root directory (default: from config)"),

		// Data slicing
		Period:    flag.String("period", "", "Limit data to a trailing period (30d, 90d, 180d)"),
		StartDate: flag.String("start", "", "Start date YYYY-MM-DD"),
		EndDate:   flag.String("end", "", "End date YYYY-MM-DD"),

		// Strategy parameters
		Mode:       flag.String("mode", "", "Hedge estimator mode (static, kalman; default: from config)"),
		Window:     flag.Int("window", 0, "Rolling z-score window in bars (default: from config)"),
		Entry:      flag.Float64("entry", 0, "Entry z-score threshold (default: from config)"),
		Exit:       flag.Float64("exit", -1, "Exit z-score threshold (default: from config)"),
		Commission: flag.Float64("commission", -1, "Per-leg commission rate (default: from config)"),
		Capital:    flag.Float64("capital", 0, "Initial capital (default: from config)"),

		// Journal
		JournalPath: flag.String("journal", "", "SQLite journal path (default: from config; empty disables)"),
		ListRuns:    flag.Bool("list-runs", false, "List journaled runs and exit"),
		ShowRun:     flag.String("show-run", "", "Show one journaled run with its trades and exit"),

		// Output options
		OutputDir:   flag.String("output", "", "Report output directory (default: results/<pair>/<interval>)"),
		ConsoleOnly: flag.Bool("console-only", false, "Console output only (no files)"),
		ShowTrades:  flag.Int("show-trades", 10, "Print the first N closed trades (0 disables)"),
		EnvFile:     flag.String("env", ".env", "Environment file path"),

		// Help and version
		ShowVersion: flag.Bool("version", false, "Show version information"),
		ShowHelp:    flag.Bool("help", false, "Show detailed help"),
	}
}

// ValidateBacktestFlags performs validation on backtest flag combinations
func ValidateBacktestFlags(flags *BacktestFlags) error {
	v := common.NewFlagValidator()

	v.ValidateFile("config", *flags.ConfigFile, false)

	if *flags.Mode != "" {
		v.ValidateChoice("mode", *flags.Mode, []string{"static", "kalman"})
	}
	if *flags.Window < 0 {
		v.AddError(fmt.Sprintf("window must not be negative, got: %d", *flags.Window))
	}
	if *flags.Entry < 0 {
		v.AddError(fmt.Sprintf("entry must not be negative, got: %.2f", *flags.Entry))
	}
	if *flags.Exit >= 0 && *flags.Entry > 0 && *flags.Exit >= *flags.Entry {
		v.AddError(fmt.Sprintf("exit threshold (%.2f) must be below entry threshold (%.2f)", *flags.Exit, *flags.Entry))
	}
	if *flags.Capital < 0 {
		v.AddError(fmt.Sprintf("capital must not be negative, got: %.2f", *flags.Capital))
	}
	if *flags.ShowTrades < 0 {
		v.AddError(fmt.Sprintf("show-trades must not be negative, got: %d", *flags.ShowTrades))
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
	if *flags.StartDate != "" {
		if _, err := time.Parse("2006-01-02", *flags.StartDate); err != nil {
			v.AddError(fmt.Sprintf("invalid start date: %s (use YYYY-MM-DD)", *flags.StartDate))
		}
	}
	if *flags.EndDate != "" {
		if _, err := time.Parse("2006-01-02", *flags.EndDate); err != nil {
			v.AddError(fmt.Sprintf("invalid end date: %s (use YYYY-MM-DD)", *flags.EndDate))
		}
	}

	return v.GetError()
}

// PrintBacktestUsageExamples prints usage examples specific to pair backtesting
func PrintBacktestUsageExamples() {
	examples := []struct {
		command     string
		description string
	}{
		{
			"pair-backtest -symbol-a BTCUSDT -symbol-b ETHUSDT -interval 1h",
			"Backtest BTC/ETH with the default static hedge and thresholds",
		},
		{
			"pair-backtest -symbol-a BTCUSDT -symbol-b ETHUSDT -mode kalman",
			"Use the Kalman filter hedge estimator instead of static OLS",
		},
		{
			"pair-backtest -symbol-a BTCUSDT -symbol-b ETHUSDT -window 40 -entry 2.5 -exit 0.5",
			"Override the signal window and thresholds",
		},
		{
			"pair-backtest -config configs/pairs_lab.yaml -period 180d",
			"Backtest the configured pair on the last 180 days",
		},
		{
			"pair-backtest -symbol-a SOLUSDT -symbol-b BNBUSDT -journal runs.db",
			"Record the run and its trades in a SQLite journal",
		},
		{
			"pair-backtest -journal runs.db -list-runs",
			"List journaled runs, newest first",
		},
		{
			"pair-backtest -journal runs.db -show-run 01J8ZK3V4N5Q6R7S8T9VWXYZAB",
			"Show one journaled run with its trades",
		},
	}

	fmt.Printf("\n📚 USAGE EXAMPLES:\n")
	fmt.Printf("%s\n", strings.Repeat("-", 60))

	for _, example := range examples {
		fmt.Printf("\n• %s\n", example.description)
		fmt.Printf("  %s\n", example.command)
	}
}
