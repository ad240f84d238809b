package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/ducminhle1904/crypto-pairs-lab/cmd/common"
	datamanager "github.com/ducminhle1904/crypto-pairs-lab/pkg/data"
)

// ScreenFlags holds all command line flags for the pair screen command
type ScreenFlags struct {
	// Configuration
	ConfigFile *string

	// Matrix source: an existing matrix file, or a candle tree to build from
	MatrixFile *string
	Symbols    *string
	Exchange   *string
	Interval   *string
	DataRoot   *string
	Period     *string
	MaxMissing *float64

	// Screening thresholds (zero means "use config value")
	MinCorrelation *float64
	MaxHalfLife    *float64
	TopN           *int

	// Output options
	CSVOut  *string
	XLSXOut *string
	EnvFile *string

	// Help and version
	ShowVersion *bool
	ShowHelp    *bool
}

// NewScreenFlags creates and registers all screen-specific command line flags
func NewScreenFlags() *ScreenFlags {
	return &ScreenFlags{
		// Configuration
		ConfigFile: flag.String("config", "", "Path to YAML configuration file"),

		// Matrix source
		MatrixFile: flag.String("matrix", "", "Path to an existing close matrix CSV"),
		Symbols:    flag.String("symbols", "", "Comma-separated symbols to build the matrix from candles"),
		Exchange:   flag.String("exchange", "", "Exchange directory in the data tree (default: from config)"),
		Interval:   flag.String("interval", "", "Candle interval (default: from config)"),
		DataRoot:   flag.String("data-root", "", "Data root directory (default: from config)"),
		Period:     flag.String("period", "", "Limit candles to a trailing period (30d, 90d, 180d)"),
		MaxMissing: flag.Float64("max-missing", DefaultMaxMissing, "Max share of missing bars before a symbol is dropped from the matrix"),

		// Screening thresholds
		MinCorrelation: flag.Float64("min-corr", 0, "Minimum absolute return correlation (default: from config)"),
		MaxHalfLife:    flag.Float64("max-half-life", 0, "Maximum spread half-life in bars (default: from config)"),
		TopN:           flag.Int("top", 0, "Show only the top N pairs (default: from config)"),

		// Output options
		CSVOut:  flag.String("csv", "", "Write the full ranking to this CSV path"),
		XLSXOut: flag.String("xlsx", "", "Write the ranking workbook to this XLSX path"),
		EnvFile: flag.String("env", ".env", "Environment file path"),

		// Help and version
		ShowVersion: flag.Bool("version", false, "Show version information"),
		ShowHelp:    flag.Bool("help", false, "Show detailed help"),
	}
}

// ValidateScreenFlags performs validation on screen flag combinations
func ValidateScreenFlags(flags *ScreenFlags) error {
	v := common.NewFlagValidator()

	v.ValidateFile("config", *flags.ConfigFile, false)
	v.ValidateFile("matrix", *flags.MatrixFile, false)
	v.ValidateFloat("max-missing", *flags.MaxMissing, 0, 0.5)

	if *flags.MinCorrelation != 0 {
		v.ValidateFloat("min-corr", *flags.MinCorrelation, -1, 1)
	}
	if *flags.MaxHalfLife < 0 {
		v.AddError(fmt.Sprintf("max-half-life must not be negative, got: %.2f", *flags.MaxHalfLife))
	}
	if *flags.TopN < 0 {
		v.AddError(fmt.Sprintf("top must not be negative, got: %d", *flags.TopN))
	}

	if *flags.Period != "" {
		if _, ok := datamanager.ParseTrailingPeriod(*flags.Period); !ok {
			v.AddError(fmt.Sprintf("invalid period format: %s (use 30d, 90d, 180d)", *flags.Period))
		}
	}

	if *flags.Symbols != "" {
		symbols := SplitSymbols(*flags.Symbols)
		if len(symbols) < 2 {
			v.AddError(fmt.Sprintf("need at least 2 symbols to screen, got: %d", len(symbols)))
		}
	}

	return v.GetError()
}

// SplitSymbols splits a comma-separated symbol list, trimming whitespace and
// upper-casing each entry. Empty entries are dropped.
func SplitSymbols(list string) []string {
	var symbols []string
	for _, s := range strings.Split(list, ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}

// PrintScreenUsageExamples prints usage examples specific to pair screening
func PrintScreenUsageExamples() {
	examples := []struct {
		command     string
		description string
	}{
		{
			"pair-screen -matrix data/closes_1h.csv",
			"Screen every pair in a prepared close matrix",
		},
		{
			"pair-screen -symbols BTCUSDT,ETHUSDT,SOLUSDT,BNBUSDT -interval 1h",
			"Build the matrix from downloaded candles, then screen",
		},
		{
			"pair-screen -matrix data/closes_1h.csv -min-corr 0.9 -max-half-life 72",
			"Tighten the correlation and half-life gates",
		},
		{
			"pair-screen -config configs/pairs_lab.yaml -top 10",
			"Screen with config file settings, show the top 10 pairs",
		},
		{
			"pair-screen -symbols BTCUSDT,ETHUSDT,SOLUSDT -period 90d -csv results/screen.csv",
			"Screen the last 90 days and export the full ranking",
		},
	}

	fmt.Printf("\n📚 USAGE EXAMPLES:\n")
	fmt.Printf("%s\n", strings.Repeat("-", 60))

	for _, example := range examples {
		fmt.Printf("\n• %s\n", example.description)
		fmt.Printf("  %s\n", example.command)
	}
}
