package main

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/ducminhle1904/crypto-pairs-lab/cmd/common"
	"github.com/ducminhle1904/crypto-pairs-lab/internal/exchange/bybit"
)

// DataFlags holds all command line flags for the data download command
type DataFlags struct {
	// Universe selection
	Symbols  *string
	Interval *string
	Category *string

	// Time range
	StartDate *string
	EndDate   *string

	// Output options
	DataRoot   *string
	MatrixOut  *string
	MaxMissing *float64

	// Connection options
	Testnet *bool
	EnvFile *string

	// Help and version
	ShowVersion *bool
	ShowHelp    *bool
}

// NewDataFlags creates and registers all download-specific command line flags
func NewDataFlags() *DataFlags {
	return &DataFlags{
		// Universe selection
		Symbols:  flag.String("symbols", DefaultSymbols, "Comma-separated symbols to download"),
		Interval: flag.String("interval", DefaultInterval, "Kline interval (1m, 5m, 15m, 1h, 4h, 1d)"),
		Category: flag.String("category", DefaultCategory, "Bybit category (spot, linear, inverse)"),

		// Time range
		StartDate: flag.String("start", "", "Start date YYYY-MM-DD (default: 365 days ago)"),
		EndDate:   flag.String("end", "", "End date YYYY-MM-DD (default: today)"),

		// Output options
		DataRoot:   flag.String("data-root", DefaultDataRoot, "Data root directory"),
		MatrixOut:  flag.String("matrix", "", "Write an aligned close matrix CSV to this path"),
		MaxMissing: flag.Float64("max-missing", DefaultMaxMissing, "Max share of missing bars before a symbol is dropped from the matrix"),

		// Connection options
		Testnet: flag.Bool("testnet", false, "Use Bybit testnet"),
		EnvFile: flag.String("env", ".env", "Environment file path"),

		// Help and version
		ShowVersion: flag.Bool("version", false, "Show version information"),
		ShowHelp:    flag.Bool("help", false, "Show detailed help"),
	}
}

// ValidateDataFlags performs validation on download flag combinations
func ValidateDataFlags(flags *DataFlags) error {
	v := common.NewFlagValidator()

	v.ValidateString("symbols", *flags.Symbols, 3, 2048)
	v.ValidateChoice("category", *flags.Category, []string{"spot", "linear", "inverse"})
	v.ValidateFloat("max-missing", *flags.MaxMissing, 0, 0.5)

	if _, err := ResolveInterval(*flags.Interval); err != nil {
		v.AddError(err.Error())
	}

	for _, symbol := range SplitSymbols(*flags.Symbols) {
		if len(symbol) < 3 {
			v.AddError(fmt.Sprintf("symbol must be at least 3 characters, got: %s", symbol))
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

// ResolveInterval maps a human-readable interval like "1h" to the Bybit kline
// interval code. Raw Bybit codes ("60", "D") pass through unchanged.
func ResolveInterval(interval string) (bybit.KlineInterval, error) {
	known := map[string]bybit.KlineInterval{
		"1m":  bybit.Interval1m,
		"3m":  bybit.Interval3m,
		"5m":  bybit.Interval5m,
		"15m": bybit.Interval15m,
		"30m": bybit.Interval30m,
		"1h":  bybit.Interval1h,
		"2h":  bybit.Interval2h,
		"4h":  bybit.Interval4h,
		"6h":  bybit.Interval6h,
		"12h": bybit.Interval12h,
		"1d":  bybit.Interval1d,
		"1w":  bybit.Interval1w,
		"1M":  bybit.Interval1M,
	}

	if code, ok := known[interval]; ok {
		return code, nil
	}

	// The caller may have passed a raw Bybit code already.
	for _, code := range known {
		if interval == string(code) {
			return code, nil
		}
	}

	return "", fmt.Errorf("invalid interval: %s (use 1m, 3m, 5m, 15m, 30m, 1h, 2h, 4h, 6h, 12h, 1d, 1w, 1M)", interval)
}

// PrintDataUsageExamples prints usage examples specific to data downloads
func PrintDataUsageExamples() {
	examples := []struct {
		command     string
		description string
	}{
		{
			"pair-data -symbols BTCUSDT,ETHUSDT -interval 1h",
			"Download one year of hourly candles for BTC and ETH",
		},
		{
			"pair-data -symbols BTCUSDT,ETHUSDT,SOLUSDT,BNBUSDT -interval 1h -matrix data/closes_1h.csv",
			"Download a screening universe and write the aligned close matrix",
		},
		{
			"pair-data -symbols BTCUSDT,ETHUSDT -interval 4h -start 2024-01-01 -end 2024-12-31",
			"Download a fixed date range on the 4-hour timeframe",
		},
		{
			"pair-data -symbols BTCUSDT,ETHUSDT -category spot",
			"Download spot candles instead of linear perpetuals",
		},
		{
			"pair-data -symbols BTCUSDT -interval 1d -data-root /srv/marketdata",
			"Download daily candles into a custom data tree",
		},
	}

	fmt.Printf("\n📚 USAGE EXAMPLES:\n")
	fmt.Printf("%s\n", strings.Repeat("-", 60))

	for _, example := range examples {
		fmt.Printf("\n• %s\n", example.description)
		fmt.Printf("  %s\n", example.command)
	}
}
