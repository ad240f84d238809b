package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ducminhle1904/crypto-pairs-lab/cmd/common"
	"github.com/ducminhle1904/crypto-pairs-lab/internal/screen"
	"github.com/ducminhle1904/crypto-pairs-lab/pkg/config"
	datamanager "github.com/ducminhle1904/crypto-pairs-lab/pkg/data"
	"github.com/ducminhle1904/crypto-pairs-lab/pkg/reporting"
	"github.com/ducminhle1904/crypto-pairs-lab/pkg/types"
)

const (
	AppName    = "Pair Screen"
	AppVersion = "1.0.0"

	// Default values
	DefaultMaxMissing = 0.10
)

func main() {
	// Create and parse command line flags
	flags := NewScreenFlags()
	flag.Parse()

	// Validate flags before proceeding
	if err := ValidateScreenFlags(flags); err != nil {
		log.Fatalf("❌ %v", err)
	}

	// Version and help
	if *flags.ShowVersion {
		common.PrintVersion(AppName)
		return
	}

	if *flags.ShowHelp {
		printUsageHelp()
		return
	}

	// Header
	printHeader()

	// Load environment
	common.LoadEnvFile(*flags.EnvFile)

	// Load configuration and apply flag overrides
	cfg, err := config.LoadPairConfig(*flags.ConfigFile)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}
	applyFlagOverrides(cfg, flags)

	// Resolve the close matrix
	matrix, err := resolveMatrix(cfg, flags)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	common.Info("Universe: %d symbols x %d bars", matrix.NumSymbols(), matrix.Len())

	// Screen every unique pair
	screenCfg := cfg.ToScreenConfig()
	screenCfg.Progress = func(done, total int) {
		common.Progress("Screened %d/%d pairs...", done, total)
	}

	screener, err := screen.NewScreener(screenCfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	started := time.Now()
	scores, err := screener.Run(matrix)
	if err != nil {
		log.Fatalf("❌ Screen failed: %v", err)
	}
	common.Info("Screened %d symbols in %s, %d pairs passed",
		matrix.NumSymbols(), time.Since(started).Round(time.Millisecond), len(scores))
	fmt.Println()

	// Report
	reporter := reporting.NewDefaultReporter()
	reporter.PrintScreenTable(scores, screenCfg.TopN)

	if *flags.CSVOut != "" {
		if err := reporting.WriteScreenCSV(scores, *flags.CSVOut); err != nil {
			log.Fatalf("❌ Failed to write %s: %v", *flags.CSVOut, err)
		}
		common.Success("Full ranking → %s", *flags.CSVOut)
	}

	if *flags.XLSXOut != "" {
		if err := reporting.WriteScreenXLSX(scores, *flags.XLSXOut); err != nil {
			log.Fatalf("❌ Failed to write %s: %v", *flags.XLSXOut, err)
		}
		common.Success("Ranking workbook → %s", *flags.XLSXOut)
	}

	if len(scores) > 0 {
		best := scores[0]
		common.Info("Next: pair-backtest -symbol-a %s -symbol-b %s -interval %s",
			best.SymbolA, best.SymbolB, cfg.Data.Interval)
	}
}

func printHeader() {
	fmt.Printf("🎯 %s v%s\n", strings.ToUpper(AppName), AppVersion)
	fmt.Printf("%s\n\n", strings.Repeat("=", 50))
}

func printUsageHelp() {
	fmt.Printf("%s v%s - Cointegration Pair Screen\n\n", AppName, AppVersion)
	fmt.Printf("USAGE:\n  %s [OPTIONS]\n", filepath.Base(flag.CommandLine.Name()))

	PrintScreenUsageExamples()

	fmt.Printf("\nFLAGS:\n")
	flag.PrintDefaults()
}

// applyFlagOverrides layers non-zero flag values on top of the config file.
func applyFlagOverrides(cfg *config.PairConfig, flags *ScreenFlags) {
	if *flags.Exchange != "" {
		cfg.Data.Exchange = *flags.Exchange
	}
	if *flags.Interval != "" {
		cfg.Data.Interval = *flags.Interval
	}
	if *flags.DataRoot != "" {
		cfg.Data.Root = *flags.DataRoot
	}
	if *flags.MatrixFile != "" {
		cfg.Data.MatrixFile = *flags.MatrixFile
	}

	if *flags.MinCorrelation != 0 {
		cfg.Screen.MinCorrelation = *flags.MinCorrelation
	}
	if *flags.MaxHalfLife != 0 {
		cfg.Screen.MaxHalfLife = *flags.MaxHalfLife
	}
	if *flags.TopN != 0 {
		cfg.Screen.TopN = *flags.TopN
	}
}

// resolveMatrix picks the matrix source. Precedence: an explicit -matrix
// file, then candles named by -symbols, then the config's matrix file.
func resolveMatrix(cfg *config.PairConfig, flags *ScreenFlags) (*datamanager.CloseMatrix, error) {
	if *flags.MatrixFile != "" {
		common.Progress("Loading close matrix from %s...", *flags.MatrixFile)
		return datamanager.LoadCloseMatrix(*flags.MatrixFile)
	}

	if *flags.Symbols != "" {
		return buildMatrixFromCandles(cfg, flags)
	}

	matrixPath := cfg.Data.MatrixFile
	if !filepath.IsAbs(matrixPath) {
		if _, err := os.Stat(matrixPath); os.IsNotExist(err) {
			matrixPath = filepath.Join(cfg.Data.Root, cfg.Data.MatrixFile)
		}
	}
	if _, err := os.Stat(matrixPath); err != nil {
		return nil, fmt.Errorf("no matrix source: pass -matrix FILE or -symbols LIST (tried %s)", matrixPath)
	}

	common.Progress("Loading close matrix from %s...", matrixPath)
	return datamanager.LoadCloseMatrix(matrixPath)
}

// buildMatrixFromCandles loads each symbol's candles from the data tree and
// aligns them into a close matrix.
func buildMatrixFromCandles(cfg *config.PairConfig, flags *ScreenFlags) (*datamanager.CloseMatrix, error) {
	symbols := SplitSymbols(*flags.Symbols)
	common.Progress("Building close matrix from %d symbols (%s %s)...",
		len(symbols), cfg.Data.Exchange, cfg.Data.Interval)

	// One symbol can appear in several pairs, so cache loads.
	provider := datamanager.NewCachedProvider(datamanager.NewCSVProvider())
	locator := datamanager.NewDefaultFileLocator()
	filter := datamanager.NewDefaultDataFilter()

	var period time.Duration
	if *flags.Period != "" {
		period, _ = datamanager.ParseTrailingPeriod(*flags.Period)
	}

	series := make(map[string][]types.OHLCV)
	for _, symbol := range symbols {
		path := locator.FindDataFile(cfg.Data.Root, cfg.Data.Exchange, symbol, cfg.Data.Interval)
		if path == "" {
			common.Warn("%s: no candle file, skipping (run pair-data first)", symbol)
			continue
		}

		bars, err := provider.LoadData(path)
		if err != nil {
			common.Warn("%s: %v, skipping", symbol, err)
			continue
		}
		if period > 0 {
			bars = filter.FilterByPeriod(bars, period)
		}

		series[symbol] = bars
	}

	if len(series) < 2 {
		return nil, fmt.Errorf("need candles for at least 2 symbols, loaded %d of %d", len(series), len(symbols))
	}

	return datamanager.BuildCloseMatrix(series, *flags.MaxMissing)
}
