package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ducminhle1904/crypto-pairs-lab/cmd/common"
	"github.com/ducminhle1904/crypto-pairs-lab/internal/exchange/bybit"
	datamanager "github.com/ducminhle1904/crypto-pairs-lab/pkg/data"
	"github.com/ducminhle1904/crypto-pairs-lab/pkg/types"
)

const (
	AppName    = "Pair Data"
	AppVersion = "1.0.0"

	// Default values
	DefaultSymbols    = "BTCUSDT,ETHUSDT,SOLUSDT,BNBUSDT"
	DefaultInterval   = "1h"
	DefaultCategory   = "linear"
	DefaultDataRoot   = "data"
	DefaultMaxMissing = 0.10
	DefaultRangeDays  = 365

	// The breaker trips after this many consecutive symbol failures so a
	// batch run stops hammering an unavailable API.
	breakerMaxFailures = 3
	breakerResetAfter  = 2 * time.Minute
)

func main() {
	// Create and parse command line flags
	flags := NewDataFlags()
	flag.Parse()

	// Validate flags before proceeding
	if err := ValidateDataFlags(flags); err != nil {
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

	interval, err := ResolveInterval(*flags.Interval)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	start, end, err := resolveTimeRange(*flags.StartDate, *flags.EndDate)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	symbols := SplitSymbols(*flags.Symbols)

	// Kline endpoints are public, so the client works without credentials.
	client := bybit.NewClient(bybit.Config{
		APIKey:    os.Getenv("BYBIT_API_KEY"),
		APISecret: os.Getenv("BYBIT_API_SECRET"),
		Testnet:   *flags.Testnet,
	})

	common.Info("Environment: %s", client.GetEnvironment())
	common.Info("Range: %s → %s (%s %s, %d symbols)",
		start.Format("2006-01-02"), end.Format("2006-01-02"),
		*flags.Category, *flags.Interval, len(symbols))
	fmt.Println()

	// Graceful shutdown: finish the current symbol, then stop.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n🛑 Interrupt received, stopping downloads...")
		cancel()
	}()

	breaker := bybit.NewCircuitBreaker(breakerMaxFailures, breakerResetAfter)
	filter := datamanager.NewDefaultDataFilter()

	series := make(map[string][]types.OHLCV)
	failed := 0

	for _, symbol := range symbols {
		if ctx.Err() != nil {
			break
		}

		bars, err := downloadSymbol(ctx, client, breaker, filter, symbol, *flags.Category, interval, start, end)
		if err != nil {
			common.Error("%s: %v", symbol, err)
			failed++
			continue
		}
		if len(bars) == 0 {
			common.Warn("%s: no candles in range", symbol)
			failed++
			continue
		}

		outPath := candlesPath(*flags.DataRoot, *flags.Category, symbol, *flags.Interval)
		if err := writeCandlesCSV(outPath, bars); err != nil {
			common.Error("%s: %v", symbol, err)
			failed++
			continue
		}

		common.Success("%s: %d bars → %s", symbol, len(bars), outPath)
		series[symbol] = bars
	}

	if *flags.MatrixOut != "" {
		if len(series) >= 2 {
			writeMatrix(series, *flags.MatrixOut, *flags.MaxMissing)
		} else {
			common.Warn("Close matrix needs at least 2 downloaded symbols, got %d", len(series))
		}
	}

	fmt.Println()
	if ctx.Err() != nil {
		common.Warn("Stopped early: %d of %d symbols downloaded", len(series), len(symbols))
		return
	}
	if failed > 0 {
		common.Warn("Finished with %d of %d symbols failed", failed, len(symbols))
		return
	}
	common.Success("All %d symbols downloaded", len(symbols))
}

func printHeader() {
	fmt.Printf("🎯 %s v%s\n", strings.ToUpper(AppName), AppVersion)
	fmt.Printf("%s\n\n", strings.Repeat("=", 50))
}

func printUsageHelp() {
	fmt.Printf("%s v%s - Bybit Kline Downloader\n\n", AppName, AppVersion)
	fmt.Printf("USAGE:\n  %s [OPTIONS]\n", filepath.Base(flag.CommandLine.Name()))

	PrintDataUsageExamples()

	fmt.Printf("\nFLAGS:\n")
	flag.PrintDefaults()
}

// resolveTimeRange parses the optional start and end dates. The default range
// is the trailing DefaultRangeDays ending today.
func resolveTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	end := time.Now().UTC()
	if endStr != "" {
		parsed, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date: %s (use YYYY-MM-DD)", endStr)
		}
		// Include the whole end day.
		end = parsed.Add(24*time.Hour - time.Millisecond)
	}

	start := end.AddDate(0, 0, -DefaultRangeDays)
	if startStr != "" {
		parsed, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date: %s (use YYYY-MM-DD)", startStr)
		}
		start = parsed
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s is before start date %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	return start, end, nil
}

// downloadSymbol fetches the full kline range for one symbol and returns the
// bars sorted ascending with page-boundary duplicates removed.
func downloadSymbol(ctx context.Context, client *bybit.Client, breaker *bybit.CircuitBreaker,
	filter *datamanager.DefaultDataFilter, symbol, category string, interval bybit.KlineInterval,
	start, end time.Time) ([]types.OHLCV, error) {

	common.Progress("Downloading %s %s klines...", symbol, string(interval))

	var klines []bybit.Kline
	err := breaker.Call(func() error {
		var downloadErr error
		klines, downloadErr = client.GetKlinesRange(ctx, bybit.KlineParams{
			Category: category,
			Symbol:   symbol,
			Interval: interval,
			Start:    &start,
			End:      &end,
			Limit:    1000,
		})
		return downloadErr
	})
	if err != nil {
		return nil, err
	}

	bars := make([]types.OHLCV, 0, len(klines))
	for _, k := range klines {
		bars = append(bars, types.OHLCV{
			Timestamp: k.StartTime,
			Open:      k.OpenPrice,
			High:      k.HighPrice,
			Low:       k.LowPrice,
			Close:     k.ClosePrice,
			Volume:    k.Volume,
		})
	}

	// Adjacent pages share their boundary bar.
	bars = filter.SortByTimestamp(bars)
	bars = filter.RemoveDuplicates(bars)
	return bars, nil
}

// candlesPath builds the standard data tree location for a symbol:
// {dataRoot}/bybit/{category}/{SYMBOL}/{interval-minutes}/candles.csv
func candlesPath(dataRoot, category, symbol, interval string) string {
	return filepath.Join(dataRoot, "bybit", category, strings.ToUpper(symbol),
		datamanager.ConvertIntervalToMinutes(interval), "candles.csv")
}

func writeCandlesCSV(path string, bars []types.OHLCV) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"timestamp", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}

	for _, bar := range bars {
		record := []string{
			bar.Timestamp.Format("2006-01-02 15:04:05"),
			strconv.FormatFloat(bar.Open, 'f', -1, 64),
			strconv.FormatFloat(bar.High, 'f', -1, 64),
			strconv.FormatFloat(bar.Low, 'f', -1, 64),
			strconv.FormatFloat(bar.Close, 'f', -1, 64),
			strconv.FormatFloat(bar.Volume, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}

func writeMatrix(series map[string][]types.OHLCV, outPath string, maxMissing float64) {
	common.Progress("Building close matrix from %d symbols...", len(series))

	matrix, err := datamanager.BuildCloseMatrix(series, maxMissing)
	if err != nil {
		common.Error("Close matrix: %v", err)
		return
	}

	if err := matrix.WriteCSV(outPath); err != nil {
		common.Error("Close matrix: %v", err)
		return
	}

	common.Success("Close matrix: %d symbols x %d bars → %s", matrix.NumSymbols(), matrix.Len(), outPath)
}
