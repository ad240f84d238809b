package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/ducminhle1904/crypto-pairs-lab/cmd/common"
	"github.com/ducminhle1904/crypto-pairs-lab/internal/backtest"
	"github.com/ducminhle1904/crypto-pairs-lab/internal/journal"
	"github.com/ducminhle1904/crypto-pairs-lab/internal/logger"
	"github.com/ducminhle1904/crypto-pairs-lab/internal/monitoring"
	"github.com/ducminhle1904/crypto-pairs-lab/pkg/config"
	datamanager "github.com/ducminhle1904/crypto-pairs-lab/pkg/data"
	"github.com/ducminhle1904/crypto-pairs-lab/pkg/reporting"
	"github.com/ducminhle1904/crypto-pairs-lab/pkg/types"
	"github.com/ducminhle1904/crypto-pairs-lab/pkg/validation"
)

const (
	AppName    = "Pair Optimize"
	AppVersion = "1.0.0"
)

func main() {
	// Create and parse command line flags
	flags := NewOptimizeFlags()
	flag.Parse()

	// Validate flags before proceeding
	if err := ValidateOptimizeFlags(flags); err != nil {
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
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	symbolA := strings.ToUpper(cfg.Pair.SymbolA)
	symbolB := strings.ToUpper(cfg.Pair.SymbolB)
	if symbolA == "" || symbolB == "" {
		log.Fatalf("❌ Pair is not set: pass -symbol-a and -symbol-b (or pair.symbol_a/b in the config)")
	}
	if symbolA == symbolB {
		log.Fatalf("❌ Both legs are %s: a pair needs two different symbols", symbolA)
	}

	// Load and align both legs
	common.Progress("Loading %s and %s candles (%s %s)...", symbolA, symbolB, cfg.Data.Exchange, cfg.Data.Interval)
	dm := datamanager.NewDataManager()
	loaded, err := dm.LoadAlignedPair(cfg.Data.Root, cfg.Data.Exchange, symbolA, symbolB, cfg.Data.Interval)
	if err != nil {
		log.Fatalf("❌ Data error: %v", err)
	}
	if loaded.DroppedBars > 0 {
		common.Warn("%d unaligned bars dropped while pairing the legs", loaded.DroppedBars)
	}

	pair := loaded.Pair
	if pair.Len() == 0 {
		log.Fatalf("❌ No overlapping candles for %s/%s", symbolA, symbolB)
	}
	if *flags.Period != "" {
		period, _ := datamanager.ParseTrailingPeriod(*flags.Period)
		end := pair.Timestamps[pair.Len()-1]
		pair = datamanager.FilterPairByDateRange(pair, end.Add(-period), time.Time{})
	}
	common.Info("Pair: %s, %d bars (%s → %s)", pair.Label(), pair.Len(),
		pair.Timestamps[0].Format("2006-01-02"), pair.Timestamps[pair.Len()-1].Format("2006-01-02"))

	// Graceful shutdown: started cells finish, unstarted cells are skipped,
	// and the partial grid still gets reported.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n🛑 Interrupt received, finishing started cells...")
		cancel()
	}()

	windows := cfg.GridWindows()
	thresholds := cfg.GridThresholds()
	totalCells := len(windows) * len(thresholds)
	workers := cfg.Grid.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	common.Info("Grid: %d windows x %d thresholds = %d cells (%d workers, %s hedge)",
		len(windows), len(thresholds), totalCells, workers, cfg.Estimator.Mode)
	fmt.Println()

	// Monitoring endpoints
	health := monitoring.NewHealthChecker()
	if cfg.Monitoring.Enabled {
		go serveMonitoring(cfg.Monitoring.Port, health)
	}
	health.StartSweep(totalCells)
	monitoring.SetActiveWorkers(workers)
	defer monitoring.SetActiveWorkers(0)

	// Sweep session log
	sweepLog, logErr := logger.NewLogger(pair.Label(), "sweep")
	if logErr != nil {
		common.Warn("Sweep log unavailable: %v", logErr)
		sweepLog = nil
	} else {
		defer sweepLog.Close()
		common.Info("Sweep log → %s", sweepLog.GetLogPath())
	}

	// Progress state lives on the collector goroutine; RunGrid calls
	// OnCellDone from a single place, so no locking is needed here.
	done := 0
	var best *backtest.CellResult

	grid := backtest.GridConfig{
		Windows:         windows,
		EntryThresholds: thresholds,
		Base:            cfg.ToBacktestConfig(),
		Workers:         cfg.Grid.Workers,
		OnCellDone: func(cell backtest.CellResult) {
			done++
			if cell.Failed() {
				monitoring.RecordCell("failed", cell.Duration.Seconds())
				monitoring.RecordError("cell")
				if sweepLog != nil {
					sweepLog.LogError(cell.Key.String(), cell.Err)
				}
			} else {
				monitoring.RecordCell("ok", cell.Duration.Seconds())
				if best == nil || cell.Result.Metrics.Sharpe > best.Result.Metrics.Sharpe {
					cellCopy := cell
					best = &cellCopy
					monitoring.UpdateBestSharpe(pair.Label(), cell.Result.Metrics.Sharpe)
				}
			}
			health.CellCompleted()

			if done%10 == 0 || done == totalCells {
				bestKey, bestSharpe := "none", 0.0
				if best != nil {
					bestKey = best.Key.String()
					bestSharpe = best.Result.Metrics.Sharpe
				}
				common.Progress("%d/%d cells done (best: %s, Sharpe %.2f)", done, totalCells, bestKey, bestSharpe)
				if sweepLog != nil {
					sweepLog.LogSweepProgress(done, totalCells, bestKey, bestSharpe)
				}
			}
		},
	}

	gridResult, sweepErr := backtest.RunGrid(ctx, pair, grid)
	health.FinishSweep()
	if sweepErr != nil {
		if gridResult == nil || len(gridResult.Cells) == 0 {
			log.Fatalf("❌ Sweep failed: %v", sweepErr)
		}
		common.Warn("Sweep interrupted: reporting %d of %d finished cells", len(gridResult.Cells), totalCells)
	}
	fmt.Println()

	// Report
	manager := reporting.NewReportingManager(reporting.ReportingConfig{
		EnableConsole:   true,
		EnableFiles:     !*flags.ConsoleOnly,
		OutputDirectory: *flags.OutputDir,
		CSVEnabled:      true,
		JSONEnabled:     true,
		ExcelEnabled:    true,
	})
	if err := manager.ReportGrid(gridResult, cfg.Data.Interval, *flags.TopN); err != nil {
		common.Error("Report output: %v", err)
	}

	bestCell, ok := gridResult.Best()
	if !ok {
		common.Error("Every cell failed, nothing to rank")
		return
	}

	metrics := bestCell.Result.Metrics
	common.Success("Best cell: %s → Sharpe %.2f, CAGR %.2f%%, MaxDD %.2f%%",
		bestCell.Key, metrics.Sharpe, metrics.CAGR*100, metrics.MaxDrawdown*100)
	if sweepLog != nil {
		sweepLog.Sweep("Sweep complete: %d cells, best %s, Sharpe %.2f, elapsed %s",
			len(gridResult.Cells), bestCell.Key.String(), metrics.Sharpe,
			gridResult.Elapsed.Round(time.Millisecond))
	}

	// Persist the winning configuration
	if !*flags.ConsoleOnly {
		writeBestConfig(cfg, flags, bestCell, pair.Label())
	}

	// Journal the best run
	journalPath := *flags.JournalPath
	if journalPath == "" {
		journalPath = cfg.Journal.Path
	}
	if journalPath != "" {
		recordBestRun(journalPath, bestCell.Result)
	}

	// Out-of-sample validation of the selection process
	if *flags.WFEnable && sweepErr == nil {
		runWalkForward(ctx, pair, cfg, flags, windows, thresholds)
	}
}

func printHeader() {
	fmt.Printf("🎯 %s v%s\n", strings.ToUpper(AppName), AppVersion)
	fmt.Printf("%s\n\n", strings.Repeat("=", 50))
}

func printUsageHelp() {
	fmt.Printf("%s v%s - Parameter Grid Sweep\n\n", AppName, AppVersion)
	fmt.Printf("USAGE:\n  %s [OPTIONS]\n", filepath.Base(flag.CommandLine.Name()))

	PrintOptimizeUsageExamples()

	fmt.Printf("\nFLAGS:\n")
	flag.PrintDefaults()
}

// applyFlagOverrides layers non-zero flag values on top of the config file.
func applyFlagOverrides(cfg *config.PairConfig, flags *OptimizeFlags) {
	if *flags.SymbolA != "" {
		cfg.Pair.SymbolA = *flags.SymbolA
	}
	if *flags.SymbolB != "" {
		cfg.Pair.SymbolB = *flags.SymbolB
	}

	if *flags.Exchange != "" {
		cfg.Data.Exchange = *flags.Exchange
	}
	if *flags.Interval != "" {
		cfg.Data.Interval = *flags.Interval
	}
	if *flags.DataRoot != "" {
		cfg.Data.Root = *flags.DataRoot
	}

	if *flags.Mode != "" {
		cfg.Estimator.Mode = *flags.Mode
	}

	if *flags.WindowMin != 0 {
		cfg.Grid.WindowMin = *flags.WindowMin
	}
	if *flags.WindowMax != 0 {
		cfg.Grid.WindowMax = *flags.WindowMax
	}
	if *flags.WindowStep != 0 {
		cfg.Grid.WindowStep = *flags.WindowStep
	}
	if *flags.EntryMin != 0 {
		cfg.Grid.EntryMin = *flags.EntryMin
	}
	if *flags.EntryMax != 0 {
		cfg.Grid.EntryMax = *flags.EntryMax
	}
	if *flags.EntryStep != 0 {
		cfg.Grid.EntryStep = *flags.EntryStep
	}
	if *flags.Workers != 0 {
		cfg.Grid.Workers = *flags.Workers
	}

	if *flags.Monitor {
		cfg.Monitoring.Enabled = true
	}
	if *flags.MonitorPort != 0 {
		cfg.Monitoring.Port = *flags.MonitorPort
	}
}

// serveMonitoring exposes sweep health and Prometheus metrics on one port.
func serveMonitoring(port int, health *monitoring.HealthChecker) {
	mux := http.NewServeMux()
	mux.Handle("/health", health)
	mux.Handle("/metrics", monitoring.NewMetricsHandler())

	log.Printf("Starting monitoring server on port %d", port)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
		log.Printf("Monitoring server error: %v", err)
	}
}

// writeBestConfig saves a ready-to-run config with the winning cell's window
// and entry threshold filled in. It lands next to the grid reports unless
// -best-out points elsewhere.
func writeBestConfig(cfg *config.PairConfig, flags *OptimizeFlags, bestCell backtest.CellResult, pairLabel string) {
	bestPath := *flags.BestOut
	if bestPath == "" {
		outputDir := *flags.OutputDir
		if outputDir == "" {
			outputDir = reporting.DefaultOutputDir(pairLabel, cfg.Data.Interval)
		}
		bestPath = filepath.Join(outputDir, "best_config.json")
	}

	bestCfg := *cfg
	bestCfg.Signal.Window = bestCell.Key.Window
	bestCfg.Signal.EntryThreshold = bestCell.Key.EntryThreshold

	if err := reporting.WriteBestConfigJSON(bestCfg, bestPath); err != nil {
		common.Error("Best config: %v", err)
		return
	}
	common.Success("Best config → %s", bestPath)
}

// recordBestRun persists the winning cell's backtest in the SQLite journal.
func recordBestRun(path string, result *backtest.Result) {
	j, err := journal.NewSQLite(path)
	if err != nil {
		common.Error("Journal: %v", err)
		return
	}
	defer j.Close()

	runID, err := j.RecordRun(result)
	if err != nil {
		common.Error("Journal: %v", err)
		return
	}
	common.Success("Journaled best run %s → %s", runID, path)
}

// runWalkForward re-runs the grid selection inside each training window and
// scores the winner on unseen test data.
func runWalkForward(ctx context.Context, pair types.PricePair, cfg *config.PairConfig,
	flags *OptimizeFlags, windows []int, thresholds []float64) {

	optimizer := func(ctx context.Context, trainPair types.PricePair) (*backtest.Result, backtest.Config, error) {
		trainGrid := backtest.GridConfig{
			Windows:         windows,
			EntryThresholds: thresholds,
			Base:            cfg.ToBacktestConfig(),
			Workers:         cfg.Grid.Workers,
		}
		gridResult, err := backtest.RunGrid(ctx, trainPair, trainGrid)
		if err != nil {
			return nil, backtest.Config{}, err
		}
		bestCell, ok := gridResult.Best()
		if !ok {
			return nil, backtest.Config{}, fmt.Errorf("every training cell failed")
		}

		bestCfg := cfg.ToBacktestConfig()
		bestCfg.Window = bestCell.Key.Window
		bestCfg.EntryThreshold = bestCell.Key.EntryThreshold
		return bestCell.Result, bestCfg, nil
	}

	backtester := func(runCfg backtest.Config, testPair types.PricePair) (*backtest.Result, error) {
		engine, err := backtest.NewEngine(runCfg)
		if err != nil {
			return nil, err
		}
		return engine.Run(testPair)
	}

	wfConfig := validation.WalkForwardConfig{
		Enable:     true,
		Rolling:    *flags.WFRolling,
		SplitRatio: *flags.WFSplitRatio,
		TrainDays:  *flags.WFTrainDays,
		TestDays:   *flags.WFTestDays,
		RollDays:   *flags.WFRollDays,
	}

	if _, err := validation.RunWalkForwardValidation(ctx, pair, wfConfig, optimizer, backtester); err != nil {
		common.Error("Walk-forward validation: %v", err)
	}
}
