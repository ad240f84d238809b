package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/ducminhle1904/crypto-pairs-lab/cmd/common"
	"github.com/ducminhle1904/crypto-pairs-lab/internal/backtest"
	"github.com/ducminhle1904/crypto-pairs-lab/internal/journal"
	"github.com/ducminhle1904/crypto-pairs-lab/internal/logger"
	"github.com/ducminhle1904/crypto-pairs-lab/pkg/config"
	datamanager "github.com/ducminhle1904/crypto-pairs-lab/pkg/data"
	"github.com/ducminhle1904/crypto-pairs-lab/pkg/reporting"
	"github.com/ducminhle1904/crypto-pairs-lab/pkg/types"
)

const (
	AppName    = "Pair Backtest"
	AppVersion = "1.0.0"
)

func main() {
	// Create and parse command line flags
	flags := NewBacktestFlags()
	flag.Parse()

	// Validate flags before proceeding
	if err := ValidateBacktestFlags(flags); err != nil {
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

	journalPath := *flags.JournalPath
	if journalPath == "" {
		journalPath = cfg.Journal.Path
	}

	// Journal browsing modes exit before any data is loaded.
	if *flags.ListRuns || *flags.ShowRun != "" {
		if journalPath == "" {
			log.Fatalf("❌ Journal browsing needs -journal PATH (or journal.path in the config)")
		}
		browseJournal(journalPath, flags, cfg)
		return
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

	pair, err := slicePair(loaded.Pair, flags)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if pair.Len() == 0 {
		log.Fatalf("❌ No overlapping candles for %s after filtering", pair.Label())
	}
	common.Info("Pair: %s, %d bars (%s → %s)", pair.Label(), pair.Len(),
		pair.Timestamps[0].Format("2006-01-02"), pair.Timestamps[pair.Len()-1].Format("2006-01-02"))
	fmt.Println()

	// Run the backtest
	bcfg := cfg.ToBacktestConfig()
	engine, err := backtest.NewEngine(bcfg)
	if err != nil {
		log.Fatalf("❌ Engine error: %v", err)
	}

	result, err := engine.Run(pair)
	if err != nil {
		log.Fatalf("❌ Backtest failed: %v", err)
	}

	// Report
	manager := reporting.NewReportingManager(reporting.ReportingConfig{
		EnableConsole:   true,
		EnableFiles:     !*flags.ConsoleOnly,
		OutputDirectory: *flags.OutputDir,
		CSVEnabled:      true,
		JSONEnabled:     true,
		ExcelEnabled:    true,
	})
	if err := manager.ReportBacktest(result, cfg.Data.Interval); err != nil {
		common.Error("Report output: %v", err)
	}
	if *flags.ShowTrades > 0 {
		reporting.NewDefaultReporter().PrintTrades(result, *flags.ShowTrades)
	}
	if len(result.Warnings) > 0 {
		common.Warn("%d estimator warnings (details in the session log)", len(result.Warnings))
	}

	writeSessionLog(result, bcfg)

	// Journal the run
	if journalPath != "" {
		recordRun(journalPath, result)
	}
}

func printHeader() {
	fmt.Printf("🎯 %s v%s\n", strings.ToUpper(AppName), AppVersion)
	fmt.Printf("%s\n\n", strings.Repeat("=", 50))
}

func printUsageHelp() {
	fmt.Printf("%s v%s - Spread Mean-Reversion Backtester\n\n", AppName, AppVersion)
	fmt.Printf("USAGE:\n  %s [OPTIONS]\n", filepath.Base(flag.CommandLine.Name()))

	PrintBacktestUsageExamples()

	fmt.Printf("\nFLAGS:\n")
	flag.PrintDefaults()
}

// applyFlagOverrides layers non-zero flag values on top of the config file.
// Exit and commission use -1 as their "unset" sentinel because zero is a
// legitimate value for both.
func applyFlagOverrides(cfg *config.PairConfig, flags *BacktestFlags) {
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
	if *flags.Window != 0 {
		cfg.Signal.Window = *flags.Window
	}
	if *flags.Entry != 0 {
		cfg.Signal.EntryThreshold = *flags.Entry
	}
	if *flags.Exit >= 0 {
		cfg.Signal.ExitThreshold = *flags.Exit
	}
	if *flags.Commission >= 0 {
		cfg.Execution.Commission = *flags.Commission
	}
	if *flags.Capital != 0 {
		cfg.Execution.InitialCapital = *flags.Capital
	}
}

// slicePair trims the pair per the -period or -start/-end flags. A trailing
// period is anchored at the last loaded bar, not the wall clock.
func slicePair(pair types.PricePair, flags *BacktestFlags) (types.PricePair, error) {
	if *flags.Period != "" {
		period, _ := datamanager.ParseTrailingPeriod(*flags.Period)
		if pair.Len() == 0 {
			return pair, nil
		}
		end := pair.Timestamps[pair.Len()-1]
		return datamanager.FilterPairByDateRange(pair, end.Add(-period), time.Time{}), nil
	}

	var start, end time.Time
	if *flags.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", *flags.StartDate)
		if err != nil {
			return pair, fmt.Errorf("invalid start date: %s", *flags.StartDate)
		}
		start = parsed
	}
	if *flags.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", *flags.EndDate)
		if err != nil {
			return pair, fmt.Errorf("invalid end date: %s", *flags.EndDate)
		}
		// Include the whole end day.
		end = parsed.Add(24*time.Hour - time.Millisecond)
	}
	if start.IsZero() && end.IsZero() {
		return pair, nil
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return pair, fmt.Errorf("end date %s is before start date %s", *flags.EndDate, *flags.StartDate)
	}

	return datamanager.FilterPairByDateRange(pair, start, end), nil
}

// writeSessionLog appends the run summary and every closed trade to the
// session log under logs/.
func writeSessionLog(result *backtest.Result, bcfg backtest.Config) {
	sessionLog, err := logger.NewLogger(result.Pair, "backtest")
	if err != nil {
		common.Warn("Session log unavailable: %v", err)
		return
	}
	defer sessionLog.Close()

	for _, w := range result.Warnings {
		sessionLog.LogWarning("estimator", "%s", w.String())
	}
	for _, t := range result.Trades {
		sessionLog.LogTradeClose(t.Direction.String(), t.EntrySpread, t.ExitSpread,
			t.HedgeRatio, t.PnL, t.HoldingPeriod(), t.ExitReason)
	}
	sessionLog.LogRunSummary(string(bcfg.Mode), bcfg.Window, bcfg.EntryThreshold, bcfg.ExitThreshold,
		result.FinalEquity(), result.TotalReturn(), result.Metrics.CAGR, result.Metrics.Sharpe,
		result.Metrics.MaxDrawdown, len(result.Trades))

	common.Info("Session log → %s", sessionLog.GetLogPath())
}

// recordRun persists the result in the SQLite journal.
func recordRun(path string, result *backtest.Result) {
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
	common.Success("Journaled run %s → %s", runID, path)
}

// browseJournal handles the -list-runs and -show-run modes.
func browseJournal(path string, flags *BacktestFlags, cfg *config.PairConfig) {
	j, err := journal.NewSQLite(path)
	if err != nil {
		log.Fatalf("❌ Journal: %v", err)
	}
	defer j.Close()

	if *flags.ShowRun != "" {
		showRun(j, *flags.ShowRun)
		return
	}

	// An explicit pair narrows the listing.
	pairFilter := ""
	if cfg.Pair.SymbolA != "" && cfg.Pair.SymbolB != "" {
		pairFilter = strings.ToUpper(cfg.Pair.SymbolA) + "/" + strings.ToUpper(cfg.Pair.SymbolB)
	}

	runs, err := j.ListRuns(pairFilter)
	if err != nil {
		log.Fatalf("❌ Journal: %v", err)
	}
	if len(runs) == 0 {
		fmt.Println("No journaled runs yet.")
		return
	}

	fmt.Printf("%-26s  %-16s  %-16s  %-6s  %4s  %5s  %7s  %8s  %8s  %6s\n",
		"RUN ID", "CREATED", "PAIR", "MODE", "WIN", "ENTRY", "SHARPE", "CAGR", "MAXDD", "TRADES")
	fmt.Println(strings.Repeat("-", 120))
	for _, run := range runs {
		fmt.Printf("%-26s  %-16s  %-16s  %-6s  %4d  %5.2f  %7.2f  %7.2f%%  %7.2f%%  %6d\n",
			run.RunID,
			run.CreatedAt.Format("2006-01-02 15:04"),
			run.Pair,
			run.Mode,
			run.Window,
			run.EntryThreshold,
			run.Sharpe,
			run.CAGR*100,
			run.MaxDrawdown*100,
			run.TradeCount)
	}
	fmt.Printf("\n%d runs in %s\n", len(runs), path)
}

// showRun prints one journaled run and its trades.
func showRun(j journal.Journal, runID string) {
	run, err := j.GetRun(runID)
	if err != nil {
		log.Fatalf("❌ Journal: %v", err)
	}

	fmt.Printf("Run:      %s\n", run.RunID)
	fmt.Printf("Created:  %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Pair:     %s (%s, window %d, entry %.2f, exit %.2f)\n",
		run.Pair, run.Mode, run.Window, run.EntryThreshold, run.ExitThreshold)
	fmt.Printf("Capital:  %.2f → %.2f (%+.2f%%)\n", run.InitialCapital, run.FinalEquity, run.TotalReturn*100)
	fmt.Printf("Metrics:  CAGR %.2f%%, Sharpe %.2f, MaxDD %.2f%%\n",
		run.CAGR*100, run.Sharpe, run.MaxDrawdown*100)
	fmt.Printf("Signals:  %d bars, %d warnings\n\n", run.SignalBars, run.WarningCount)

	trades, err := j.ListTrades(runID)
	if err != nil {
		log.Fatalf("❌ Journal: %v", err)
	}
	if len(trades) == 0 {
		fmt.Println("No trades recorded for this run.")
		return
	}

	fmt.Printf("%3s  %-12s  %-16s  %-16s  %9s  %9s  %8s  %10s  %s\n",
		"#", "DIRECTION", "ENTRY", "EXIT", "SPREAD-IN", "SPREAD-OUT", "HEDGE", "PNL", "REASON")
	fmt.Println(strings.Repeat("-", 120))
	for _, t := range trades {
		fmt.Printf("%3d  %-12s  %-16s  %-16s  %9.4f  %9.4f  %8.4f  %10.2f  %s\n",
			t.Seq+1,
			t.Direction,
			t.EntryTime.Format("2006-01-02 15:04"),
			t.ExitTime.Format("2006-01-02 15:04"),
			t.EntrySpread,
			t.ExitSpread,
			t.HedgeRatio,
			t.PnL,
			t.ExitReason)
	}
}
