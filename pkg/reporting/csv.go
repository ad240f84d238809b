package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ducminhle1904/crypto-pairs-lab/internal/backtest"
	"github.com/ducminhle1904/crypto-pairs-lab/internal/screen"
)

const timeFormat = "2006-01-02 15:04:05"

// DefaultCSVReporter implements CSV output functionality
type DefaultCSVReporter struct{}

// NewDefaultCSVReporter creates a new CSV reporter
func NewDefaultCSVReporter() *DefaultCSVReporter {
	return &DefaultCSVReporter{}
}

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// WriteTradesCSV writes the closed trades. An .xlsx path delegates to the
// Excel writer.
func (r *DefaultCSVReporter) WriteTradesCSV(result *backtest.Result, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return WriteBacktestXLSX(result, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{
		"direction",
		"entry_time",
		"exit_time",
		"entry_price_a",
		"entry_price_b",
		"exit_price_a",
		"exit_price_b",
		"entry_spread",
		"exit_spread",
		"hedge_ratio",
		"entry_cost",
		"exit_cost",
		"pnl",
		"exit_reason",
	}); err != nil {
		return err
	}

	for _, t := range result.Trades {
		row := []string{
			t.Direction.String(),
			t.EntryTime.Format(timeFormat),
			t.ExitTime.Format(timeFormat),
			formatFloat(t.EntryPriceA),
			formatFloat(t.EntryPriceB),
			formatFloat(t.ExitPriceA),
			formatFloat(t.ExitPriceB),
			formatFloat(t.EntrySpread),
			formatFloat(t.ExitSpread),
			formatFloat(t.HedgeRatio),
			formatFloat(t.EntryCost),
			formatFloat(t.ExitCost),
			formatFloat(t.PnL),
			t.ExitReason,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// WriteEquityCSV writes the per-bar equity curve with the spread and hedge
// ratio alongside, one row per input bar.
func (r *DefaultCSVReporter) WriteEquityCSV(result *backtest.Result, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"timestamp", "equity", "spread", "hedge_ratio"}); err != nil {
		return err
	}

	for i, p := range result.EquityCurve {
		ratio := ""
		if i < len(result.HedgeRatios) {
			ratio = formatFloat(result.HedgeRatios[i])
		}
		row := []string{
			p.Time.Format(timeFormat),
			formatFloat(p.Equity),
			formatFloat(p.Spread),
			ratio,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// WriteGridCSV writes every sweep cell, ranked cells first, failed cells
// after with the error in the last column.
func (r *DefaultCSVReporter) WriteGridCSV(grid *backtest.GridResult, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{
		"rank", "window", "entry_threshold", "sharpe", "cagr", "max_drawdown", "trades", "duration_ms", "error",
	}); err != nil {
		return err
	}

	for i, cell := range grid.Ranked() {
		m := cell.Result.Metrics
		row := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(cell.Key.Window),
			formatFloat(cell.Key.EntryThreshold),
			formatFloat(m.Sharpe),
			formatFloat(m.CAGR),
			formatFloat(m.MaxDrawdown),
			strconv.Itoa(m.TradeCount),
			strconv.FormatInt(cell.Duration.Milliseconds(), 10),
			"",
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	for _, cell := range grid.Failed() {
		row := []string{
			"",
			strconv.Itoa(cell.Key.Window),
			formatFloat(cell.Key.EntryThreshold),
			"", "", "", "",
			strconv.FormatInt(cell.Duration.Milliseconds(), 10),
			cell.Err.Error(),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// WriteScreenCSV writes the ranked pair screen.
func (r *DefaultCSVReporter) WriteScreenCSV(scores []screen.PairScore, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"rank", "symbol_a", "symbol_b", "correlation", "beta", "half_life_bars"}); err != nil {
		return err
	}

	for i, s := range scores {
		row := []string{
			strconv.Itoa(i + 1),
			s.SymbolA,
			s.SymbolB,
			formatFloat(s.Correlation),
			formatFloat(s.Beta),
			formatFloat(s.HalfLife),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.8f", v)
}

// WriteTradesCSV - package-level convenience function
func WriteTradesCSV(result *backtest.Result, path string) error {
	reporter := NewDefaultCSVReporter()
	return reporter.WriteTradesCSV(result, path)
}

// WriteEquityCSV - package-level convenience function
func WriteEquityCSV(result *backtest.Result, path string) error {
	reporter := NewDefaultCSVReporter()
	return reporter.WriteEquityCSV(result, path)
}

// WriteGridCSV - package-level convenience function
func WriteGridCSV(grid *backtest.GridResult, path string) error {
	reporter := NewDefaultCSVReporter()
	return reporter.WriteGridCSV(grid, path)
}

// WriteScreenCSV - package-level convenience function
func WriteScreenCSV(scores []screen.PairScore, path string) error {
	reporter := NewDefaultCSVReporter()
	return reporter.WriteScreenCSV(scores, path)
}
