package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ducminhle1904/crypto-pairs-lab/internal/backtest"
)

// DefaultJSONFormatter implements JSON output functionality
type DefaultJSONFormatter struct{}

// NewDefaultJSONFormatter creates a new JSON formatter
func NewDefaultJSONFormatter() *DefaultJSONFormatter {
	return &DefaultJSONFormatter{}
}

// backtestSummary is the JSON shape of a finished run. Trades and the equity
// curve go to CSV; this file carries the parameters and headline numbers.
type backtestSummary struct {
	Pair           string    `json:"pair"`
	Mode           string    `json:"mode"`
	Window         int       `json:"window"`
	EntryThreshold float64   `json:"entry_threshold"`
	ExitThreshold  float64   `json:"exit_threshold"`
	Commission     float64   `json:"commission"`
	InitialCapital float64   `json:"initial_capital"`
	FinalEquity    float64   `json:"final_equity"`
	TotalReturn    float64   `json:"total_return"`
	CAGR           float64   `json:"cagr"`
	Sharpe         float64   `json:"sharpe"`
	MaxDrawdown    float64   `json:"max_drawdown"`
	TradeCount     int       `json:"trade_count"`
	RealizedPnL    float64   `json:"realized_pnl"`
	TotalCosts     float64   `json:"total_costs"`
	SignalBars     int       `json:"signal_bars"`
	TotalBars      int       `json:"total_bars"`
	WarningCount   int       `json:"warning_count"`
	GeneratedAt    time.Time `json:"generated_at"`
}

type gridCellSummary struct {
	Rank           int     `json:"rank,omitempty"`
	Window         int     `json:"window"`
	EntryThreshold float64 `json:"entry_threshold"`
	Sharpe         float64 `json:"sharpe,omitempty"`
	CAGR           float64 `json:"cagr,omitempty"`
	MaxDrawdown    float64 `json:"max_drawdown,omitempty"`
	TradeCount     int     `json:"trade_count,omitempty"`
	DurationMs     int64   `json:"duration_ms"`
	Error          string  `json:"error,omitempty"`
}

type gridSummary struct {
	Pair        string            `json:"pair"`
	CellCount   int               `json:"cell_count"`
	FailedCount int               `json:"failed_count"`
	ElapsedMs   int64             `json:"elapsed_ms"`
	Cells       []gridCellSummary `json:"cells"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// FormatResult renders a run summary as indented JSON
func (f *DefaultJSONFormatter) FormatResult(result *backtest.Result) ([]byte, error) {
	s := backtestSummary{
		Pair:           result.Pair,
		Mode:           string(result.Config.Mode),
		Window:         result.Config.Window,
		EntryThreshold: result.Config.EntryThreshold,
		ExitThreshold:  result.Config.ExitThreshold,
		Commission:     result.Config.Commission,
		InitialCapital: result.Config.InitialCapital,
		FinalEquity:    result.FinalEquity(),
		TotalReturn:    result.TotalReturn(),
		CAGR:           result.Metrics.CAGR,
		Sharpe:         result.Metrics.Sharpe,
		MaxDrawdown:    result.Metrics.MaxDrawdown,
		TradeCount:     result.Metrics.TradeCount,
		RealizedPnL:    result.RealizedPnL(),
		TotalCosts:     result.TotalCosts(),
		SignalBars:     result.SignalBars,
		TotalBars:      len(result.EquityCurve),
		WarningCount:   len(result.Warnings),
		GeneratedAt:    time.Now().UTC(),
	}
	return json.MarshalIndent(s, "", "  ")
}

// WriteResultJSON writes a run summary to disk
func (f *DefaultJSONFormatter) WriteResultJSON(result *backtest.Result, path string) error {
	data, err := f.FormatResult(result)
	if err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// WriteGridJSON writes the full sweep, ranked cells first
func (f *DefaultJSONFormatter) WriteGridJSON(grid *backtest.GridResult, path string) error {
	s := gridSummary{
		Pair:        grid.Pair,
		CellCount:   len(grid.Cells),
		FailedCount: len(grid.Failed()),
		ElapsedMs:   grid.Elapsed.Milliseconds(),
		GeneratedAt: time.Now().UTC(),
	}

	for i, cell := range grid.Ranked() {
		m := cell.Result.Metrics
		s.Cells = append(s.Cells, gridCellSummary{
			Rank:           i + 1,
			Window:         cell.Key.Window,
			EntryThreshold: cell.Key.EntryThreshold,
			Sharpe:         m.Sharpe,
			CAGR:           m.CAGR,
			MaxDrawdown:    m.MaxDrawdown,
			TradeCount:     m.TradeCount,
			DurationMs:     cell.Duration.Milliseconds(),
		})
	}
	for _, cell := range grid.Failed() {
		s.Cells = append(s.Cells, gridCellSummary{
			Window:         cell.Key.Window,
			EntryThreshold: cell.Key.EntryThreshold,
			DurationMs:     cell.Duration.Milliseconds(),
			Error:          cell.Err.Error(),
		})
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// PrintBestConfig prints a configuration as indented JSON to the console
func (f *DefaultJSONFormatter) PrintBestConfig(config interface{}) {
	data, _ := json.MarshalIndent(config, "", "  ")
	fmt.Println(string(data))
}

// WriteBestConfigJSON writes a configuration snapshot, typically the best
// sweep cell applied onto the base config.
func WriteBestConfigJSON(config interface{}, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// WriteResultJSON - package-level convenience function
func WriteResultJSON(result *backtest.Result, path string) error {
	formatter := NewDefaultJSONFormatter()
	return formatter.WriteResultJSON(result, path)
}

// WriteGridJSON - package-level convenience function
func WriteGridJSON(grid *backtest.GridResult, path string) error {
	formatter := NewDefaultJSONFormatter()
	return formatter.WriteGridJSON(grid, path)
}
