package reporting

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/crypto-pairs-lab/internal/backtest"
	"github.com/ducminhle1904/crypto-pairs-lab/internal/screen"
)

// DefaultConsoleReporter implements console output functionality
type DefaultConsoleReporter struct{}

// NewDefaultConsoleReporter creates a new console reporter
func NewDefaultConsoleReporter() *DefaultConsoleReporter {
	return &DefaultConsoleReporter{}
}

// PrintBacktestSummary prints the run parameters and headline metrics
func (r *DefaultConsoleReporter) PrintBacktestSummary(result *backtest.Result, interval string) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("BACKTEST RESULTS")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"📊 Pair", result.Pair},
		{"⏰ Interval", interval},
		{"🔧 Mode", string(result.Config.Mode)},
		{"📐 Window", fmt.Sprintf("%d bars", result.Config.Window)},
		{"📐 Entry / Exit z", fmt.Sprintf("%.2f / %.2f", result.Config.EntryThreshold, result.Config.ExitThreshold)},
		{"💸 Commission", fmt.Sprintf("%.4f%%", result.Config.Commission*100)},
	})

	t.AppendSeparator()

	t.AppendRows([]table.Row{
		{"💰 Initial Capital", fmt.Sprintf("$%.2f", result.Config.InitialCapital)},
		{"💰 Final Equity", fmt.Sprintf("$%.2f", result.FinalEquity())},
		{"📈 Total Return", fmt.Sprintf("%.2f%%", result.TotalReturn()*100)},
		{"📈 CAGR", fmt.Sprintf("%.2f%%", result.Metrics.CAGR*100)},
		{"📊 Sharpe Ratio", fmt.Sprintf("%.2f", result.Metrics.Sharpe)},
		{"📉 Max Drawdown", fmt.Sprintf("%.2f%%", result.Metrics.MaxDrawdown*100)},
	})

	t.AppendSeparator()

	t.AppendRows([]table.Row{
		{"🔄 Trades", fmt.Sprintf("%d", result.Metrics.TradeCount)},
		{"💵 Realized P&L", fmt.Sprintf("$%.2f", result.RealizedPnL())},
		{"💸 Total Costs", fmt.Sprintf("$%.2f", result.TotalCosts())},
		{"📶 Signal Bars", fmt.Sprintf("%d / %d", result.SignalBars, len(result.EquityCurve))},
		{"⚠️ Filter Warnings", fmt.Sprintf("%d", len(result.Warnings))},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 20, WidthMax: 20, Align: text.AlignLeft},
		{Number: 2, WidthMin: 25, WidthMax: 40, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Println()
}

// PrintTrades prints the closed trades, newest last. A limit of 0 prints all.
func (r *DefaultConsoleReporter) PrintTrades(result *backtest.Result, limit int) {
	trades := result.Trades
	if len(trades) == 0 {
		fmt.Println("No trades closed during the run.")
		return
	}
	truncated := 0
	if limit > 0 && len(trades) > limit {
		truncated = len(trades) - limit
		trades = trades[len(trades)-limit:]
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("TRADES")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Direction", "Entry", "Exit", "Hold", "Entry Spread", "Exit Spread", "Ratio", "P&L", "Exit Reason"})

	for i, tr := range trades {
		t.AppendRow(table.Row{
			len(result.Trades) - len(trades) + i + 1,
			tr.Direction.String(),
			tr.EntryTime.Format("2006-01-02 15:04"),
			tr.ExitTime.Format("2006-01-02 15:04"),
			tr.HoldingPeriod().Round(time.Minute).String(),
			fmt.Sprintf("%.4f", tr.EntrySpread),
			fmt.Sprintf("%.4f", tr.ExitSpread),
			fmt.Sprintf("%.4f", tr.HedgeRatio),
			fmt.Sprintf("$%.2f", tr.PnL),
			tr.ExitReason,
		})
	}

	t.AppendFooter(table.Row{"", "", "", "", "", "", "", "Total", fmt.Sprintf("$%.2f", result.RealizedPnL()), ""})
	t.Render()

	if truncated > 0 {
		fmt.Printf("(%d earlier trades not shown)\n", truncated)
	}
	fmt.Println()
}

// PrintGridLeaderboard prints the ranked sweep cells
func (r *DefaultConsoleReporter) PrintGridLeaderboard(grid *backtest.GridResult, topN int) {
	ranked := grid.Ranked()
	if len(ranked) == 0 {
		fmt.Println("No grid cell produced a result.")
		return
	}
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("GRID LEADERBOARD: %s", grid.Pair))
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Rank", "Window", "Entry z", "Sharpe", "CAGR", "Max DD", "Trades", "Cell Time"})

	for i, cell := range ranked {
		m := cell.Result.Metrics
		t.AppendRow(table.Row{
			i + 1,
			cell.Key.Window,
			fmt.Sprintf("%.2f", cell.Key.EntryThreshold),
			fmt.Sprintf("%.2f", m.Sharpe),
			fmt.Sprintf("%.2f%%", m.CAGR*100),
			fmt.Sprintf("%.2f%%", m.MaxDrawdown*100),
			m.TradeCount,
			cell.Duration.Round(time.Millisecond).String(),
		})
	}

	failed := grid.Failed()
	t.AppendFooter(table.Row{"", "", "", "", "", "", fmt.Sprintf("%d failed", len(failed)), grid.Elapsed.Round(time.Millisecond).String()})
	t.Render()
	fmt.Println()
}

// PrintFailedCells prints the cells the sweep could not evaluate
func (r *DefaultConsoleReporter) PrintFailedCells(grid *backtest.GridResult) {
	failed := grid.Failed()
	if len(failed) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("FAILED CELLS")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Window", "Entry z", "Error"})

	for _, cell := range failed {
		t.AppendRow(table.Row{cell.Key.Window, fmt.Sprintf("%.2f", cell.Key.EntryThreshold), cell.Err.Error()})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: 60, Align: text.AlignLeft},
	})
	t.Render()
	fmt.Println()
}

// PrintScreenTable prints the ranked pair screen, fastest-reverting first
func (r *DefaultConsoleReporter) PrintScreenTable(scores []screen.PairScore, topN int) {
	if len(scores) == 0 {
		fmt.Println("No pair passed the screen.")
		return
	}
	if topN > 0 && len(scores) > topN {
		scores = scores[:topN]
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("COINTEGRATION SCREEN")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Rank", "Pair", "Correlation", "Beta", "Half-Life (bars)"})

	for i, s := range scores {
		t.AppendRow(table.Row{
			i + 1,
			s.Label(),
			fmt.Sprintf("%.4f", s.Correlation),
			fmt.Sprintf("%.4f", s.Beta),
			fmt.Sprintf("%.1f", s.HalfLife),
		})
	}

	t.Render()
	fmt.Println()
}

// OutputConsole prints the standard backtest report
func OutputConsole(result *backtest.Result, interval string) {
	reporter := NewDefaultConsoleReporter()
	reporter.PrintBacktestSummary(result, interval)
}
