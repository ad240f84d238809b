package reporting

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/crypto-pairs-lab/internal/backtest"
	"github.com/ducminhle1904/crypto-pairs-lab/internal/screen"
)

func TestWriteTradesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "trades.csv")

	require.NoError(t, WriteTradesCSV(makeReportResult(), path))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, "direction", rows[0][0])
	assert.Equal(t, "exit_reason", rows[0][13])

	assert.Equal(t, "LONG_SPREAD", rows[1][0])
	assert.Equal(t, "2024-03-01 00:00:00", rows[1][1])
	assert.Equal(t, "2024-03-01 01:00:00", rows[1][2])
	assert.Equal(t, "200.00000000", rows[1][3])
	assert.Equal(t, "-2.50000000", rows[1][7])
	assert.Equal(t, "84.50000000", rows[1][12])
	assert.Equal(t, "signal", rows[1][13])

	assert.Equal(t, "SHORT_SPREAD", rows[2][0])
	assert.Equal(t, "end of data", rows[2][13])
}

func TestWriteTradesCSV_XLSXPathDelegatesToExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.xlsx")

	require.NoError(t, WriteTradesCSV(makeReportResult(), path))

	fx, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer fx.Close()
	assert.ElementsMatch(t, []string{"Summary", "Trades", "Equity"}, fx.GetSheetList())
}

func TestWriteEquityCSV(t *testing.T) {
	result := makeReportResult()
	// One fewer hedge ratio than equity bars leaves the last ratio blank.
	result.HedgeRatios = result.HedgeRatios[:2]

	path := filepath.Join(t.TempDir(), "equity.csv")
	require.NoError(t, WriteEquityCSV(result, path))

	rows := readCSV(t, path)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"timestamp", "equity", "spread", "hedge_ratio"}, rows[0])
	assert.Equal(t, []string{"2024-03-01 00:00:00", "10000.00000000", "0.50000000", "0.05200000"}, rows[1])
	assert.Equal(t, "", rows[3][3])
}

func TestWriteGridCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.csv")

	require.NoError(t, WriteGridCSV(makeReportGrid(), path))

	rows := readCSV(t, path)
	require.Len(t, rows, 4)
	assert.Equal(t, "rank", rows[0][0])
	assert.Equal(t, "error", rows[0][8])

	// Ranked cells first, best Sharpe on top.
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "40", rows[1][1])
	assert.Equal(t, "1.80000000", rows[1][3])
	assert.Equal(t, "2", rows[2][0])
	assert.Equal(t, "20", rows[2][1])

	// Failed cells keep their key but carry the error instead of metrics.
	assert.Equal(t, "", rows[3][0])
	assert.Equal(t, "60", rows[3][1])
	assert.Equal(t, "", rows[3][3])
	assert.Equal(t, "window exceeds available bars", rows[3][8])
}

func TestWriteScreenCSV(t *testing.T) {
	scores := []screen.PairScore{
		{SymbolA: "ETHUSDT", SymbolB: "BTCUSDT", Correlation: 0.9421, Beta: 0.0512, HalfLife: 18.5},
		{SymbolA: "SOLUSDT", SymbolB: "BTCUSDT", Correlation: 0.8833, Beta: 0.0021, HalfLife: 42.0},
	}

	path := filepath.Join(t.TempDir(), "screen.csv")
	require.NoError(t, WriteScreenCSV(scores, path))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"rank", "symbol_a", "symbol_b", "correlation", "beta", "half_life_bars"}, rows[0])
	assert.Equal(t, []string{"1", "ETHUSDT", "BTCUSDT", "0.94210000", "0.05120000", "18.50000000"}, rows[1])
	assert.Equal(t, "2", rows[2][0])
	assert.Equal(t, "SOLUSDT", rows[2][1])
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

// makeReportResult builds a small finished run with one winning and one losing
// round trip over three hourly bars.
func makeReportResult() *backtest.Result {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	return &backtest.Result{
		Pair:        "ETHUSDT/BTCUSDT",
		Config:      backtest.DefaultConfig(),
		HedgeRatios: []float64{0.052, 0.052, 0.052},
		EquityCurve: []backtest.EquityPoint{
			{Time: base, Equity: 10000, Spread: 0.5},
			{Time: base.Add(time.Hour), Equity: 10050, Spread: -2.1},
			{Time: base.Add(2 * time.Hour), Equity: 10120, Spread: 0.2},
		},
		Trades: []backtest.Trade{
			{
				Direction:   backtest.LongSpread,
				EntryTime:   base,
				ExitTime:    base.Add(time.Hour),
				EntryPriceA: 200.0,
				EntryPriceB: 100.0,
				ExitPriceA:  205.0,
				ExitPriceB:  101.0,
				EntrySpread: -2.5,
				ExitSpread:  0.5,
				HedgeRatio:  0.052,
				EntryCost:   0.4,
				ExitCost:    0.4,
				PnL:         84.5,
				ExitReason:  backtest.ExitReasonSignal,
			},
			{
				Direction:   backtest.ShortSpread,
				EntryTime:   base.Add(time.Hour),
				ExitTime:    base.Add(2 * time.Hour),
				EntryPriceA: 205.0,
				EntryPriceB: 101.0,
				ExitPriceA:  204.0,
				ExitPriceB:  100.5,
				EntrySpread: 2.2,
				ExitSpread:  0.4,
				HedgeRatio:  0.052,
				EntryCost:   0.4,
				ExitCost:    0.4,
				PnL:         -12.25,
				ExitReason:  backtest.ExitReasonEndOfData,
			},
		},
		Metrics:    backtest.Metrics{CAGR: 0.42, Sharpe: 1.35, MaxDrawdown: -0.08, TradeCount: 2},
		SignalBars: 3,
	}
}

// makeReportGrid builds a three-cell sweep: two succeeded cells with distinct
// Sharpe ratios and one failed cell.
func makeReportGrid() *backtest.GridResult {
	good := makeReportResult()
	better := makeReportResult()
	better.Metrics.Sharpe = 1.80

	cells := map[backtest.CellKey]backtest.CellResult{
		{Window: 20, EntryThreshold: 2.0}: {
			Key:      backtest.CellKey{Window: 20, EntryThreshold: 2.0},
			Result:   good,
			Duration: 120 * time.Millisecond,
		},
		{Window: 40, EntryThreshold: 2.0}: {
			Key:      backtest.CellKey{Window: 40, EntryThreshold: 2.0},
			Result:   better,
			Duration: 95 * time.Millisecond,
		},
		{Window: 60, EntryThreshold: 2.5}: {
			Key:      backtest.CellKey{Window: 60, EntryThreshold: 2.5},
			Err:      errors.New("window exceeds available bars"),
			Duration: 3 * time.Millisecond,
		},
	}

	return &backtest.GridResult{
		Pair:    "ETHUSDT/BTCUSDT",
		Cells:   cells,
		Elapsed: 250 * time.Millisecond,
	}
}
