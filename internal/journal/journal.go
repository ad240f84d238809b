// Package journal persists finished backtest runs to SQLite so parameter
// experiments survive across sessions and can be compared after the fact.
package journal

import (
	"time"

	"github.com/ducminhle1904/crypto-pairs-lab/internal/backtest"
	"github.com/ducminhle1904/crypto-pairs-lab/pkg/id"
)

// RunRecord mirrors one row of the runs table: the configuration that
// produced a backtest and the headline numbers it ended with.
type RunRecord struct {
	RunID     string
	CreatedAt time.Time

	Pair           string
	Mode           string
	Window         int
	EntryThreshold float64
	ExitThreshold  float64
	Commission     float64
	InitialCapital float64

	FinalEquity  float64
	TotalReturn  float64
	CAGR         float64
	Sharpe       float64
	MaxDrawdown  float64
	TradeCount   int
	SignalBars   int
	WarningCount int
}

// TradeRecord mirrors one row of the trades table. Seq is the zero-based
// position of the trade within its run.
type TradeRecord struct {
	RunID string
	Seq   int

	Direction string
	EntryTime time.Time
	ExitTime  time.Time

	EntryPriceA float64
	EntryPriceB float64
	ExitPriceA  float64
	ExitPriceB  float64

	EntrySpread float64
	ExitSpread  float64
	HedgeRatio  float64

	EntryCost float64
	ExitCost  float64
	PnL       float64

	ExitReason string
}

// Journal records backtest results and reads them back for comparison.
type Journal interface {
	// RecordRun persists a finished result with all of its trades and
	// returns the generated run id.
	RecordRun(result *backtest.Result) (string, error)

	// GetRun returns a single run by id.
	GetRun(runID string) (*RunRecord, error)

	// ListRuns returns runs for a pair, newest first. An empty pair returns
	// every run in the journal.
	ListRuns(pair string) ([]RunRecord, error)

	// ListTrades returns the trades of a run in execution order.
	ListTrades(runID string) ([]TradeRecord, error)

	Close() error
}

// newRunRecord flattens a backtest result into a run row with a fresh ULID.
func newRunRecord(result *backtest.Result) RunRecord {
	return RunRecord{
		RunID:     id.New(),
		CreatedAt: time.Now().UTC(),

		Pair:           result.Pair,
		Mode:           string(result.Config.Mode),
		Window:         result.Config.Window,
		EntryThreshold: result.Config.EntryThreshold,
		ExitThreshold:  result.Config.ExitThreshold,
		Commission:     result.Config.Commission,
		InitialCapital: result.Config.InitialCapital,

		FinalEquity:  result.FinalEquity(),
		TotalReturn:  result.TotalReturn(),
		CAGR:         result.Metrics.CAGR,
		Sharpe:       result.Metrics.Sharpe,
		MaxDrawdown:  result.Metrics.MaxDrawdown,
		TradeCount:   result.Metrics.TradeCount,
		SignalBars:   result.SignalBars,
		WarningCount: len(result.Warnings),
	}
}

// newTradeRecords flattens the trades of a result, stamping each with the
// run id and its sequence number.
func newTradeRecords(runID string, trades []backtest.Trade) []TradeRecord {
	records := make([]TradeRecord, 0, len(trades))
	for i, t := range trades {
		records = append(records, TradeRecord{
			RunID: runID,
			Seq:   i,

			Direction: t.Direction.String(),
			EntryTime: t.EntryTime,
			ExitTime:  t.ExitTime,

			EntryPriceA: t.EntryPriceA,
			EntryPriceB: t.EntryPriceB,
			ExitPriceA:  t.ExitPriceA,
			ExitPriceB:  t.ExitPriceB,

			EntrySpread: t.EntrySpread,
			ExitSpread:  t.ExitSpread,
			HedgeRatio:  t.HedgeRatio,

			EntryCost: t.EntryCost,
			ExitCost:  t.ExitCost,
			PnL:       t.PnL,

			ExitReason: t.ExitReason,
		})
	}
	return records
}
