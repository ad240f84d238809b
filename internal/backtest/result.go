package backtest

import (
	"time"

	"github.com/ducminhle1904/crypto-pairs-lab/internal/hedge"
)

// Trade is one round trip in the spread. The hedge ratio is frozen at entry:
// the position holds 1 unit of A against HedgeRatio units of B for its whole
// life, so mark-to-market and realized P&L are computed against the entry
// ratio even when the estimator keeps adapting underneath.
type Trade struct {
	Direction Position

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

// HoldingPeriod returns the time between entry and exit.
func (t Trade) HoldingPeriod() time.Duration {
	return t.ExitTime.Sub(t.EntryTime)
}

// EquityPoint is one bar of the equity curve.
type EquityPoint struct {
	Time   time.Time
	Equity float64
	Spread float64
}

// Metrics are the scalar performance numbers reduced from a finished run.
type Metrics struct {
	CAGR        float64
	Sharpe      float64
	MaxDrawdown float64
	TradeCount  int
}

// Result is the immutable outcome of one backtest run.
type Result struct {
	Pair   string
	Config Config

	HedgeRatios []float64
	EquityCurve []EquityPoint
	Trades      []Trade
	Metrics     Metrics

	// SignalBars counts bars where the z-score was available.
	SignalBars int

	// Warnings carries recoverable numerical events from the estimator.
	Warnings []hedge.Warning
}

// FinalEquity returns the last equity value, or the initial capital when the
// curve is empty.
func (r *Result) FinalEquity() float64 {
	if len(r.EquityCurve) == 0 {
		return r.Config.InitialCapital
	}
	return r.EquityCurve[len(r.EquityCurve)-1].Equity
}

// TotalReturn returns the fractional return over the run.
func (r *Result) TotalReturn() float64 {
	if r.Config.InitialCapital == 0 {
		return 0
	}
	return r.FinalEquity()/r.Config.InitialCapital - 1
}

// RealizedPnL sums the realized P&L over all closed trades.
func (r *Result) RealizedPnL() float64 {
	var sum float64
	for _, t := range r.Trades {
		sum += t.PnL
	}
	return sum
}

// TotalCosts sums entry and exit commissions over all closed trades.
func (r *Result) TotalCosts() float64 {
	var sum float64
	for _, t := range r.Trades {
		sum += t.EntryCost + t.ExitCost
	}
	return sum
}
