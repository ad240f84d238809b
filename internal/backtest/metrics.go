package backtest

import (
	"math"

	"github.com/ducminhle1904/crypto-pairs-lab/pkg/stats"
)

// ComputeMetrics reduces an equity curve and trade ledger into the scalar
// performance numbers. Pure function of its inputs.
func ComputeMetrics(curve []EquityPoint, trades []Trade, periodsPerYear float64) Metrics {
	m := Metrics{TradeCount: len(trades)}
	if len(curve) < 2 {
		return m
	}

	m.CAGR = calculateCAGR(curve)
	m.Sharpe = calculateSharpe(curve, periodsPerYear)
	m.MaxDrawdown = calculateMaxDrawdown(curve)
	return m
}

// calculateCAGR annualizes the total return over the curve's span.
func calculateCAGR(curve []EquityPoint) float64 {
	first := curve[0]
	last := curve[len(curve)-1]

	years := last.Time.Sub(first.Time).Hours() / (24 * 365.25)
	if years <= 0 || first.Equity <= 0 || last.Equity <= 0 {
		return 0
	}

	return math.Pow(last.Equity/first.Equity, 1.0/years) - 1.0
}

// calculateSharpe computes the annualized Sharpe ratio from per-bar equity
// returns, assuming a zero risk-free rate. Returns 0 when the return series
// has no deviation.
func calculateSharpe(curve []EquityPoint, periodsPerYear float64) float64 {
	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev != 0 {
			returns = append(returns, curve[i].Equity/prev-1.0)
		}
	}
	if len(returns) == 0 {
		return 0
	}

	mean := stats.Mean(returns)
	std := stats.StdDev(returns)
	if std < 1e-10 {
		return 0
	}

	return mean / std * math.Sqrt(periodsPerYear)
}

// calculateMaxDrawdown returns the deepest peak-to-trough decline as a
// non-positive fraction of the running maximum.
func calculateMaxDrawdown(curve []EquityPoint) float64 {
	maxDD := 0.0
	runningMax := curve[0].Equity

	for _, p := range curve {
		if p.Equity > runningMax {
			runningMax = p.Equity
		}
		if runningMax > 0 {
			dd := p.Equity/runningMax - 1.0
			if dd < maxDD {
				maxDD = dd
			}
		}
	}

	return maxDD
}
