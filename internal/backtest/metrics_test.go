package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeMetrics_ShortCurve(t *testing.T) {
	m := ComputeMetrics(nil, []Trade{{}, {}}, 252)

	assert.Equal(t, 2, m.TradeCount)
	assert.Equal(t, 0.0, m.CAGR)
	assert.Equal(t, 0.0, m.Sharpe)
	assert.Equal(t, 0.0, m.MaxDrawdown)
}

func TestCalculateCAGR_OneYear(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	curve := []EquityPoint{
		{Time: start, Equity: 10000},
		{Time: start.Add(time.Duration(365.25 * 24 * float64(time.Hour))), Equity: 11000},
	}

	assert.InDelta(t, 0.10, calculateCAGR(curve), 1e-9)
}

func TestCalculateCAGR_HalfYearCompounds(t *testing.T) {
	// A 10% gain over half a year annualizes to 21%.
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	curve := []EquityPoint{
		{Time: start, Equity: 10000},
		{Time: start.Add(time.Duration(365.25 * 12 * float64(time.Hour))), Equity: 11000},
	}

	assert.InDelta(t, 0.21, calculateCAGR(curve), 1e-9)
}

func TestCalculateCAGR_DegenerateInputs(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Zero time span.
	flat := []EquityPoint{{Time: start, Equity: 100}, {Time: start, Equity: 110}}
	assert.Equal(t, 0.0, calculateCAGR(flat))

	// Equity wiped out below zero.
	wiped := []EquityPoint{
		{Time: start, Equity: 100},
		{Time: start.Add(24 * time.Hour), Equity: -5},
	}
	assert.Equal(t, 0.0, calculateCAGR(wiped))
}

func TestCalculateSharpe(t *testing.T) {
	// Per-bar returns +10%, +10%, -5%: mean 0.05, population std sqrt(0.005).
	curve := makeEquityCurve(100, 110, 121, 114.95)

	expected := 0.05 / math.Sqrt(0.005) * math.Sqrt(252)
	assert.InDelta(t, expected, calculateSharpe(curve, 252), 0.001)
}

func TestCalculateSharpe_ScalesWithPeriods(t *testing.T) {
	curve := makeEquityCurve(100, 110, 121, 114.95)

	hourly := calculateSharpe(curve, 24*365)
	daily := calculateSharpe(curve, 252)
	assert.InDelta(t, math.Sqrt(24*365.0/252.0), hourly/daily, 1e-9)
}

func TestCalculateSharpe_ConstantEquity(t *testing.T) {
	curve := makeEquityCurve(100, 100, 100, 100)
	assert.Equal(t, 0.0, calculateSharpe(curve, 252))
}

func TestCalculateMaxDrawdown(t *testing.T) {
	// Peak 120, trough 80: the deepest decline is -1/3.
	curve := makeEquityCurve(100, 120, 90, 110, 80)
	assert.InDelta(t, -1.0/3.0, calculateMaxDrawdown(curve), 1e-9)
}

func TestCalculateMaxDrawdown_MonotonicRise(t *testing.T) {
	curve := makeEquityCurve(100, 105, 110, 120)
	assert.Equal(t, 0.0, calculateMaxDrawdown(curve))
}

func TestComputeMetrics_PopulatesAllFields(t *testing.T) {
	curve := makeEquityCurve(10000, 10100, 10050, 10200)
	trades := []Trade{{PnL: 100}, {PnL: -50}, {PnL: 150}}

	m := ComputeMetrics(curve, trades, 252)

	assert.Equal(t, 3, m.TradeCount)
	assert.Greater(t, m.CAGR, 0.0)
	assert.Greater(t, m.Sharpe, 0.0)
	assert.Less(t, m.MaxDrawdown, 0.0)
}

// makeEquityCurve spaces the given equities one hour apart.
func makeEquityCurve(equities ...float64) []EquityPoint {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	curve := make([]EquityPoint, len(equities))
	for i, eq := range equities {
		curve[i] = EquityPoint{Time: start.Add(time.Duration(i) * time.Hour), Equity: eq}
	}
	return curve
}
