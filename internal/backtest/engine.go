package backtest

import (
	"math"

	"github.com/ducminhle1904/crypto-pairs-lab/internal/hedge"
	"github.com/ducminhle1904/crypto-pairs-lab/internal/signal"
	"github.com/ducminhle1904/crypto-pairs-lab/pkg/types"
)

// Exit reasons recorded on closed trades.
const (
	ExitReasonSignal    = "signal"
	ExitReasonEndOfData = "end of data"
)

// Engine runs one mean-reversion backtest over a price pair: estimate the
// hedge ratio, derive the z-score signal, walk the position state machine
// bar by bar and account for every trade. A run is strictly sequential over
// the time index; decisions at bar t see nothing past bar t.
type Engine struct {
	cfg Config
}

// NewEngine validates the configuration and returns an engine for it.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Run estimates the hedge ratio series for the pair and simulates over it.
func (e *Engine) Run(pair types.PricePair) (*Result, error) {
	if err := pair.Validate(); err != nil {
		return nil, &ConfigError{Field: "pair", Reason: "invalid price pair", Err: err}
	}

	series, err := e.cfg.Estimator().Estimate(pair)
	if err != nil {
		return nil, &ConfigError{Field: "estimator", Reason: "hedge ratio estimation failed", Err: err}
	}

	return e.simulate(pair, series)
}

// RunWithSeries simulates over a precomputed hedge ratio series. The grid
// optimizer uses this to estimate once and share the series across cells.
func (e *Engine) RunWithSeries(pair types.PricePair, series *hedge.Series) (*Result, error) {
	if err := pair.Validate(); err != nil {
		return nil, &ConfigError{Field: "pair", Reason: "invalid price pair", Err: err}
	}
	if series == nil || len(series.Ratios) != pair.Len() {
		return nil, &ConfigError{Field: "hedge_ratios", Reason: "series not aligned to pair"}
	}
	return e.simulate(pair, series)
}

func (e *Engine) simulate(pair types.PricePair, series *hedge.Series) (*Result, error) {
	points, err := signal.Compute(pair, series.Ratios, e.cfg.Window)
	if err != nil {
		return nil, &ConfigError{Field: "signal", Reason: "spread computation failed", Err: err}
	}

	signalBars := 0
	for _, pt := range points {
		if pt.HasSignal {
			signalBars++
		}
	}
	if signalBars == 0 {
		return nil, &DegenerateDataError{
			Pair:   pair.Label(),
			Reason: "z-score never became available (window too long or spread has no variance)",
		}
	}

	n := pair.Len()
	state := Flat
	var open *Trade
	var realized float64
	trades := make([]Trade, 0)
	curve := make([]EquityPoint, 0, n)

	for t := 0; t < n; t++ {
		pt := points[t]

		next := NextPosition(state, pt.ZScore, pt.HasSignal, e.cfg.EntryThreshold, e.cfg.ExitThreshold)
		if next != state {
			if state == Flat {
				open = e.openTrade(pair, t, next, pt.Spread, series.Ratios[t])
			} else {
				e.closeTrade(open, pair, t, ExitReasonSignal)
				realized += open.PnL
				trades = append(trades, *open)
				open = nil
			}
			state = next
		}

		// Last bar: liquidate whatever is still open so the ledger ends
		// with zero exposure.
		if t == n-1 && state != Flat {
			e.closeTrade(open, pair, t, ExitReasonEndOfData)
			realized += open.PnL
			trades = append(trades, *open)
			open = nil
			state = Flat
		}

		equity := e.cfg.InitialCapital + realized
		if open != nil {
			marked := pair.PricesA[t] - open.HedgeRatio*pair.PricesB[t]
			equity += float64(open.Direction)*(marked-open.EntrySpread) - open.EntryCost
		}
		curve = append(curve, EquityPoint{Time: pt.Timestamp, Equity: equity, Spread: pt.Spread})
	}

	return &Result{
		Pair:        pair.Label(),
		Config:      e.cfg,
		HedgeRatios: series.Ratios,
		EquityCurve: curve,
		Trades:      trades,
		Metrics:     ComputeMetrics(curve, trades, e.cfg.PeriodsPerYear),
		SignalBars:  signalBars,
		Warnings:    series.Warnings,
	}, nil
}

// openTrade records an entry at bar t with the hedge ratio frozen at the
// bar's estimate.
func (e *Engine) openTrade(pair types.PricePair, t int, direction Position, spread, ratio float64) *Trade {
	priceA := pair.PricesA[t]
	priceB := pair.PricesB[t]

	return &Trade{
		Direction:   direction,
		EntryTime:   pair.Timestamps[t],
		EntryPriceA: priceA,
		EntryPriceB: priceB,
		EntrySpread: spread,
		HedgeRatio:  ratio,
		EntryCost:   e.legCost(priceA, ratio, priceB),
	}
}

func (e *Engine) closeTrade(tr *Trade, pair types.PricePair, t int, reason string) {
	priceA := pair.PricesA[t]
	priceB := pair.PricesB[t]

	tr.ExitTime = pair.Timestamps[t]
	tr.ExitPriceA = priceA
	tr.ExitPriceB = priceB
	tr.ExitSpread = priceA - tr.HedgeRatio*priceB
	tr.ExitCost = e.legCost(priceA, tr.HedgeRatio, priceB)
	tr.PnL = float64(tr.Direction)*(tr.ExitSpread-tr.EntrySpread) - tr.EntryCost - tr.ExitCost
	tr.ExitReason = reason
}

// legCost is the per-side commission: rate times the summed absolute
// notionals of both legs (1 unit of A, ratio units of B).
func (e *Engine) legCost(priceA, ratio, priceB float64) float64 {
	return e.cfg.Commission * (math.Abs(priceA) + math.Abs(ratio*priceB))
}
