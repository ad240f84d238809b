package backtest

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ducminhle1904/crypto-pairs-lab/pkg/types"
)

// CellKey identifies one cell of the parameter grid.
type CellKey struct {
	Window         int
	EntryThreshold float64
}

func (k CellKey) String() string {
	return fmt.Sprintf("window=%d entry=%.2f", k.Window, k.EntryThreshold)
}

// CellResult is the outcome of one grid cell: either a finished backtest or
// the error that failed it. Failed cells stay in the grid, unranked.
type CellResult struct {
	Key      CellKey
	Result   *Result
	Err      error
	Duration time.Duration
}

// Failed reports whether the cell produced no result.
func (c CellResult) Failed() bool {
	return c.Err != nil
}

// GridConfig describes a parameter sweep over (window, entry threshold)
// cells. Base supplies everything else; each cell overrides its window and
// entry threshold.
type GridConfig struct {
	Windows         []int
	EntryThresholds []float64
	Base            Config

	// Workers caps the parallelism; 0 means one worker per CPU.
	Workers int

	// OnCellDone, when set, observes each finished cell from the collector
	// goroutine (never concurrently).
	OnCellDone func(CellResult)
}

// GridResult maps every evaluated cell to its outcome. Keys are unique;
// insertion order carries no meaning.
type GridResult struct {
	Pair    string
	Cells   map[CellKey]CellResult
	Elapsed time.Duration
}

// RunGrid sweeps the parameter grid over the pair, evaluating cells in
// parallel. The hedge ratio series is estimated once and shared read-only by
// every cell, since no grid dimension affects the estimator.
//
// A cancelled context stops scheduling further cells and returns the cells
// finished so far alongside ctx.Err(); those entries remain valid.
func RunGrid(ctx context.Context, pair types.PricePair, grid GridConfig) (*GridResult, error) {
	start := time.Now()

	if len(grid.Windows) == 0 || len(grid.EntryThresholds) == 0 {
		return nil, &ConfigError{Field: "grid", Reason: "windows and entry thresholds must be non-empty"}
	}
	if err := pair.Validate(); err != nil {
		return nil, &ConfigError{Field: "pair", Reason: "invalid price pair", Err: err}
	}

	// Resolve and validate every cell before simulating anything.
	jobs := make([]gridJob, 0, len(grid.Windows)*len(grid.EntryThresholds))
	for _, w := range grid.Windows {
		for _, entry := range grid.EntryThresholds {
			cfg := grid.Base
			cfg.Window = w
			cfg.EntryThreshold = entry
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("grid cell (window=%d entry=%.2f): %w", w, entry, err)
			}
			jobs = append(jobs, gridJob{
				key: CellKey{Window: w, EntryThreshold: entry},
				cfg: cfg,
			})
		}
	}

	series, err := grid.Base.Estimator().Estimate(pair)
	if err != nil {
		return nil, &ConfigError{Field: "estimator", Reason: "hedge ratio estimation failed", Err: err}
	}

	pool := newWorkerPool(ctx, grid.Workers, len(jobs))
	pool.start()
	for i := range jobs {
		jobs[i].pair = pair
		jobs[i].series = series
		pool.submit(jobs[i])
	}
	go pool.drain()

	result := &GridResult{
		Pair:  pair.Label(),
		Cells: make(map[CellKey]CellResult, len(jobs)),
	}
	for cell := range pool.results() {
		result.Cells[cell.Key] = cell
		if grid.OnCellDone != nil {
			grid.OnCellDone(cell)
		}
	}

	result.Elapsed = time.Since(start)
	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// Ranked returns the successful cells ordered best-first: Sharpe descending,
// ties broken by higher CAGR, then smaller drawdown magnitude, then by key
// so equal cells always list deterministically.
func (g *GridResult) Ranked() []CellResult {
	ranked := make([]CellResult, 0, len(g.Cells))
	for _, cell := range g.Cells {
		if !cell.Failed() {
			ranked = append(ranked, cell)
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		mi, mj := ranked[i].Result.Metrics, ranked[j].Result.Metrics
		if mi.Sharpe != mj.Sharpe {
			return mi.Sharpe > mj.Sharpe
		}
		if mi.CAGR != mj.CAGR {
			return mi.CAGR > mj.CAGR
		}
		di, dj := math.Abs(mi.MaxDrawdown), math.Abs(mj.MaxDrawdown)
		if di != dj {
			return di < dj
		}
		if ranked[i].Key.Window != ranked[j].Key.Window {
			return ranked[i].Key.Window < ranked[j].Key.Window
		}
		return ranked[i].Key.EntryThreshold < ranked[j].Key.EntryThreshold
	})

	return ranked
}

// Failed returns the cells that produced no result, ordered by key.
func (g *GridResult) Failed() []CellResult {
	failed := make([]CellResult, 0)
	for _, cell := range g.Cells {
		if cell.Failed() {
			failed = append(failed, cell)
		}
	}

	sort.Slice(failed, func(i, j int) bool {
		if failed[i].Key.Window != failed[j].Key.Window {
			return failed[i].Key.Window < failed[j].Key.Window
		}
		return failed[i].Key.EntryThreshold < failed[j].Key.EntryThreshold
	})

	return failed
}

// Best returns the top-ranked cell, or false when every cell failed.
func (g *GridResult) Best() (CellResult, bool) {
	ranked := g.Ranked()
	if len(ranked) == 0 {
		return CellResult{}, false
	}
	return ranked[0], true
}

// WindowRange expands an inclusive integer range into grid windows.
func WindowRange(min, max, step int) []int {
	if step <= 0 || max < min {
		return nil
	}
	out := make([]int, 0, (max-min)/step+1)
	for w := min; w <= max; w += step {
		out = append(out, w)
	}
	return out
}

// ThresholdRange expands an inclusive float range into grid thresholds.
func ThresholdRange(min, max, step float64) []float64 {
	if step <= 0 || max < min {
		return nil
	}
	out := make([]float64, 0)
	for i := 0; ; i++ {
		v := min + float64(i)*step
		if v > max+1e-9 {
			break
		}
		out = append(out, v)
	}
	return out
}
