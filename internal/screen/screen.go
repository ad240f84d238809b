package screen

import (
	"fmt"
	"math"
	"sort"

	"github.com/ducminhle1904/crypto-pairs-lab/pkg/data"
	"github.com/ducminhle1904/crypto-pairs-lab/pkg/stats"
)

// Default screening thresholds. A pair qualifies when its return correlation
// clears the floor and its spread half-life stays under the cap.
const (
	DefaultMinCorrelation = 0.80
	DefaultMaxHalfLife    = 120.0
	DefaultMinBars        = 60
	progressEvery         = 1000
)

// PairScore is the screening verdict for one candidate pair. HalfLife is in
// bars; +Inf means the regression residuals showed no mean reversion at all.
type PairScore struct {
	SymbolA     string
	SymbolB     string
	Correlation float64
	Beta        float64
	HalfLife    float64
}

// Label returns the pair in "A/B" form.
func (s PairScore) Label() string {
	return s.SymbolA + "/" + s.SymbolB
}

// Config controls the screening pass.
type Config struct {
	MinCorrelation float64
	MaxHalfLife    float64 // bars
	MinBars        int
	TopN           int                   // 0 keeps every qualifying pair
	Progress       func(done, total int) // called every progressEvery pairs
}

// DefaultConfig returns the standard screening thresholds.
func DefaultConfig() Config {
	return Config{
		MinCorrelation: DefaultMinCorrelation,
		MaxHalfLife:    DefaultMaxHalfLife,
		MinBars:        DefaultMinBars,
	}
}

// Validate checks the screening thresholds.
func (c Config) Validate() error {
	if c.MinCorrelation < -1 || c.MinCorrelation > 1 {
		return fmt.Errorf("min correlation must be in [-1, 1], got %v", c.MinCorrelation)
	}
	if c.MaxHalfLife <= 0 {
		return fmt.Errorf("max half-life must be positive, got %v", c.MaxHalfLife)
	}
	if c.MinBars < 3 {
		return fmt.Errorf("min bars must be at least 3, got %d", c.MinBars)
	}
	return nil
}

// Screener ranks candidate pairs by how quickly their regression spread
// mean-reverts. The test is Engle-Granger in spirit: regress one leg on the
// other, then measure the AR(1) half-life of the residuals. Shorter
// half-life, stronger evidence the pair co-moves.
type Screener struct {
	cfg Config
}

// NewScreener creates a screener, filling zero thresholds with defaults.
func NewScreener(cfg Config) (*Screener, error) {
	if cfg.MinCorrelation == 0 {
		cfg.MinCorrelation = DefaultMinCorrelation
	}
	if cfg.MaxHalfLife == 0 {
		cfg.MaxHalfLife = DefaultMaxHalfLife
	}
	if cfg.MinBars == 0 {
		cfg.MinBars = DefaultMinBars
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Screener{cfg: cfg}, nil
}

// Run screens every unique pair in the matrix and returns the qualifying
// pairs ranked ascending by half-life.
func (s *Screener) Run(matrix *data.CloseMatrix) ([]PairScore, error) {
	if matrix.NumSymbols() < 2 {
		return nil, fmt.Errorf("need at least 2 symbols to screen, got %d", matrix.NumSymbols())
	}
	if matrix.Len() < s.cfg.MinBars {
		return nil, fmt.Errorf("need at least %d bars to screen, got %d", s.cfg.MinBars, matrix.Len())
	}

	// Per-symbol returns, computed once and shared across all pairs.
	returns := make([][]float64, matrix.NumSymbols())
	prices := make([][]float64, matrix.NumSymbols())
	for j, symbol := range matrix.Symbols {
		col, err := matrix.Column(symbol)
		if err != nil {
			return nil, err
		}
		prices[j] = col
		returns[j] = stats.Returns(col)
	}

	n := matrix.NumSymbols()
	total := n * (n - 1) / 2
	done := 0

	var scores []PairScore
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			done++
			if s.cfg.Progress != nil && done%progressEvery == 0 {
				s.cfg.Progress(done, total)
			}

			score, ok := s.scorePair(matrix.Symbols[a], matrix.Symbols[b], prices[a], prices[b], returns[a], returns[b])
			if ok {
				scores = append(scores, score)
			}
		}
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].HalfLife != scores[j].HalfLife {
			return scores[i].HalfLife < scores[j].HalfLife
		}
		return scores[i].Label() < scores[j].Label()
	})

	if s.cfg.TopN > 0 && len(scores) > s.cfg.TopN {
		scores = scores[:s.cfg.TopN]
	}
	return scores, nil
}

// scorePair tests one pair against the thresholds. Degenerate columns
// (zero variance, regression failure) disqualify the pair silently.
func (s *Screener) scorePair(symbolA, symbolB string, pricesA, pricesB, retsA, retsB []float64) (PairScore, bool) {
	corr, err := stats.Correlation(retsA, retsB)
	if err != nil || math.IsNaN(corr) {
		return PairScore{}, false
	}
	if corr < s.cfg.MinCorrelation {
		return PairScore{}, false
	}

	beta, intercept, err := stats.LinearRegression(pricesB, pricesA)
	if err != nil {
		return PairScore{}, false
	}

	residuals := make([]float64, len(pricesA))
	for i := range pricesA {
		residuals[i] = pricesA[i] - (intercept + beta*pricesB[i])
	}

	halfLife, err := stats.HalfLife(residuals)
	if err != nil || math.IsInf(halfLife, 1) || halfLife > s.cfg.MaxHalfLife {
		return PairScore{}, false
	}

	return PairScore{
		SymbolA:     symbolA,
		SymbolB:     symbolB,
		Correlation: corr,
		Beta:        beta,
		HalfLife:    halfLife,
	}, true
}
