package validation

import (
	"context"
	"time"

	"github.com/ducminhle1904/crypto-pairs-lab/internal/backtest"
	"github.com/ducminhle1904/crypto-pairs-lab/pkg/types"
)

// Package validation provides walk-forward validation for pair strategies:
// parameters are optimized on a training window and re-scored out of sample
// so a grid winner that only memorized its window gets flagged.

// WalkForwardValidator defines the interface for walk-forward validation
type WalkForwardValidator interface {
	Validate(ctx context.Context, pair types.PricePair, wfConfig WalkForwardConfig) (*WalkForwardSummary, error)
}

// DataSplitter defines the interface for splitting a pair into train/test sets
type DataSplitter interface {
	SplitByRatio(pair types.PricePair, ratio float64) (types.PricePair, types.PricePair)
	CreateRollingFolds(pair types.PricePair, trainDays, testDays, rollDays int) []WalkForwardFold
}

// OptimizeFunc finds the best configuration on a training window and returns
// its in-sample result.
type OptimizeFunc func(ctx context.Context, pair types.PricePair) (*backtest.Result, backtest.Config, error)

// BacktestFunc scores a fixed configuration on a window.
type BacktestFunc func(cfg backtest.Config, pair types.PricePair) (*backtest.Result, error)

// WalkForwardConfig holds the configuration for walk-forward validation
type WalkForwardConfig struct {
	Enable     bool
	Rolling    bool
	SplitRatio float64
	TrainDays  int
	TestDays   int
	RollDays   int
}

// WalkForwardFold represents a single fold in walk-forward validation
type WalkForwardFold struct {
	Train      types.PricePair
	Test       types.PricePair
	TrainStart time.Time
	TrainEnd   time.Time
	TestStart  time.Time
	TestEnd    time.Time
}

// FoldResult holds the results for a single fold
type FoldResult struct {
	TrainResult *backtest.Result
	TestResult  *backtest.Result
	BestConfig  backtest.Config
	Fold        int
}

// WalkForwardSummary holds the summary of all walk-forward validation results
type WalkForwardSummary struct {
	Results              []FoldResult
	AverageTrainReturn   float64
	AverageTestReturn    float64
	AverageTrainSharpe   float64
	AverageTestSharpe    float64
	AverageTrainDrawdown float64
	AverageTestDrawdown  float64
	ReturnDegradation    float64
	SharpeDegradation    float64
	IsRobust             bool
	OverfittingRisk      string
}
