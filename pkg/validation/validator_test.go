package validation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/crypto-pairs-lab/internal/backtest"
	"github.com/ducminhle1904/crypto-pairs-lab/pkg/types"
)

func TestDefaultWalkForwardValidator_RequiresCallbacks(t *testing.T) {
	v := NewDefaultWalkForwardValidator()

	_, err := v.Validate(context.Background(), makeValidationPair(200), WalkForwardConfig{SplitRatio: 0.7})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "needs both")
}

func TestDefaultWalkForwardValidator_Holdout(t *testing.T) {
	pair := makeValidationPair(200)

	bestConfig := backtest.DefaultConfig()
	bestConfig.Window = 30

	var trainBars, testBars int
	optimizer := func(ctx context.Context, p types.PricePair) (*backtest.Result, backtest.Config, error) {
		trainBars = p.Len()
		return stubFoldResult(11000, 2.0, -0.10, 8), bestConfig, nil
	}
	backtester := func(cfg backtest.Config, p types.PricePair) (*backtest.Result, error) {
		testBars = p.Len()
		assert.Equal(t, 30, cfg.Window)
		return stubFoldResult(10400, 1.0, -0.15, 3), nil
	}

	summary, err := RunWalkForwardValidation(context.Background(), pair,
		WalkForwardConfig{SplitRatio: 0.7}, optimizer, backtester)
	require.NoError(t, err)

	assert.Equal(t, 140, trainBars)
	assert.Equal(t, 60, testBars)

	require.Len(t, summary.Results, 1)
	assert.Equal(t, 1, summary.Results[0].Fold)
	assert.Equal(t, 30, summary.Results[0].BestConfig.Window)

	// Returns are tracked in percent.
	assert.InDelta(t, 10.0, summary.AverageTrainReturn, 1e-9)
	assert.InDelta(t, 4.0, summary.AverageTestReturn, 1e-9)
	assert.InDelta(t, 2.0, summary.AverageTrainSharpe, 1e-9)
	assert.InDelta(t, 1.0, summary.AverageTestSharpe, 1e-9)
	assert.InDelta(t, -10.0, summary.AverageTrainDrawdown, 1e-9)
	assert.InDelta(t, -15.0, summary.AverageTestDrawdown, 1e-9)

	// The test window keeps 40% of the train return: a 60% falloff.
	assert.InDelta(t, 60.0, summary.ReturnDegradation, 1e-9)
	assert.InDelta(t, 1.0, summary.SharpeDegradation, 1e-9)
	assert.False(t, summary.IsRobust)
	assert.Equal(t, "HIGH", summary.OverfittingRisk)
}

func TestDefaultWalkForwardValidator_Holdout_LowDegradationIsRobust(t *testing.T) {
	optimizer := func(ctx context.Context, p types.PricePair) (*backtest.Result, backtest.Config, error) {
		return stubFoldResult(10500, 1.5, -0.05, 4), backtest.DefaultConfig(), nil
	}
	backtester := func(cfg backtest.Config, p types.PricePair) (*backtest.Result, error) {
		return stubFoldResult(10480, 1.4, -0.06, 4), nil
	}

	summary, err := RunWalkForwardValidation(context.Background(), makeValidationPair(200),
		WalkForwardConfig{SplitRatio: 0.7}, optimizer, backtester)
	require.NoError(t, err)

	assert.InDelta(t, 4.0, summary.ReturnDegradation, 1e-9)
	assert.True(t, summary.IsRobust)
	assert.Equal(t, "LOW", summary.OverfittingRisk)
}

func TestDefaultWalkForwardValidator_Holdout_NotEnoughTestData(t *testing.T) {
	optimizer := func(ctx context.Context, p types.PricePair) (*backtest.Result, backtest.Config, error) {
		return stubFoldResult(10500, 1.5, -0.05, 4), backtest.DefaultConfig(), nil
	}
	backtester := func(cfg backtest.Config, p types.PricePair) (*backtest.Result, error) {
		return stubFoldResult(10480, 1.4, -0.06, 4), nil
	}

	// 30 test bars is below the 50-bar floor.
	_, err := RunWalkForwardValidation(context.Background(), makeValidationPair(100),
		WalkForwardConfig{SplitRatio: 0.7}, optimizer, backtester)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not enough test data")
}

func TestDefaultWalkForwardValidator_Rolling(t *testing.T) {
	pair := makeValidationPair(300)

	var trainSizes, testSizes []int
	optimizer := func(ctx context.Context, p types.PricePair) (*backtest.Result, backtest.Config, error) {
		trainSizes = append(trainSizes, p.Len())
		return stubFoldResult(11000, 1.5, -0.10, 6), backtest.DefaultConfig(), nil
	}
	backtester := func(cfg backtest.Config, p types.PricePair) (*backtest.Result, error) {
		testSizes = append(testSizes, p.Len())
		return stubFoldResult(10800, 1.2, -0.20, 2), nil
	}

	summary, err := RunWalkForwardValidation(context.Background(), pair,
		WalkForwardConfig{Rolling: true, TrainDays: 5, TestDays: 2, RollDays: 2},
		optimizer, backtester)
	require.NoError(t, err)

	assert.Equal(t, []int{120, 120, 120, 120}, trainSizes)
	assert.Equal(t, []int{48, 48, 48, 36}, testSizes)

	require.Len(t, summary.Results, 4)
	for i, r := range summary.Results {
		assert.Equal(t, i+1, r.Fold)
	}

	assert.InDelta(t, 10.0, summary.AverageTrainReturn, 1e-9)
	assert.InDelta(t, 8.0, summary.AverageTestReturn, 1e-9)
	assert.InDelta(t, 20.0, summary.ReturnDegradation, 1e-9)
	assert.InDelta(t, 0.3, summary.SharpeDegradation, 1e-9)
	assert.InDelta(t, -20.0, summary.AverageTestDrawdown, 1e-9)
	assert.True(t, summary.IsRobust)
	assert.Equal(t, "MODERATE", summary.OverfittingRisk)
}

func TestDefaultWalkForwardValidator_Rolling_NotEnoughData(t *testing.T) {
	optimizer := func(ctx context.Context, p types.PricePair) (*backtest.Result, backtest.Config, error) {
		return stubFoldResult(11000, 1.5, -0.10, 6), backtest.DefaultConfig(), nil
	}
	backtester := func(cfg backtest.Config, p types.PricePair) (*backtest.Result, error) {
		return stubFoldResult(10800, 1.2, -0.20, 2), nil
	}

	_, err := RunWalkForwardValidation(context.Background(), makeValidationPair(80),
		WalkForwardConfig{Rolling: true, TrainDays: 5, TestDays: 2, RollDays: 2},
		optimizer, backtester)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not enough data")
}

func TestDefaultWalkForwardValidator_OptimizerFailureStopsValidation(t *testing.T) {
	optimizer := func(ctx context.Context, p types.PricePair) (*backtest.Result, backtest.Config, error) {
		return nil, backtest.Config{}, assert.AnError
	}
	backtester := func(cfg backtest.Config, p types.PricePair) (*backtest.Result, error) {
		t.Fatal("backtester must not run when optimization fails")
		return nil, nil
	}

	_, err := RunWalkForwardValidation(context.Background(), makeValidationPair(200),
		WalkForwardConfig{SplitRatio: 0.7}, optimizer, backtester)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "optimization failed")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestDefaultWalkForwardValidator_BacktesterFailureStopsValidation(t *testing.T) {
	optimizer := func(ctx context.Context, p types.PricePair) (*backtest.Result, backtest.Config, error) {
		return stubFoldResult(11000, 1.5, -0.10, 6), backtest.DefaultConfig(), nil
	}
	backtester := func(cfg backtest.Config, p types.PricePair) (*backtest.Result, error) {
		return nil, assert.AnError
	}

	_, err := RunWalkForwardValidation(context.Background(), makeValidationPair(200),
		WalkForwardConfig{SplitRatio: 0.7}, optimizer, backtester)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out-of-sample backtest failed")
}

func TestDefaultWalkForwardValidator_RollingHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	optimizer := func(ctx context.Context, p types.PricePair) (*backtest.Result, backtest.Config, error) {
		calls++
		return stubFoldResult(11000, 1.5, -0.10, 6), backtest.DefaultConfig(), nil
	}
	backtester := func(cfg backtest.Config, p types.PricePair) (*backtest.Result, error) {
		return stubFoldResult(10800, 1.2, -0.20, 2), nil
	}

	_, err := RunWalkForwardValidation(ctx, makeValidationPair(300),
		WalkForwardConfig{Rolling: true, TrainDays: 5, TestDays: 2, RollDays: 2},
		optimizer, backtester)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestSummaryHelpers(t *testing.T) {
	assert.Equal(t, 0.0, average(nil))
	assert.Equal(t, 3.0, average([]float64{1, 2, 3, 4, 5}))

	assert.Equal(t, 0.0, stdDev([]float64{5}))
	// Sample standard deviation: sum of squares 10 over n-1 = 4.
	assert.InDelta(t, 1.5811388300841898, stdDev([]float64{1, 2, 3, 4, 5}), 1e-12)
}

// stubFoldResult builds a result whose return, Sharpe, and drawdown are
// fully determined by the arguments, on 10000 initial capital.
func stubFoldResult(finalEquity, sharpe, maxDrawdown float64, trades int) *backtest.Result {
	cfg := backtest.DefaultConfig()
	return &backtest.Result{
		Config:      cfg,
		EquityCurve: []backtest.EquityPoint{{Equity: finalEquity}},
		Metrics: backtest.Metrics{
			Sharpe:      sharpe,
			MaxDrawdown: maxDrawdown,
			TradeCount:  trades,
		},
	}
}
