package validation

import (
	"context"
	"fmt"
	"math"

	"github.com/ducminhle1904/crypto-pairs-lab/internal/backtest"
	"github.com/ducminhle1904/crypto-pairs-lab/pkg/types"
)

// minTestBars is the smallest out-of-sample window worth scoring.
const minTestBars = 50

// DefaultWalkForwardValidator implements walk-forward validation
type DefaultWalkForwardValidator struct {
	splitter   DataSplitter
	optimizer  OptimizeFunc
	backtester BacktestFunc
}

// NewDefaultWalkForwardValidator creates a new walk-forward validator
func NewDefaultWalkForwardValidator() *DefaultWalkForwardValidator {
	return &DefaultWalkForwardValidator{
		splitter: NewDefaultDataSplitter(),
	}
}

// SetOptimizer sets the optimization function to use
func (v *DefaultWalkForwardValidator) SetOptimizer(optimizer OptimizeFunc) {
	v.optimizer = optimizer
}

// SetBacktester sets the backtest function to use
func (v *DefaultWalkForwardValidator) SetBacktester(backtester BacktestFunc) {
	v.backtester = backtester
}

// Validate performs walk-forward validation over the pair
func (v *DefaultWalkForwardValidator) Validate(ctx context.Context, pair types.PricePair, wfConfig WalkForwardConfig) (*WalkForwardSummary, error) {
	if v.optimizer == nil || v.backtester == nil {
		return nil, fmt.Errorf("validator needs both an optimizer and a backtester")
	}

	fmt.Println("\n🔄 ================ WALK-FORWARD VALIDATION ================")

	if wfConfig.Rolling {
		return v.validateRolling(ctx, pair, wfConfig)
	}
	return v.validateHoldout(ctx, pair, wfConfig)
}

// validateRolling performs rolling walk-forward validation
func (v *DefaultWalkForwardValidator) validateRolling(ctx context.Context, pair types.PricePair, wfConfig WalkForwardConfig) (*WalkForwardSummary, error) {
	fmt.Printf("Mode: Rolling Walk-Forward\n")
	fmt.Printf("Train: %d days, Test: %d days, Roll: %d days\n", wfConfig.TrainDays, wfConfig.TestDays, wfConfig.RollDays)

	folds := v.splitter.CreateRollingFolds(pair, wfConfig.TrainDays, wfConfig.TestDays, wfConfig.RollDays)
	if len(folds) == 0 {
		return nil, fmt.Errorf("not enough data for rolling walk-forward validation")
	}

	fmt.Printf("Created %d folds\n\n", len(folds))

	var allResults []FoldResult

	for i, fold := range folds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fmt.Printf("📊 Fold %d/%d: Train %s → %s, Test %s → %s\n",
			i+1, len(folds),
			fold.TrainStart.Format("2006-01-02"),
			fold.TrainEnd.Format("2006-01-02"),
			fold.TestStart.Format("2006-01-02"),
			fold.TestEnd.Format("2006-01-02"))

		// Optimize on the training window
		trainResult, bestConfig, err := v.optimizer(ctx, fold.Train)
		if err != nil {
			return nil, fmt.Errorf("optimization failed for fold %d: %w", i+1, err)
		}

		// Score the winner out of sample
		testResult, err := v.backtester(bestConfig, fold.Test)
		if err != nil {
			return nil, fmt.Errorf("out-of-sample backtest failed for fold %d: %w", i+1, err)
		}

		result := FoldResult{
			TrainResult: trainResult,
			TestResult:  testResult,
			BestConfig:  bestConfig,
			Fold:        i + 1,
		}

		allResults = append(allResults, result)

		fmt.Printf("  Train: Sharpe %.2f, %.2f%% return, %.2f%% drawdown\n",
			trainResult.Metrics.Sharpe, trainResult.TotalReturn()*100, trainResult.Metrics.MaxDrawdown*100)
		fmt.Printf("  Test:  Sharpe %.2f, %.2f%% return, %.2f%% drawdown\n\n",
			testResult.Metrics.Sharpe, testResult.TotalReturn()*100, testResult.Metrics.MaxDrawdown*100)
	}

	summary := v.calculateSummary(allResults)
	v.printRollingSummary(summary)

	return summary, nil
}

// validateHoldout performs simple holdout validation
func (v *DefaultWalkForwardValidator) validateHoldout(ctx context.Context, pair types.PricePair, wfConfig WalkForwardConfig) (*WalkForwardSummary, error) {
	fmt.Printf("Mode: Simple Holdout\n")
	fmt.Printf("Split: %.0f%% train, %.0f%% test\n", wfConfig.SplitRatio*100, (1-wfConfig.SplitRatio)*100)

	train, test := v.splitter.SplitByRatio(pair, wfConfig.SplitRatio)
	if test.Len() < minTestBars {
		return nil, fmt.Errorf("not enough test data for validation: %d bars, need %d", test.Len(), minTestBars)
	}

	fmt.Printf("Train: %d bars (%s → %s)\n",
		train.Len(),
		train.Timestamps[0].Format("2006-01-02"),
		train.Timestamps[train.Len()-1].Format("2006-01-02"))
	fmt.Printf("Test:  %d bars (%s → %s)\n\n",
		test.Len(),
		test.Timestamps[0].Format("2006-01-02"),
		test.Timestamps[test.Len()-1].Format("2006-01-02"))

	fmt.Println("🧬 Running grid sweep on training data...")
	trainResult, bestConfig, err := v.optimizer(ctx, train)
	if err != nil {
		return nil, fmt.Errorf("optimization failed: %w", err)
	}

	fmt.Println("🧪 Testing optimized parameters on test data...")
	testResult, err := v.backtester(bestConfig, test)
	if err != nil {
		return nil, fmt.Errorf("out-of-sample backtest failed: %w", err)
	}

	result := FoldResult{
		TrainResult: trainResult,
		TestResult:  testResult,
		BestConfig:  bestConfig,
		Fold:        1,
	}

	summary := v.calculateSummary([]FoldResult{result})
	v.printHoldoutResults(trainResult, testResult, summary.ReturnDegradation)

	return summary, nil
}

// calculateSummary calculates summary statistics from all results
func (v *DefaultWalkForwardValidator) calculateSummary(results []FoldResult) *WalkForwardSummary {
	if len(results) == 0 {
		return &WalkForwardSummary{}
	}

	var trainReturns, testReturns []float64
	var trainSharpes, testSharpes []float64
	var trainDrawdowns, testDrawdowns []float64

	for _, r := range results {
		trainReturns = append(trainReturns, r.TrainResult.TotalReturn()*100)
		testReturns = append(testReturns, r.TestResult.TotalReturn()*100)
		trainSharpes = append(trainSharpes, r.TrainResult.Metrics.Sharpe)
		testSharpes = append(testSharpes, r.TestResult.Metrics.Sharpe)
		trainDrawdowns = append(trainDrawdowns, r.TrainResult.Metrics.MaxDrawdown*100)
		testDrawdowns = append(testDrawdowns, r.TestResult.Metrics.MaxDrawdown*100)
	}

	avgTrainReturn := average(trainReturns)
	avgTestReturn := average(testReturns)
	avgTrainSharpe := average(trainSharpes)
	avgTestSharpe := average(testSharpes)
	avgTrainDD := average(trainDrawdowns)
	avgTestDD := average(testDrawdowns)

	// Relative return falloff from train to test
	returnDegradation := ((avgTrainReturn - avgTestReturn) / math.Max(0.01, math.Abs(avgTrainReturn))) * 100

	// Sharpe gets an absolute gap: ratios are unstable when the in-sample
	// Sharpe sits near zero
	sharpeDegradation := avgTrainSharpe - avgTestSharpe

	isRobust := returnDegradation <= 30
	var overfittingRisk string
	if returnDegradation > 30 {
		overfittingRisk = "HIGH"
	} else if returnDegradation > 15 {
		overfittingRisk = "MODERATE"
	} else {
		overfittingRisk = "LOW"
	}

	return &WalkForwardSummary{
		Results:              results,
		AverageTrainReturn:   avgTrainReturn,
		AverageTestReturn:    avgTestReturn,
		AverageTrainSharpe:   avgTrainSharpe,
		AverageTestSharpe:    avgTestSharpe,
		AverageTrainDrawdown: avgTrainDD,
		AverageTestDrawdown:  avgTestDD,
		ReturnDegradation:    returnDegradation,
		SharpeDegradation:    sharpeDegradation,
		IsRobust:             isRobust,
		OverfittingRisk:      overfittingRisk,
	}
}

// printRollingSummary prints summary for rolling validation
func (v *DefaultWalkForwardValidator) printRollingSummary(summary *WalkForwardSummary) {
	fmt.Println("📊 ================ WALK-FORWARD SUMMARY ================")

	var trainReturns, testReturns []float64
	var trainDrawdowns, testDrawdowns []float64
	for _, r := range summary.Results {
		trainReturns = append(trainReturns, r.TrainResult.TotalReturn()*100)
		testReturns = append(testReturns, r.TestResult.TotalReturn()*100)
		trainDrawdowns = append(trainDrawdowns, r.TrainResult.Metrics.MaxDrawdown*100)
		testDrawdowns = append(testDrawdowns, r.TestResult.Metrics.MaxDrawdown*100)
	}

	fmt.Printf("AVERAGE PERFORMANCE ACROSS %d FOLDS:\n", len(summary.Results))
	fmt.Printf("  Train Return:    %.2f%% ± %.2f%%\n", summary.AverageTrainReturn, stdDev(trainReturns))
	fmt.Printf("  Test Return:     %.2f%% ± %.2f%%\n", summary.AverageTestReturn, stdDev(testReturns))
	fmt.Printf("  Train Sharpe:    %.2f\n", summary.AverageTrainSharpe)
	fmt.Printf("  Test Sharpe:     %.2f\n", summary.AverageTestSharpe)
	fmt.Printf("  Train Drawdown:  %.2f%% ± %.2f%%\n", summary.AverageTrainDrawdown, stdDev(trainDrawdowns))
	fmt.Printf("  Test Drawdown:   %.2f%% ± %.2f%%\n", summary.AverageTestDrawdown, stdDev(testDrawdowns))

	fmt.Printf("\nCONSISTENCY ANALYSIS:\n")
	fmt.Printf("  Return Degradation: %.1f%%\n", summary.ReturnDegradation)
	fmt.Printf("  Sharpe Degradation: %.2f\n", summary.SharpeDegradation)

	if summary.ReturnDegradation > 30 {
		fmt.Printf("  ⚠️  HIGH OVERFITTING RISK - Strategy may not generalize well\n")
	} else if summary.ReturnDegradation > 15 {
		fmt.Printf("  ⚠️  MODERATE OVERFITTING - Some performance degradation\n")
	} else {
		fmt.Printf("  ✅ ROBUST STRATEGY - Good generalization across time periods\n")
	}
}

// printHoldoutResults prints results for holdout validation
func (v *DefaultWalkForwardValidator) printHoldoutResults(trainResult, testResult *backtest.Result, returnDegradation float64) {
	fmt.Println("\n📈 ================ WALK-FORWARD RESULTS ================")
	fmt.Printf("TRAIN RESULTS:\n")
	fmt.Printf("  Return:    %.2f%%\n", trainResult.TotalReturn()*100)
	fmt.Printf("  Sharpe:    %.2f\n", trainResult.Metrics.Sharpe)
	fmt.Printf("  Drawdown:  %.2f%%\n", trainResult.Metrics.MaxDrawdown*100)
	fmt.Printf("  Trades:    %d\n", trainResult.Metrics.TradeCount)

	fmt.Printf("\nTEST RESULTS (Out-of-Sample):\n")
	fmt.Printf("  Return:    %.2f%%\n", testResult.TotalReturn()*100)
	fmt.Printf("  Sharpe:    %.2f\n", testResult.Metrics.Sharpe)
	fmt.Printf("  Drawdown:  %.2f%%\n", testResult.Metrics.MaxDrawdown*100)
	fmt.Printf("  Trades:    %d\n", testResult.Metrics.TradeCount)

	fmt.Printf("\n📊 ANALYSIS:\n")
	fmt.Printf("  Return Degradation: %.1f%%\n", returnDegradation)

	if returnDegradation > 50 {
		fmt.Printf("  ⚠️  HIGH OVERFITTING RISK - Test performance much worse than train\n")
	} else if returnDegradation > 20 {
		fmt.Printf("  ⚠️  MODERATE OVERFITTING - Some performance degradation\n")
	} else if returnDegradation < -10 {
		fmt.Printf("  ✅ ROBUST STRATEGY - Test performance better than train\n")
	} else {
		fmt.Printf("  ✅ GOOD GENERALIZATION - Consistent train/test performance\n")
	}
}

// Helper functions

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdDev(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}

	avg := average(values)
	sumSquares := 0.0
	for _, v := range values {
		diff := v - avg
		sumSquares += diff * diff
	}

	return math.Sqrt(sumSquares / float64(len(values)-1))
}

// Package-level convenience functions

// RunWalkForwardValidation is a convenience function using the default validator
func RunWalkForwardValidation(ctx context.Context, pair types.PricePair, wfConfig WalkForwardConfig,
	optimizer OptimizeFunc, backtester BacktestFunc) (*WalkForwardSummary, error) {

	validator := NewDefaultWalkForwardValidator()
	validator.SetOptimizer(optimizer)
	validator.SetBacktester(backtester)

	return validator.Validate(ctx, pair, wfConfig)
}
