package validation

import (
	"time"

	"github.com/ducminhle1904/crypto-pairs-lab/pkg/types"
)

// DefaultDataSplitter implements the DataSplitter interface
type DefaultDataSplitter struct{}

// NewDefaultDataSplitter creates a new default data splitter
func NewDefaultDataSplitter() *DefaultDataSplitter {
	return &DefaultDataSplitter{}
}

// SplitByRatio splits a pair into train/test by ratio. An out-of-range ratio
// returns the whole pair as training data with an empty test set.
func (s *DefaultDataSplitter) SplitByRatio(pair types.PricePair, ratio float64) (types.PricePair, types.PricePair) {
	if ratio <= 0 || ratio >= 1 {
		return pair, types.PricePair{SymbolA: pair.SymbolA, SymbolB: pair.SymbolB}
	}

	n := int(float64(pair.Len()) * ratio)
	if n < 1 || n >= pair.Len() {
		return pair, types.PricePair{SymbolA: pair.SymbolA, SymbolB: pair.SymbolB}
	}

	return pair.Slice(0, n), pair.Slice(n, pair.Len())
}

// CreateRollingFolds creates rolling walk-forward folds by walking the
// timestamp index: each fold trains on trainDays, tests on the following
// testDays, then the origin rolls forward by rollDays.
func (s *DefaultDataSplitter) CreateRollingFolds(pair types.PricePair, trainDays, testDays, rollDays int) []WalkForwardFold {
	var folds []WalkForwardFold

	trainDur := time.Duration(trainDays) * 24 * time.Hour
	testDur := time.Duration(testDays) * 24 * time.Hour
	rollDur := time.Duration(rollDays) * 24 * time.Hour

	if pair.Len() < 100 {
		return folds // Need minimum data
	}

	start := 0
	for {
		// Find train window
		trainEndTs := pair.Timestamps[start].Add(trainDur)
		trainEnd := start
		for trainEnd < pair.Len() && pair.Timestamps[trainEnd].Before(trainEndTs) {
			trainEnd++
		}

		// Find test window
		testEndTs := trainEndTs.Add(testDur)
		testEnd := trainEnd
		for testEnd < pair.Len() && pair.Timestamps[testEnd].Before(testEndTs) {
			testEnd++
		}

		// Check if we have enough data
		trainSize := trainEnd - start
		testSize := testEnd - trainEnd

		if trainSize < 50 || testSize < 10 {
			break // Not enough data for this fold
		}

		fold := WalkForwardFold{
			Train:      pair.Slice(start, trainEnd),
			Test:       pair.Slice(trainEnd, testEnd),
			TrainStart: pair.Timestamps[start],
			TrainEnd:   pair.Timestamps[trainEnd-1],
			TestStart:  pair.Timestamps[trainEnd],
			TestEnd:    pair.Timestamps[testEnd-1],
		}

		folds = append(folds, fold)

		// Roll forward
		nextStartTs := pair.Timestamps[start].Add(rollDur)
		nextStart := start
		for nextStart < pair.Len() && pair.Timestamps[nextStart].Before(nextStartTs) {
			nextStart++
		}

		if nextStart <= start {
			nextStart = start + 1
		}
		if nextStart >= pair.Len() {
			break
		}

		start = nextStart
	}

	return folds
}

// Package-level convenience functions

// SplitByRatio is a convenience function that uses the default splitter
func SplitByRatio(pair types.PricePair, ratio float64) (types.PricePair, types.PricePair) {
	splitter := NewDefaultDataSplitter()
	return splitter.SplitByRatio(pair, ratio)
}

// CreateRollingFolds is a convenience function that uses the default splitter
func CreateRollingFolds(pair types.PricePair, trainDays, testDays, rollDays int) []WalkForwardFold {
	splitter := NewDefaultDataSplitter()
	return splitter.CreateRollingFolds(pair, trainDays, testDays, rollDays)
}
