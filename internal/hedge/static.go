package hedge

import (
	"fmt"

	"github.com/ducminhle1904/crypto-pairs-lab/pkg/stats"
	"github.com/ducminhle1904/crypto-pairs-lab/pkg/types"
)

// StaticEstimator fits one ordinary least-squares regression of priceA on
// priceB over a training window and holds the fitted slope constant for the
// whole series.
type StaticEstimator struct {
	// TrainingBars bounds the regression to the first N bars.
	// Zero means the full history.
	TrainingBars int
}

// NewStaticEstimator creates a static estimator trained on the first
// trainingBars observations (0 = full history).
func NewStaticEstimator(trainingBars int) *StaticEstimator {
	return &StaticEstimator{TrainingBars: trainingBars}
}

// Name returns the estimator identifier used in configs and reports.
func (e *StaticEstimator) Name() string {
	return string(ModeStatic)
}

// Estimate regresses priceA on priceB over the training window and
// broadcasts the slope to every bar. Fails when the window has fewer than
// two points or priceB carries no variance over it.
func (e *StaticEstimator) Estimate(pair types.PricePair) (*Series, error) {
	n := pair.Len()
	train := n
	if e.TrainingBars > 0 && e.TrainingBars < n {
		train = e.TrainingBars
	}
	if train < 2 {
		return nil, fmt.Errorf("static estimator: training window has %d bars, need at least 2", train)
	}

	slope, _, err := stats.LinearRegression(pair.PricesB[:train], pair.PricesA[:train])
	if err != nil {
		return nil, fmt.Errorf("static estimator: regressing %s on %s over %d bars: %w",
			pair.SymbolA, pair.SymbolB, train, err)
	}

	ratios := make([]float64, n)
	for i := range ratios {
		ratios[i] = slope
	}
	return &Series{Ratios: ratios}, nil
}
