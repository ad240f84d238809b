package hedge

import (
	"fmt"

	"github.com/ducminhle1904/crypto-pairs-lab/pkg/stats"
	"github.com/ducminhle1904/crypto-pairs-lab/pkg/types"
)

// Default filter parameters. Process noise well below observation noise keeps
// the ratio responsive without chasing every tick.
const (
	DefaultProcessNoise      = 0.01
	DefaultObservationNoise  = 1.0
	DefaultInitialCovariance = 1.0
)

// Covariance clamp bounds. Crossing either one raises a Warning on the
// emitted Series and the filter continues from the clamped value.
const (
	covarianceFloor   = 1e-12
	covarianceCeiling = 1e6
)

// KalmanEstimator tracks the hedge ratio as the hidden state of a scalar
// linear-Gaussian filter. The state follows a random walk
// (beta_t = beta_{t-1} + process noise) and each bar observes
// priceA = beta_t*priceB + observation noise, so the posterior beta adapts
// every step instead of being fit once.
type KalmanEstimator struct {
	ProcessNoise      float64
	ObservationNoise  float64
	InitialRatio      float64
	InitialCovariance float64

	// WarmStartBars seeds the initial ratio from a least-squares fit over
	// the first N bars instead of InitialRatio. Zero disables the warm start.
	WarmStartBars int
}

// NewKalmanEstimator creates a filter with the default noise parameters.
func NewKalmanEstimator() *KalmanEstimator {
	return &KalmanEstimator{
		ProcessNoise:      DefaultProcessNoise,
		ObservationNoise:  DefaultObservationNoise,
		InitialCovariance: DefaultInitialCovariance,
	}
}

// Name returns the estimator identifier used in configs and reports.
func (e *KalmanEstimator) Name() string {
	return string(ModeKalman)
}

// Estimate runs the filter over the pair and emits the posterior ratio per
// bar. Each step predicts the state and covariance forward, measures the
// innovation against the observed priceA, and folds it back in through the
// Kalman gain.
func (e *KalmanEstimator) Estimate(pair types.PricePair) (*Series, error) {
	if e.ProcessNoise <= 0 {
		return nil, fmt.Errorf("kalman estimator: process noise must be positive, got %v", e.ProcessNoise)
	}
	if e.ObservationNoise <= 0 {
		return nil, fmt.Errorf("kalman estimator: observation noise must be positive, got %v", e.ObservationNoise)
	}
	if e.InitialCovariance <= 0 {
		return nil, fmt.Errorf("kalman estimator: initial covariance must be positive, got %v", e.InitialCovariance)
	}

	n := pair.Len()
	beta := e.InitialRatio
	if e.WarmStartBars >= 2 {
		warm := e.WarmStartBars
		if warm > n {
			warm = n
		}
		slope, _, err := stats.LinearRegression(pair.PricesB[:warm], pair.PricesA[:warm])
		if err != nil {
			return nil, fmt.Errorf("kalman estimator: warm start over %d bars: %w", warm, err)
		}
		beta = slope
	}

	series := &Series{Ratios: make([]float64, n)}
	cov := e.InitialCovariance

	for t := 0; t < n; t++ {
		// Predict: random-walk transition leaves the state, grows the covariance.
		cov += e.ProcessNoise

		priceB := pair.PricesB[t]
		innovation := pair.PricesA[t] - beta*priceB
		innovationVar := priceB*priceB*cov + e.ObservationNoise

		gain := cov * priceB / innovationVar
		beta += gain * innovation
		cov *= 1 - gain*priceB

		if cov < covarianceFloor {
			series.Warnings = append(series.Warnings, Warning{
				Index:      t,
				Covariance: cov,
				Message:    "filter covariance collapsed, clamped to floor",
			})
			cov = covarianceFloor
		} else if cov > covarianceCeiling {
			series.Warnings = append(series.Warnings, Warning{
				Index:      t,
				Covariance: cov,
				Message:    "filter covariance diverged, clamped to ceiling",
			})
			cov = covarianceCeiling
		}

		series.Ratios[t] = beta
	}

	return series, nil
}
