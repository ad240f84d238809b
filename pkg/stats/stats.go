package stats

import (
	"errors"
	"math"
)

// Shared numeric helpers for the estimator, signal generator and pair screen.
// All standard deviations are population deviations (divide by n).

var (
	ErrNotEnoughData  = errors.New("not enough data points")
	ErrZeroVariance   = errors.New("series has zero variance")
	ErrLengthMismatch = errors.New("series lengths do not match")
)

// minStd is the smallest standard deviation treated as non-degenerate.
const minStd = 1e-10

// Mean returns the arithmetic mean of values, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Variance returns the population variance of values.
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation of values.
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// ZScore standardizes value against the given mean and standard deviation.
// Returns 0 when std is too small to divide by; callers that need to
// distinguish "no signal" should test std against IsDegenerateStd first.
func ZScore(value, mean, std float64) float64 {
	if std < minStd {
		return 0
	}
	return (value - mean) / std
}

// IsDegenerateStd reports whether std is too small to produce a meaningful
// standardized score.
func IsDegenerateStd(std float64) bool {
	return std < minStd
}

// LinearRegression fits y = slope*x + intercept by ordinary least squares.
// Fails when fewer than 2 points are given or x has no variance.
func LinearRegression(x, y []float64) (slope, intercept float64, err error) {
	if len(x) != len(y) {
		return 0, 0, ErrLengthMismatch
	}
	if len(x) < 2 {
		return 0, 0, ErrNotEnoughData
	}

	n := float64(len(x))
	var sumX, sumY, sumXY, sumXX float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumXX += x[i] * x[i]
	}

	denom := n*sumXX - sumX*sumX
	if math.Abs(denom) < 1e-12 {
		return 0, 0, ErrZeroVariance
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept, nil
}

// Covariance returns the population covariance of x and y.
func Covariance(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, ErrLengthMismatch
	}
	if len(x) == 0 {
		return 0, ErrNotEnoughData
	}
	meanX := Mean(x)
	meanY := Mean(y)
	var sum float64
	for i := range x {
		sum += (x[i] - meanX) * (y[i] - meanY)
	}
	return sum / float64(len(x)), nil
}

// Correlation returns the Pearson correlation coefficient of x and y.
func Correlation(x, y []float64) (float64, error) {
	cov, err := Covariance(x, y)
	if err != nil {
		return 0, err
	}
	stdX := StdDev(x)
	stdY := StdDev(y)
	if stdX < minStd || stdY < minStd {
		return 0, ErrZeroVariance
	}
	return cov / (stdX * stdY), nil
}

// Returns converts a price series into simple percentage returns.
// The result has len(prices)-1 entries; a zero price yields a zero return.
func Returns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			out[i-1] = prices[i]/prices[i-1] - 1
		}
	}
	return out
}
