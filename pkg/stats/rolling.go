package stats

import "math"

// RollingWindow maintains mean and standard deviation over a fixed trailing
// window of observations. Moments are recomputed from the buffered window on
// each read, so long runs do not accumulate floating-point drift.
type RollingWindow struct {
	size   int
	values []float64
	next   int
	filled bool
}

// NewRollingWindow creates a window of the given size. Size must be >= 1.
func NewRollingWindow(size int) *RollingWindow {
	if size < 1 {
		size = 1
	}
	return &RollingWindow{
		size:   size,
		values: make([]float64, 0, size),
	}
}

// Push appends an observation, evicting the oldest once the window is full.
func (w *RollingWindow) Push(v float64) {
	if len(w.values) < w.size {
		w.values = append(w.values, v)
		if len(w.values) == w.size {
			w.filled = true
		}
		return
	}
	w.values[w.next] = v
	w.next = (w.next + 1) % w.size
}

// Full reports whether the window holds size observations.
func (w *RollingWindow) Full() bool {
	return w.filled
}

// Count returns the number of observations currently held.
func (w *RollingWindow) Count() int {
	return len(w.values)
}

// Mean returns the mean of the buffered observations.
func (w *RollingWindow) Mean() float64 {
	return Mean(w.values)
}

// Std returns the population standard deviation of the buffered observations.
func (w *RollingWindow) Std() float64 {
	return StdDev(w.values)
}

// Reset empties the window.
func (w *RollingWindow) Reset() {
	w.values = w.values[:0]
	w.next = 0
	w.filled = false
}

// HalfLife estimates the mean-reversion half-life of a series, in bars, from
// an AR(1) regression of the first differences on the lagged level. A
// non-reverting series reports +Inf.
func HalfLife(series []float64) (float64, error) {
	if len(series) < 3 {
		return 0, ErrNotEnoughData
	}

	lagged := series[:len(series)-1]
	delta := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		delta[i-1] = series[i] - series[i-1]
	}

	lambda, _, err := LinearRegression(lagged, delta)
	if err != nil {
		return 0, err
	}
	if lambda >= 0 {
		return math.Inf(1), nil
	}
	if lambda <= -1 {
		return 0, nil
	}

	return -math.Ln2 / math.Log(1+lambda), nil
}
