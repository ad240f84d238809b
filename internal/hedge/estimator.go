package hedge

import (
	"fmt"

	"github.com/ducminhle1904/crypto-pairs-lab/pkg/types"
)

// Estimator produces the hedge ratio series for a price pair: one beta per
// bar such that spread = priceA - beta*priceB.
type Estimator interface {
	Name() string
	Estimate(pair types.PricePair) (*Series, error)
}

// Series is the per-bar hedge ratio stream emitted by an estimator, aligned
// to the pair's timestamp index. Warnings collect recoverable numerical
// events raised while filtering; they never abort a run.
type Series struct {
	Ratios   []float64
	Warnings []Warning
}

// Warning records a single recoverable numerical event.
type Warning struct {
	Index      int
	Covariance float64
	Message    string
}

func (w Warning) String() string {
	return fmt.Sprintf("bar %d: %s (covariance=%.3e)", w.Index, w.Message, w.Covariance)
}

// Mode selects the estimation strategy.
type Mode string

const (
	ModeStatic Mode = "static"
	ModeKalman Mode = "kalman"
)

// Valid reports whether m names a known estimation strategy.
func (m Mode) Valid() bool {
	return m == ModeStatic || m == ModeKalman
}
