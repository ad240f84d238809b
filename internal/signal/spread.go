package signal

import (
	"fmt"
	"time"

	"github.com/ducminhle1904/crypto-pairs-lab/pkg/stats"
	"github.com/ducminhle1904/crypto-pairs-lab/pkg/types"
)

// Point is one bar of the spread series: the spread itself, the trailing
// window moments, and the standardized score. HasSignal is false until the
// rolling window is full and whenever the window's deviation is too small to
// standardize against; ZScore is only meaningful when HasSignal is true.
type Point struct {
	Timestamp time.Time
	Spread    float64
	Mean      float64
	StdDev    float64
	ZScore    float64
	HasSignal bool
}

// Compute derives the spread and rolling z-score series from a price pair
// and its hedge ratio stream. spread[t] = priceA[t] - ratio[t]*priceB[t];
// the z-score standardizes it against a trailing window of length window.
//
// Pure function of its inputs: recomputing over the same pair, ratios and
// window reproduces the identical series.
func Compute(pair types.PricePair, ratios []float64, window int) ([]Point, error) {
	if window <= 0 {
		return nil, fmt.Errorf("signal: rolling window must be positive, got %d", window)
	}
	if len(ratios) != pair.Len() {
		return nil, fmt.Errorf("signal: hedge ratio series has %d values for %d bars", len(ratios), pair.Len())
	}

	points := make([]Point, pair.Len())
	trailing := stats.NewRollingWindow(window)

	for t := 0; t < pair.Len(); t++ {
		spread := pair.PricesA[t] - ratios[t]*pair.PricesB[t]
		trailing.Push(spread)

		pt := Point{
			Timestamp: pair.Timestamps[t],
			Spread:    spread,
		}
		if trailing.Full() {
			pt.Mean = trailing.Mean()
			pt.StdDev = trailing.Std()
			if !stats.IsDegenerateStd(pt.StdDev) {
				pt.ZScore = (spread - pt.Mean) / pt.StdDev
				pt.HasSignal = true
			}
		}
		points[t] = pt
	}

	return points, nil
}
