package types

import (
	"fmt"
	"time"
)

// PricePair holds two aligned close-price series sharing one timestamp index.
// It is the immutable input to the backtest core; Validate must pass before
// any simulation consumes it.
type PricePair struct {
	SymbolA    string
	SymbolB    string
	Timestamps []time.Time
	PricesA    []float64
	PricesB    []float64
}

// Len returns the number of aligned observations.
func (p PricePair) Len() int {
	return len(p.Timestamps)
}

// Label returns a short "A/B" identifier for reports and logs.
func (p PricePair) Label() string {
	return p.SymbolA + "/" + p.SymbolB
}

// Validate checks the alignment invariants: equal series lengths, at least
// one observation, and strictly increasing timestamps.
func (p PricePair) Validate() error {
	n := len(p.Timestamps)
	if n == 0 {
		return fmt.Errorf("pair %s: empty price series", p.Label())
	}
	if len(p.PricesA) != n || len(p.PricesB) != n {
		return fmt.Errorf("pair %s: misaligned series: %d timestamps, %d/%d prices",
			p.Label(), n, len(p.PricesA), len(p.PricesB))
	}
	for i := 1; i < n; i++ {
		if !p.Timestamps[i].After(p.Timestamps[i-1]) {
			return fmt.Errorf("pair %s: timestamps not strictly increasing at index %d (%s >= %s)",
				p.Label(), i, p.Timestamps[i-1].Format(time.RFC3339), p.Timestamps[i].Format(time.RFC3339))
		}
	}
	return nil
}

// Slice returns the aligned sub-series [from, to). The backing arrays are
// shared with the parent, consistent with the series being read-only.
func (p PricePair) Slice(from, to int) PricePair {
	return PricePair{
		SymbolA:    p.SymbolA,
		SymbolB:    p.SymbolB,
		Timestamps: p.Timestamps[from:to],
		PricesA:    p.PricesA[from:to],
		PricesB:    p.PricesB[from:to],
	}
}
