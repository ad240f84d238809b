package data

import (
	"fmt"
	"log"
	"time"

	"github.com/ducminhle1904/crypto-pairs-lab/pkg/types"
)

// PairLoadResult carries an aligned pair plus how many bars were discarded
// because only one leg traded at that timestamp.
type PairLoadResult struct {
	Pair        types.PricePair
	DroppedBars int
}

// LoadPair loads and aligns the kline series of both legs into a price pair.
// Bars present in only one leg are dropped; the pair keeps the intersection.
func LoadPair(provider DataProvider, pathA, pathB, symbolA, symbolB string) (PairLoadResult, error) {
	dataA, err := provider.LoadData(pathA)
	if err != nil {
		return PairLoadResult{}, fmt.Errorf("loading %s: %w", symbolA, err)
	}
	dataB, err := provider.LoadData(pathB)
	if err != nil {
		return PairLoadResult{}, fmt.Errorf("loading %s: %w", symbolB, err)
	}

	pair, dropped := AlignPair(symbolA, symbolB, dataA, dataB)
	if pair.Len() == 0 {
		return PairLoadResult{}, fmt.Errorf("%s and %s share no timestamps", symbolA, symbolB)
	}
	if dropped > 0 {
		log.Printf("⚠️ Dropped %d bars present in only one leg of %s", dropped, pair.Label())
	}

	return PairLoadResult{Pair: pair, DroppedBars: dropped}, nil
}

// AlignPair intersects two kline series on their timestamps and returns the
// aligned close-price pair plus the number of discarded bars. Both inputs are
// assumed chronological, as ValidateData enforces.
func AlignPair(symbolA, symbolB string, dataA, dataB []types.OHLCV) (types.PricePair, int) {
	pair := types.PricePair{SymbolA: symbolA, SymbolB: symbolB}

	i, j := 0, 0
	for i < len(dataA) && j < len(dataB) {
		ta, tb := dataA[i].Timestamp, dataB[j].Timestamp
		switch {
		case ta.Equal(tb):
			pair.Timestamps = append(pair.Timestamps, ta)
			pair.PricesA = append(pair.PricesA, dataA[i].Close)
			pair.PricesB = append(pair.PricesB, dataB[j].Close)
			i++
			j++
		case ta.Before(tb):
			i++
		default:
			j++
		}
	}

	dropped := (len(dataA) - pair.Len()) + (len(dataB) - pair.Len())
	return pair, dropped
}

// FilterPairByDateRange trims a pair to [start, end]. A zero start or end
// leaves that side unbounded.
func FilterPairByDateRange(pair types.PricePair, start, end time.Time) types.PricePair {
	from, to := 0, pair.Len()
	if !start.IsZero() {
		for from < pair.Len() && pair.Timestamps[from].Before(start) {
			from++
		}
	}
	if !end.IsZero() {
		for to > from && pair.Timestamps[to-1].After(end) {
			to--
		}
	}
	return pair.Slice(from, to)
}
