package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricePair_LenAndLabel(t *testing.T) {
	pair := makePair(5)

	assert.Equal(t, 5, pair.Len())
	assert.Equal(t, "ETHUSDT/BTCUSDT", pair.Label())
	assert.Equal(t, 0, PricePair{}.Len())
}

func TestPricePair_Validate(t *testing.T) {
	pair := makePair(5)
	require.NoError(t, pair.Validate())

	empty := PricePair{SymbolA: "ETHUSDT", SymbolB: "BTCUSDT"}
	err := empty.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty price series")

	misaligned := makePair(5)
	misaligned.PricesB = misaligned.PricesB[:4]
	err = misaligned.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "misaligned series")

	unordered := makePair(5)
	unordered.Timestamps[3] = unordered.Timestamps[1]
	err = unordered.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "strictly increasing")

	duplicated := makePair(5)
	duplicated.Timestamps[2] = duplicated.Timestamps[1]
	assert.Error(t, duplicated.Validate())
}

func TestPricePair_Slice(t *testing.T) {
	pair := makePair(6)

	sub := pair.Slice(2, 5)
	require.Equal(t, 3, sub.Len())
	assert.Equal(t, "ETHUSDT", sub.SymbolA)
	assert.Equal(t, "BTCUSDT", sub.SymbolB)
	assert.Equal(t, pair.PricesA[2], sub.PricesA[0])
	assert.Equal(t, pair.PricesB[4], sub.PricesB[2])
	assert.True(t, sub.Timestamps[0].Equal(pair.Timestamps[2]))
	require.NoError(t, sub.Validate())

	assert.Equal(t, 0, pair.Slice(3, 3).Len())
	assert.Equal(t, 6, pair.Slice(0, pair.Len()).Len())
}

func makePair(n int) PricePair {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pair := PricePair{SymbolA: "ETHUSDT", SymbolB: "BTCUSDT"}
	for i := 0; i < n; i++ {
		pair.Timestamps = append(pair.Timestamps, start.Add(time.Duration(i)*time.Hour))
		pair.PricesA = append(pair.PricesA, 2000+float64(i))
		pair.PricesB = append(pair.PricesB, 40000+float64(i)*10)
	}
	return pair
}
