package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/crypto-pairs-lab/pkg/types"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := NewMemoryCache()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := makeTestKlines(start, []float64{100, 101})

	_, ok := cache.Get("missing")
	assert.False(t, ok)

	cache.Set("candles.csv", bars)
	got, ok := cache.Get("candles.csv")
	require.True(t, ok)
	assert.Equal(t, bars, got)
	assert.Equal(t, 1, cache.Size())
}

func TestMemoryCache_CopiesOnBothSides(t *testing.T) {
	cache := NewMemoryCache()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := makeTestKlines(start, []float64{100, 101})

	cache.Set("key", bars)
	bars[0].Close = 999 // caller mutates after Set

	got, ok := cache.Get("key")
	require.True(t, ok)
	assert.Equal(t, 100.0, got[0].Close)

	got[1].Close = 888 // caller mutates the returned copy
	again, _ := cache.Get("key")
	assert.Equal(t, 101.0, again[1].Close)
}

func TestMemoryCache_Clear(t *testing.T) {
	cache := NewMemoryCache()
	cache.Set("a", nil)
	cache.Set("b", nil)
	require.Equal(t, 2, cache.Size())

	cache.Clear()
	assert.Equal(t, 0, cache.Size())
	_, ok := cache.Get("a")
	assert.False(t, ok)
}

func TestCachedProvider_LoadsEachSourceOnce(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stub := &countingProvider{data: makeTestKlines(start, []float64{100, 101, 102})}
	provider := NewCachedProvider(stub)

	first, err := provider.LoadData("a.csv")
	require.NoError(t, err)
	second, err := provider.LoadData("a.csv")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, stub.loads)
	assert.Equal(t, 1, provider.GetCacheSize())

	_, err = provider.LoadData("b.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, stub.loads)
	assert.Equal(t, 2, provider.GetCacheSize())
}

func TestCachedProvider_ErrorsAreNotCached(t *testing.T) {
	stub := &countingProvider{err: assert.AnError}
	provider := NewCachedProvider(stub)

	_, err := provider.LoadData("a.csv")
	assert.Error(t, err)
	_, err = provider.LoadData("a.csv")
	assert.Error(t, err)
	assert.Equal(t, 2, stub.loads)

	// Once the source recovers, the next load succeeds and is cached.
	stub.err = nil
	stub.data = makeTestKlines(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), []float64{100})
	_, err = provider.LoadData("a.csv")
	require.NoError(t, err)
	_, err = provider.LoadData("a.csv")
	require.NoError(t, err)
	assert.Equal(t, 3, stub.loads)
}

func TestCachedProvider_ClearCache(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stub := &countingProvider{data: makeTestKlines(start, []float64{100})}
	provider := NewCachedProvider(stub)

	_, err := provider.LoadData("a.csv")
	require.NoError(t, err)
	provider.ClearCache()
	assert.Equal(t, 0, provider.GetCacheSize())

	_, err = provider.LoadData("a.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, stub.loads)
}

func TestCachedProvider_DelegatesNameAndValidation(t *testing.T) {
	stub := &countingProvider{}
	provider := NewCachedProvider(stub)

	assert.Equal(t, "Cached Counting Provider", provider.GetName())
	assert.NoError(t, provider.ValidateData(nil))
	assert.NotNil(t, provider.GetCache())
}

// countingProvider records how often LoadData is called so the tests can see
// cache hits and misses.
type countingProvider struct {
	loads int
	data  []types.OHLCV
	err   error
}

func (p *countingProvider) LoadData(source string) ([]types.OHLCV, error) {
	p.loads++
	if p.err != nil {
		return nil, p.err
	}
	return p.data, nil
}

func (p *countingProvider) ValidateData(data []types.OHLCV) error {
	return nil
}

func (p *countingProvider) GetName() string {
	return "Counting Provider"
}
