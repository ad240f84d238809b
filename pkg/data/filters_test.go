package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/crypto-pairs-lab/pkg/types"
)

func TestDefaultDataFilter_FilterByPeriod(t *testing.T) {
	filter := NewDefaultDataFilter()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := makeTestKlines(start, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	// Latest bar is at t+9h, so a 3h window keeps t+6h onwards inclusive.
	kept := filter.FilterByPeriod(bars, 3*time.Hour)
	require.Len(t, kept, 4)
	assert.Equal(t, 7.0, kept[0].Close)
	assert.Equal(t, 10.0, kept[3].Close)

	assert.Len(t, filter.FilterByPeriod(bars, 0), 10)
	assert.Len(t, filter.FilterByPeriod(bars, -time.Hour), 10)
	assert.Empty(t, filter.FilterByPeriod(nil, time.Hour))
}

func TestDefaultDataFilter_FilterByDateRange(t *testing.T) {
	filter := NewDefaultDataFilter()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := makeTestKlines(start, []float64{1, 2, 3, 4, 5, 6})

	// Both bounds are inclusive.
	kept := filter.FilterByDateRange(bars, start.Add(2*time.Hour), start.Add(4*time.Hour))
	require.Len(t, kept, 3)
	assert.Equal(t, 3.0, kept[0].Close)
	assert.Equal(t, 5.0, kept[2].Close)

	assert.Empty(t, filter.FilterByDateRange(bars, start.Add(10*time.Hour), start.Add(20*time.Hour)))
}

func TestDefaultDataFilter_ValidateTimeSequence(t *testing.T) {
	filter := NewDefaultDataFilter()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := makeTestKlines(start, []float64{1, 2, 3})

	assert.NoError(t, filter.ValidateTimeSequence(bars))
	assert.NoError(t, filter.ValidateTimeSequence(nil))
	assert.NoError(t, filter.ValidateTimeSequence(bars[:1]))

	reversed := []types.OHLCV{bars[1], bars[0]}
	err := filter.ValidateTimeSequence(reversed)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "chronological order")

	duplicated := []types.OHLCV{bars[0], bars[0]}
	err = filter.ValidateTimeSequence(duplicated)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate timestamp")
}

func TestDefaultDataFilter_SortByTimestamp(t *testing.T) {
	filter := NewDefaultDataFilter()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := makeTestKlines(start, []float64{1, 2, 3})

	shuffled := []types.OHLCV{bars[2], bars[0], bars[1]}
	sorted := filter.SortByTimestamp(shuffled)

	assert.Equal(t, []float64{1, 2, 3}, []float64{sorted[0].Close, sorted[1].Close, sorted[2].Close})
	// The input slice stays untouched.
	assert.Equal(t, 3.0, shuffled[0].Close)
	require.NoError(t, filter.ValidateTimeSequence(sorted))
}

func TestDefaultDataFilter_RemoveDuplicates(t *testing.T) {
	filter := NewDefaultDataFilter()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := makeTestKlines(start, []float64{1, 2, 3})

	repeat := klineAt(bars[1].Timestamp, 99)
	merged := []types.OHLCV{bars[0], bars[1], repeat, bars[2]}

	unique := filter.RemoveDuplicates(merged)
	require.Len(t, unique, 3)
	// The first occurrence wins.
	assert.Equal(t, 2.0, unique[1].Close)

	assert.Len(t, filter.RemoveDuplicates(bars[:1]), 1)
	assert.Empty(t, filter.RemoveDuplicates(nil))
}
