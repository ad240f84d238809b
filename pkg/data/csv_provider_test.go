package data

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvHeader = "timestamp,open,high,low,close,volume\n"

func TestCSVProvider_LoadData(t *testing.T) {
	csv := csvHeader +
		"2024-01-01 00:00:00,100,101,99,100.5,1000\n" +
		"2024-01-01 01:00:00,100.5,102,100,101.5,1500\n" +
		"2024-01-01 02:00:00,101.5,103,101,102.5,900\n"
	path := writeTestFile(t, t.TempDir(), "candles.csv", csv)

	provider := NewCSVProvider()
	data, err := provider.LoadData(path)
	require.NoError(t, err)
	require.Len(t, data, 3)

	first := data[0]
	assert.True(t, first.Timestamp.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 100.0, first.Open)
	assert.Equal(t, 101.0, first.High)
	assert.Equal(t, 99.0, first.Low)
	assert.Equal(t, 100.5, first.Close)
	assert.Equal(t, 1000.0, first.Volume)

	assert.Equal(t, 102.5, data[2].Close)
	assert.Equal(t, "CSV Provider", provider.GetName())
}

func TestCSVProvider_LoadData_SkipsBadValues(t *testing.T) {
	csv := csvHeader +
		"2024-01-01 00:00:00,100,101,99,100.5,1000\n" +
		"not-a-date,100,101,99,100.5,1000\n" +
		"2024-01-01 02:00:00,abc,101,99,100.5,1000\n" +
		"2024-01-01 03:00:00,100,101,99,100.5,xyz\n" +
		"2024-01-01 04:00:00,0,101,99,100.5,1000\n" +
		"2024-01-01 05:00:00,100,101,99,100.5,1200\n"
	path := writeTestFile(t, t.TempDir(), "candles.csv", csv)

	data, err := NewCSVProvider().LoadData(path)
	require.NoError(t, err)

	// Only the rows with a parseable timestamp, numeric fields and positive
	// prices survive.
	require.Len(t, data, 2)
	assert.Equal(t, 1000.0, data[0].Volume)
	assert.Equal(t, 1200.0, data[1].Volume)
}

func TestCSVProvider_LoadData_RaggedRowFails(t *testing.T) {
	csv := csvHeader +
		"2024-01-01 00:00:00,100,101,99,100.5,1000\n" +
		"2024-01-01 01:00:00,100,101\n"
	path := writeTestFile(t, t.TempDir(), "candles.csv", csv)

	_, err := NewCSVProvider().LoadData(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "error reading CSV")
}

func TestCSVProvider_LoadData_MissingFile(t *testing.T) {
	_, err := NewCSVProvider().LoadData(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "opening")
}

func TestCSVProvider_LoadData_CustomFormat(t *testing.T) {
	// A layout with close before open and date-only timestamps.
	format := CSVColumnMapping{
		TimestampCol: 0,
		CloseCol:     1,
		OpenCol:      2,
		HighCol:      3,
		LowCol:       4,
		VolumeCol:    5,
		MinColumns:   6,
		DateFormat:   "2006-01-02",
	}
	csv := "date,close,open,high,low,volume\n" +
		"2024-01-01,100.5,100,101,99,500\n"
	path := writeTestFile(t, t.TempDir(), "candles.csv", csv)

	data, err := NewCSVProviderWithFormat(format).LoadData(path)
	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, 100.5, data[0].Close)
	assert.Equal(t, 100.0, data[0].Open)
}

func TestCSVProvider_ValidateData(t *testing.T) {
	provider := NewCSVProvider()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := makeTestKlines(start, []float64{100, 101, 102})

	assert.NoError(t, provider.ValidateData(bars))

	err := provider.ValidateData(nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no data")

	negative := makeTestKlines(start, []float64{100, 101})
	negative[1].Close = -5
	err = provider.ValidateData(negative)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")

	inverted := makeTestKlines(start, []float64{100, 101})
	inverted[0].High, inverted[0].Low = inverted[0].Low, inverted[0].High
	err = provider.ValidateData(inverted)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be less than")

	stale := makeTestKlines(start, []float64{100, 101})
	stale[1].Timestamp = stale[0].Timestamp
	err = provider.ValidateData(stale)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "strictly increasing")
}
