package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTrailingPeriod(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		ok       bool
	}{
		{"7d", 7 * 24 * time.Hour, true},
		{"30D", 30 * 24 * time.Hour, true},
		{" 180d ", 180 * 24 * time.Hour, true},
		{"14days", 14 * 24 * time.Hour, true},
		{"168h", 168 * time.Hour, true},
		{"90m", 90 * time.Minute, true},
		{"d", 0, false},
		{"0d", 0, false},
		{"-3d", 0, false},
		{"soon", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseTrailingPeriod(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		if tt.ok {
			assert.Equal(t, tt.expected, got, "input %q", tt.input)
		}
	}
}

func TestDataManager_LoadAlignedPair(t *testing.T) {
	root := t.TempDir()
	putCandlesData(t, root, "AAAUSDT", ""+
		"2024-01-01 00:00:00,100,101,99,100,1000\n"+
		"2024-01-01 01:00:00,101,102,100,101,1000\n"+
		"2024-01-01 02:00:00,102,103,101,102,1000\n"+
		"2024-01-01 03:00:00,103,104,102,103,1000\n")
	putCandlesData(t, root, "BBBUSDT", ""+
		"2024-01-01 01:00:00,50,51,49,50,500\n"+
		"2024-01-01 02:00:00,51,52,50,51,500\n"+
		"2024-01-01 03:00:00,52,53,51,52,500\n"+
		"2024-01-01 04:00:00,53,54,52,53,500\n")

	dm := NewDataManager()
	result, err := dm.LoadAlignedPair(root, "bybit", "AAAUSDT", "BBBUSDT", "1h")
	require.NoError(t, err)

	assert.Equal(t, 3, result.Pair.Len())
	assert.Equal(t, 2, result.DroppedBars)
	assert.Equal(t, []float64{101, 102, 103}, result.Pair.PricesA)
	assert.Equal(t, []float64{50, 51, 52}, result.Pair.PricesB)
}

func TestDataManager_LoadAlignedPair_MissingLeg(t *testing.T) {
	root := t.TempDir()
	putCandlesData(t, root, "AAAUSDT", "2024-01-01 00:00:00,100,101,99,100,1000\n")

	dm := NewDataManager()
	_, err := dm.LoadAlignedPair(root, "bybit", "AAAUSDT", "BBBUSDT", "1h")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "BBBUSDT")
}

func TestDataManager_Defaults(t *testing.T) {
	dm := NewDataManager()

	assert.Equal(t, "Cached CSV Provider", dm.GetProvider().GetName())
	assert.NotNil(t, dm.GetFilter())
	assert.NotNil(t, dm.GetLocator())
	assert.Equal(t, "240", dm.ConvertIntervalToMinutes("4h"))
}

func TestDataManager_WithCustomProvider(t *testing.T) {
	stub := &countingProvider{}
	dm := NewDataManagerWithProvider(stub)

	_, err := dm.LoadHistoricalData("whatever.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, stub.loads)
	assert.NoError(t, dm.ValidateData(nil))
}

func putCandlesData(t *testing.T, root, symbol, rows string) {
	t.Helper()
	dir := filepath.Join(root, "bybit", "linear", symbol, "60")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	writeTestFile(t, dir, "candles.csv", csvHeader+rows)
}
