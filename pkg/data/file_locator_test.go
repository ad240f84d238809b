package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFileLocator_ConvertIntervalToMinutes(t *testing.T) {
	locator := NewDefaultFileLocator()

	tests := []struct {
		interval string
		expected string
	}{
		{"5m", "5"},
		{"15m", "15"},
		{"1h", "60"},
		{"4h", "240"},
		{"1d", "1440"},
		{"1w", "10080"},
		{"60", "60"},     // already minutes
		{" 15M ", "15"},  // trimmed and lowercased
		{"x", "x"},       // too short to split
		{"abch", "abch"}, // not a number
		{"5y", "5y"},     // unknown unit
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, locator.ConvertIntervalToMinutes(tt.interval), "interval %q", tt.interval)
	}
}

func TestDefaultFileLocator_FindDataFile(t *testing.T) {
	locator := NewDefaultFileLocator()
	root := t.TempDir()
	putCandlesFile(t, root, "bybit", "linear", "ETHUSDT", "60")

	found := locator.FindDataFile(root, "bybit", "ethusdt", "1h")
	assert.Equal(t, filepath.Join(root, "bybit", "linear", "ETHUSDT", "60", "candles.csv"), found)

	// Categories are probed in order, so a spot file shadows the linear one.
	putCandlesFile(t, root, "bybit", "spot", "ETHUSDT", "60")
	found = locator.FindDataFile(root, "bybit", "ETHUSDT", "1h")
	assert.Equal(t, filepath.Join(root, "bybit", "spot", "ETHUSDT", "60", "candles.csv"), found)

	assert.Empty(t, locator.FindDataFile(root, "bybit", "BTCUSDT", "1h"))
	assert.Empty(t, locator.FindDataFile(root, "bybit", "ETHUSDT", "5m"))
}

func TestDefaultFileLocator_FindPairFiles(t *testing.T) {
	locator := NewDefaultFileLocator()
	root := t.TempDir()
	putCandlesFile(t, root, "bybit", "linear", "AAAUSDT", "60")
	putCandlesFile(t, root, "bybit", "linear", "BBBUSDT", "60")

	pathA, pathB, err := locator.FindPairFiles(root, "bybit", "AAAUSDT", "BBBUSDT", "1h")
	require.NoError(t, err)
	assert.Contains(t, pathA, "AAAUSDT")
	assert.Contains(t, pathB, "BBBUSDT")

	_, _, err = locator.FindPairFiles(root, "bybit", "AAAUSDT", "CCCUSDT", "1h")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "CCCUSDT")

	_, _, err = locator.FindPairFiles(root, "bybit", "XXXUSDT", "BBBUSDT", "1h")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "XXXUSDT")
}

func putCandlesFile(t *testing.T, root, exchange, category, symbol, interval string) {
	t.Helper()
	dir := filepath.Join(root, exchange, category, symbol, interval)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	writeTestFile(t, dir, "candles.csv", csvHeader)
}
