package data

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultFileLocator implements FileLocator for standard file system operations
type DefaultFileLocator struct{}

// NewDefaultFileLocator creates a new default file locator
func NewDefaultFileLocator() *DefaultFileLocator {
	return &DefaultFileLocator{}
}

// ConvertIntervalToMinutes converts interval strings like "5m", "1h", "4h" to minute numbers
func (f *DefaultFileLocator) ConvertIntervalToMinutes(interval string) string {
	// If it's already just a number, return as-is
	if _, err := strconv.Atoi(interval); err == nil {
		return interval
	}

	interval = strings.ToLower(strings.TrimSpace(interval))
	if len(interval) < 2 {
		return interval // Invalid format, return as-is
	}

	numStr := interval[:len(interval)-1]
	unit := interval[len(interval)-1:]

	num, err := strconv.Atoi(numStr)
	if err != nil {
		return interval // Invalid number, return as-is
	}

	switch unit {
	case "m":
		return strconv.Itoa(num)
	case "h":
		return strconv.Itoa(num * 60)
	case "d":
		return strconv.Itoa(num * 24 * 60)
	case "w":
		return strconv.Itoa(num * 7 * 24 * 60)
	default:
		return interval // Unknown unit, return as-is
	}
}

// FindDataFile attempts to locate kline files for a specific exchange
// Structure: data/{exchange}/{category}/{symbol}/{interval}/candles.csv
// Returns empty string if no file is found
func (f *DefaultFileLocator) FindDataFile(dataRoot, exchange, symbol, interval string) string {
	symbol = strings.ToUpper(symbol)

	// Convert interval to minutes (5m -> 5, 1h -> 60, etc.)
	intervalMinutes := f.ConvertIntervalToMinutes(interval)

	var categories []string
	switch strings.ToLower(exchange) {
	case "bybit":
		categories = []string{"spot", "linear", "inverse"}
	default:
		categories = []string{"spot", "linear", "inverse", "futures"}
	}

	var attemptedPaths []string
	for _, category := range categories {
		path := filepath.Join(dataRoot, exchange, category, symbol, intervalMinutes, "candles.csv")
		attemptedPaths = append(attemptedPaths, path)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	log.Printf("⚠️ No data file found for %s %s %s in:", exchange, symbol, interval)
	for _, path := range attemptedPaths {
		log.Printf("   - %s", path)
	}

	return ""
}

// FindPairFiles locates the kline files for both legs of a pair. Both legs
// must resolve; the error names whichever leg is missing.
func (f *DefaultFileLocator) FindPairFiles(dataRoot, exchange, symbolA, symbolB, interval string) (string, string, error) {
	pathA := f.FindDataFile(dataRoot, exchange, symbolA, interval)
	if pathA == "" {
		return "", "", fmt.Errorf("no data file for %s (exchange %s, interval %s)", symbolA, exchange, interval)
	}

	pathB := f.FindDataFile(dataRoot, exchange, symbolB, interval)
	if pathB == "" {
		return "", "", fmt.Errorf("no data file for %s (exchange %s, interval %s)", symbolB, exchange, interval)
	}

	return pathA, pathB, nil
}

