package data

import (
	"strconv"
	"strings"
	"time"

	"github.com/ducminhle1904/crypto-pairs-lab/pkg/types"
)

// DataManager combines all data operations in a convenient interface
type DataManager struct {
	provider DataProvider
	filter   DataFilter
	locator  *DefaultFileLocator
}

// NewDataManager creates a new data manager with default components
func NewDataManager() *DataManager {
	return &DataManager{
		provider: NewCachedProvider(NewCSVProvider()),
		filter:   NewDefaultDataFilter(),
		locator:  NewDefaultFileLocator(),
	}
}

// NewDataManagerWithProvider creates a data manager with a custom provider
func NewDataManagerWithProvider(provider DataProvider) *DataManager {
	return &DataManager{
		provider: provider,
		filter:   NewDefaultDataFilter(),
		locator:  NewDefaultFileLocator(),
	}
}

// LoadHistoricalData loads kline data from a file
func (dm *DataManager) LoadHistoricalData(filename string) ([]types.OHLCV, error) {
	return dm.provider.LoadData(filename)
}

// LoadAlignedPair locates the kline files of both legs under dataRoot and
// returns the timestamp-aligned pair.
func (dm *DataManager) LoadAlignedPair(dataRoot, exchange, symbolA, symbolB, interval string) (PairLoadResult, error) {
	pathA, pathB, err := dm.locator.FindPairFiles(dataRoot, exchange, symbolA, symbolB, interval)
	if err != nil {
		return PairLoadResult{}, err
	}
	return LoadPair(dm.provider, pathA, pathB, symbolA, symbolB)
}

// FilterDataByPeriod filters data by time period
func (dm *DataManager) FilterDataByPeriod(data []types.OHLCV, period time.Duration) []types.OHLCV {
	return dm.filter.FilterByPeriod(data, period)
}

// FindDataFile locates data files
func (dm *DataManager) FindDataFile(dataRoot, exchange, symbol, interval string) string {
	return dm.locator.FindDataFile(dataRoot, exchange, symbol, interval)
}

// ConvertIntervalToMinutes converts interval to minutes
func (dm *DataManager) ConvertIntervalToMinutes(interval string) string {
	return dm.locator.ConvertIntervalToMinutes(interval)
}

// ValidateData validates loaded data
func (dm *DataManager) ValidateData(data []types.OHLCV) error {
	return dm.provider.ValidateData(data)
}

// GetProvider returns the underlying data provider
func (dm *DataManager) GetProvider() DataProvider {
	return dm.provider
}

// GetFilter returns the data filter
func (dm *DataManager) GetFilter() DataFilter {
	return dm.filter
}

// GetLocator returns the file locator
func (dm *DataManager) GetLocator() FileLocator {
	return dm.locator
}

// ParseTrailingPeriod parses period strings like "7d", "30d", "180d"
func ParseTrailingPeriod(s string) (time.Duration, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasSuffix(s, "days") {
		s = strings.TrimSuffix(s, "days") + "d"
	}
	if strings.HasSuffix(s, "d") {
		nStr := strings.TrimSuffix(s, "d")
		if nStr == "" {
			return 0, false
		}
		n, err := strconv.Atoi(nStr)
		if err != nil || n <= 0 {
			return 0, false
		}
		return time.Duration(n) * 24 * time.Hour, true
	}
	// allow raw durations too (e.g., 168h)
	if d, err := time.ParseDuration(s); err == nil {
		return d, true
	}
	return 0, false
}

// DefaultDataManager provides a shared instance for the commands
var DefaultDataManager = NewDataManager()

// LoadHistoricalData - global convenience function
func LoadHistoricalData(filename string) ([]types.OHLCV, error) {
	return DefaultDataManager.LoadHistoricalData(filename)
}

// FindDataFile - global convenience function
func FindDataFile(dataRoot, exchange, symbol, interval string) string {
	return DefaultDataManager.FindDataFile(dataRoot, exchange, symbol, interval)
}

// ConvertIntervalToMinutes - global convenience function
func ConvertIntervalToMinutes(interval string) string {
	return DefaultDataManager.ConvertIntervalToMinutes(interval)
}
