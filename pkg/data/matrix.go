package data

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/ducminhle1904/crypto-pairs-lab/pkg/types"
)

// matrixDateFormat is the timestamp layout of close-matrix CSV files.
const matrixDateFormat = "2006-01-02 15:04:05"

// CloseMatrix is a symbols-by-time table of close prices sharing one
// timestamp index: the working dataset of the screening and backtest
// commands. Closes[i][j] is the close of Symbols[j] at Timestamps[i].
type CloseMatrix struct {
	Symbols    []string
	Timestamps []time.Time
	Closes     [][]float64
}

// Len returns the number of rows (timestamps).
func (m *CloseMatrix) Len() int {
	return len(m.Timestamps)
}

// NumSymbols returns the number of columns.
func (m *CloseMatrix) NumSymbols() int {
	return len(m.Symbols)
}

// Column returns the close series of one symbol.
func (m *CloseMatrix) Column(symbol string) ([]float64, error) {
	idx := -1
	for j, s := range m.Symbols {
		if s == symbol {
			idx = j
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("symbol %s not in matrix", symbol)
	}

	out := make([]float64, m.Len())
	for i := range m.Closes {
		out[i] = m.Closes[i][idx]
	}
	return out, nil
}

// Pair extracts an aligned price pair for two symbols.
func (m *CloseMatrix) Pair(symbolA, symbolB string) (types.PricePair, error) {
	pricesA, err := m.Column(symbolA)
	if err != nil {
		return types.PricePair{}, err
	}
	pricesB, err := m.Column(symbolB)
	if err != nil {
		return types.PricePair{}, err
	}

	return types.PricePair{
		SymbolA:    symbolA,
		SymbolB:    symbolB,
		Timestamps: m.Timestamps,
		PricesA:    pricesA,
		PricesB:    pricesB,
	}, nil
}

// BuildCloseMatrix merges per-symbol kline series on their timestamps.
// Symbols missing more than maxMissingShare of the merged index are dropped;
// the remaining gaps are forward-filled, then back-filled, so the result
// carries no holes.
func BuildCloseMatrix(series map[string][]types.OHLCV, maxMissingShare float64) (*CloseMatrix, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no symbols to merge")
	}

	// Merged, sorted timestamp index.
	index := make(map[time.Time]struct{})
	for _, klines := range series {
		for _, k := range klines {
			index[k.Timestamp] = struct{}{}
		}
	}
	timestamps := make([]time.Time, 0, len(index))
	for ts := range index {
		timestamps = append(timestamps, ts)
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })
	if len(timestamps) == 0 {
		return nil, fmt.Errorf("no timestamps across %d symbols", len(series))
	}

	symbols := make([]string, 0, len(series))
	for symbol := range series {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	// Fill columns, marking gaps as NaN, and drop symbols with too many.
	columns := make(map[string][]float64, len(symbols))
	kept := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		closeAt := make(map[time.Time]float64, len(series[symbol]))
		for _, k := range series[symbol] {
			closeAt[k.Timestamp] = k.Close
		}

		col := make([]float64, len(timestamps))
		missing := 0
		for i, ts := range timestamps {
			if c, ok := closeAt[ts]; ok {
				col[i] = c
			} else {
				col[i] = math.NaN()
				missing++
			}
		}

		share := float64(missing) / float64(len(timestamps))
		if share > maxMissingShare {
			log.Printf("⚠️ Dropping %s: %.1f%% of rows missing (limit %.1f%%)", symbol, share*100, maxMissingShare*100)
			continue
		}

		fillGaps(col)
		columns[symbol] = col
		kept = append(kept, symbol)
	}

	if len(kept) == 0 {
		return nil, fmt.Errorf("every symbol exceeded the missing-data limit of %.1f%%", maxMissingShare*100)
	}

	matrix := &CloseMatrix{
		Symbols:    kept,
		Timestamps: timestamps,
		Closes:     make([][]float64, len(timestamps)),
	}
	for i := range timestamps {
		row := make([]float64, len(kept))
		for j, symbol := range kept {
			row[j] = columns[symbol][i]
		}
		matrix.Closes[i] = row
	}

	return matrix, nil
}

// fillGaps forward-fills NaN holes from the last seen value, then back-fills
// any leading hole from the first seen value.
func fillGaps(col []float64) {
	last := math.NaN()
	for i, v := range col {
		if math.IsNaN(v) {
			col[i] = last
		} else {
			last = v
		}
	}

	next := math.NaN()
	for i := len(col) - 1; i >= 0; i-- {
		if math.IsNaN(col[i]) {
			col[i] = next
		} else {
			next = col[i]
		}
	}
}

// LoadCloseMatrix reads a close matrix from CSV. The first column is the
// timestamp, the remaining columns are one symbol each, named by the header.
func LoadCloseMatrix(path string) (*CloseMatrix, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%s: need a timestamp column and at least one symbol", path)
	}

	matrix := &CloseMatrix{Symbols: header[1:]}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	for lineNum, record := range records {
		if len(record) != len(header) {
			log.Printf("⚠️ Row %d has %d columns, expected %d, skipping", lineNum+2, len(record), len(header))
			continue
		}

		ts, err := time.Parse(matrixDateFormat, record[0])
		if err != nil {
			log.Printf("⚠️ Invalid timestamp '%s' at row %d, skipping: %v", record[0], lineNum+2, err)
			continue
		}

		row := make([]float64, len(matrix.Symbols))
		ok := true
		for j := range matrix.Symbols {
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				log.Printf("⚠️ Invalid price '%s' at row %d, skipping row: %v", record[j+1], lineNum+2, err)
				ok = false
				break
			}
			row[j] = v
		}
		if !ok {
			continue
		}

		matrix.Timestamps = append(matrix.Timestamps, ts)
		matrix.Closes = append(matrix.Closes, row)
	}

	if err := matrix.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return matrix, nil
}

// WriteCSV writes the matrix in the layout LoadCloseMatrix reads.
func (m *CloseMatrix) WriteCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := append([]string{"timestamp"}, m.Symbols...)
	if err := writer.Write(header); err != nil {
		return err
	}

	record := make([]string, len(m.Symbols)+1)
	for i, ts := range m.Timestamps {
		record[0] = ts.Format(matrixDateFormat)
		for j, v := range m.Closes[i] {
			record[j+1] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

// Validate checks the matrix invariants: rectangular shape and strictly
// increasing timestamps.
func (m *CloseMatrix) Validate() error {
	if m.Len() == 0 {
		return fmt.Errorf("matrix has no rows")
	}
	if len(m.Closes) != m.Len() {
		return fmt.Errorf("matrix has %d price rows for %d timestamps", len(m.Closes), m.Len())
	}
	for i, row := range m.Closes {
		if len(row) != m.NumSymbols() {
			return fmt.Errorf("row %d has %d columns, expected %d", i, len(row), m.NumSymbols())
		}
	}
	for i := 1; i < m.Len(); i++ {
		if !m.Timestamps[i].After(m.Timestamps[i-1]) {
			return fmt.Errorf("timestamps must be strictly increasing (row %d)", i)
		}
	}
	return nil
}
