package screen

import (
	"fmt"

	"github.com/ducminhle1904/crypto-pairs-lab/pkg/data"
	"github.com/ducminhle1904/crypto-pairs-lab/pkg/stats"
)

// CorrelationMatrix is the symmetric Pearson correlation of per-symbol
// returns. Values[i][j] pairs Symbols[i] with Symbols[j]; the diagonal is 1.
type CorrelationMatrix struct {
	Symbols []string
	Values  [][]float64
}

// ComputeCorrelationMatrix builds the return-correlation matrix of every
// symbol in the close matrix.
func ComputeCorrelationMatrix(matrix *data.CloseMatrix) (*CorrelationMatrix, error) {
	if matrix.Len() < 3 {
		return nil, fmt.Errorf("need at least 3 bars for return correlations, got %d", matrix.Len())
	}

	n := matrix.NumSymbols()
	returns := make([][]float64, n)
	for j, symbol := range matrix.Symbols {
		col, err := matrix.Column(symbol)
		if err != nil {
			return nil, err
		}
		returns[j] = stats.Returns(col)
	}

	out := &CorrelationMatrix{
		Symbols: matrix.Symbols,
		Values:  make([][]float64, n),
	}
	for i := 0; i < n; i++ {
		out.Values[i] = make([]float64, n)
		out.Values[i][i] = 1
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			corr, err := stats.Correlation(returns[i], returns[j])
			if err != nil {
				corr = 0 // constant column, no co-movement to report
			}
			out.Values[i][j] = corr
			out.Values[j][i] = corr
		}
	}

	return out, nil
}

// At returns the correlation between two symbols.
func (m *CorrelationMatrix) At(symbolA, symbolB string) (float64, error) {
	i, j := -1, -1
	for k, s := range m.Symbols {
		if s == symbolA {
			i = k
		}
		if s == symbolB {
			j = k
		}
	}
	if i < 0 {
		return 0, fmt.Errorf("symbol %s not in matrix", symbolA)
	}
	if j < 0 {
		return 0, fmt.Errorf("symbol %s not in matrix", symbolB)
	}
	return m.Values[i][j], nil
}
