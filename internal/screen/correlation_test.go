package screen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/crypto-pairs-lab/pkg/data"
)

func TestComputeCorrelationMatrix(t *testing.T) {
	// YYY doubles XXX so their returns are identical; ZZZ inverts every
	// return of XXX.
	pricesX := []float64{100, 101, 99.99, 101, 100}
	pricesY := make([]float64, len(pricesX))
	pricesZ := make([]float64, len(pricesX))
	pricesZ[0] = 200
	for i := range pricesX {
		pricesY[i] = 2 * pricesX[i]
		if i > 0 {
			ret := pricesX[i]/pricesX[i-1] - 1
			pricesZ[i] = pricesZ[i-1] * (1 - ret)
		}
	}
	matrix := makeScreenMatrix(
		[]string{"XXXUSDT", "YYYUSDT", "ZZZUSDT"},
		[][]float64{pricesX, pricesY, pricesZ},
	)

	corr, err := ComputeCorrelationMatrix(matrix)
	require.NoError(t, err)
	require.Len(t, corr.Values, 3)

	for i := 0; i < 3; i++ {
		assert.Equal(t, 1.0, corr.Values[i][i])
		for j := 0; j < 3; j++ {
			assert.Equal(t, corr.Values[i][j], corr.Values[j][i])
		}
	}

	xy, err := corr.At("XXXUSDT", "YYYUSDT")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, xy, 1e-9)

	xz, err := corr.At("XXXUSDT", "ZZZUSDT")
	require.NoError(t, err)
	assert.InDelta(t, -1.0, xz, 1e-6)
}

func TestCorrelationMatrix_At_UnknownSymbol(t *testing.T) {
	matrix := makeScreenMatrix(
		[]string{"XXXUSDT", "YYYUSDT"},
		[][]float64{{100, 101, 102, 103}, {50, 51, 50, 52}},
	)

	corr, err := ComputeCorrelationMatrix(matrix)
	require.NoError(t, err)

	_, err = corr.At("AAAUSDT", "YYYUSDT")
	assert.Error(t, err)
	_, err = corr.At("XXXUSDT", "AAAUSDT")
	assert.Error(t, err)
}

func TestComputeCorrelationMatrix_TooFewBars(t *testing.T) {
	matrix := makeScreenMatrix(
		[]string{"XXXUSDT", "YYYUSDT"},
		[][]float64{{100, 101}, {50, 51}},
	)

	_, err := ComputeCorrelationMatrix(matrix)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least 3 bars")
}

// makeScreenMatrix assembles a close matrix from per-symbol columns on an
// hourly timestamp grid.
func makeScreenMatrix(symbols []string, columns [][]float64) *data.CloseMatrix {
	n := len(columns[0])
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	matrix := &data.CloseMatrix{Symbols: symbols}
	for i := 0; i < n; i++ {
		row := make([]float64, len(symbols))
		for j := range symbols {
			row[j] = columns[j][i]
		}
		matrix.Timestamps = append(matrix.Timestamps, start.Add(time.Duration(i)*time.Hour))
		matrix.Closes = append(matrix.Closes, row)
	}
	return matrix
}
