package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatResult(t *testing.T) {
	formatter := NewDefaultJSONFormatter()

	data, err := formatter.FormatResult(makeReportResult())
	require.NoError(t, err)

	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &summary))

	assert.Equal(t, "ETHUSDT/BTCUSDT", summary["pair"])
	assert.Equal(t, "static", summary["mode"])
	assert.Equal(t, 60.0, summary["window"])
	assert.Equal(t, 2.0, summary["entry_threshold"])
	assert.Equal(t, 10120.0, summary["final_equity"])
	assert.InDelta(t, 0.012, summary["total_return"].(float64), 1e-12)
	assert.Equal(t, 1.35, summary["sharpe"])
	assert.Equal(t, 2.0, summary["trade_count"])
	assert.InDelta(t, 72.25, summary["realized_pnl"].(float64), 1e-12)
	assert.InDelta(t, 1.6, summary["total_costs"].(float64), 1e-12)
	assert.Equal(t, 3.0, summary["signal_bars"])
	assert.Equal(t, 3.0, summary["total_bars"])
	assert.Equal(t, 0.0, summary["warning_count"])
	assert.Contains(t, summary, "generated_at")
}

func TestWriteResultJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "summary.json")

	require.NoError(t, WriteResultJSON(makeReportResult(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, "ETHUSDT/BTCUSDT", summary["pair"])
}

func TestWriteGridJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.json")

	require.NoError(t, WriteGridJSON(makeReportGrid(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var summary struct {
		Pair        string                   `json:"pair"`
		CellCount   int                      `json:"cell_count"`
		FailedCount int                      `json:"failed_count"`
		ElapsedMs   int64                    `json:"elapsed_ms"`
		Cells       []map[string]interface{} `json:"cells"`
	}
	require.NoError(t, json.Unmarshal(data, &summary))

	assert.Equal(t, "ETHUSDT/BTCUSDT", summary.Pair)
	assert.Equal(t, 3, summary.CellCount)
	assert.Equal(t, 1, summary.FailedCount)
	assert.Equal(t, int64(250), summary.ElapsedMs)
	require.Len(t, summary.Cells, 3)

	best := summary.Cells[0]
	assert.Equal(t, 1.0, best["rank"])
	assert.Equal(t, 40.0, best["window"])
	assert.Equal(t, 1.8, best["sharpe"])

	failed := summary.Cells[2]
	assert.Equal(t, 60.0, failed["window"])
	assert.Equal(t, "window exceeds available bars", failed["error"])
	assert.NotContains(t, failed, "rank")
}

func TestWriteBestConfigJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "best", "config.json")

	best := map[string]interface{}{"window": 40, "entry_threshold": 2.0}
	require.NoError(t, WriteBestConfigJSON(best, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, 40.0, loaded["window"])
	assert.Equal(t, 2.0, loaded["entry_threshold"])
}
