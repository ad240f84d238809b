package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCell(t *testing.T) {
	okBefore := testutil.ToFloat64(gridCellsTotal.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(gridCellsTotal.WithLabelValues("error"))
	samplesBefore := cellDurationSampleCount(t)

	RecordCell("ok", 0.25)
	RecordCell("error", 1.5)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(gridCellsTotal.WithLabelValues("ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(gridCellsTotal.WithLabelValues("error")))
	assert.Equal(t, samplesBefore+2, cellDurationSampleCount(t))
}

func TestUpdateBestSharpe(t *testing.T) {
	UpdateBestSharpe("ETHUSDT/BTCUSDT", 1.62)
	assert.Equal(t, 1.62, testutil.ToFloat64(bestSharpe.WithLabelValues("ETHUSDT/BTCUSDT")))

	UpdateBestSharpe("ETHUSDT/BTCUSDT", 1.84)
	assert.Equal(t, 1.84, testutil.ToFloat64(bestSharpe.WithLabelValues("ETHUSDT/BTCUSDT")))
}

func TestSetActiveWorkers(t *testing.T) {
	SetActiveWorkers(8)
	assert.Equal(t, 8.0, testutil.ToFloat64(activeWorkers))

	SetActiveWorkers(0)
	assert.Equal(t, 0.0, testutil.ToFloat64(activeWorkers))
}

func TestRecordError(t *testing.T) {
	before := testutil.ToFloat64(errorsTotal.WithLabelValues("data_load"))
	RecordError("data_load")
	assert.Equal(t, before+1, testutil.ToFloat64(errorsTotal.WithLabelValues("data_load")))
}

func TestMetricsHandler_ServesPrometheusFormat(t *testing.T) {
	RecordCell("ok", 0.1)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	NewMetricsHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pairs_lab_grid_cells_total")
	assert.Contains(t, rec.Body.String(), "pairs_lab_cell_duration_seconds")
}

// cellDurationSampleCount reads the histogram's observation count from the
// default gatherer so tests stay independent of run order.
func cellDurationSampleCount(t *testing.T) uint64 {
	t.Helper()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "pairs_lab_cell_duration_seconds" {
			return mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	return 0
}
