package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Sweep metrics
	gridCellsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pairs_lab_grid_cells_total",
			Help: "Total number of grid cells evaluated",
		},
		[]string{"status"},
	)

	cellDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pairs_lab_cell_duration_seconds",
			Help:    "Distribution of per-cell backtest runtimes",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Result metrics
	bestSharpe = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pairs_lab_best_sharpe",
			Help: "Best Sharpe ratio found so far in the sweep",
		},
		[]string{"pair"},
	)

	activeWorkers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pairs_lab_active_workers",
			Help: "Number of workers currently evaluating cells",
		},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pairs_lab_errors_total",
			Help: "Total number of errors",
		},
		[]string{"type"},
	)
)

func init() {
	// Register metrics
	prometheus.MustRegister(gridCellsTotal)
	prometheus.MustRegister(cellDuration)
	prometheus.MustRegister(bestSharpe)
	prometheus.MustRegister(activeWorkers)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler handles Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordCell records one finished grid cell with its runtime
func RecordCell(status string, seconds float64) {
	gridCellsTotal.WithLabelValues(status).Inc()
	cellDuration.Observe(seconds)
}

// UpdateBestSharpe updates the best Sharpe metric for a pair
func UpdateBestSharpe(pair string, sharpe float64) {
	bestSharpe.WithLabelValues(pair).Set(sharpe)
}

// SetActiveWorkers updates the active worker count
func SetActiveWorkers(n int) {
	activeWorkers.Set(float64(n))
}

// RecordError records an error metric
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}
