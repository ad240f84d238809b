package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// stalledAfter marks a sweep as degraded when no cell finishes within this
// window while the sweep is still running.
const stalledAfter = 5 * time.Minute

type HealthChecker struct {
	mu         sync.RWMutex
	running    bool
	cellsDone  int
	cellsTotal int
	lastCell   time.Time
	errors     []string
}

type HealthStatus struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	SweepRunning   bool      `json:"sweep_running"`
	CellsCompleted int       `json:"cells_completed"`
	CellsTotal     int       `json:"cells_total"`
	LastCell       time.Time `json:"last_cell,omitempty"`
	Uptime         string    `json:"uptime"`
	Errors         []string  `json:"errors,omitempty"`
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		errors: make([]string, 0),
	}
}

// StartSweep marks the sweep as running with the given cell count.
func (h *HealthChecker) StartSweep(totalCells int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.running = true
	h.cellsDone = 0
	h.cellsTotal = totalCells
	h.lastCell = time.Now()
}

// CellCompleted bumps the completed-cell counter.
func (h *HealthChecker) CellCompleted() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cellsDone++
	h.lastCell = time.Now()
}

// FinishSweep marks the sweep as no longer running.
func (h *HealthChecker) FinishSweep() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.running = false
}

// AddError appends a message to the reported error list.
func (h *HealthChecker) AddError(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, msg)
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	code := http.StatusOK
	if h.running && h.cellsDone > 0 && time.Since(h.lastCell) > stalledAfter {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	if len(h.errors) > 0 {
		status = "unhealthy"
		code = http.StatusInternalServerError
	}

	health := HealthStatus{
		Status:         status,
		Timestamp:      time.Now(),
		SweepRunning:   h.running,
		CellsCompleted: h.cellsDone,
		CellsTotal:     h.cellsTotal,
		LastCell:       h.lastCell,
		Uptime:         time.Since(startTime).String(),
		Errors:         h.errors,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(health)
}
