package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthChecker_HealthyWhenIdle(t *testing.T) {
	h := NewHealthChecker()

	status, code := probeHealth(t, h)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", status.Status)
	assert.False(t, status.SweepRunning)
	assert.Equal(t, 0, status.CellsCompleted)
	assert.Empty(t, status.Errors)
	assert.NotEmpty(t, status.Uptime)
}

func TestHealthChecker_TracksSweepProgress(t *testing.T) {
	h := NewHealthChecker()

	h.StartSweep(25)
	h.CellCompleted()
	h.CellCompleted()
	h.CellCompleted()

	status, code := probeHealth(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", status.Status)
	assert.True(t, status.SweepRunning)
	assert.Equal(t, 3, status.CellsCompleted)
	assert.Equal(t, 25, status.CellsTotal)

	h.FinishSweep()
	status, _ = probeHealth(t, h)
	assert.False(t, status.SweepRunning)
}

func TestHealthChecker_DegradedWhenSweepStalls(t *testing.T) {
	h := NewHealthChecker()
	h.StartSweep(25)
	h.CellCompleted()

	// Backdate the last finished cell past the stall window.
	h.mu.Lock()
	h.lastCell = time.Now().Add(-stalledAfter - time.Minute)
	h.mu.Unlock()

	status, code := probeHealth(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", status.Status)
}

func TestHealthChecker_UnhealthyAfterError(t *testing.T) {
	h := NewHealthChecker()
	h.StartSweep(25)
	h.AddError("cell evaluation failed: singular window")

	status, code := probeHealth(t, h)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "unhealthy", status.Status)
	require.Len(t, status.Errors, 1)
	assert.Contains(t, status.Errors[0], "singular window")
}

func probeHealth(t *testing.T, h *HealthChecker) (HealthStatus, int) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var status HealthStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	return status, rec.Code
}
