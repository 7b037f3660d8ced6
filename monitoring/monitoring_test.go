package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHealthCheckHandler(t *testing.T) {
	m := NewMonitor(func() (uint64, uint64) { return 7, 1 })
	running := true
	m.RegisterHealthCheck("scheduler", func() bool { return running })
	m.RegisterHealthCheck("store", func() bool { return true })

	rec := httptest.NewRecorder()
	m.HealthCheckHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var status HealthStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if status.Status != "ok" || status.Ticks != 7 || status.TickErrors != 1 {
		t.Errorf("unexpected status %+v", status)
	}
	if status.ComponentStatus["scheduler"] != "healthy" {
		t.Errorf("unexpected components %v", status.ComponentStatus)
	}

	running = false
	m.RecordError("Failed to update crypto data")
	rec = httptest.NewRecorder()
	m.HealthCheckHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	status = HealthStatus{}
	json.Unmarshal(rec.Body.Bytes(), &status)
	if status.Status != "degraded" || status.ComponentStatus["scheduler"] != "unhealthy" {
		t.Errorf("unexpected degraded status %+v", status)
	}
	if status.LastError != "Failed to update crypto data" {
		t.Errorf("unexpected last error %q", status.LastError)
	}
}

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(ErrorCounter.WithLabelValues("/api/test"))
	ObserveRequest("/api/test", http.StatusOK, time.Millisecond)
	ObserveRequest("/api/test", http.StatusInternalServerError, time.Millisecond)

	if got := testutil.ToFloat64(ErrorCounter.WithLabelValues("/api/test")); got != before+1 {
		t.Errorf("expected one error, got %v", got-before)
	}
}

func TestCollectSystemMetrics(t *testing.T) {
	collectSystemMetrics()
	if testutil.ToFloat64(GoroutineCount) < 1 {
		t.Error("goroutine gauge not set")
	}
	if testutil.ToFloat64(MemoryUsage) <= 0 {
		t.Error("memory gauge not set")
	}
}

func TestLastErrorFollowsErrorFlag(t *testing.T) {
	m := NewMonitor(nil)
	flag := ""
	m.TrackErrorFlag(func() string { return flag })

	flag = "Failed to update crypto data"
	m.RecordError("update failure on tether: corrupted price")
	if got := m.Status().LastError; got != "update failure on tether: corrupted price" {
		t.Errorf("expected recorded detail, got %q", got)
	}

	// Cleared flag, e.g. through the API, hides the stale detail.
	flag = ""
	if got := m.Status().LastError; got != "" {
		t.Errorf("expected no last error once the flag is cleared, got %q", got)
	}

	flag = "Failed to update crypto data"
	m.RecordError("")
	if got := m.Status().LastError; got != flag {
		t.Errorf("expected the flag message, got %q", got)
	}
}
