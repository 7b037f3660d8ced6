package monitoring

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"
)

type HealthStatus struct {
	Status          string            `json:"status"`
	Uptime          string            `json:"uptime"`
	StartTime       time.Time         `json:"start_time"`
	MemoryUsage     uint64            `json:"memory_usage"`
	GoroutineCount  int               `json:"goroutine_count"`
	LastError       string            `json:"last_error,omitempty"`
	ComponentStatus map[string]string `json:"component_status"`
	Ticks           uint64            `json:"ticks"`
	TickErrors      uint64            `json:"tick_errors"`
}

// Monitor aggregates component health checks for the /health endpoint.
type Monitor struct {
	startTime time.Time
	stats     func() (uint64, uint64)

	mu        sync.RWMutex
	lastError string
	errorFlag func() string
	checks    map[string]func() bool
}

// NewMonitor creates a monitor. stats, when non-nil, reports tick and error counts.
func NewMonitor(stats func() (uint64, uint64)) *Monitor {
	return &Monitor{
		startTime: time.Now(),
		stats:     stats,
		checks:    make(map[string]func() bool),
	}
}

func (m *Monitor) RegisterHealthCheck(name string, check func() bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks[name] = check
}

// TrackErrorFlag ties the reported last error to flag: while flag returns an
// empty string, no last error is reported.
func (m *Monitor) TrackErrorFlag(flag func() string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorFlag = flag
}

// RecordError keeps the most recent failure for the health report. Empty clears it.
func (m *Monitor) RecordError(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastError = msg
}

// Status runs every registered check. Any failing check degrades the status.
func (m *Monitor) Status() HealthStatus {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	m.mu.RLock()
	names := make([]string, 0, len(m.checks))
	for name := range m.checks {
		names = append(names, name)
	}
	checks := make(map[string]func() bool, len(m.checks))
	for k, v := range m.checks {
		checks[k] = v
	}
	lastError := m.lastError
	flag := m.errorFlag
	m.mu.RUnlock()
	if flag != nil {
		if current := flag(); current == "" {
			lastError = ""
		} else if lastError == "" {
			lastError = current
		}
	}
	sort.Strings(names)

	status := HealthStatus{
		Status:          "ok",
		Uptime:          time.Since(m.startTime).Round(time.Second).String(),
		StartTime:       m.startTime,
		MemoryUsage:     mem.Alloc,
		GoroutineCount:  runtime.NumGoroutine(),
		LastError:       lastError,
		ComponentStatus: make(map[string]string, len(names)),
	}
	if m.stats != nil {
		status.Ticks, status.TickErrors = m.stats()
	}

	for _, name := range names {
		if checks[name]() {
			status.ComponentStatus[name] = "healthy"
		} else {
			status.ComponentStatus[name] = "unhealthy"
			status.Status = "degraded"
		}
	}
	return status
}

// HealthCheckHandler serves Status as JSON; a degraded service answers 503.
func (m *Monitor) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	status := m.Status()

	w.Header().Set("Content-Type", "application/json")
	if status.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(status)
}
