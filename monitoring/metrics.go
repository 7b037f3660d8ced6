package monitoring

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const CollectInterval = 5 * time.Second

var (
	// Request latency
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cryptoflow_http_request_duration_seconds",
		Help:    "Time taken to serve API requests",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"route"})

	// Error rates
	ErrorCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptoflow_http_errors_total",
		Help: "Total number of API errors by route",
	}, []string{"route"})

	// System resources
	MemoryUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cryptoflow_memory_bytes",
		Help: "Current memory usage in bytes",
	})

	GoroutineCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cryptoflow_goroutines",
		Help: "Current number of goroutines",
	})
)

// StartMetricsCollection samples runtime gauges every CollectInterval until ctx ends.
func StartMetricsCollection(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(CollectInterval)
		defer ticker.Stop()

		collectSystemMetrics()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				collectSystemMetrics()
			}
		}
	}()
}

func collectSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	MemoryUsage.Set(float64(m.Alloc))
	GoroutineCount.Set(float64(runtime.NumGoroutine()))
}

// ObserveRequest records the latency of one API call, counting 5xx answers as errors.
func ObserveRequest(route string, status int, d time.Duration) {
	RequestDuration.WithLabelValues(route).Observe(d.Seconds())
	if status >= 500 {
		ErrorCounter.WithLabelValues(route).Inc()
	}
}
