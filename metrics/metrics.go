package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Prometheus metrics
	ticksMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cryptoflow_ticks_total",
		Help: "The total number of applied market ticks",
	})

	tickErrorsMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cryptoflow_tick_errors_total",
		Help: "Total number of ticks that failed and were skipped",
	})

	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cryptoflow_tick_duration_seconds",
		Help:    "Time spent applying each tick",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
	})

	coinPrice = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cryptoflow_coin_price",
		Help: "Last simulated price per coin",
	}, []string{"id"})

	feedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cryptoflow_feed_clients",
		Help: "Connected websocket feed clients",
	})

	// Internal counters
	ticks      uint64
	errorCount uint64
	mu         sync.RWMutex
	lastTick   time.Time
	startTime  = time.Now()
)

func IncrementTicks() {
	atomic.AddUint64(&ticks, 1)
	ticksMetric.Inc()
	mu.Lock()
	lastTick = time.Now()
	mu.Unlock()
}

func IncrementErrors() {
	atomic.AddUint64(&errorCount, 1)
	tickErrorsMetric.Inc()
}

func RecordTickDuration(d time.Duration) {
	tickDuration.Observe(d.Seconds())
}

func SetCoinPrice(id string, price float64) {
	coinPrice.WithLabelValues(id).Set(price)
}

func SetFeedClients(n int) {
	feedClients.Set(float64(n))
}

// GetStats returns ticks, errors, the time of the last tick and uptime.
func GetStats() (uint64, uint64, time.Time, time.Duration) {
	mu.RLock()
	last := lastTick
	mu.RUnlock()
	return atomic.LoadUint64(&ticks),
		atomic.LoadUint64(&errorCount),
		last,
		time.Since(startTime)
}
