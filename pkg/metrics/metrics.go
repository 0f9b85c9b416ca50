package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Custom histogram buckets sized for backend API response times from
	// milliseconds to 30+ seconds
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34, 55}

	// Backend API client metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "learn_client_request_duration_seconds",
			Help:    "LEARN backend request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	APIRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learn_client_request_total",
			Help: "Total number of LEARN backend requests",
		},
		[]string{"operation", "status"},
	)

	// Catalog cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learn_client_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learn_client_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "learn_client_cache_entries",
			Help: "Number of entries in cache",
		},
		[]string{"cache_name"},
	)

	// Favourite reconciliation metrics
	FavoriteToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learn_client_favorite_toggles_total",
			Help: "Total number of favourite toggle attempts",
		},
		[]string{"kind", "status"},
	)
)

// MeasureDuration returns the elapsed time since start in seconds
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
