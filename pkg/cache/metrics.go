package cache

import (
	"house-inventory/pkg/metrics"
)

// Cache labels.
const (
	listCache  = "list"
	houseCache = "house"
)

// Eviction reasons.
const (
	reasonExpired    = "expired"
	reasonSweep      = "sweep"
	reasonInvalidate = "invalidate"
)

//record the duration of a Redis operation with the given label.
func RecordOperationDuration(label string, duration float64) {
	metrics.RedisOperationDuration.WithLabelValues(label).Observe(duration)
}

// increment the error counter for a Redis operation with the given label.
func IncrementError(label string) {
	metrics.RedisErrorsTotal.WithLabelValues(label).Inc()
}

func recordHit(cache string) {
	metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
}

func recordMiss(cache string) {
	metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
}

func recordEvictions(cache, reason string, n int) {
	if n > 0 {
		metrics.CacheEvictionsTotal.WithLabelValues(cache, reason).Add(float64(n))
	}
}
