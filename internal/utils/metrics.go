package utils

import (
	"strconv"
	"time"

	"house-inventory/pkg/metrics"
)

func RecordUpstreamRequest(method, endpoint string, status int, start time.Time) {
	metrics.UpstreamRequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(method, endpoint, label).Inc()
}

func RecordTokenRefresh(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.TokenRefreshTotal.WithLabelValues(result).Inc()
}
