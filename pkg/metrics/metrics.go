package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gps_monitor"

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)

	// Dashboard metrics
	UnitsByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "units",
			Help:      "Units in the latest snapshot by status",
		},
		[]string{"status"},
	)

	UnacknowledgedAlerts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unacknowledged_alerts",
			Help:      "Unacknowledged alerts in the latest snapshot",
		},
	)

	RefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refreshes_total",
			Help:      "Dashboard refreshes by trigger and outcome",
		},
		[]string{"trigger", "status"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Data provider call duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Snapshot cache lookups by result",
		},
		[]string{"key", "result"},
	)

	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Connected WebSocket clients",
		},
	)
)

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordProviderCall records a data provider call
func RecordProviderCall(operation string, err error, duration time.Duration) {
	ProviderRequestDuration.WithLabelValues(operation, outcome(err)).Observe(duration.Seconds())
}

func RecordRefresh(trigger string, err error) {
	RefreshesTotal.WithLabelValues(trigger, outcome(err)).Inc()
}

func RecordCacheLookup(key string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(key, result).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
