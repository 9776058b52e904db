// Package metrics defines Prometheus metrics for the back-office service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backoffice_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	ChangesRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_changes_recorded_total",
			Help: "Change records written, by entity type and change type",
		},
		[]string{"entity_type", "change_type"},
	)

	VersionConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_version_conflicts_total",
			Help: "Optimistic-concurrency conflicts, by entity type",
		},
		[]string{"entity_type"},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "backoffice_websocket_connections",
			Help: "Active change-feed websocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		ChangesRecorded, VersionConflicts, WSConnections,
	)
}
