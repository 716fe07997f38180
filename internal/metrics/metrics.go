// Package metrics provides Prometheus metrics for the catalog service.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Refresh Metrics
	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_refresh_total",
			Help: "Total number of dataset refresh attempts",
		},
		[]string{"trigger", "result"}, // result: "success" or "failed"
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_refresh_duration_seconds",
			Help:    "Time taken to fetch and parse all datasets",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	LastRefreshTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_last_refresh_timestamp_seconds",
			Help: "Unix time of the last successful refresh",
		},
	)

	// Dataset Metrics
	DatasetRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_dataset_rows",
			Help: "Rows in the current snapshot by dataset",
		},
		[]string{"dataset"}, // "cards", "slabs", "value_log"
	)

	DroppedLogRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_value_log_dropped_rows_total",
			Help: "Value log rows dropped because the time did not parse",
		},
	)

	CategoriesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_categories",
			Help: "Number of card categories in the current snapshot",
		},
	)

	// Query Metrics
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_query_duration_seconds",
			Help:    "Time spent running a view query",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"view"}, // "category", "slabs"
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_active_sessions",
			Help: "Browsing sessions currently held in memory",
		},
	)

	// Cert Lookup Metrics
	CertLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cert_lookups_total",
			Help: "Certificate lookups by result",
		},
		[]string{"result"}, // "cache", "success", "failed"
	)

	CertAPILatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_cert_api_latency_seconds",
			Help:    "Certificate API call latency",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5},
		},
	)
)
