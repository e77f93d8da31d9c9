package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riverai_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "riverai_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	PanicsRecovered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "riverai_panics_recovered_total",
			Help: "Panics recovered in HTTP handlers",
		},
	)

	// Monitor metrics
	MonitorTicks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "riverai_monitor_ticks_total",
			Help: "Breach monitor passes over all industries",
		},
	)

	MonitorCheckDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "riverai_monitor_check_duration_seconds",
			Help:    "Time to check one industry's latest sample",
			Buckets: prometheus.DefBuckets,
		},
	)

	AlertsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riverai_alerts_recorded_total",
			Help: "Alerts inserted, by parameter label",
		},
		[]string{"parameter"},
	)

	AlertsDuplicate = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "riverai_alerts_duplicate_total",
			Help: "Breaches skipped because the alert was already recorded",
		},
	)

	// Notification metrics
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riverai_notifications_total",
			Help: "Outbound emails, by status",
		},
		[]string{"status"}, // sent, failed
	)

	// Ingest metrics
	SamplesIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riverai_samples_ingested_total",
			Help: "Water quality samples stored, by source",
		},
		[]string{"source"}, // mqtt, http
	)

	IngestRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riverai_ingest_rejected_total",
			Help: "Kit messages dropped, by reason",
		},
		[]string{"reason"},
	)
)
