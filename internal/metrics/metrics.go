package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arthouse_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arthouse_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	theaterQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arthouse_theater_queries_total",
			Help: "Theater table reads by query name and outcome",
		},
		[]string{"query", "outcome"},
	)

	theaterQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arthouse_theater_query_duration_seconds",
			Help:    "Theater table read duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"query"},
	)

	photosProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arthouse_photos_processed_total",
			Help: "Theaters processed by the photo downloader, by status",
		},
		[]string{"status"},
	)
)

// RecordRequest records one finished HTTP request.
func RecordRequest(method, route, status string, d time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordQuery records one theater read; err decides the outcome label.
func RecordQuery(name string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	theaterQueriesTotal.WithLabelValues(name, outcome).Inc()
	theaterQueryDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}

// RecordPhotoResult counts a downloader result.
func RecordPhotoResult(status string) {
	photosProcessedTotal.WithLabelValues(status).Inc()
}
