package main

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// httpRequests counts served requests.
	// Labels: method, status
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookshelf",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total http requests served",
	}, []string{"method", "status"})

	// httpDuration measures the time to serve a request.
	// Labels: method
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bookshelf",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Http request processing latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method"})

	// bookMutations counts committed book mutations.
	// Labels: action (created, updated, deleted, read, rated)
	bookMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookshelf",
		Subsystem: "books",
		Name:      "mutations_total",
		Help:      "Total committed book mutations by action",
	}, []string{"action"})

	// rateLimited counts requests rejected by the rate limiter.
	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bookshelf",
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Total requests rejected by the per client rate limiter",
	})
)

// RecordHTTPRequest records the outcome of a served request.
func RecordHTTPRequest(method string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordBookMutation records a committed book mutation.
func RecordBookMutation(action string) {
	bookMutations.WithLabelValues(action).Inc()
}

// RecordRateLimited records a request rejected by the rate limiter.
func RecordRateLimited() {
	rateLimited.Inc()
}
