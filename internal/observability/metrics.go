package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	requestsTotal        *prometheus.CounterVec
	requestLatency       *prometheus.HistogramVec
	requestErrorsTotal   *prometheus.CounterVec
	instructorSyncPasses *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lentera_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		requestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lentera_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		requestErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lentera_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		instructorSyncPasses = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lentera_instructor_sync_passes_total",
			Help: "Completed instructor-name propagation passes, by pass.",
		}, []string{"pass"})

		prometheus.MustRegister(requestsTotal, requestLatency, requestErrorsTotal, instructorSyncPasses)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return requestLatency
}

// Errors exposes the counter for API error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return requestErrorsTotal
}

// InstructorSyncPasses exposes the counter for completed rename passes.
func InstructorSyncPasses() *prometheus.CounterVec {
	RegisterMetrics()
	return instructorSyncPasses
}
