package geoproc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatch outcomes for the requests_total counter.
const (
	outcomeSuccess     = "success"
	outcomeTransport   = "transport_error"
	outcomeApplication = "application_error"
	outcomeOther       = "error"
)

var (
	// dispatchRequests counts dispatches by algorithm and outcome.
	dispatchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "terrainmcp_geoproc_requests_total",
			Help: "Total geoprocessing dispatches by algorithm and outcome",
		},
		[]string{"algorithm", "outcome"},
	)

	// dispatchDuration tracks end-to-end dispatch latency, including
	// retries and backoff sleeps.
	dispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "terrainmcp_geoproc_request_duration_seconds",
			Help:    "End-to-end geoprocessing dispatch duration by algorithm",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 14),
		},
		[]string{"algorithm"},
	)

	// dispatchRetries counts retry attempts by algorithm.
	dispatchRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "terrainmcp_geoproc_retries_total",
			Help: "Total geoprocessing retry attempts by algorithm",
		},
		[]string{"algorithm"},
	)

	// backoffSeconds accumulates time spent in backoff sleeps.
	backoffSeconds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "terrainmcp_geoproc_backoff_seconds_total",
			Help: "Total time spent sleeping between retry attempts",
		},
	)
)

// recordDispatch records one completed dispatch.
func recordDispatch(algorithm, outcome string, duration time.Duration) {
	dispatchRequests.WithLabelValues(algorithm, outcome).Inc()
	dispatchDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
}

// recordRetry records one retry attempt and its backoff delay.
func recordRetry(algorithm string, delay time.Duration) {
	dispatchRetries.WithLabelValues(algorithm).Inc()
	backoffSeconds.Add(delay.Seconds())
}

// outcomeFor maps a dispatch error to its metrics outcome label.
func outcomeFor(err error) string {
	switch {
	case IsApplicationError(err):
		return outcomeApplication
	case IsTransportError(err):
		return outcomeTransport
	default:
		return outcomeOther
	}
}
