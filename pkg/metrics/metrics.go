package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gonotes"

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	NoteOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "note_operations_total", Help: "Note service operations by operation and outcome."},
		[]string{"op", "outcome"},
	)
	AuthRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "auth_rejected_total", Help: "Requests rejected by the auth middleware, by reason."},
		[]string{"reason"},
	)
	Requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "The total number of incoming requests."},
		[]string{"method", "route", "status"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of requests in seconds.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"method", "route"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(NoteOperations)
	reg.MustRegister(AuthRejected)
	reg.MustRegister(Requests)
	reg.MustRegister(RequestDuration)
}
