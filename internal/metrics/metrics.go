// Package metrics holds the Prometheus collectors of the booking engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusOK       = "ok"
	StatusRejected = "rejected"
	StatusError    = "error"
)

var (
	operations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_operations_total",
			Help: "Booking engine operations by outcome",
		},
		[]string{"operation", "status"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booking_operation_duration_seconds",
			Help:    "Duration of booking engine operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	holdLifetime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booking_hold_lifetime_seconds",
			Help:    "Time between hold creation and its confirmation, release or expiry",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
		[]string{"outcome"},
	)

	swept = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_swept_total",
			Help: "Holds and shows removed by the expiry sweeper",
		},
		[]string{"kind"},
	)

	publishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_ticket_publish_failures_total",
			Help: "Ticket events that could not be published",
		},
	)
)

// TrackOperation records the outcome and duration of one engine operation.
func TrackOperation(operation, status string, started time.Time) {
	operations.WithLabelValues(operation, status).Inc()
	operationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func TrackHoldLifetime(outcome string, lifetime time.Duration) {
	holdLifetime.WithLabelValues(outcome).Observe(lifetime.Seconds())
}

func TrackSwept(kind string, count int) {
	swept.WithLabelValues(kind).Add(float64(count))
}

func TrackPublishFailure() {
	publishFailures.Inc()
}
