package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	SlotFetches             *prometheus.CounterVec
	SlotFetchesStale        prometheus.Counter
	BookingsSubmitted       *prometheus.CounterVec
	TransitionsRequested    *prometheus.CounterVec
	TransitionsRejected     prometheus.Counter
	OutboxEventsProcessed   prometheus.Counter
	OutboxEventsFailed      prometheus.Counter
	OutboxProcessingLatency prometheus.Histogram
	DatabaseOperations      *prometheus.CounterVec
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		SlotFetches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_fetches_total",
			Help:      "Availability fetches issued to the backend, by outcome",
		}, []string{"status"}),
		SlotFetchesStale: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_fetches_stale_total",
			Help:      "Availability responses discarded for arriving after a newer request",
		}),
		BookingsSubmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_submitted_total",
			Help:      "Booking submissions, by outcome",
		}, []string{"status"}),
		TransitionsRequested: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_transitions_total",
			Help:      "Appointment transition requests, by action and outcome",
		}, []string{"action", "status"}),
		TransitionsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_transitions_rejected_total",
			Help:      "Transition requests rejected by the local guard before any backend call",
		}),
		OutboxEventsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_processed_total",
			Help:      "Outbox events published to the broker",
		}),
		OutboxEventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_failed_total",
			Help:      "Outbox events that exhausted publish retries",
		}),
		OutboxProcessingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outbox_processing_duration_seconds",
			Help:      "Duration of a single outbox drain pass",
			Buckets:   prometheus.DefBuckets,
		}),
		DatabaseOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "database_operations_total",
			Help:      "Database operations, by operation and outcome",
		}, []string{"operation", "status"}),
	}
}
