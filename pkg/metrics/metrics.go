package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "shareit_booking"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		},
		[]string{"route", "method", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	bookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "Booking lifecycle events by resulting status.",
		},
		[]string{"status"},
	)

	eventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Kafka events published by topic, type and outcome.",
		},
		[]string{"topic", "type", "ok"},
	)

	eventsConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_consumed_total",
			Help:      "Kafka events consumed by type and outcome.",
		},
		[]string{"type", "ok"},
	)
)

// Register registers all collectors with the default registry. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, bookingTransitions, eventsPublished, eventsConsumed)
	})
}

// ObserveHTTP records one served request.
func ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// IncBookingTransition counts a booking entering status ("DELETED" for removals).
func IncBookingTransition(status string) {
	bookingTransitions.WithLabelValues(status).Inc()
}

// ObserveEventPublished counts one publish attempt.
func ObserveEventPublished(topic, eventType string, ok bool) {
	eventsPublished.WithLabelValues(topic, eventType, strconv.FormatBool(ok)).Inc()
}

// ObserveEventConsumed counts one handled message.
func ObserveEventConsumed(eventType string, ok bool) {
	eventsConsumed.WithLabelValues(eventType, strconv.FormatBool(ok)).Inc()
}
