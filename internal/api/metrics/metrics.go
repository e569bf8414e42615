// Package metrics defines and registers the custom Prometheus metrics for the
// booking API. It is the single source of truth for metric names, labels, and
// help strings. Registration happens via promauto at package init; request
// latency/throughput comes from the echoprometheus middleware in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "booking"

// BookingsCreatedTotal counts successfully created bookings.
var BookingsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings created.",
	},
)

// BookingsCancelledTotal counts successful cancellations.
// Label:
//   - actor: "owner" or "admin"
var BookingsCancelledTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_cancelled_total",
		Help:      "Total number of bookings cancelled, by acting role.",
	},
	[]string{"actor"},
)

// BookingConflictsTotal counts create attempts rejected because the requested
// slot overlapped an existing ACTIVE booking.
var BookingConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_conflicts_total",
		Help:      "Total number of booking requests rejected due to slot overlap.",
	},
)

// AvailabilityCacheTotal counts availability cache lookups.
// Label:
//   - result: "hit" or "miss"
var AvailabilityCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "availability_cache_total",
		Help:      "Total number of availability cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)
