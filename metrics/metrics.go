package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookora_bookings_created_total",
		Help: "Bookings successfully created, by source.",
	}, []string{"source"})

	BookingConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookora_booking_conflicts_total",
		Help: "Booking attempts rejected by the conflict guard.",
	})

	SlotQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookora_slot_queries_total",
		Help: "Availability computations served.",
	})

	VerificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookora_phone_verification_failures_total",
		Help: "Rejected phone verification attempts.",
	})
)
