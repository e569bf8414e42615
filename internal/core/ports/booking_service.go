package ports

import (
	"context"
	"time"

	"github.com/juangracia/booking-mvp-case-study/internal/core/domain"
)

// Actor identifies the authenticated caller of a service operation, as
// extracted from the request's token claims.
type Actor struct {
	ID    string
	Email string
	Role  string
}

// CreateBookingInput carries the create payload for a booking.
type CreateBookingInput struct {
	ResourceID string
	StartAt    time.Time
	EndAt      time.Time
	Notes      string
}

type BookingService interface {
	Create(ctx context.Context, actor Actor, in CreateBookingInput) (*domain.Booking, error)
	// Cancel applies ACTIVE → CANCELLED. Allowed for the booking's owner or
	// an admin; cancelling a non-active booking is an error.
	Cancel(ctx context.Context, actor Actor, bookingID string) (*domain.Booking, error)
	// ListForUser returns the caller's own bookings, newest start first.
	ListForUser(ctx context.Context, userID string) ([]*domain.Booking, error)
	// ListAll returns bookings across all users (admin oversight).
	ListAll(ctx context.Context, filter ListBookingsFilter) ([]*domain.Booking, error)
	// Availability returns the occupied slots for a resource on a UTC day.
	Availability(ctx context.Context, resourceID string, day time.Time) ([]domain.AvailabilitySlot, error)
}
