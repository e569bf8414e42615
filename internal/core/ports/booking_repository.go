package ports

import (
	"context"
	"time"

	"github.com/juangracia/booking-mvp-case-study/internal/core/domain"
)

// ListBookingsFilter carries the query parameters for the admin booking list.
// All fields are optional; zero values mean "no filter".
type ListBookingsFilter struct {
	ResourceID string
	StartDate  time.Time // range.end > StartDate
	EndDate    time.Time // range.start < EndDate
}

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	Update(ctx context.Context, b *domain.Booking) error
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	// ListByUser returns the user's bookings, newest start first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error)
	// List returns all bookings matching filter, newest start first.
	List(ctx context.Context, filter ListBookingsFilter) ([]*domain.Booking, error)
	// ListActiveInRange returns the resource's ACTIVE bookings whose range
	// overlaps r, ordered by range start.
	ListActiveInRange(ctx context.Context, resourceID string, r domain.TimeRange) ([]*domain.Booking, error)
	// ExistsActiveOverlap reports whether any ACTIVE booking on the resource
	// overlaps r under half-open semantics (abutment is not overlap).
	ExistsActiveOverlap(ctx context.Context, resourceID string, r domain.TimeRange) (bool, error)
}
