package client

import (
	"time"

	"github.com/juangracia/booking-mvp-case-study/internal/core/domain"
)

// Booking is the wire shape returned by the booking endpoints. Unlike the
// server-side model, start and end travel as flat fields.
type Booking struct {
	ID        string               `json:"id"`
	Resource  domain.Resource      `json:"resource"`
	User      domain.User          `json:"user"`
	StartAt   time.Time            `json:"startAt"`
	EndAt     time.Time            `json:"endAt"`
	Status    domain.BookingStatus `json:"status"`
	Notes     string               `json:"notes,omitempty"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// Range rebuilds the half-open interval covered by the booking.
func (b Booking) Range() domain.TimeRange {
	return domain.TimeRange{Start: b.StartAt.UTC(), End: b.EndAt.UTC()}
}

// AvailabilitySlot is one entry of a day grid for a resource.
type AvailabilitySlot struct {
	StartAt   time.Time `json:"startAt"`
	EndAt     time.Time `json:"endAt"`
	Booked    bool      `json:"booked"`
	BookingID string    `json:"bookingId,omitempty"`
}

// Range rebuilds the half-open interval covered by the slot.
func (s AvailabilitySlot) Range() domain.TimeRange {
	return domain.TimeRange{Start: s.StartAt.UTC(), End: s.EndAt.UTC()}
}

// Conflicts reports whether rng overlaps any booked slot. Abutting slots do
// not conflict.
func Conflicts(slots []AvailabilitySlot, rng domain.TimeRange) bool {
	for _, s := range slots {
		if s.Booked && s.Range().Overlaps(rng) {
			return true
		}
	}
	return false
}

// BookingRequest is the payload for creating a booking.
type BookingRequest struct {
	ResourceID string    `json:"resourceId"`
	StartAt    time.Time `json:"startAt"`
	EndAt      time.Time `json:"endAt"`
	Notes      string    `json:"notes,omitempty"`
}

// ResourceRequest is the payload for the admin create/update endpoints.
type ResourceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      *bool  `json:"active,omitempty"`
}

// BookingFilter narrows the admin booking listing.
type BookingFilter struct {
	ResourceID string
	StartDate  string // YYYY-MM-DD, inclusive
	EndDate    string // YYYY-MM-DD, inclusive
}
