package domain

import (
	"errors"
	"time"
)

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	StatusActive    BookingStatus = "ACTIVE"
	StatusCancelled BookingStatus = "CANCELLED"
)

// validTransitions defines the allowed state machine transitions.
// CANCELLED is terminal: cancellation frees the slot permanently.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusActive: {StatusCancelled},
}

var ErrBookingNotFound = errors.New("booking not found")
var ErrBookingNotActive = errors.New("only active bookings can be cancelled")
var ErrBookingOverlap = errors.New("the requested time slot overlaps with an existing booking")
var ErrDurationExceeded = errors.New("booking duration exceeds the maximum allowed")
var ErrPastStartTime = errors.New("start time must be in the future")

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking reserves a resource for a time range on behalf of a user.
// System-wide invariant: no two ACTIVE bookings for the same resource may
// have overlapping ranges. CANCELLED bookings are excluded from it.
type Booking struct {
	ID        string        `json:"id"`
	Resource  Resource      `json:"resource"`
	User      User          `json:"user"`
	Range     TimeRange     `json:"range"`
	Status    BookingStatus `json:"status"`
	Notes     string        `json:"notes,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// MayCancel is the cancellation permission predicate: the booking's owner or
// any admin may cancel.
func (b *Booking) MayCancel(actorID, actorRole string) bool {
	return actorRole == RoleAdmin || b.User.ID == actorID
}

// CancelBy applies the single legal transition ACTIVE → CANCELLED on behalf
// of the given actor. Cancelling an already-cancelled booking is a caller
// error, not a no-op: it signals the caller acted on stale state.
func (b *Booking) CancelBy(actorID, actorRole string) error {
	if !b.MayCancel(actorID, actorRole) {
		return ErrForbidden
	}
	if !b.Status.CanTransitionTo(StatusCancelled) {
		return ErrBookingNotActive
	}
	b.Status = StatusCancelled
	return nil
}
