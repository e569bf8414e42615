package domain

import (
	"errors"
	"time"
)

var ErrResourceNotFound = errors.New("resource not found")
var ErrResourceInactive = errors.New("cannot book an inactive resource")

// Resource is a bookable asset. Inactive resources are hidden from the
// user-facing browse list and cannot take new bookings, but stay visible to
// admins and remain valid references on existing bookings.
type Resource struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
