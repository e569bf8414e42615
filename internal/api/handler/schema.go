package handler

import "time"

// --- Request types ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type createBookingRequest struct {
	ResourceID string    `json:"resourceId" validate:"required"`
	StartAt    time.Time `json:"startAt"    validate:"required"`
	EndAt      time.Time `json:"endAt"      validate:"required"`
	Notes      string    `json:"notes"      validate:"max=500"`
}

type upsertResourceRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Active      *bool  `json:"active"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal domain changes.

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type authResponse struct {
	Token string       `json:"token"`
	Type  string       `json:"type"`
	User  userResponse `json:"user"`
}

type resourceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type bookingResponse struct {
	ID        string           `json:"id"`
	Resource  resourceResponse `json:"resource"`
	User      userResponse     `json:"user"`
	StartAt   time.Time        `json:"startAt"`
	EndAt     time.Time        `json:"endAt"`
	Status    string           `json:"status"`
	Notes     string           `json:"notes,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

type availabilitySlotResponse struct {
	StartAt   time.Time `json:"startAt"`
	EndAt     time.Time `json:"endAt"`
	Booked    bool      `json:"booked"`
	BookingID string    `json:"bookingId,omitempty"`
}
