package handler

import (
	"github.com/juangracia/booking-mvp-case-study/internal/core/domain"
)

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func toResourceResponse(r *domain.Resource) resourceResponse {
	return resourceResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Active:      r.Active,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toResourceResponses(resources []*domain.Resource) []resourceResponse {
	out := make([]resourceResponse, 0, len(resources))
	for _, r := range resources {
		out = append(out, toResourceResponse(r))
	}
	return out
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:        b.ID,
		Resource:  toResourceResponse(&b.Resource),
		User:      toUserResponse(&b.User),
		StartAt:   b.Range.Start,
		EndAt:     b.Range.End,
		Status:    string(b.Status),
		Notes:     b.Notes,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func toBookingResponses(bookings []*domain.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	return out
}

func toAvailabilityResponses(slots []domain.AvailabilitySlot) []availabilitySlotResponse {
	out := make([]availabilitySlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, availabilitySlotResponse{
			StartAt:   s.Range.Start,
			EndAt:     s.Range.End,
			Booked:    s.Booked,
			BookingID: s.BookingID,
		})
	}
	return out
}
