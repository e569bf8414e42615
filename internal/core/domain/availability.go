package domain

import "sort"

// AvailabilitySlot is one occupied interval on a resource's day. Derived,
// never stored: it must be recomputed whenever the booking set changes.
type AvailabilitySlot struct {
	Range     TimeRange `json:"range"`
	Booked    bool      `json:"booked"`
	BookingID string    `json:"bookingId,omitempty"`
}

// DayAvailability projects a resource's known bookings onto the UTC day
// containing `day`: ACTIVE bookings whose range intersects the day, sorted by
// start, one booked slot each. An empty result means the day is fully
// available. The projection reports occupancy only; overlap enforcement
// stays with the persistence engine.
func DayAvailability(bookings []*Booking, day TimeRange) []AvailabilitySlot {
	slots := make([]AvailabilitySlot, 0, len(bookings))
	for _, b := range bookings {
		if b.Status != StatusActive {
			continue
		}
		if !b.Range.Overlaps(day) {
			continue
		}
		slots = append(slots, AvailabilitySlot{
			Range:     b.Range,
			Booked:    true,
			BookingID: b.ID,
		})
	}
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Range.Start.Before(slots[j].Range.Start)
	})
	return slots
}
