package domain

import (
	"testing"
	"time"
)

func dayBooking(id string, status BookingStatus, start, end string) *Booking {
	s, _ := time.Parse(time.RFC3339, start)
	e, _ := time.Parse(time.RFC3339, end)
	r, _ := NewTimeRange(s, e)
	return &Booking{ID: id, Range: r, Status: status}
}

func TestDayAvailability_EmptyMeansFullyAvailable(t *testing.T) {
	day := DayRange(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

	slots := DayAvailability(nil, day)
	if len(slots) != 0 {
		t.Fatalf("expected no slots for empty booking set, got %d", len(slots))
	}
}

func TestDayAvailability_ExcludesCancelled(t *testing.T) {
	day := DayRange(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	bookings := []*Booking{
		dayBooking("bk_1", StatusCancelled, "2024-01-02T10:00:00Z", "2024-01-02T11:00:00Z"),
		dayBooking("bk_2", StatusActive, "2024-01-02T14:00:00Z", "2024-01-02T15:00:00Z"),
	}

	slots := DayAvailability(bookings, day)
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if slots[0].BookingID != "bk_2" {
		t.Fatalf("expected slot for bk_2, got %s", slots[0].BookingID)
	}
}

func TestDayAvailability_ExcludesOtherDays(t *testing.T) {
	day := DayRange(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	bookings := []*Booking{
		dayBooking("bk_prev", StatusActive, "2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z"),
		dayBooking("bk_next", StatusActive, "2024-01-03T10:00:00Z", "2024-01-03T11:00:00Z"),
		// midnight abutment: ends exactly at day start, does not intersect
		dayBooking("bk_abut", StatusActive, "2024-01-01T23:00:00Z", "2024-01-02T00:00:00Z"),
		// straddles midnight into the requested day
		dayBooking("bk_straddle", StatusActive, "2024-01-01T23:30:00Z", "2024-01-02T00:30:00Z"),
	}

	slots := DayAvailability(bookings, day)
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if slots[0].BookingID != "bk_straddle" {
		t.Fatalf("expected bk_straddle, got %s", slots[0].BookingID)
	}
}

func TestDayAvailability_SortedByStart(t *testing.T) {
	day := DayRange(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	bookings := []*Booking{
		dayBooking("bk_late", StatusActive, "2024-01-02T16:00:00Z", "2024-01-02T17:00:00Z"),
		dayBooking("bk_early", StatusActive, "2024-01-02T09:00:00Z", "2024-01-02T10:00:00Z"),
		dayBooking("bk_mid", StatusActive, "2024-01-02T12:00:00Z", "2024-01-02T13:00:00Z"),
	}

	slots := DayAvailability(bookings, day)
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	order := []string{"bk_early", "bk_mid", "bk_late"}
	for i, want := range order {
		if slots[i].BookingID != want {
			t.Fatalf("slot %d: expected %s, got %s", i, want, slots[i].BookingID)
		}
		if !slots[i].Booked {
			t.Fatalf("slot %d: expected booked=true", i)
		}
	}
}
