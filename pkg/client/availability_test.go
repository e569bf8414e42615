package client

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func slotGrid(bookingID string) []AvailabilitySlot {
	start := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)
	return []AvailabilitySlot{
		{StartAt: start, EndAt: start.Add(time.Hour), Booked: bookingID != "", BookingID: bookingID},
	}
}

func TestAvailabilityViewRefreshStores(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, slotGrid("b-1"))
	}))
	view := NewAvailabilityView(gw, zerolog.Nop())
	day := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	slots, err := view.Refresh(context.Background(), "r-1", day)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(slots) != 1 || slots[0].BookingID != "b-1" {
		t.Fatalf("unexpected slots: %+v", slots)
	}

	stored, ok := view.Slots("r-1", day)
	if !ok || stored[0].BookingID != "b-1" {
		t.Fatalf("stored = %+v ok=%v", stored, ok)
	}
	if _, ok := view.Slots("r-2", day); ok {
		t.Fatal("unrelated key must stay empty")
	}
}

func TestAvailabilityViewDiscardsStaleResponse(t *testing.T) {
	var requests int32
	firstArrived := make(chan struct{})
	release := make(chan struct{})
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) == 1 {
			close(firstArrived)
			<-release
			writeJSON(t, w, http.StatusOK, slotGrid("stale"))
			return
		}
		writeJSON(t, w, http.StatusOK, slotGrid("fresh"))
	}))
	view := NewAvailabilityView(gw, zerolog.Nop())
	day := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	type result struct {
		slots []AvailabilitySlot
		err   error
	}
	firstDone := make(chan result, 1)
	go func() {
		slots, err := view.Refresh(context.Background(), "r-1", day)
		firstDone <- result{slots, err}
	}()
	<-firstArrived

	// The second refresh supersedes the first while it is still in flight.
	slots, err := view.Refresh(context.Background(), "r-1", day)
	if err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	if slots[0].BookingID != "fresh" {
		t.Fatalf("second refresh slots = %+v", slots)
	}

	close(release)
	first := <-firstDone
	if first.err != nil {
		t.Fatalf("first refresh: %v", first.err)
	}
	if first.slots[0].BookingID != "fresh" {
		t.Fatalf("stale refresh leaked its own data: %+v", first.slots)
	}
	stored, _ := view.Slots("r-1", day)
	if stored[0].BookingID != "fresh" {
		t.Fatalf("stored = %+v, stale response overwrote fresh state", stored)
	}
}

func TestAvailabilityViewRefreshErrorLeavesState(t *testing.T) {
	var fail atomic.Bool
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			writeAPIError(t, w, http.StatusInternalServerError, "INTERNAL_ERROR", "boom", nil)
			return
		}
		writeJSON(t, w, http.StatusOK, slotGrid("b-1"))
	}))
	view := NewAvailabilityView(gw, zerolog.Nop())
	day := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	if _, err := view.Refresh(context.Background(), "r-1", day); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	fail.Store(true)
	if _, err := view.Refresh(context.Background(), "r-1", day); !IsTransient(err) {
		t.Fatalf("err = %v, want transient", err)
	}
	stored, ok := view.Slots("r-1", day)
	if !ok || stored[0].BookingID != "b-1" {
		t.Fatalf("failed refresh must not wipe state: %+v ok=%v", stored, ok)
	}
}

func TestAvailabilityViewInvalidate(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, slotGrid("b-1"))
	}))
	view := NewAvailabilityView(gw, zerolog.Nop())
	day := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	if _, err := view.Refresh(context.Background(), "r-1", day); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	view.Invalidate("r-1", day)
	if _, ok := view.Slots("r-1", day); ok {
		t.Fatal("key still cached after invalidate")
	}
}
