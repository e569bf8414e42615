package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/juangracia/booking-mvp-case-study/internal/core/domain"
)

func newTestGateway(t *testing.T, handler http.Handler) (*Gateway, *SessionStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store, _ := newTestStore(t)
	gw := NewGateway(srv.URL, store, zerolog.Nop(), GatewayOptions{Timeout: 2 * time.Second})
	return gw, store
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("encoding response: %v", err)
	}
}

func writeAPIError(t *testing.T, w http.ResponseWriter, status int, code, message string, fields map[string]string) {
	t.Helper()
	writeJSON(t, w, status, errorEnvelope{
		Timestamp:        time.Now().UTC(),
		Path:             "/test",
		ErrorCode:        code,
		Message:          message,
		ValidationErrors: fields,
	})
}

func TestGatewayLoginEstablishesSession(t *testing.T) {
	gw, store := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var in map[string]string
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decoding login body: %v", err)
		}
		if in["email"] != "user@example.com" {
			t.Errorf("email = %q", in["email"])
		}
		writeJSON(t, w, http.StatusOK, authResponse{
			Token: "tok-abc",
			Type:  "Bearer",
			User:  domain.User{ID: "u-1", Email: "user@example.com", Role: domain.RoleUser},
		})
	}))

	sess, err := gw.Login(context.Background(), "user@example.com", "user123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Token != "tok-abc" {
		t.Fatalf("token = %q", sess.Token)
	}
	if !store.Authenticated() {
		t.Fatal("session not established in store")
	}
}

func TestGatewayAttachesBearerToken(t *testing.T) {
	var gotAuth string
	gw, store := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(t, w, http.StatusOK, domain.User{ID: "u-1"})
	}))
	if err := store.Establish(testSession()); err != nil {
		t.Fatalf("establish: %v", err)
	}

	if _, err := gw.Me(context.Background()); err != nil {
		t.Fatalf("me: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
}

func TestGatewayAnonymousSendsNoToken(t *testing.T) {
	var gotAuth string
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(t, w, http.StatusOK, []domain.Resource{})
	}))

	if _, err := gw.Resources(context.Background()); err != nil {
		t.Fatalf("resources: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("Authorization = %q, want empty", gotAuth)
	}
}

func TestGatewayUnauthorizedClearsSession(t *testing.T) {
	gw, store := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(t, w, http.StatusUnauthorized, "UNAUTHORIZED", "token expired", nil)
	}))
	if err := store.Establish(testSession()); err != nil {
		t.Fatalf("establish: %v", err)
	}

	_, err := gw.Me(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("kind = %q, want unauthorized", ErrorKind(err))
	}
	if store.Authenticated() {
		t.Fatal("session must be cleared after a 401")
	}
}

func TestGatewayClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		code     string
		fields   map[string]string
		wantKind Kind
	}{
		{"forbidden", http.StatusForbidden, "FORBIDDEN", nil, KindForbidden},
		{"not found", http.StatusNotFound, "RESOURCE_NOT_FOUND", nil, KindNotFound},
		{"overlap conflict", http.StatusConflict, "BOOKING_OVERLAP", nil, KindConflict},
		{"field validation", http.StatusBadRequest, "VALIDATION_ERROR", map[string]string{"email": "must be a valid email address"}, KindValidation},
		{"domain rejection", http.StatusBadRequest, "PAST_START_TIME", nil, KindValidation},
		{"server failure", http.StatusInternalServerError, "INTERNAL_ERROR", nil, KindTransient},
		{"bad gateway", http.StatusBadGateway, "", nil, KindTransient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeAPIError(t, w, tt.status, tt.code, "rejected", tt.fields)
			}))

			_, err := gw.Resources(context.Background())
			var ae *APIError
			if !errors.As(err, &ae) {
				t.Fatalf("error %v is not an APIError", err)
			}
			if ae.Kind != tt.wantKind {
				t.Fatalf("kind = %q, want %q", ae.Kind, tt.wantKind)
			}
			if ae.Code != tt.code {
				t.Fatalf("code = %q, want %q", ae.Code, tt.code)
			}
			if len(tt.fields) > 0 && ae.Fields["email"] != tt.fields["email"] {
				t.Fatalf("fields = %v", ae.Fields)
			}
		})
	}
}

func TestGatewayNetworkFailureIsTransient(t *testing.T) {
	store, _ := newTestStore(t)
	if err := store.Establish(testSession()); err != nil {
		t.Fatalf("establish: %v", err)
	}
	gw := NewGateway("http://127.0.0.1:1", store, zerolog.Nop(), GatewayOptions{Timeout: time.Second})

	_, err := gw.Resources(context.Background())
	if !IsTransient(err) {
		t.Fatalf("kind = %q, want transient", ErrorKind(err))
	}
	if !store.Authenticated() {
		t.Fatal("transport failure must not touch the session")
	}
}

func TestGatewayNonEnvelopeErrorBody(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("upstream down"))
	}))

	_, err := gw.Resources(context.Background())
	var ae *APIError
	if !errors.As(err, &ae) {
		t.Fatalf("error %v is not an APIError", err)
	}
	if ae.Kind != KindTransient || ae.Message == "" {
		t.Fatalf("unexpected error: %+v", ae)
	}
}

func TestGatewayCreateBookingValidatesRangeLocally(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the server")
	}))

	start := time.Date(2026, 9, 2, 11, 0, 0, 0, time.UTC)
	_, err := gw.CreateBooking(context.Background(), BookingRequest{
		ResourceID: "r-1",
		StartAt:    start,
		EndAt:      start.Add(-time.Hour),
	})
	if !errors.Is(err, domain.ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
}

func sampleClientBooking(ownerID string) Booking {
	start := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	return Booking{
		ID:       "b-1",
		Resource: domain.Resource{ID: "r-1", Name: "Room A", Active: true},
		User:     domain.User{ID: ownerID, Email: "user@example.com", Role: domain.RoleUser},
		StartAt:  start,
		EndAt:    start.Add(time.Hour),
		Status:   domain.StatusActive,
	}
}

func TestGatewayBeginCancelOwner(t *testing.T) {
	var gotPath string
	gw, store := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b := sampleClientBooking("u-1")
		b.Status = domain.StatusCancelled
		writeJSON(t, w, http.StatusOK, b)
	}))
	if err := store.Establish(testSession()); err != nil {
		t.Fatalf("establish: %v", err)
	}

	intent, err := gw.BeginCancel(sampleClientBooking("u-1"))
	if err != nil {
		t.Fatalf("begin cancel: %v", err)
	}
	cancelled, err := intent.Commit(context.Background())
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if gotPath != "/bookings/b-1" {
		t.Fatalf("path = %q", gotPath)
	}
	if cancelled.Status != domain.StatusCancelled {
		t.Fatalf("status = %q", cancelled.Status)
	}
}

func TestGatewayBeginCancelAdminUsesAdminRoute(t *testing.T) {
	var gotPath string
	gw, store := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeJSON(t, w, http.StatusOK, sampleClientBooking("u-1"))
	}))
	sess := testSession()
	sess.User.ID = "u-admin"
	sess.User.Role = domain.RoleAdmin
	if err := store.Establish(sess); err != nil {
		t.Fatalf("establish: %v", err)
	}

	intent, err := gw.BeginCancel(sampleClientBooking("u-1"))
	if err != nil {
		t.Fatalf("begin cancel: %v", err)
	}
	if _, err := intent.Commit(context.Background()); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if gotPath != "/admin/bookings/b-1" {
		t.Fatalf("path = %q", gotPath)
	}
}

func TestGatewayBeginCancelRejectsLocally(t *testing.T) {
	gw, store := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the server")
	}))
	if err := store.Establish(testSession()); err != nil {
		t.Fatalf("establish: %v", err)
	}

	t.Run("not the owner", func(t *testing.T) {
		if _, err := gw.BeginCancel(sampleClientBooking("u-other")); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
	})
	t.Run("already cancelled", func(t *testing.T) {
		b := sampleClientBooking("u-1")
		b.Status = domain.StatusCancelled
		if _, err := gw.BeginCancel(b); !errors.Is(err, domain.ErrBookingNotActive) {
			t.Fatalf("err = %v, want ErrBookingNotActive", err)
		}
	})
}

func TestGatewayAvailabilityQuery(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/resources/r-1/availability" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("date"); got != "2026-09-02" {
			t.Errorf("date = %q", got)
		}
		start := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)
		writeJSON(t, w, http.StatusOK, []AvailabilitySlot{
			{StartAt: start, EndAt: start.Add(time.Hour), Booked: true, BookingID: "b-1"},
			{StartAt: start.Add(time.Hour), EndAt: start.Add(2 * time.Hour)},
		})
	}))

	day := time.Date(2026, 9, 2, 15, 30, 0, 0, time.UTC)
	slots, err := gw.Availability(context.Background(), "r-1", day)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if len(slots) != 2 || !slots[0].Booked || slots[1].Booked {
		t.Fatalf("unexpected slots: %+v", slots)
	}
}

func TestGatewayAdminBookingsFilter(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("resourceId") != "r-1" || q.Get("startDate") != "2026-09-01" || q.Get("endDate") != "2026-09-07" {
			t.Errorf("query = %v", q)
		}
		writeJSON(t, w, http.StatusOK, []Booking{sampleClientBooking("u-1")})
	}))

	got, err := gw.AdminBookings(context.Background(), BookingFilter{
		ResourceID: "r-1",
		StartDate:  "2026-09-01",
		EndDate:    "2026-09-07",
	})
	if err != nil {
		t.Fatalf("admin bookings: %v", err)
	}
	if len(got) != 1 || got[0].ID != "b-1" {
		t.Fatalf("unexpected bookings: %+v", got)
	}
}
