package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/juangracia/booking-mvp-case-study/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Gateway is the single path to the booking API. Every request goes through
// it: it attaches the bearer token, bounds the request with a timeout, and
// classifies every outcome into an APIError kind. It never retries.
type Gateway struct {
	baseURL  string
	http     *http.Client
	sessions *SessionStore
	log      zerolog.Logger
}

// GatewayOptions tune the gateway. Zero values pick sane defaults.
type GatewayOptions struct {
	Timeout    time.Duration
	HTTPClient *http.Client
}

func NewGateway(baseURL string, sessions *SessionStore, log zerolog.Logger, opts GatewayOptions) *Gateway {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	if hc.Timeout == 0 {
		hc.Timeout = opts.Timeout
		if hc.Timeout == 0 {
			hc.Timeout = defaultTimeout
		}
	}
	return &Gateway{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     hc,
		sessions: sessions,
		log:      log,
	}
}

// errorEnvelope mirrors the API error body.
type errorEnvelope struct {
	Timestamp        time.Time         `json:"timestamp"`
	Path             string            `json:"path"`
	ErrorCode        string            `json:"errorCode"`
	Message          string            `json:"message"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}

func (g *Gateway) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := g.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess, ok := g.sessions.Current(); ok {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return &APIError{
			Kind:    KindTransient,
			Message: "request failed: " + err.Error(),
			cause:   err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &APIError{
				Kind:    KindTransient,
				Status:  resp.StatusCode,
				Message: "decoding response: " + err.Error(),
				cause:   err,
			}
		}
		return nil
	}
	return g.classify(resp)
}

// classify turns a non-2xx response into a typed error. A 401 resets the
// session store before returning, so by the time the caller sees
// KindUnauthorized the process is already anonymous.
func (g *Gateway) classify(resp *http.Response) error {
	var env errorEnvelope
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := json.Unmarshal(raw, &env); err != nil || env.Message == "" {
		env.Message = http.StatusText(resp.StatusCode)
	}

	apiErr := &APIError{
		Code:    env.ErrorCode,
		Message: env.Message,
		Status:  resp.StatusCode,
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		apiErr.Kind = KindUnauthorized
		if err := g.sessions.Clear(); err != nil {
			g.log.Warn().Err(err).Msg("clearing session after 401 failed")
		}
	case resp.StatusCode == http.StatusForbidden:
		apiErr.Kind = KindForbidden
	case resp.StatusCode == http.StatusNotFound:
		apiErr.Kind = KindNotFound
	case resp.StatusCode == http.StatusConflict:
		apiErr.Kind = KindConflict
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		apiErr.Kind = KindValidation
		apiErr.Fields = env.ValidationErrors
	default:
		apiErr.Kind = KindTransient
	}
	return apiErr
}

type authResponse struct {
	Token string      `json:"token"`
	Type  string      `json:"type"`
	User  domain.User `json:"user"`
}

// Login authenticates and establishes the resulting session.
func (g *Gateway) Login(ctx context.Context, email, password string) (Session, error) {
	var out authResponse
	err := g.do(ctx, http.MethodPost, "/auth/login", nil, map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return Session{}, err
	}
	sess := Session{Token: out.Token, User: out.User}
	if err := g.sessions.Establish(sess); err != nil {
		return Session{}, fmt.Errorf("persisting session: %w", err)
	}
	return sess, nil
}

// Register creates an account and establishes the resulting session. The
// server always grants the USER role here.
func (g *Gateway) Register(ctx context.Context, email, password string) (Session, error) {
	var out authResponse
	err := g.do(ctx, http.MethodPost, "/auth/register", nil, map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return Session{}, err
	}
	sess := Session{Token: out.Token, User: out.User}
	if err := g.sessions.Establish(sess); err != nil {
		return Session{}, fmt.Errorf("persisting session: %w", err)
	}
	return sess, nil
}

// Logout discards the session. Tokens are stateless, so this is purely a
// client-side transition.
func (g *Gateway) Logout() error {
	return g.sessions.Clear()
}

// Me fetches the identity behind the current token.
func (g *Gateway) Me(ctx context.Context) (domain.User, error) {
	var out domain.User
	err := g.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out)
	return out, err
}

// Resources lists active resources.
func (g *Gateway) Resources(ctx context.Context) ([]domain.Resource, error) {
	var out []domain.Resource
	err := g.do(ctx, http.MethodGet, "/resources", nil, nil, &out)
	return out, err
}

// Resource fetches a single resource.
func (g *Gateway) Resource(ctx context.Context, id string) (domain.Resource, error) {
	var out domain.Resource
	err := g.do(ctx, http.MethodGet, "/resources/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

// Availability fetches the slot grid of a resource for one calendar day.
func (g *Gateway) Availability(ctx context.Context, resourceID string, day time.Time) ([]AvailabilitySlot, error) {
	q := url.Values{"date": {day.UTC().Format("2006-01-02")}}
	var out []AvailabilitySlot
	err := g.do(ctx, http.MethodGet, "/resources/"+url.PathEscape(resourceID)+"/availability", q, nil, &out)
	return out, err
}

// MyBookings lists the caller's bookings, newest first.
func (g *Gateway) MyBookings(ctx context.Context) ([]Booking, error) {
	var out []Booking
	err := g.do(ctx, http.MethodGet, "/bookings", nil, nil, &out)
	return out, err
}

// CreateBooking books a resource. The interval is validated locally before
// any network traffic; overlap is not pre-checked, the server decides and a
// losing race comes back as KindConflict.
func (g *Gateway) CreateBooking(ctx context.Context, in BookingRequest) (Booking, error) {
	if _, err := domain.NewTimeRange(in.StartAt, in.EndAt); err != nil {
		return Booking{}, err
	}
	var out Booking
	err := g.do(ctx, http.MethodPost, "/bookings", nil, in, &out)
	return out, err
}

// CancelIntent is a cancellation that passed local checks but has not been
// sent. Commit performs the request, so a caller can put a confirmation step
// between the two.
type CancelIntent struct {
	gateway *Gateway
	booking Booking
	admin   bool
}

func (ci *CancelIntent) Booking() Booking { return ci.booking }

// Commit sends the cancellation and returns the cancelled booking.
func (ci *CancelIntent) Commit(ctx context.Context) (Booking, error) {
	path := "/bookings/" + url.PathEscape(ci.booking.ID)
	if ci.admin {
		path = "/admin/bookings/" + url.PathEscape(ci.booking.ID)
	}
	var out Booking
	err := ci.gateway.do(ctx, http.MethodDelete, path, nil, nil, &out)
	return out, err
}

// BeginCancel checks locally that b can be cancelled by the current session
// and returns the pending intent. State-machine misuse (already cancelled,
// not the owner and not an admin) is caught here without a round trip; the
// server still re-checks on Commit.
func (g *Gateway) BeginCancel(b Booking) (*CancelIntent, error) {
	sess, ok := g.sessions.Current()
	if !ok {
		return nil, domain.ErrForbidden
	}
	if b.Status != domain.StatusActive {
		return nil, domain.ErrBookingNotActive
	}
	admin := sess.User.IsAdmin() && sess.User.ID != b.User.ID
	if !admin && sess.User.ID != b.User.ID {
		return nil, domain.ErrForbidden
	}
	return &CancelIntent{gateway: g, booking: b, admin: admin}, nil
}

// AdminResources lists every resource, active or not.
func (g *Gateway) AdminResources(ctx context.Context) ([]domain.Resource, error) {
	var out []domain.Resource
	err := g.do(ctx, http.MethodGet, "/admin/resources", nil, nil, &out)
	return out, err
}

// CreateResource registers a new bookable resource.
func (g *Gateway) CreateResource(ctx context.Context, in ResourceRequest) (domain.Resource, error) {
	var out domain.Resource
	err := g.do(ctx, http.MethodPost, "/admin/resources", nil, in, &out)
	return out, err
}

// UpdateResource changes name, description or active state of a resource.
func (g *Gateway) UpdateResource(ctx context.Context, id string, in ResourceRequest) (domain.Resource, error) {
	var out domain.Resource
	err := g.do(ctx, http.MethodPut, "/admin/resources/"+url.PathEscape(id), nil, in, &out)
	return out, err
}

// AdminBookings lists bookings across all users, optionally filtered.
func (g *Gateway) AdminBookings(ctx context.Context, filter BookingFilter) ([]Booking, error) {
	q := url.Values{}
	if filter.ResourceID != "" {
		q.Set("resourceId", filter.ResourceID)
	}
	if filter.StartDate != "" {
		q.Set("startDate", filter.StartDate)
	}
	if filter.EndDate != "" {
		q.Set("endDate", filter.EndDate)
	}
	var out []Booking
	err := g.do(ctx, http.MethodGet, "/admin/bookings", q, nil, &out)
	return out, err
}
