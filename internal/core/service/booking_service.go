package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/juangracia/booking-mvp-case-study/internal/core/domain"
	"github.com/juangracia/booking-mvp-case-study/internal/core/ports"
)

const defaultMaxDuration = 8 * time.Hour

// AvailabilityCache abstracts the day-projection cache (Redis). All methods
// are best-effort: failures are logged by the service and never surface.
type AvailabilityCache interface {
	Get(ctx context.Context, resourceID string, day time.Time) ([]domain.AvailabilitySlot, bool, error)
	Set(ctx context.Context, resourceID string, day time.Time, slots []domain.AvailabilitySlot) error
	Invalidate(ctx context.Context, resourceID string) error
}

// BookingService implements booking creation, cancellation and the
// availability projection. The persistence layer is authoritative for the
// no-overlapping-active-bookings invariant; this service checks it up front
// to fail fast with a typed error.
type BookingService struct {
	bookings    ports.BookingRepository
	resources   ports.ResourceRepository
	cache       AvailabilityCache // optional
	maxDuration time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

func NewBookingService(
	bookings ports.BookingRepository,
	resources ports.ResourceRepository,
	cache AvailabilityCache,
	maxDuration time.Duration,
	logger zerolog.Logger,
) *BookingService {
	if maxDuration <= 0 {
		maxDuration = defaultMaxDuration
	}
	return &BookingService{
		bookings:    bookings,
		resources:   resources,
		cache:       cache,
		maxDuration: maxDuration,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *BookingService) Create(ctx context.Context, actor ports.Actor, in ports.CreateBookingInput) (*domain.Booking, error) {
	r, err := domain.NewTimeRange(in.StartAt, in.EndAt)
	if err != nil {
		return nil, err
	}
	if r.Duration() > s.maxDuration {
		return nil, domain.ErrDurationExceeded
	}
	if r.Start.Before(s.now().UTC()) {
		return nil, domain.ErrPastStartTime
	}

	resource, err := s.resources.FindByID(ctx, in.ResourceID)
	if err != nil {
		return nil, err
	}
	if !resource.Active {
		return nil, domain.ErrResourceInactive
	}

	overlap, err := s.bookings.ExistsActiveOverlap(ctx, resource.ID, r)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, domain.ErrBookingOverlap
	}

	now := s.now().UTC()
	booking := &domain.Booking{
		ID:        uuid.NewString(),
		Resource:  *resource,
		User:      domain.User{ID: actor.ID, Email: actor.Email, Role: actor.Role},
		Range:     r,
		Status:    domain.StatusActive,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		s.logger.Error().Err(err).Str("resource_id", resource.ID).Msg("failed to create booking")
		return nil, err
	}

	s.invalidateCache(ctx, resource.ID)
	s.logger.Info().
		Str("booking_id", booking.ID).
		Str("resource_id", resource.ID).
		Str("user_id", actor.ID).
		Time("start_at", r.Start).
		Time("end_at", r.End).
		Msg("booking created")

	return booking, nil
}

func (s *BookingService) Cancel(ctx context.Context, actor ports.Actor, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := booking.CancelBy(actor.ID, actor.Role); err != nil {
		return nil, err
	}
	booking.UpdatedAt = s.now().UTC()

	if err := s.bookings.Update(ctx, booking); err != nil {
		s.logger.Error().Err(err).Str("booking_id", bookingID).Msg("failed to cancel booking")
		return nil, err
	}

	s.invalidateCache(ctx, booking.Resource.ID)
	s.logger.Info().
		Str("booking_id", booking.ID).
		Str("cancelled_by", actor.ID).
		Str("actor_role", actor.Role).
		Msg("booking cancelled")

	return booking, nil
}

func (s *BookingService) ListForUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) ListAll(ctx context.Context, filter ports.ListBookingsFilter) ([]*domain.Booking, error) {
	return s.bookings.List(ctx, filter)
}

// Availability returns the occupied slots for a resource on a UTC day.
// The result is a pure projection of the ACTIVE bookings intersecting the
// day; the cache only memoises it and is invalidated on create/cancel.
func (s *BookingService) Availability(ctx context.Context, resourceID string, day time.Time) ([]domain.AvailabilitySlot, error) {
	if _, err := s.resources.FindByID(ctx, resourceID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if slots, ok, err := s.cache.Get(ctx, resourceID, day); err != nil {
			s.logger.Warn().Err(err).Str("resource_id", resourceID).Msg("availability cache read failed")
		} else if ok {
			return slots, nil
		}
	}

	dayRange := domain.DayRange(day)
	bookings, err := s.bookings.ListActiveInRange(ctx, resourceID, dayRange)
	if err != nil {
		return nil, err
	}
	slots := domain.DayAvailability(bookings, dayRange)

	if s.cache != nil {
		if err := s.cache.Set(ctx, resourceID, day, slots); err != nil {
			s.logger.Warn().Err(err).Str("resource_id", resourceID).Msg("availability cache write failed")
		}
	}
	return slots, nil
}

func (s *BookingService) invalidateCache(ctx context.Context, resourceID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, resourceID); err != nil {
		s.logger.Warn().Err(err).Str("resource_id", resourceID).Msg("availability cache invalidation failed")
	}
}
