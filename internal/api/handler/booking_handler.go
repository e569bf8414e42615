package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/juangracia/booking-mvp-case-study/internal/api/metrics"
	"github.com/juangracia/booking-mvp-case-study/internal/core/domain"
	"github.com/juangracia/booking-mvp-case-study/internal/core/ports"
)

// BookingHandler serves the caller's own bookings: list, create, cancel.
type BookingHandler struct {
	bookings ports.BookingService
}

func NewBookingHandler(bookings ports.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

func (h *BookingHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	bookings, err := h.bookings.ListForUser(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponses(bookings))
}

func (h *BookingHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	booking, err := h.bookings.Create(c.Request().Context(), actor, ports.CreateBookingInput{
		ResourceID: req.ResourceID,
		StartAt:    req.StartAt,
		EndAt:      req.EndAt,
		Notes:      req.Notes,
	})
	if err != nil {
		if errors.Is(err, domain.ErrBookingOverlap) {
			metrics.BookingConflictsTotal.Inc()
		}
		return err
	}

	metrics.BookingsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toBookingResponse(booking))
}

// Cancel applies ACTIVE → CANCELLED on the caller's own booking. Admins may
// cancel anyone's booking through the same endpoint.
func (h *BookingHandler) Cancel(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	booking, err := h.bookings.Cancel(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	label := "owner"
	if actor.Role == domain.RoleAdmin {
		label = "admin"
	}
	metrics.BookingsCancelledTotal.WithLabelValues(label).Inc()

	return c.JSON(http.StatusOK, toBookingResponse(booking))
}
