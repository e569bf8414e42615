package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/juangracia/booking-mvp-case-study/internal/api/metrics"
	"github.com/juangracia/booking-mvp-case-study/internal/core/ports"
)

// AdminHandler serves resource management and booking oversight. All routes
// sit behind the ADMIN role middleware.
type AdminHandler struct {
	resources ports.ResourceService
	bookings  ports.BookingService
}

func NewAdminHandler(resources ports.ResourceService, bookings ports.BookingService) *AdminHandler {
	return &AdminHandler{resources: resources, bookings: bookings}
}

// ListResources returns every resource, inactive ones included.
func (h *AdminHandler) ListResources(c echo.Context) error {
	resources, err := h.resources.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toResourceResponses(resources))
}

func (h *AdminHandler) CreateResource(c echo.Context) error {
	var req upsertResourceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	resource, err := h.resources.Create(c.Request().Context(), ports.UpsertResourceInput{
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toResourceResponse(resource))
}

func (h *AdminHandler) UpdateResource(c echo.Context) error {
	var req upsertResourceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	resource, err := h.resources.Update(c.Request().Context(), c.Param("id"), ports.UpsertResourceInput{
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toResourceResponse(resource))
}

// ListBookings returns bookings across all users, optionally filtered by
// resource and date window.
func (h *AdminHandler) ListBookings(c echo.Context) error {
	filter := ports.ListBookingsFilter{ResourceID: c.QueryParam("resourceId")}

	if raw := c.QueryParam("startDate"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "startDate must be formatted YYYY-MM-DD")
		}
		filter.StartDate = t
	}
	if raw := c.QueryParam("endDate"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "endDate must be formatted YYYY-MM-DD")
		}
		filter.EndDate = t.AddDate(0, 0, 1) // inclusive end date
	}

	bookings, err := h.bookings.ListAll(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponses(bookings))
}

// CancelBooking is the admin override: cancels any user's ACTIVE booking.
func (h *AdminHandler) CancelBooking(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	booking, err := h.bookings.Cancel(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.BookingsCancelledTotal.WithLabelValues("admin").Inc()
	return c.JSON(http.StatusOK, toBookingResponse(booking))
}
