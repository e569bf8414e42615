package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/juangracia/booking-mvp-case-study/internal/core/ports"
)

// ResourceHandler serves the user-facing resource views: browse, detail and
// day availability.
type ResourceHandler struct {
	resources ports.ResourceService
	bookings  ports.BookingService
}

func NewResourceHandler(resources ports.ResourceService, bookings ports.BookingService) *ResourceHandler {
	return &ResourceHandler{resources: resources, bookings: bookings}
}

func (h *ResourceHandler) List(c echo.Context) error {
	resources, err := h.resources.Browse(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toResourceResponses(resources))
}

func (h *ResourceHandler) Get(c echo.Context) error {
	resource, err := h.resources.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toResourceResponse(resource))
}

// Availability returns the occupied slots for a resource on one UTC day.
// The date query parameter is mandatory and formatted YYYY-MM-DD.
func (h *ResourceHandler) Availability(c echo.Context) error {
	rawDate := c.QueryParam("date")
	if rawDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date query parameter is required")
	}
	day, err := time.ParseInLocation("2006-01-02", rawDate, time.UTC)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
	}

	slots, err := h.bookings.Availability(c.Request().Context(), c.Param("id"), day)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAvailabilityResponses(slots))
}
