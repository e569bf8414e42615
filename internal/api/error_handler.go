package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/juangracia/booking-mvp-case-study/internal/api/handler"
	"github.com/juangracia/booking-mvp-case-study/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Timestamp        time.Time         `json:"timestamp"`
	Path             string            `json:"path"`
	ErrorCode        string            `json:"errorCode"`
	Message          string            `json:"message"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to deterministic HTTP statuses and machine-readable codes.
//   - Renders validation failures with a field → message map.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, resp := resolveError(err, log, c)
		resp.Timestamp = time.Now().UTC()
		resp.Path = c.Request().URL.Path
		_ = c.JSON(status, resp)
	}
}

// domainError pairs a sentinel with its wire representation.
type domainError struct {
	sentinel error
	status   int
	code     string
}

var domainErrors = []domainError{
	{domain.ErrInvalidRange, http.StatusBadRequest, "INVALID_TIME_RANGE"},
	{domain.ErrDurationExceeded, http.StatusBadRequest, "DURATION_EXCEEDED"},
	{domain.ErrPastStartTime, http.StatusBadRequest, "PAST_START_TIME"},
	{domain.ErrResourceInactive, http.StatusBadRequest, "RESOURCE_INACTIVE"},
	{domain.ErrBookingNotActive, http.StatusBadRequest, "INVALID_STATUS"},
	{domain.ErrBookingOverlap, http.StatusConflict, "BOOKING_OVERLAP"},
	{domain.ErrEmailExists, http.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{domain.ErrResourceNotFound, http.StatusNotFound, "RESOURCE_NOT_FOUND"},
	{domain.ErrBookingNotFound, http.StatusNotFound, "BOOKING_NOT_FOUND"},
	{domain.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Validation failures carry a field map.
	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{
			ErrorCode:        "VALIDATION_ERROR",
			Message:          "Validation failed",
			ValidationErrors: ve.Fields,
		}
	}

	for _, de := range domainErrors {
		if errors.Is(err, de.sentinel) {
			return de.status, errorResponse{ErrorCode: de.code, Message: de.sentinel.Error()}
		}
	}

	// Echo's own errors (bind failures, 404 from router, auth middleware).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{
			ErrorCode: httpErrorCode(he.Code),
			Message:   fmt.Sprintf("%v", he.Message),
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{
		ErrorCode: "INTERNAL_ERROR",
		Message:   "internal server error",
	}
}

func httpErrorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	default:
		return "HTTP_ERROR"
	}
}
