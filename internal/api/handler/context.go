package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/juangracia/booking-mvp-case-study/internal/core/ports"
)

// ctxActor extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: a non-empty user id and
// role prove the middleware ran and the token was structurally usable.
func ctxActor(c echo.Context) (ports.Actor, error) {
	id, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if id == "" || role == "" {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	email, _ := c.Get("email").(string)
	return ports.Actor{ID: id, Email: email, Role: role}, nil
}
