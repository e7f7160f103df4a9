package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-booking-admin/internal/handler"
	"github.com/iliyamo/flight-booking-admin/internal/middleware"
	"github.com/iliyamo/flight-booking-admin/internal/policy"
)

// NewUsersServer returns the users service.
func NewUsersServer(b Base, guard *middleware.Guard, h *handler.UsersHandler) *echo.Echo {
	e := newEcho(b)
	RegisterUsers(e, guard, h)
	return e
}

// RegisterUsers mounts registration, session and user administration
// routes.  /register resolves a token when present; the handler decides
// whether it is required.
func RegisterUsers(e *echo.Echo, g *middleware.Guard, h *handler.UsersHandler) {
	e.POST("/register", g.Optional(h.Register))
	e.POST("/login", h.Login)
	e.POST("/logout", g.Require(policy.SessionLogout, h.Logout))
	e.GET("/users", g.Require(policy.UserList, h.List))
	e.PUT("/users/:id", g.Require(policy.UserUpdate, h.Update))
}
