package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-booking-admin/internal/handler"
	"github.com/iliyamo/flight-booking-admin/internal/middleware"
	"github.com/iliyamo/flight-booking-admin/internal/policy"
)

// FlightsHandlers groups the handlers served by the flights service.
type FlightsHandlers struct {
	Naves        *handler.NaveHandler
	Flights      *handler.FlightHandler
	Reservations *handler.ReservationHandler
}

// NewFlightsServer returns the flights service.
func NewFlightsServer(b Base, guard *middleware.Guard, h FlightsHandlers) *echo.Echo {
	e := newEcho(b)
	RegisterFlights(e, guard, h)
	return e
}

// RegisterFlights mounts the aircraft, flight and reservation routes.  Every
// route is gated by the role policy for its operation.
func RegisterFlights(e *echo.Echo, g *middleware.Guard, h FlightsHandlers) {
	// ---- Naves ----
	e.POST("/naves", g.Require(policy.NaveCreate, h.Naves.Create))
	e.GET("/naves", g.Require(policy.NaveList, h.Naves.List))
	e.GET("/naves/:id", g.Require(policy.NaveList, h.Naves.Get))
	e.PUT("/naves/:id", g.Require(policy.NaveUpdate, h.Naves.Update))
	e.DELETE("/naves/:id", g.Require(policy.NaveDelete, h.Naves.Delete))

	// ---- Flights ----
	e.POST("/flights", g.Require(policy.FlightCreate, h.Flights.Create))
	e.GET("/flights", g.Require(policy.FlightList, h.Flights.List))
	e.GET("/flights/:id", g.Require(policy.FlightList, h.Flights.Get))
	e.PUT("/flights/:id", g.Require(policy.FlightUpdate, h.Flights.Update))
	e.DELETE("/flights/:id", g.Require(policy.FlightDelete, h.Flights.Delete))

	// ---- Reservations ----
	e.POST("/reservations", g.Require(policy.ReservationCreate, h.Reservations.Create))
	e.GET("/reservations", g.Require(policy.ReservationList, h.Reservations.List))
	e.PUT("/reservations/:id/cancel", g.Require(policy.ReservationCancel, h.Reservations.Cancel))
}
