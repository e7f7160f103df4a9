package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-booking-admin/internal/model"
)

const (
	msgFlightUpdated = "Vuelo actualizado"
	msgFlightDeleted = "Vuelo eliminado"
	msgArrivalOrder  = "La llegada no puede ser anterior a la salida"
)

// FlightHandler manages flight schedules.
type FlightHandler struct {
	Flights FlightStore
}

func NewFlightHandler(flights FlightStore) *FlightHandler { return &FlightHandler{Flights: flights} }

type flightReq struct {
	NaveID      uint64   `json:"nave_id" validate:"gt=0"`
	Origin      string   `json:"origin" validate:"required"`
	Destination string   `json:"destination" validate:"required"`
	Departure   string   `json:"departure" validate:"required"`
	Arrival     string   `json:"arrival" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
}

type flightUpdateReq struct {
	NaveID      *uint64  `json:"nave_id" validate:"omitnil,gt=0"`
	Origin      *string  `json:"origin" validate:"omitnil,min=1"`
	Destination *string  `json:"destination" validate:"omitnil,min=1"`
	Departure   *string  `json:"departure"`
	Arrival     *string  `json:"arrival"`
	Price       *float64 `json:"price" validate:"omitnil,gte=0"`
}

func (h *FlightHandler) Create(c echo.Context, _ *model.User) error {
	var req flightReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	dep, err := parseTimestamp("departure", req.Departure)
	if err != nil {
		return respondError(c, err)
	}
	arr, err := parseTimestamp("arrival", req.Arrival)
	if err != nil {
		return respondError(c, err)
	}
	if arr.Before(dep) {
		return respondError(c, validationError(msgArrivalOrder))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storageCallTimeout)
	defer cancel()
	f := &model.Flight{
		NaveID:      req.NaveID,
		Origin:      req.Origin,
		Destination: req.Destination,
		Departure:   dep,
		Arrival:     arr,
		Price:       *req.Price,
	}
	if err := h.Flights.Create(ctx, f); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, f)
}

// List filters by the origin, destination and date query parameters.
// Blank parameters are ignored.
func (h *FlightHandler) List(c echo.Context, _ *model.User) error {
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return respondError(c, err)
	}
	filter := model.FlightFilter{
		Origin:      strings.TrimSpace(c.QueryParam("origin")),
		Destination: strings.TrimSpace(c.QueryParam("destination")),
		Date:        date,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storageCallTimeout)
	defer cancel()
	flights, err := h.Flights.List(ctx, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, flights)
}

func (h *FlightHandler) Get(c echo.Context, _ *model.User) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), storageCallTimeout)
	defer cancel()

	f, err := h.Flights.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

// Update applies a partial update.  When only one of departure/arrival
// changes, ordering is checked against the stored value of the other.
func (h *FlightHandler) Update(c echo.Context, _ *model.User) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req flightUpdateReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	p := model.FlightPatch{
		NaveID:      req.NaveID,
		Origin:      req.Origin,
		Destination: req.Destination,
		Price:       req.Price,
	}
	if req.Departure != nil {
		t, err := parseTimestamp("departure", *req.Departure)
		if err != nil {
			return respondError(c, err)
		}
		p.Departure = &t
	}
	if req.Arrival != nil {
		t, err := parseTimestamp("arrival", *req.Arrival)
		if err != nil {
			return respondError(c, err)
		}
		p.Arrival = &t
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storageCallTimeout)
	defer cancel()
	if p.Departure != nil || p.Arrival != nil {
		if err := h.checkOrder(ctx, id, p.Departure, p.Arrival); err != nil {
			return respondError(c, err)
		}
	}
	if err := h.Flights.Update(ctx, id, p); err != nil {
		return respondError(c, err)
	}
	return message(c, msgFlightUpdated)
}

func (h *FlightHandler) checkOrder(ctx context.Context, id uint64, dep, arr *time.Time) error {
	if dep == nil || arr == nil {
		cur, err := h.Flights.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if dep == nil {
			dep = &cur.Departure
		}
		if arr == nil {
			arr = &cur.Arrival
		}
	}
	if arr.Before(*dep) {
		return validationError(msgArrivalOrder)
	}
	return nil
}

func (h *FlightHandler) Delete(c echo.Context, _ *model.User) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), storageCallTimeout)
	defer cancel()

	if err := h.Flights.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return message(c, msgFlightDeleted)
}
