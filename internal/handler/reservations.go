package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-booking-admin/internal/logger"
	"github.com/iliyamo/flight-booking-admin/internal/metrics"
	"github.com/iliyamo/flight-booking-admin/internal/model"
	"github.com/iliyamo/flight-booking-admin/internal/queue"
)

const (
	msgReservationCancelled = "Reserva cancelada"
	publishTimeout          = 5 * time.Second
)

// ReservationHandler serves the gestor reservation workflow.  Events are
// published after the response is decided; publish failures are logged
// and never change the response.
type ReservationHandler struct {
	Reservations ReservationStore
	Events       EventPublisher
	Metrics      *metrics.Metrics

	inflight sync.WaitGroup
}

func NewReservationHandler(r ReservationStore, events EventPublisher, m *metrics.Metrics) *ReservationHandler {
	return &ReservationHandler{Reservations: r, Events: events, Metrics: m}
}

// reservationReq has no user_id: the reservation always belongs to the
// caller, and any user_id in the body is dropped by the decoder.
type reservationReq struct {
	FlightID uint64 `json:"flight_id" validate:"gt=0"`
}

func (h *ReservationHandler) Create(c echo.Context, caller *model.User) error {
	var req reservationReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), storageCallTimeout)
	defer cancel()

	res, err := h.Reservations.Create(ctx, caller.ID, req.FlightID)
	if err != nil {
		return respondError(c, err)
	}
	h.count("created")
	h.publish(ctx, queue.NewReservationEvent(queue.EventReservationCreated,
		res.ID, res.UserID, res.FlightID, string(res.Status)))
	return c.JSON(http.StatusCreated, res)
}

// List returns reservations newest first, optionally for one user_id.
func (h *ReservationHandler) List(c echo.Context, _ *model.User) error {
	var userID *uint64
	if s := strings.TrimSpace(c.QueryParam("user_id")); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return respondError(c, validationError("user_id inválido"))
		}
		userID = &id
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), storageCallTimeout)
	defer cancel()

	list, err := h.Reservations.List(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Cancel moves a reservation from activa to cancelada.  A second cancel
// is a 409.
func (h *ReservationHandler) Cancel(c echo.Context, _ *model.User) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), storageCallTimeout)
	defer cancel()

	if err := h.Reservations.Cancel(ctx, id); err != nil {
		return respondError(c, err)
	}
	h.count("cancelled")
	if res, err := h.Reservations.GetByID(ctx, id); err == nil {
		h.publish(ctx, queue.NewReservationEvent(queue.EventReservationCancelled,
			res.ID, res.UserID, res.FlightID, string(res.Status)))
	} else {
		logger.FromCtx(ctx).Warn("reload cancelled reservation", "reservation_id", id, "err", err)
	}
	return message(c, msgReservationCancelled)
}

func (h *ReservationHandler) publish(ctx context.Context, ev queue.ReservationEvent) {
	if h.Events == nil {
		return
	}
	log := logger.FromCtx(ctx)
	h.inflight.Add(1)
	go func() {
		defer h.inflight.Done()
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := h.Events.PublishReservation(pctx, ev); err != nil {
			log.Warn("reservation event not published", "type", ev.Type, "reservation_id", ev.ReservationID, "err", err)
		}
	}()
}

// Wait blocks until every event handed to the publisher has been sent or
// has failed. Call it after the server stops accepting requests.
func (h *ReservationHandler) Wait() {
	h.inflight.Wait()
}

func (h *ReservationHandler) count(event string) {
	if h.Metrics != nil {
		h.Metrics.Reservations.WithLabelValues(event).Inc()
	}
}
