package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-booking-admin/internal/logger"
	"github.com/iliyamo/flight-booking-admin/internal/middleware"
	"github.com/iliyamo/flight-booking-admin/internal/repository"
)

const (
	msgNotFound      = "Recurso no encontrado"
	msgEmailExists   = "El email ya está registrado"
	msgFlightMissing = "Vuelo inexistente"
	msgAlreadyCancel = "La reserva ya está cancelada"
	msgInvalidID     = "Identificador inválido"
)

// respondError maps err to a status and writes {"error": ...}.  Anything
// unrecognised is logged and answered with a generic 500.
func respondError(c echo.Context, err error) error {
	var ve validationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": msgNotFound})
	case errors.Is(err, repository.ErrInvalidReference):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgFlightMissing})
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": msgEmailExists})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": msgAlreadyCancel})
	}
	logger.FromCtx(c.Request().Context()).Error("request failed",
		"method", c.Request().Method, "route", c.Path(), "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": middleware.MsgInternal})
}

func message(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, validationError(msgInvalidID)
	}
	return id, nil
}
