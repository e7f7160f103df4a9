package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-booking-admin/internal/model"
)

const (
	msgNaveUpdated = "Nave actualizada"
	msgNaveDeleted = "Nave eliminada"
)

// NaveHandler manages the aircraft inventory.
type NaveHandler struct {
	Naves NaveStore
}

func NewNaveHandler(naves NaveStore) *NaveHandler { return &NaveHandler{Naves: naves} }

type naveReq struct {
	Name     string `json:"name" validate:"required"`
	Model    string `json:"model" validate:"required"`
	Capacity uint32 `json:"capacity" validate:"gt=0"`
}

type naveUpdateReq struct {
	Name     *string `json:"name" validate:"omitnil,min=1"`
	Model    *string `json:"model" validate:"omitnil,min=1"`
	Capacity *uint32 `json:"capacity" validate:"omitnil,gt=0"`
}

func (h *NaveHandler) Create(c echo.Context, _ *model.User) error {
	var req naveReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), storageCallTimeout)
	defer cancel()

	n := &model.Nave{Name: req.Name, Model: req.Model, Capacity: req.Capacity}
	if err := h.Naves.Create(ctx, n); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, n)
}

func (h *NaveHandler) List(c echo.Context, _ *model.User) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), storageCallTimeout)
	defer cancel()

	naves, err := h.Naves.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, naves)
}

func (h *NaveHandler) Get(c echo.Context, _ *model.User) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), storageCallTimeout)
	defer cancel()

	n, err := h.Naves.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *NaveHandler) Update(c echo.Context, _ *model.User) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req naveUpdateReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), storageCallTimeout)
	defer cancel()

	p := model.NavePatch{Name: req.Name, Model: req.Model, Capacity: req.Capacity}
	if err := h.Naves.Update(ctx, id, p); err != nil {
		return respondError(c, err)
	}
	return message(c, msgNaveUpdated)
}

func (h *NaveHandler) Delete(c echo.Context, _ *model.User) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), storageCallTimeout)
	defer cancel()

	if err := h.Naves.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return message(c, msgNaveDeleted)
}
