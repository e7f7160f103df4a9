package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-booking-admin/internal/logger"
	"github.com/iliyamo/flight-booking-admin/internal/metrics"
	"github.com/iliyamo/flight-booking-admin/internal/model"
	"github.com/iliyamo/flight-booking-admin/internal/policy"
	"github.com/iliyamo/flight-booking-admin/internal/repository"
	"github.com/iliyamo/flight-booking-admin/internal/utils"
)

const (
	msgBadCredentials  = "Credenciales inválidas"
	msgRegisterDenied  = "Solo administradores pueden registrar usuarios"
	msgUserUpdated     = "Usuario actualizado correctamente"
	msgSessionClosed   = "Sesión cerrada correctamente"
	storageCallTimeout = 5 * time.Second
)

// UsersHandler serves registration, sessions and user administration.
type UsersHandler struct {
	Users      UserStore
	BcryptCost int
	Metrics    *metrics.Metrics
}

func NewUsersHandler(users UserStore, bcryptCost int, m *metrics.Metrics) *UsersHandler {
	return &UsersHandler{Users: users, BcryptCost: bcryptCost, Metrics: m}
}

type registerReq struct {
	Name     string     `json:"name" validate:"required"`
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required"`
	Role     model.Role `json:"role" validate:"required,oneof=administrador gestor"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResp struct {
	Token string     `json:"token"`
	Role  model.Role `json:"role"`
	Name  string     `json:"name"`
}

type updateUserReq struct {
	Name     *string     `json:"name" validate:"omitnil,min=1"`
	Email    *string     `json:"email" validate:"omitnil,email"`
	Password *string     `json:"password" validate:"omitnil,min=1"`
	Role     *model.Role `json:"role" validate:"omitnil,oneof=administrador gestor"`
}

// Register creates a user.  While the users table is empty anyone may
// register (bootstrap); afterwards the caller must be an administrador.
// Two concurrent bootstrap registrations can both pass the count check.
func (h *UsersHandler) Register(c echo.Context, caller *model.User) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), storageCallTimeout)
	defer cancel()

	n, err := h.Users.Count(ctx)
	if err != nil {
		return respondError(c, err)
	}
	if n > 0 && !policy.Authorize(caller, policy.UserRegister) {
		h.authFailure("forbidden")
		return c.JSON(http.StatusForbidden, echo.Map{"error": msgRegisterDenied})
	}

	var req registerReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return respondError(c, err)
	}
	u := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := h.Users.Create(ctx, u); err != nil {
		return respondError(c, err)
	}
	logger.FromCtx(ctx).Info("user registered", "new_user_id", u.ID, "role", u.Role, "bootstrap", n == 0)
	return c.JSON(http.StatusCreated, u)
}

// Login checks credentials and stores a fresh session token, replacing any
// previous one.
func (h *UsersHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), storageCallTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return h.badCredentials(c, slog.String("reason", "unknown email"))
	}
	if err != nil {
		return respondError(c, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return h.badCredentials(c, slog.Uint64("user_id", u.ID))
	}

	token, err := utils.NewSessionToken()
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Users.SetToken(ctx, u.ID, &token); err != nil {
		return respondError(c, err)
	}
	logger.FromCtx(ctx).Info("login", "user_id", u.ID)
	return c.JSON(http.StatusOK, loginResp{Token: token, Role: u.Role, Name: u.Name})
}

// Logout clears the caller's token.  A request already past token
// resolution with the same token may still complete.
func (h *UsersHandler) Logout(c echo.Context, caller *model.User) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), storageCallTimeout)
	defer cancel()

	if err := h.Users.SetToken(ctx, caller.ID, nil); err != nil {
		return respondError(c, err)
	}
	return message(c, msgSessionClosed)
}

func (h *UsersHandler) List(c echo.Context, _ *model.User) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), storageCallTimeout)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// Update applies a partial update.  A new password is hashed before it
// is stored.
func (h *UsersHandler) Update(c echo.Context, _ *model.User) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req updateUserReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	patch := model.UserPatch{Name: req.Name, Email: req.Email, Role: req.Role}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password, h.BcryptCost)
		if err != nil {
			return respondError(c, err)
		}
		patch.PasswordHash = &hash
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storageCallTimeout)
	defer cancel()
	if err := h.Users.Update(ctx, id, patch); err != nil {
		return respondError(c, err)
	}
	return message(c, msgUserUpdated)
}

func (h *UsersHandler) badCredentials(c echo.Context, attr slog.Attr) error {
	h.authFailure("bad_credentials")
	logger.FromCtx(c.Request().Context()).Info("login rejected", attr)
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": msgBadCredentials})
}

func (h *UsersHandler) authFailure(reason string) {
	if h.Metrics != nil {
		h.Metrics.AuthFailures.WithLabelValues(reason).Inc()
	}
}
