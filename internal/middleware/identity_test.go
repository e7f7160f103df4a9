package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/flight-booking-admin/internal/metrics"
	"github.com/iliyamo/flight-booking-admin/internal/model"
	"github.com/iliyamo/flight-booking-admin/internal/policy"
	"github.com/iliyamo/flight-booking-admin/internal/repository"
)

type fakeResolver struct {
	users map[string]*model.User
	err   error
}

func (f fakeResolver) GetByToken(_ context.Context, token string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

var (
	admin  = &model.User{ID: 1, Role: model.RoleAdministrador}
	gestor = &model.User{ID: 2, Role: model.RoleGestor}
)

func newGuard(m *metrics.Metrics) *Guard {
	return NewGuard(fakeResolver{users: map[string]*model.User{
		"admin-token":  admin,
		"gestor-token": gestor,
	}}, m)
}

func serve(h echo.HandlerFunc, token string) *httptest.ResponseRecorder {
	e := echo.New()
	e.GET("/x", h)
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequire(t *testing.T) {
	tests := []struct {
		name     string
		op       policy.Operation
		token    string
		wantCode int
		wantBody string
		wantCall bool
	}{
		{"missing token", policy.NaveList, "", http.StatusUnauthorized, MsgTokenMissing, false},
		{"unknown token", policy.NaveList, "nope", http.StatusUnauthorized, MsgTokenInvalid, false},
		{"bearer prefix is not stripped", policy.NaveList, "Bearer admin-token", http.StatusUnauthorized, MsgTokenInvalid, false},
		{"admin on admin op", policy.NaveList, "admin-token", http.StatusOK, "", true},
		{"gestor on admin op", policy.NaveCreate, "gestor-token", http.StatusForbidden, MsgForbidden, false},
		{"gestor lists flights", policy.FlightList, "gestor-token", http.StatusOK, "", true},
		{"admin cannot reserve", policy.ReservationCreate, "admin-token", http.StatusForbidden, MsgForbidden, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := newGuard(nil).Require(tt.op, func(c echo.Context, caller *model.User) error {
				called = true
				assert.NotNil(t, caller)
				return c.NoContent(http.StatusOK)
			})
			rec := serve(h, tt.token)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantCall, called)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestAuthenticatedPassesCaller(t *testing.T) {
	var got *model.User
	h := newGuard(nil).Authenticated(func(c echo.Context, caller *model.User) error {
		got = caller
		return c.NoContent(http.StatusOK)
	})
	rec := serve(h, "gestor-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Same(t, gestor, got)
}

func TestOptional(t *testing.T) {
	var got *model.User
	h := newGuard(nil).Optional(func(c echo.Context, caller *model.User) error {
		got = caller
		return c.NoContent(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(h, "").Code)
	assert.Nil(t, got)

	assert.Equal(t, http.StatusOK, serve(h, "nope").Code)
	assert.Nil(t, got)

	assert.Equal(t, http.StatusOK, serve(h, "admin-token").Code)
	assert.Same(t, admin, got)
}

func TestStorageFailureIs500(t *testing.T) {
	g := NewGuard(fakeResolver{err: errors.New("db down")}, nil)
	h := g.Require(policy.NaveList, func(c echo.Context, _ *model.User) error {
		t.Fatal("handler must not run")
		return nil
	})
	rec := serve(h, "admin-token")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}

func TestAuthFailuresCounted(t *testing.T) {
	m := metrics.New("flights")
	g := newGuard(m)
	h := g.Require(policy.NaveDelete, func(c echo.Context, _ *model.User) error { return c.NoContent(http.StatusOK) })

	serve(h, "")
	serve(h, "gestor-token")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthFailures.WithLabelValues("unauthenticated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthFailures.WithLabelValues("forbidden")))
}

func TestDeniedLogNamesAllowedRoles(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	e := echo.New()
	e.Use(InjectLogger(log))
	e.GET("/x", newGuard(nil).Require(policy.NaveDelete, func(c echo.Context, _ *model.User) error {
		return c.NoContent(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(echo.HeaderAuthorization, "gestor-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, buf.String(), `"msg":"access denied"`)
	assert.Contains(t, buf.String(), `"operation":"`+string(policy.NaveDelete)+`"`)
	assert.Contains(t, buf.String(), `"allowed":["administrador"]`)
}
