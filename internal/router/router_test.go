package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flight-booking-admin/internal/config"
	"github.com/iliyamo/flight-booking-admin/internal/handler"
	"github.com/iliyamo/flight-booking-admin/internal/metrics"
	"github.com/iliyamo/flight-booking-admin/internal/middleware"
	"github.com/iliyamo/flight-booking-admin/internal/repository"
	"github.com/iliyamo/flight-booking-admin/internal/service"
)

var fixed = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func servers(t *testing.T) (users, flights *echo.Echo, mock sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	userRepo := repository.NewUserRepo(db)

	ub := Base{Log: log, Metrics: metrics.New("users"), DB: db, RateLimit: config.RateLimitConfig{}}
	users = NewUsersServer(ub, middleware.NewGuard(userRepo, ub.Metrics),
		handler.NewUsersHandler(userRepo, 4, ub.Metrics))

	fb := Base{Log: log, Metrics: metrics.New("flights"), DB: db}
	flights = NewFlightsServer(fb, middleware.NewGuard(userRepo, fb.Metrics), FlightsHandlers{
		Naves:        handler.NewNaveHandler(repository.NewNaveRepo(db)),
		Flights:      handler.NewFlightHandler(repository.NewFlightRepo(db)),
		Reservations: handler.NewReservationHandler(repository.NewReservationRepo(db), service.NopPublisher{}, fb.Metrics),
	})
	return users, flights, mock
}

func call(e *echo.Echo, method, path string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndMetrics(t *testing.T) {
	users, flights, _ := servers(t)
	for _, e := range []*echo.Echo{users, flights} {
		rec := call(e, http.MethodGet, "/healthz", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

		rec = call(e, http.MethodGet, "/metrics", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "booking_http_requests_total")
	}
}

func TestReadyz(t *testing.T) {
	users, _, mock := servers(t)
	mock.ExpectPing()
	assert.Equal(t, http.StatusOK, call(users, http.MethodGet, "/readyz", nil).Code)

	mock.ExpectPing().WillReturnError(assert.AnError)
	assert.Equal(t, http.StatusServiceUnavailable, call(users, http.MethodGet, "/readyz", nil).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreflightBeforeAuth(t *testing.T) {
	_, flights, mock := servers(t)
	for _, path := range []string{"/naves", "/flights/3", "/reservations/1/cancel"} {
		rec := call(flights, http.MethodOptions, path, map[string]string{echo.HeaderOrigin: "http://localhost:3000"})
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	users, flights, mock := servers(t)
	routes := []struct {
		e            *echo.Echo
		method, path string
	}{
		{users, http.MethodPost, "/logout"},
		{users, http.MethodGet, "/users"},
		{users, http.MethodPut, "/users/1"},
		{flights, http.MethodPost, "/naves"},
		{flights, http.MethodGet, "/naves"},
		{flights, http.MethodPut, "/naves/1"},
		{flights, http.MethodDelete, "/naves/1"},
		{flights, http.MethodPost, "/flights"},
		{flights, http.MethodGet, "/flights"},
		{flights, http.MethodPut, "/flights/1"},
		{flights, http.MethodDelete, "/flights/1"},
		{flights, http.MethodPost, "/reservations"},
		{flights, http.MethodGet, "/reservations"},
		{flights, http.MethodPut, "/reservations/1/cancel"},
	}
	for _, r := range routes {
		rec := call(r.e, r.method, r.path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, r.method+" "+r.path)
		assert.JSONEq(t, `{"error":"Token no provisto"}`, rec.Body.String())
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGestorDeniedNaveDelete(t *testing.T) {
	_, flights, mock := servers(t)
	rows := sqlmock.NewRows([]string{"id", "name", "email", "password", "role", "token", "created_at", "updated_at"}).
		AddRow(2, "Gina", "gina@example.com", "hash", "gestor", "tok", fixed, fixed)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE token = ?")).WithArgs("tok").WillReturnRows(rows)

	rec := call(flights, http.MethodDelete, "/naves/1", map[string]string{echo.HeaderAuthorization: "tok"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Acceso denegado"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoutingErrorsUseErrorField(t *testing.T) {
	_, flights, _ := servers(t)
	cases := []struct {
		method, path string
		status       int
	}{
		{http.MethodGet, "/nope", http.StatusNotFound},
		{http.MethodPatch, "/naves", http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		rec := call(flights, tc.method, tc.path, nil)
		assert.Equal(t, tc.status, rec.Code, tc.method+" "+tc.path)
		assert.JSONEq(t, `{"error":"`+http.StatusText(tc.status)+`"}`, rec.Body.String())
	}
}

func TestPanicRendersInternalError(t *testing.T) {
	_, flights, _ := servers(t)
	flights.GET("/boom", func(echo.Context) error { panic("boom") })

	rec := call(flights, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"`+middleware.MsgInternal+`"}`, rec.Body.String())
}
