package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/flight-booking-admin/internal/middleware"
	"github.com/iliyamo/flight-booking-admin/internal/policy"
)

type testAPI struct {
	e            *echo.Echo
	users        *memUsers
	naves        *memNaves
	flights      *memFlights
	reservations *memReservations
	events       *chanPublisher
}

// newTestAPI mounts both services' routes on one echo instance backed by
// in-memory stores.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	a := &testAPI{
		e:       echo.New(),
		users:   newMemUsers(),
		naves:   newMemNaves(),
		flights: newMemFlights(),
		events:  newChanPublisher(),
	}
	a.reservations = newMemReservations(a.flights)
	a.e.Validator = NewValidator()
	g := middleware.NewGuard(a.users, nil)

	uh := NewUsersHandler(a.users, bcrypt.MinCost, nil)
	a.e.POST("/register", g.Optional(uh.Register))
	a.e.POST("/login", uh.Login)
	a.e.POST("/logout", g.Require(policy.SessionLogout, uh.Logout))
	a.e.GET("/users", g.Require(policy.UserList, uh.List))
	a.e.PUT("/users/:id", g.Require(policy.UserUpdate, uh.Update))

	nh := NewNaveHandler(a.naves)
	a.e.POST("/naves", g.Require(policy.NaveCreate, nh.Create))
	a.e.GET("/naves", g.Require(policy.NaveList, nh.List))
	a.e.GET("/naves/:id", g.Require(policy.NaveList, nh.Get))
	a.e.PUT("/naves/:id", g.Require(policy.NaveUpdate, nh.Update))
	a.e.DELETE("/naves/:id", g.Require(policy.NaveDelete, nh.Delete))

	fh := NewFlightHandler(a.flights)
	a.e.POST("/flights", g.Require(policy.FlightCreate, fh.Create))
	a.e.GET("/flights", g.Require(policy.FlightList, fh.List))
	a.e.GET("/flights/:id", g.Require(policy.FlightList, fh.Get))
	a.e.PUT("/flights/:id", g.Require(policy.FlightUpdate, fh.Update))
	a.e.DELETE("/flights/:id", g.Require(policy.FlightDelete, fh.Delete))

	rh := NewReservationHandler(a.reservations, a.events, nil)
	a.e.POST("/reservations", g.Require(policy.ReservationCreate, rh.Create))
	a.e.GET("/reservations", g.Require(policy.ReservationList, rh.List))
	a.e.PUT("/reservations/:id/cancel", g.Require(policy.ReservationCancel, rh.Cancel))
	return a
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	return decode[map[string]string](t, rec)["error"]
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	return decode[map[string]string](t, rec)["message"]
}

