package middleware

// identity.go resolves the raw Authorization header to a stored user.  The
// resolved user is handed to the handler as an argument instead of being
// stashed on the echo context.

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-booking-admin/internal/logger"
	"github.com/iliyamo/flight-booking-admin/internal/metrics"
	"github.com/iliyamo/flight-booking-admin/internal/model"
	"github.com/iliyamo/flight-booking-admin/internal/policy"
	"github.com/iliyamo/flight-booking-admin/internal/repository"
)

// Response messages shared with the handlers.
const (
	MsgTokenMissing = "Token no provisto"
	MsgTokenInvalid = "Token inválido"
	MsgForbidden    = "Acceso denegado"
	MsgInternal     = "Error interno del servidor"
)

// TokenResolver looks up the user currently holding token.  It returns
// repository.ErrNotFound when no user does.
type TokenResolver interface {
	GetByToken(ctx context.Context, token string) (*model.User, error)
}

// AuthedHandler is a handler that receives the resolved caller.  caller is
// nil only for handlers wrapped with Guard.Optional.
type AuthedHandler func(c echo.Context, caller *model.User) error

// Guard wraps handlers with token resolution and the role policy.
type Guard struct {
	users   TokenResolver
	metrics *metrics.Metrics
}

// NewGuard builds a Guard.  m may be nil.
func NewGuard(users TokenResolver, m *metrics.Metrics) *Guard {
	return &Guard{users: users, metrics: m}
}

// Authenticated requires a valid token: missing -> 401, unknown -> 401.
func (g *Guard) Authenticated(h AuthedHandler) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, err := g.resolve(c)
		if caller == nil {
			return err
		}
		return h(c, caller)
	}
}

// Require requires a valid token whose role may perform op; otherwise 403
// and h is never called.
func (g *Guard) Require(op policy.Operation, h AuthedHandler) echo.HandlerFunc {
	return g.Authenticated(func(c echo.Context, caller *model.User) error {
		if !policy.Authorize(caller, op) {
			g.fail("forbidden")
			logger.FromCtx(c.Request().Context()).Info("access denied",
				"user_id", caller.ID, "role", caller.Role, "operation", op,
				"allowed", policy.AllowedRoles(op))
			return c.JSON(http.StatusForbidden, echo.Map{"error": MsgForbidden})
		}
		return h(c, caller)
	})
}

// Optional resolves the token when one is present and valid and passes nil
// otherwise.  Storage failures still produce 500.
func (g *Guard) Optional(h AuthedHandler) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := rawToken(c)
		if token == "" {
			return h(c, nil)
		}
		u, err := g.users.GetByToken(c.Request().Context(), token)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return h(c, nil)
		case err != nil:
			return g.internal(c, err)
		}
		return h(withCaller(c, u), u)
	}
}

// resolve returns the caller, or a nil user once the error response has
// been written.
func (g *Guard) resolve(c echo.Context) (*model.User, error) {
	token := rawToken(c)
	if token == "" {
		g.fail("unauthenticated")
		return nil, c.JSON(http.StatusUnauthorized, echo.Map{"error": MsgTokenMissing})
	}
	u, err := g.users.GetByToken(c.Request().Context(), token)
	if errors.Is(err, repository.ErrNotFound) {
		g.fail("unauthenticated")
		return nil, c.JSON(http.StatusUnauthorized, echo.Map{"error": MsgTokenInvalid})
	}
	if err != nil {
		return nil, g.internal(c, err)
	}
	withCaller(c, u)
	return u, nil
}

func (g *Guard) internal(c echo.Context, err error) error {
	logger.FromCtx(c.Request().Context()).Error("token lookup failed", "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": MsgInternal})
}

func (g *Guard) fail(reason string) {
	if g.metrics != nil {
		g.metrics.AuthFailures.WithLabelValues(reason).Inc()
	}
}

// withCaller tags the request logger with the caller so handler logs carry
// the user id.
func withCaller(c echo.Context, u *model.User) echo.Context {
	req := c.Request()
	log := logger.FromCtx(req.Context()).With("user_id", u.ID, "role", u.Role)
	c.SetRequest(req.WithContext(logger.Inject(req.Context(), log)))
	return c
}

// rawToken returns the Authorization header as-is.  Tokens are sent
// without a scheme.
func rawToken(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
}
