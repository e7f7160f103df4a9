package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-booking-admin/internal/logger"
	"github.com/iliyamo/flight-booking-admin/internal/middleware"
)

// httpErrorHandler renders errors that escape the handlers (unknown
// routes, wrong methods, recovered panics) with the same {"error": ...}
// body the handlers use.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := middleware.MsgInternal

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		} else {
			msg = fmt.Sprint(he.Message)
		}
	} else {
		logger.FromCtx(c.Request().Context()).Error("unhandled error",
			"method", c.Request().Method, "path", c.Path(), "err", err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, map[string]string{"error": msg})
	}
	if werr != nil {
		logger.FromCtx(c.Request().Context()).Error("write error response", "err", werr)
	}
}
