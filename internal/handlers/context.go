package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/finmate/backend/internal/middleware"
	"github.com/labstack/echo/v4"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("API")

// getUserIDFromContext returns the authenticated caller, or "" when the
// request carries no identity
func getUserIDFromContext(c echo.Context) string {
	if claims := middleware.CurrentUser(c); claims != nil {
		return claims.UserID
	}
	return ""
}

// HTTPErrorHandler renders every error as {"error": message}. Errors that are
// not *echo.HTTPError, and any internal cause, are logged and reported as 500.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
		if he.Internal != nil {
			log.Errorf("%s %s: %s: %v", c.Request().Method, c.Path(), message, he.Internal)
		}
	} else {
		log.Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, echo.Map{"error": message})
	}
	if err != nil {
		log.Errorf("Failed to write error response: %v", err)
	}
}
