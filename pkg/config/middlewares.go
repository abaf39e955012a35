package config

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/op/go-logging"
)

var httpLog = logging.MustGetLogger("HTTP")

// SetupMiddleware installs request logging, panic recovery and CORS
func SetupMiddleware(e *echo.Echo) {
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:     true,
		LogURI:        true,
		LogStatus:     true,
		LogLatency:    true,
		LogRemoteIP:   true,
		LogError:      true,
		HandleError:   true,
		LogValuesFunc: logRequest,
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			"Accept-Language",
			"X-User-Language",
		},
	}))
}

func logRequest(_ echo.Context, v middleware.RequestLoggerValues) error {
	switch {
	case v.Status >= http.StatusInternalServerError:
		httpLog.Errorf("%s %s %d %s %s: %v", v.Method, v.URI, v.Status, v.Latency, v.RemoteIP, v.Error)
	case v.Error != nil:
		httpLog.Warningf("%s %s %d %s %s: %v", v.Method, v.URI, v.Status, v.Latency, v.RemoteIP, v.Error)
	default:
		httpLog.Infof("%s %s %d %s %s", v.Method, v.URI, v.Status, v.Latency, v.RemoteIP)
	}
	return nil
}
