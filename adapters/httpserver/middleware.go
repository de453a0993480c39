package httpserver

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// AccessLog writes one line per request. Paths starting with any of
// SkipperPath are not logged.
type AccessLog struct {
	SkipperPath []string

	server *Server
}

func (s *Server) NewAccessLog(skipperPath []string) *AccessLog {
	return &AccessLog{
		SkipperPath: skipperPath,
		server:      s,
	}
}

func (a *AccessLog) Middleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return containFirst(a.SkipperPath, c.Request().URL.Path)
		},
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			a.server.Logger.Infow("request",
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("path", v.URIPath),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)

			return nil
		},
	})
}

func containFirst(elems []string, v string) bool {
	for _, s := range elems {
		if strings.HasPrefix(v, s) {
			return true
		}
	}

	return false
}
