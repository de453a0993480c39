package httpserver

import (
	"net/http"
	"strings"

	"github.com/SeaCloudHub/rembg/adapters/httpserver/model"
	"github.com/SeaCloudHub/rembg/domain/rembg"
	"github.com/SeaCloudHub/rembg/pkg/app"
	"github.com/SeaCloudHub/rembg/pkg/apperror"
	"github.com/SeaCloudHub/rembg/pkg/config"
	"github.com/SeaCloudHub/rembg/pkg/sentry"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

type Options func(s *Server) error

type Server struct {
	router *echo.Echo
	Config *config.Config
	Logger *zap.SugaredLogger

	// services
	RemoverService rembg.Service
}

func WithRemoverService(svc rembg.Service) Options {
	return func(s *Server) error {
		if svc == nil {
			return errors.New("nil background remover")
		}

		s.RemoverService = svc

		return nil
	}
}

func New(cfg *config.Config, logger *zap.SugaredLogger, options ...Options) (*Server, error) {
	s := Server{
		router: echo.New(),
		Config: cfg,
		Logger: logger,
	}

	for _, fn := range options {
		if err := fn(&s); err != nil {
			return nil, err
		}
	}

	s.RegisterGlobalMiddlewares()
	s.RegisterHealthCheck(s.router.Group(""))

	s.RegisterRembgRoutes(s.router.Group("/api"))

	return &s, nil
}

func (s *Server) RegisterGlobalMiddlewares() {
	s.router.Use(middleware.Recover())
	s.router.Use(middleware.Secure())
	s.router.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return ksuid.New().String() },
	}))
	s.router.Use(s.NewAccessLog([]string{"/healthz", "/readyz"}).Middleware())
	s.router.Use(middleware.Gzip())
	s.router.Use(sentryecho.New(sentryecho.Options{Repanic: true}))

	// CORS
	if s.Config.AllowOrigins != "" {
		aos := strings.Split(s.Config.AllowOrigins, ",")
		s.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: aos,
		}))
	}

	if s.Config.BodyLimit != "" {
		s.router.Use(middleware.BodyLimit(s.Config.BodyLimit))
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) RegisterHealthCheck(router *echo.Group) {
	router.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK!!!")
	})

	router.GET("/readyz", func(c echo.Context) error {
		if err := s.RemoverService.Ping(app.NewEchoContextAdapter(c)); err != nil {
			return s.error(c, apperror.ErrServiceUnavailable(err))
		}

		return c.JSON(http.StatusOK, model.StatusResponse{Status: "ok"})
	})
}

// error renders client errors as {"error": ...} and server errors as
// {"message": ...}. Only server errors are logged at error level and
// reported to Sentry.
func (s *Server) error(c echo.Context, err error) error {
	var appErr apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.ErrInternalServer(err)
	}

	if appErr.HTTPCode < http.StatusInternalServerError {
		s.Logger.Debugw(
			err.Error(),
			zap.String("request_id", s.requestID(c)),
			zap.String("code", appErr.ErrorCode),
		)

		return c.JSON(appErr.HTTPCode, model.ErrorResponse{
			Error: appErr.Message,
		})
	}

	s.Logger.Errorw(
		err.Error(),
		zap.String("request_id", s.requestID(c)),
		zap.String("code", appErr.ErrorCode),
	)
	sentry.WithContext(c).Error(err)

	return c.JSON(appErr.HTTPCode, model.FailureResponse{
		Message: appErr.Message,
	})
}

func (s *Server) requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
