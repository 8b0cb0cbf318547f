package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/gompdf/docexport/pkg/api"
)

// maxBodySize bounds request payloads
const maxBodySize = "10M"

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		Debug          bool
		Exporter       *api.Exporter
		Logger         *slog.Logger
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts   *Options
		app    *echo.Echo
		logger *slog.Logger
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	if opts.Exporter == nil {
		opts.Exporter = api.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &server{
		opts:   opts,
		app:    echo.New(),
		logger: logger,
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.HidePort = true
	s.app.Debug = s.opts.Debug

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			LogStatus:   true,
			LogURI:      true,
			LogMethod:   true,
			LogLatency:  true,
			LogError:    true,
			HandleError: true,
			LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
				level := slog.LevelInfo
				attrs := []slog.Attr{
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.Duration("latency", v.Latency),
				}
				if v.Error != nil {
					level = slog.LevelWarn
					attrs = append(attrs, slog.String("err", v.Error.Error()))
				}
				s.logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
				return nil
			},
		}))
	}
	s.app.Use(middleware.Recover())
	s.app.Use(middleware.BodyLimit(maxBodySize))

	v := newValidator()
	s.app.Validator = v
	s.app.HTTPErrorHandler = newHTTPErrorHandler(s.logger, func(fe validator.FieldError) string {
		return fe.Translate(v.translator)
	})

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	registerExportAPI(v1, s.opts.Exporter)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

// Start serves until Stop is called. A clean shutdown returns nil.
func (s *server) Start() error {
	s.logger.Info("starting server", "address", s.opts.Address)
	if err := s.app.Start(s.opts.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server start")
	}
	return nil
}

func (s *server) Stop(ctx context.Context) error {
	s.logger.Info("stopping server")
	return s.app.Shutdown(ctx)
}
