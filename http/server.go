// Package http serves the dashboard's REST API.
package http

import (
	"net/http"
	"time"

	"github.com/fuad-daoud/bot-dashboard/bridge"
	"github.com/fuad-daoud/bot-dashboard/logger/dlog"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/net/context"
)

type Server struct {
	echo    *echo.Echo
	service *bridge.Service
	metrics *metrics
}

// NewServer wires the routes. Cross-origin requests are only accepted from origin.
func NewServer(service *bridge.Service, origin string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:    e,
		service: service,
		metrics: newMetrics(),
	}

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			dlog.Info("Got request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			)
			return nil
		},
	}))
	// metrics wraps Recover so panicking requests are counted with their 500
	e.Use(s.metrics.middleware)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			dlog.Error("Recovered from panic",
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"err", err,
				"stack", string(stack),
			)
			return err
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{origin},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/status", s.status)
	s.echo.GET("/servers", s.servers)
	s.echo.GET("/channels/:serverId", s.channels)
	s.echo.GET("/messages/:channelId", s.messages)
	s.echo.POST("/send-message", s.sendMessage)

	s.echo.GET("/health", s.health)
	s.echo.GET("/metrics", echo.WrapHandler(s.metrics.handler()))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start blocks serving addr until Shutdown. It returns http.ErrServerClosed after
// a clean shutdown.
func (s *Server) Start(addr string) error {
	s.echo.Server.ReadHeaderTimeout = 10 * time.Second
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
