package api

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/pynezz/cybermap/internal/dashboard"
	"github.com/pynezz/cybermap/internal/render"
	"github.com/pynezz/cybermap/internal/threat"
	"github.com/pynezz/cybermap/internal/util"
	"github.com/pynezz/cybermap/pkg/model"
)

// shutdownTimeout bounds how long in-flight requests get on shutdown.
const shutdownTimeout = 5 * time.Second

// Controller is the part of the dashboard the HTTP surface drives.
type Controller interface {
	Submit(ctx context.Context, cmd dashboard.Command) (dashboard.Outcome, error)
	Snapshot() render.Frame
}

// Meta describes the closed sets the browser builds its dropdowns from.
type Meta struct {
	Types      []threat.Type     `json:"types"`
	Severities []threat.Severity `json:"severities"`
	Countries  []threat.Country  `json:"countries"`
	IntervalMs int               `json:"interval_ms"`
	Version    string            `json:"version"`
}

type Server struct {
	*fiber.App
	ctrl           Controller
	hub            *Hub
	meta           Meta
	log            *zap.Logger
	commandTimeout time.Duration
}

// NewServer initializes the API server. The hub must also be registered as
// a renderer and alert player of the dashboard so sockets get every frame.
func NewServer(cfg model.NetworkConfig, ctrl Controller, hub *Hub, meta Meta, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	// Configure the fiber server with values from the config file
	app := fiber.New(fiber.Config{
		AppName:               meta.Version,
		ReadTimeout:           time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(cfg.WriteTimeout) * time.Second,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Output: zap.NewStdLog(log.Named("http")).Writer(),
		Format: "${status} ${method} ${path} ${latency}\n",
	}))

	s := &Server{
		App:            app,
		ctrl:           ctrl,
		hub:            hub,
		meta:           meta,
		log:            log,
		commandTimeout: 5 * time.Second,
	}
	s.setupRoutes()
	return s
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() {
		errc <- s.Listen(addr)
	}()
	util.PrintSuccess(fmt.Sprintf("Server listening on http://%s", addr))
	s.log.Info("server started", zap.String("address", addr))

	select {
	case err := <-errc:
		return errors.Wrapf(err, "listen on %s", addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.hub.Close()
	if err := s.ShutdownWithContext(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown server")
	}
	s.log.Info("server stopped")
	return nil
}

// errorHandler maps domain errors onto status codes and always answers JSON.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		switch {
		case errors.As(err, &fe):
			code = fe.Code
		case errors.Is(err, dashboard.ErrInvalidCommand):
			code = fiber.StatusBadRequest
		case errors.Is(err, dashboard.ErrStopped), errors.Is(err, context.DeadlineExceeded):
			code = fiber.StatusServiceUnavailable
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}
}
