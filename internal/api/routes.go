package api

import (
	"context"
	_ "embed"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/pynezz/cybermap/internal/dashboard"
	"github.com/pynezz/cybermap/internal/export"
	"github.com/pynezz/cybermap/internal/filter"
)

//go:embed web/index.html
var indexHTML []byte

// CommandRequest is the body of POST /api/v1/commands.
type CommandRequest struct {
	Command  string `json:"command"`
	Severity string `json:"severity"`
	Type     string `json:"type"`
	Search   string `json:"search"`
	Enabled  *bool  `json:"enabled"`
}

// ToCommand converts the request into a validated dashboard command.
func (r CommandRequest) ToCommand() (dashboard.Command, error) {
	kind, err := dashboard.ParseKind(r.Command)
	if err != nil {
		return dashboard.Command{}, err
	}

	cmd := dashboard.Command{Kind: kind}
	switch kind {
	case dashboard.SetFilter:
		cmd = dashboard.NewSetFilter(filter.Criteria{Severity: r.Severity, Type: r.Type, Search: r.Search})
	case dashboard.SetSound:
		if r.Enabled == nil {
			return dashboard.Command{}, errors.Wrap(dashboard.ErrInvalidCommand, "set_sound needs enabled")
		}
		cmd = dashboard.NewSetSound(*r.Enabled)
	}
	return cmd, cmd.Validate()
}

// setupRoutes configures all the routes for the API server.
func (s *Server) setupRoutes() {
	s.Get("/", indexHandler)
	s.Get("/health", s.healthHandler)

	v1 := s.Group("/api/v1")
	v1.Get("/frame", s.frameHandler)
	v1.Get("/meta", s.metaHandler)
	v1.Get("/export", s.exportHandler)
	v1.Post("/commands", s.commandHandler)

	s.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.Get("/ws", websocket.New(s.hub.Handler(s.ctrl.Snapshot)))
}

func indexHandler(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.Send(indexHTML)
}

func (s *Server) healthHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "version": s.meta.Version, "viewers": s.hub.Len()})
}

func (s *Server) frameHandler(c *fiber.Ctx) error {
	return c.JSON(s.ctrl.Snapshot())
}

func (s *Server) metaHandler(c *fiber.Ctx) error {
	return c.JSON(s.meta)
}

func (s *Server) commandHandler(c *fiber.Ctx) error {
	var req CommandRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.Mark(errors.Wrap(err, "parse command"), dashboard.ErrInvalidCommand)
	}
	cmd, err := req.ToCommand()
	if err != nil {
		return err
	}

	out, err := s.submit(c, cmd)
	if err != nil {
		return err
	}
	if cmd.Kind == dashboard.Export {
		return sendExport(c, out)
	}
	return c.JSON(out.Frame)
}

func (s *Server) exportHandler(c *fiber.Ctx) error {
	out, err := s.submit(c, dashboard.NewExport())
	if err != nil {
		return err
	}
	return sendExport(c, out)
}

func (s *Server) submit(c *fiber.Ctx, cmd dashboard.Command) (dashboard.Outcome, error) {
	ctx, cancel := context.WithTimeout(c.UserContext(), s.commandTimeout)
	defer cancel()
	return s.ctrl.Submit(ctx, cmd)
}

func sendExport(c *fiber.Ctx, out dashboard.Outcome) error {
	c.Attachment(out.Filename)
	c.Set(fiber.HeaderContentType, export.ContentType)
	return c.Send(out.Export)
}
