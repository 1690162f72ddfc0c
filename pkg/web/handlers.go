package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/eyeguard/pkg/hub"
)

// handleGetData returns {"state", "distance"}; both are null before the
// first frame has been classified.
func (s *Server) handleGetData(c *fiber.Ctx) error {
	return c.JSON(s.store.Snapshot().Payload())
}

// handleStatus returns the full snapshot
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.store.Snapshot())
}

func (s *Server) handleConfig(c *fiber.Ctx) error {
	return c.JSON(s.settings)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	snap := s.store.Snapshot()
	return c.JSON(fiber.Map{
		"ok":      true,
		"ready":   snap.Ready(),
		"uptime":  time.Since(s.started).Round(time.Second).String(),
		"clients": s.hub.ClientCount(),
	})
}

// handleStatusWS streams status and reminder events until the client leaves
func (s *Server) handleStatusWS(c *websocket.Conn) {
	client := hub.NewClient(s.hub, c)
	if client == nil {
		c.Close()
		return
	}
	client.Run()
}
