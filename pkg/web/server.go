// Package web serves the current distance status over HTTP and websocket.
package web

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"

	"github.com/teslashibe/eyeguard/internal/log"
	"github.com/teslashibe/eyeguard/pkg/distance"
	"github.com/teslashibe/eyeguard/pkg/hub"
	"github.com/teslashibe/eyeguard/pkg/metrics"
	"github.com/teslashibe/eyeguard/pkg/reminder"
	"github.com/teslashibe/eyeguard/pkg/status"
)

// ShutdownTimeout bounds how long Shutdown waits for open requests.
const ShutdownTimeout = 5 * time.Second

// Settings is the active classification setup reported on /api/config.
type Settings struct {
	Thresholds distance.Thresholds `json:"thresholds"`
	Policy     distance.Policy     `json:"policy"`
	Reminder   reminder.Config     `json:"reminder"`
}

// Options configure a Server. Store is required.
type Options struct {
	Port     string
	Store    *status.Store
	Metrics  *metrics.Metrics
	Settings Settings
}

// Server is the status server.
type Server struct {
	app      *fiber.App
	port     string
	store    *status.Store
	settings Settings
	hub      *hub.Hub
	started  time.Time
}

// NewServer builds the fiber app and its routes.
func NewServer(opts Options) *Server {
	s := &Server{
		port:     opts.Port,
		store:    opts.Store,
		settings: opts.Settings,
		hub:      hub.New("status"),
		started:  time.Now(),
	}

	app := fiber.New(fiber.Config{
		AppName:               "eyeguard",
		DisableStartupMessage: true,
		JSONEncoder:           jsoniter.Marshal,
		JSONDecoder:           jsoniter.Unmarshal,
	})

	app.Use(cors.New())

	app.Get("/get-data", s.handleGetData)
	app.Get("/healthz", s.handleHealth)

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/config", s.handleConfig)

	if opts.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics.Handler()))
	}

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	s.app = app
	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Port returns the listen port.
func (s *Server) Port() string {
	return s.port
}

// Hub returns the status hub.
func (s *Server) Hub() *hub.Hub {
	return s.hub
}

// Start runs the hub until ctx is done and serves until Shutdown.
func (s *Server) Start(ctx context.Context) error {
	log.Info("status server listening", "url", fmt.Sprintf("http://localhost:%s", s.port))
	go s.hub.Run(ctx)
	return s.app.Listen(":" + s.port)
}

// StartAsync starts the server in a goroutine. Listen errors are logged.
func (s *Server) StartAsync(ctx context.Context) {
	go func() {
		if err := s.Start(ctx); err != nil {
			log.Error("status server stopped", "error", err)
		}
	}()
}

// Shutdown stops accepting connections and waits for open requests.
func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(ShutdownTimeout)
}

// PublishStatus pushes a snapshot to websocket clients. It is meant to be
// installed as status.Store.OnUpdate.
func (s *Server) PublishStatus(snap status.Snapshot) {
	if err := s.hub.Publish(hub.EventStatus, snap); err != nil {
		log.Warn("publish status", "error", err)
	}
}

// Notify pushes a reminder to websocket clients.
func (s *Server) Notify(r reminder.Reminder) {
	if err := s.hub.Publish(hub.EventReminder, r); err != nil {
		log.Warn("publish reminder", "error", err)
	}
}
