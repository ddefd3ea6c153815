// Package photoserver provides the photo listing/upload service and a
// state websocket for the conifer scene. The engine consumes only the
// ordered URL list; everything here is an external collaborator to the
// animation core.
package photoserver

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/arborlux/conifer"
	"github.com/arborlux/conifer/internal/log"
)

// StateSnapshot is the scene status pushed over the state websocket
// and returned by the status endpoint.
type StateSnapshot struct {
	State         string  `json:"state"`
	RotationSpeed float64 `json:"rotation_speed"`
	Pipeline      string  `json:"pipeline,omitempty"`
}

// Config configures the photo service.
type Config struct {
	// Dir is the directory uploaded photos are stored in. Created if
	// missing. Existing files seed the photo list in name order.
	Dir string
	// Controller, when set, supplies the state snapshot for the status
	// endpoint and websocket.
	Controller *conifer.Controller
	// PushInterval is the websocket snapshot interval (default 100ms).
	PushInterval time.Duration
}

// Server is the photo listing/upload HTTP service.
type Server struct {
	app *fiber.App
	cfg Config

	mu     sync.RWMutex
	photos []string // ordered file names
}

// New creates the service, seeding the photo list from existing files
// in cfg.Dir sorted by name.
func New(cfg Config) (*Server, error) {
	if cfg.Dir == "" {
		cfg.Dir = "photos"
	}
	if cfg.PushInterval <= 0 {
		cfg.PushInterval = 100 * time.Millisecond
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create photo dir: %w", err)
	}

	s := &Server{cfg: cfg}
	if err := s.scan(); err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:               "conifer photos",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	app.Static("/photos", cfg.Dir)

	api := app.Group("/api")
	api.Get("/photos", s.handleListPhotos)
	api.Post("/photos", s.handleUploadPhoto)
	api.Get("/status", s.handleStatus)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/state", websocket.New(s.handleStateWS))

	s.app = app
	return s, nil
}

// scan seeds the photo list from the storage directory.
func (s *Server) scan() error {
	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		return fmt.Errorf("scan photo dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	s.mu.Lock()
	s.photos = names
	s.mu.Unlock()
	return nil
}

// URLs returns the ordered photo URL list for scene construction.
// May be empty; the engine then simply omits the panel class.
func (s *Server) URLs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	urls := make([]string, len(s.photos))
	for i, name := range s.photos {
		urls[i] = "/photos/" + name
	}
	return urls
}

// SetController attaches the controller supplying state snapshots.
// Covers the construction order where the scene is built from the
// server's URL list, so the controller exists only after New. Call
// before Listen.
func (s *Server) SetController(ctrl *conifer.Controller) {
	s.cfg.Controller = ctrl
}

// App returns the underlying fiber app, used by tests via app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on the given address and blocks.
func (s *Server) Listen(addr string) error {
	log.Info("photo service listening", "addr", addr, "photos", len(s.URLs()))
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the service.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// snapshot builds the current state snapshot.
func (s *Server) snapshot() StateSnapshot {
	snap := StateSnapshot{}
	if ctrl := s.cfg.Controller; ctrl != nil {
		snap.State = ctrl.State().String()
		snap.RotationSpeed = ctrl.RotationSpeed()
		snap.Pipeline = ctrl.Status()
	}
	return snap
}
