package photoserver

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/arborlux/conifer/internal/log"
)

// allowedExtensions for uploads. Anything else is rejected.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// handleListPhotos returns the ordered photo URL list.
func (s *Server) handleListPhotos(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"photos": s.URLs()})
}

// handleUploadPhoto stores a multipart "photo" file under a fresh uuid
// name and appends it to the ordered list.
func (s *Server) handleUploadPhoto(c *fiber.Ctx) error {
	file, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing photo file",
		})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
			"error": "unsupported file type " + ext,
		})
	}

	name := uuid.NewString() + ext
	if err := c.SaveFile(file, filepath.Join(s.cfg.Dir, name)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "store photo: " + err.Error(),
		})
	}

	s.mu.Lock()
	s.photos = append(s.photos, name)
	count := len(s.photos)
	s.mu.Unlock()

	log.Info("photo uploaded", "name", name, "count", count)
	return c.JSON(fiber.Map{"url": "/photos/" + name})
}

// handleStatus returns the current scene state snapshot.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.snapshot())
}

// handleStateWS streams state snapshots at the configured interval
// until the client goes away.
func (s *Server) handleStateWS(c *websocket.Conn) {
	defer c.Close()
	ticker := time.NewTicker(s.cfg.PushInterval)
	defer ticker.Stop()

	for range ticker.C {
		if err := c.WriteJSON(s.snapshot()); err != nil {
			return
		}
	}
}
