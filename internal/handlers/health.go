package handlers

import (
	"fintrack-backend/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health reports that the process is up.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return ok(c, "OK", fiber.Map{"status": "healthy"})
}

// Ready reports whether the database is reachable.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if err := database.Ping(h.db); err != nil {
		log.Warn().Err(err).Msg("Readiness check failed")
		return fiber.NewError(fiber.StatusServiceUnavailable, "Database unavailable")
	}
	return ok(c, "Ready", fiber.Map{"status": "ready"})
}
