package handler

import (
	"time"

	"devjobs/internal/database"
	"devjobs/internal/infrastructure/cache"
	"devjobs/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	db    database.DB
	cache *cache.Redis
}

func NewHealthHandler(db database.DB, c *cache.Redis) *HealthHandler {
	return &HealthHandler{db: db, cache: c}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.Health)
}

// Health reports overall service state. The database is required for a
// healthy verdict; the cache is reported but never fails the check.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	dbStatus := "connected"
	healthy := true
	if err := h.db.Ping(c.Context()); err != nil {
		dbStatus = "disconnected"
		healthy = false
	}

	data := map[string]any{
		"status":    "healthy",
		"database":  dbStatus,
		"redis":     h.cache.Status(c.Context()),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if !healthy {
		data["status"] = "unhealthy"
		return response.Error(c, fiber.StatusInternalServerError, "Service unhealthy", data)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}
