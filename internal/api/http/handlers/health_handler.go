package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/supplier-service/internal/persistence"
)

// HealthHandler exposes liveness and readiness probes.
type HealthHandler struct {
	pg    *persistence.Postgres
	redis *persistence.Redis
}

// NewHealthHandler constructs handler.
func NewHealthHandler(pg *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{pg: pg, redis: redis}
}

// Live handles GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready handles GET /health/ready. Redis is optional, so only the store
// gates readiness.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if h.pg == nil || h.pg.PoolHandle() == nil {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "postgres unavailable"})
	}
	if err := h.pg.PoolHandle().Ping(c.Context()); err != nil {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "postgres unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}
