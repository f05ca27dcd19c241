package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/continuum-journal/continuum/internal/config"
	"github.com/continuum-journal/continuum/internal/enrichment"
	"github.com/continuum-journal/continuum/internal/services"
)

// HealthHandler handles the unauthenticated health route
type HealthHandler struct {
	Config *config.Config
	DB     *gorm.DB
	Queue  *enrichment.Queue
}

// GetHealth handles GET /api/health
// @Summary Health check
// @Description Report database, identity provider and queue health
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	result := services.HealthCheck(h.Config, h.DB, h.Queue)
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
