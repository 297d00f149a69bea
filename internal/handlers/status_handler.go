package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-optimizer/internal/middleware"
	"alfredoptarigan/resume-optimizer/internal/models"
)

type StatusHandler struct {
	metrics *middleware.Metrics
}

func NewStatusHandler(metrics *middleware.Metrics) *StatusHandler {
	return &StatusHandler{metrics: metrics}
}

// HandleStatus handles GET /api
func (h *StatusHandler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(models.StatusResponse{
		Message: "Resume Optimizer API is running",
		Status:  "active",
	})
}

// HandleMetrics handles GET /api/metrics
func (h *StatusHandler) HandleMetrics(c *fiber.Ctx) error {
	return c.JSON(h.metrics.Snapshot())
}
