package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/membercat-studios/membercat-bot/internal/cache"
	"github.com/membercat-studios/membercat-bot/internal/observability"
)

// StatsHandler exposes in-process counters for operators.
type StatsHandler struct {
	metrics *observability.Metrics
	cache   cache.Cache
}

// NewStatsHandler returns a new handler instance.
func NewStatsHandler(metrics *observability.Metrics, c cache.Cache) *StatsHandler {
	return &StatsHandler{metrics: metrics, cache: c}
}

// Stats reports command, error and worker counters plus cache occupancy.
func (h *StatsHandler) Stats(c *fiber.Ctx) error {
	commands, errors, workers := h.metrics.Snapshot()
	return c.JSON(fiber.Map{
		"commands": commands,
		"errors":   errors,
		"workers":  workers,
		"cache": fiber.Map{
			"entries": h.cache.Size(c.UserContext()),
		},
	})
}
