package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// GetSpendingSummary returns purchase analytics across all grocery lists
func (h *Handler) GetSpendingSummary(c *fiber.Ctx) error {
	summary, err := h.db.GetSpendingSummary(c.Context())
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to compute spending summary")
	}

	return Success(c, summary)
}

// GetAIUsageStats returns recent daily AI token usage rollups
func (h *Handler) GetAIUsageStats(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	if days < 1 || days > 365 {
		days = 30
	}

	stats, err := h.db.ListAIUsage(c.Context(), days)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to get AI usage stats")
	}

	return Success(c, stats)
}
