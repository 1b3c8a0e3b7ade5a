package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"go-bizman-ws/internal/service"
)

type DashboardHandler struct {
	dashboard service.DashboardService
}

func NewDashboardHandler(dashboard service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Overview returns the tenant's headline numbers for a date range.
// GET /api/v1/dashboard/overview?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid from date, use YYYY-MM-DD"})
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid to date, use YYYY-MM-DD"})
		}
		// Inclusive end of day.
		to = parsed.Add(24*time.Hour - time.Second)
	}

	overview, err := h.dashboard.Overview(getTenant(c), from, to)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": overview})
}

// RecentActivity returns the latest audit trail entries.
// GET /api/v1/dashboard/activity?limit=50
func (h *DashboardHandler) RecentActivity(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	entries, err := h.dashboard.RecentActivity(getTenant(c), limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": entries})
}
