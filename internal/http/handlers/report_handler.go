package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "shopkeep/internal/log"
	"shopkeep/internal/services"
)

const msgTrendsFailed = "Failed to generate AI analysis. Please try again later."

type ReportHandler struct {
	ReportSvc *services.ReportService
	TrendsSvc *services.TrendsService
}

func (h *ReportHandler) page(c *fiber.Ctx, extra fiber.Map) error {
	sum, sales, err := h.ReportSvc.Summary(c.UserContext())
	if err != nil {
		return err
	}
	data := fiber.Map{"Summary": sum, "Sales": sales, "Title": "Reports"}
	for k, v := range extra {
		data[k] = v
	}
	return render(c, "reports", data)
}

// GET /reports
func (h *ReportHandler) Reports(c *fiber.Ctx) error {
	return h.page(c, nil)
}

// POST /reports/trends
//
// A failed analysis still renders the page, with a retry button.
func (h *ReportHandler) Trends(c *fiber.Ctx) error {
	a, err := h.TrendsSvc.Analyze(c.UserContext())
	if err != nil {
		applog.Warn(c, "trends.unavailable", map[string]any{"reason": err.Error()})
		return h.page(c, fiber.Map{"TrendsError": msgTrendsFailed})
	}
	applog.Info(c, "trends.generated", nil)
	return h.page(c, fiber.Map{"Analysis": a})
}
