package handlers

import (
	"bytes"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"shopkeep/internal/domain"
	applog "shopkeep/internal/log"
	"shopkeep/internal/services"
	"shopkeep/internal/validate"
)

// APIHandler serves the JSON surface under /api/v1. Semantics match the
// HTML handlers; errors come back as {"errors": {field: [msg]}}.
type APIHandler struct {
	Catalog   *services.CatalogService
	Inv       *services.InventoryService
	ReportSvc *services.ReportService
	TrendsSvc *services.TrendsService
}

func jsonErrors(c *fiber.Ctx, status int, fields map[string][]string) error {
	return c.Status(status).JSON(fiber.Map{"errors": fields})
}

func (h *APIHandler) ListItems(c *fiber.Ctx) error {
	items, err := h.Catalog.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *APIHandler) GetItem(c *fiber.Ctx) error {
	it, err := h.Catalog.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		status, fields := classify(err, "Failed to load item.")
		if status >= fiber.StatusInternalServerError {
			return err
		}
		return jsonErrors(c, status, fields)
	}
	return c.JSON(it)
}

// jsonBody decodes a JSON object keeping every value raw, so numbers of the
// wrong shape turn into field errors instead of a decode failure.
func jsonBody(c *fiber.Ctx) (map[string]json.RawMessage, bool) {
	var body map[string]json.RawMessage
	if err := c.BodyParser(&body); err != nil || body == nil {
		reason := "empty body"
		if err != nil {
			reason = err.Error()
		}
		applog.Warn(c, "request.malformed", map[string]any{"reason": reason})
		return nil, false
	}
	return body, true
}

// field returns a raw JSON value as text: strings unquoted, numbers as
// written, null and missing as "".
func field(body map[string]json.RawMessage, key string) string {
	raw := bytes.TrimSpace(body[key])
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

func malformed(c *fiber.Ctx) error {
	return jsonErrors(c, fiber.StatusBadRequest, map[string][]string{"_server": {"Malformed request body."}})
}

func (h *APIHandler) CreateItem(c *fiber.Ctx) error {
	body, ok := jsonBody(c)
	if !ok {
		return malformed(c)
	}
	in, verr := validate.ParseItemForm(func(k string) string { return field(body, k) })
	if verr != nil {
		applog.Warn(c, "item.create.invalid", map[string]any{"fields": fieldNames(verr.Fields)})
		return jsonErrors(c, fiber.StatusUnprocessableEntity, verr.Fields)
	}
	it, err := h.Catalog.Add(c.UserContext(), in)
	if err != nil {
		status, fields := classify(err, "Failed to add item.")
		logOutcome(c, "item.create", status, err, nil)
		return jsonErrors(c, status, fields)
	}
	applog.Audit(c, "item.create", map[string]any{"item_id": it.ID, "name": it.Name, "qty": it.Quantity})
	return c.Status(fiber.StatusCreated).JSON(it)
}

// DeleteItem answers 204 whether or not the item existed.
func (h *APIHandler) DeleteItem(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Catalog.Delete(c.UserContext(), id); err != nil {
		applog.Error(c, "item.delete.fail", err, map[string]any{"item_id": id})
	} else {
		applog.Audit(c, "item.delete", map[string]any{"item_id": id})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandler) Sell(c *fiber.Ctx) error {
	id := c.Params("id")
	body, ok := jsonBody(c)
	if !ok {
		return malformed(c)
	}
	qty, ok := validate.SellQty(field(body, "quantity"))
	if !ok {
		applog.Warn(c, "sale.record.invalid", map[string]any{"item_id": id, "qty": field(body, "quantity")})
		return jsonErrors(c, fiber.StatusUnprocessableEntity, map[string][]string{"quantity": {validate.MsgSellQty}})
	}
	sale, err := h.Inv.Sell(c.UserContext(), id, qty)
	if err != nil {
		status, fields := classify(err, "Failed to record sale.")
		logOutcome(c, "sale.record", status, err, map[string]any{"item_id": id, "qty": qty})
		return jsonErrors(c, status, fields)
	}
	applog.Audit(c, "sale.record", map[string]any{
		"sale_id": sale.ID,
		"item_id": sale.ItemID,
		"qty":     sale.Quantity,
		"total":   sale.TotalPrice.String(),
	})
	return c.Status(fiber.StatusCreated).JSON(sale)
}

func (h *APIHandler) ListSales(c *fiber.Ctx) error {
	sales, err := h.ReportSvc.Sales(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(sales)
}

type reportResponse struct {
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalUnitsSold int             `json:"totalUnitsSold"`
	TopSeller      string          `json:"topSeller"`
	TopSellerUnits int             `json:"topSellerUnits"`
	LowStockCount  int             `json:"lowStockCount"`
	LowStockItems  []domain.Item   `json:"lowStockItems"`
	ItemsInStock   int             `json:"itemsInStock"`
}

func (h *APIHandler) Report(c *fiber.Ctx) error {
	sum, _, err := h.ReportSvc.Summary(c.UserContext())
	if err != nil {
		return err
	}
	res := reportResponse{
		TotalRevenue:   sum.TotalRevenue,
		TotalUnitsSold: sum.TotalUnitsSold,
		TopSeller:      sum.TopSellerName(),
		LowStockCount:  sum.LowStockCount,
		LowStockItems:  sum.LowStockItems,
		ItemsInStock:   sum.ItemsInStock,
	}
	if sum.TopSeller != nil {
		res.TopSellerUnits = sum.TopSeller.Units
	}
	if res.LowStockItems == nil {
		res.LowStockItems = []domain.Item{}
	}
	return c.JSON(res)
}

func (h *APIHandler) Trends(c *fiber.Ctx) error {
	a, err := h.TrendsSvc.Analyze(c.UserContext())
	if err != nil {
		applog.Warn(c, "trends.unavailable", map[string]any{"reason": err.Error()})
		return jsonErrors(c, fiber.StatusServiceUnavailable, map[string][]string{"_server": {msgTrendsFailed}})
	}
	return c.JSON(a)
}
