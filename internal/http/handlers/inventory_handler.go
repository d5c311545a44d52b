package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "shopkeep/internal/log"
	"shopkeep/internal/services"
	"shopkeep/internal/validate"
)

type InventoryHandler struct {
	Catalog *services.CatalogService
	Inv     *services.InventoryService
}

// page renders the inventory page with status; extra carries form errors
// and the submitted values.
func (h *InventoryHandler) page(c *fiber.Ctx, status int, extra fiber.Map) error {
	items, err := h.Catalog.List(c.UserContext())
	if err != nil {
		return err
	}
	data := fiber.Map{"Items": items, "Title": "Inventory", "SellItemID": ""}
	for k, v := range extra {
		data[k] = v
	}
	c.Status(status)
	return render(c, "inventory", data)
}

// GET /
func (h *InventoryHandler) Home(c *fiber.Ctx) error {
	return h.page(c, fiber.StatusOK, nil)
}

// POST /items
func (h *InventoryHandler) Add(c *fiber.Ctx) error {
	form := func(k string) string { return c.FormValue(k) }
	in, verr := validate.ParseItemForm(form)
	if verr != nil {
		applog.Warn(c, "item.create.invalid", map[string]any{"fields": fieldNames(verr.Fields)})
		return h.page(c, fiber.StatusUnprocessableEntity, fiber.Map{"Errors": verr.Fields, "Form": formValues(c)})
	}

	it, err := h.Catalog.Add(c.UserContext(), in)
	if err != nil {
		status, fields := classify(err, "Failed to add item.")
		logOutcome(c, "item.create", status, err, nil)
		return h.page(c, status, fiber.Map{"Errors": fields, "Form": formValues(c)})
	}
	applog.Audit(c, "item.create", map[string]any{"item_id": it.ID, "name": it.Name, "qty": it.Quantity})
	return c.Redirect("/", fiber.StatusSeeOther)
}

// POST /items/:id/sell
func (h *InventoryHandler) Sell(c *fiber.Ctx) error {
	id := c.Params("id")
	qty, ok := validate.SellQty(c.FormValue("quantity"))
	if !ok {
		applog.Warn(c, "sale.record.invalid", map[string]any{"item_id": id, "qty": c.FormValue("quantity")})
		return h.page(c, fiber.StatusUnprocessableEntity, fiber.Map{
			"SellItemID": id,
			"SellErrors": map[string][]string{"quantity": {validate.MsgSellQty}},
		})
	}

	sale, err := h.Inv.Sell(c.UserContext(), id, qty)
	if err != nil {
		status, fields := classify(err, "Failed to record sale.")
		logOutcome(c, "sale.record", status, err, map[string]any{"item_id": id, "qty": qty})
		if status == fiber.StatusNotFound {
			return notFound(c, msgItemNotFound)
		}
		return h.page(c, status, fiber.Map{"SellItemID": id, "SellErrors": fields})
	}
	applog.Audit(c, "sale.record", map[string]any{
		"sale_id": sale.ID,
		"item_id": sale.ItemID,
		"qty":     sale.Quantity,
		"total":   sale.TotalPrice.String(),
	})
	return c.Redirect("/", fiber.StatusSeeOther)
}

// POST /items/:id/delete
//
// The user always lands back on the inventory page; failures are only logged.
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Catalog.Delete(c.UserContext(), id); err != nil {
		applog.Error(c, "item.delete.fail", err, map[string]any{"item_id": id})
	} else {
		applog.Audit(c, "item.delete", map[string]any{"item_id": id})
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// formValues echoes the add form back so the user does not retype it.
func formValues(c *fiber.Ctx) map[string]string {
	out := map[string]string{}
	for _, k := range []string{"name", "description", "purchasePrice", "sellingPrice", "quantity", "lowStockThreshold"} {
		out[k] = c.FormValue(k)
	}
	return out
}
