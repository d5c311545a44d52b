package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopkeep/internal/imagesearch"
)

type ImageHandler struct {
	Lookup *imagesearch.Lookup
}

// GET /api/item-image?name=
//
// Always 200: a failed lookup serves the placeholder.
func (h *ImageHandler) Get(c *fiber.Ctx) error {
	img := h.Lookup.Image(c.UserContext(), c.Query("name"))
	c.Set(fiber.HeaderContentType, img.ContentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.Status(fiber.StatusOK).Send(img.Bytes)
}
