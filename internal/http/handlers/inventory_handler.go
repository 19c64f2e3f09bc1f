package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/services"
)

type InventoryHandler struct {
	Catalog *services.CatalogService
}

// Check classifies a product's stock level. It never changes inventory.
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	avail, err := h.Catalog.Availability(c.UserContext(), c.Params("id"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(avail)
}
