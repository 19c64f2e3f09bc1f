package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
)

type OrderHandler struct {
	Orders *services.OrderService
}

type statusRequest struct {
	Status string `json:"status"`
}

// Place records an order for the authenticated customer. Totals are computed
// server side; stock is not checked or decremented.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var in services.PlaceOrderInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	cust := CurrentCustomer(c)
	if cust == nil {
		return fiber.ErrForbidden
	}
	o, err := h.Orders.Place(c.UserContext(), cust.ID, in)
	if err != nil {
		if domain.IsValidation(err) {
			applog.Security(c, "validation.fail", map[string]any{"field": "order", "err": err.Error()})
		}
		return respond(c, err)
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id":     o.ID,
		"items":        len(o.Products),
		"total_amount": o.TotalAmount,
	})
	return c.Status(fiber.StatusCreated).JSON(o)
}

func (h *OrderHandler) ListForCustomer(c *fiber.Ctx) error {
	orders, err := h.Orders.ListForCustomer(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in statusRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	id := c.Params("id")
	o, err := h.Orders.UpdateStatus(c.UserContext(), id, in.Status)
	if err != nil {
		return respond(c, err)
	}
	applog.Audit(c, "order.status.update", map[string]any{"order_id": id, "status": string(o.Status)})
	return c.JSON(o)
}
