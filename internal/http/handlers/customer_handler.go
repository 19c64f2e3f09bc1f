package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"storefront/internal/domain"
	"storefront/internal/log"
	"storefront/internal/services"
)

type CustomerHandler struct {
	Auth      *services.AuthService
	Customers *services.CustomerService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *CustomerHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	cust, err := h.Auth.Register(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			log.Security(c, "customer.register.duplicate", map[string]any{"email": in.Email})
		}
		return respond(c, err)
	}
	log.Audit(c, "customer.register", map[string]any{"customer_id": cust.ID, "email": cust.Email})
	return c.Status(fiber.StatusCreated).JSON(cust)
}

func (h *CustomerHandler) Login(c *fiber.Ctx) error {
	var in loginRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	tok, cust, err := h.Auth.Login(c.UserContext(), in.Email, in.Password)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrCustomerNotFound):
		log.Security(c, "auth.login.fail", map[string]any{"email": in.Email, "reason": "unknown_email"})
		return c.Status(fiber.StatusNotFound).SendString("Customer not found")
	case errors.Is(err, services.ErrBadPassword):
		log.Security(c, "auth.login.fail", map[string]any{"email": in.Email, "reason": "bad_password"})
		return c.Status(fiber.StatusUnauthorized).SendString("Invalid password")
	default:
		return respond(c, err)
	}

	log.WithCustomer(c, cust.ID)
	log.Audit(c, "auth.login.success", map[string]any{"email": cust.Email})
	return c.JSON(fiber.Map{"token": tok})
}

func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var patch services.CustomerPatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}
	cust, err := h.Customers.Update(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return respond(c, err)
	}
	log.Audit(c, "customer.update", nil)
	return c.JSON(cust)
}
