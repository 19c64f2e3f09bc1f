package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
)

type customerKey struct{}

// bearerToken accepts both "Bearer <token>" and the bare token.
func bearerToken(c *fiber.Ctx) string {
	h := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return h
}

// RequireCustomer rejects requests without a valid token and stores the
// authenticated customer for CurrentCustomer.
func RequireCustomer(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearerToken(c)
		if tok == "" {
			applog.Security(c, "auth.token.missing", nil)
			return c.Status(fiber.StatusForbidden).SendString("Token is required")
		}
		cust, err := auth.Authenticate(c.UserContext(), tok)
		if errors.Is(err, services.ErrInvalidToken) {
			applog.Security(c, "auth.token.invalid", nil)
			return c.Status(fiber.StatusUnauthorized).SendString("Invalid token")
		}
		if err != nil {
			return err
		}
		c.Locals(customerKey{}, cust)
		applog.WithCustomer(c, cust.ID)
		return c.Next()
	}
}

// CurrentCustomer returns the customer set by RequireCustomer, or nil.
func CurrentCustomer(c *fiber.Ctx) *domain.Customer {
	cust, _ := c.Locals(customerKey{}).(*domain.Customer)
	return cust
}

// RequireOwner allows the request only when the path parameter names the
// authenticated customer. It must run after RequireCustomer.
func RequireOwner(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cust := CurrentCustomer(c)
		if cust == nil || c.Params(param) != cust.ID {
			applog.Security(c, "access.denied.owner", map[string]any{"target": c.Params(param)})
			return message(c, fiber.StatusForbidden, "Access denied")
		}
		return c.Next()
	}
}
