package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"storefront/internal/domain"
	applog "storefront/internal/log"
)

const internalMessage = "Internal Server Error"

func message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

// respond writes the client-facing reply for a known domain error. Anything
// else is handed back to fiber so ErrorHandler can log it.
func respond(c *fiber.Ctx, err error) error {
	switch {
	case domain.IsValidation(err),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrIllegalTransition):
		return message(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound):
		return message(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrStaleStatus):
		return message(c, fiber.StatusConflict, err.Error())
	}
	return err
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"reason": "malformed_body"})
		return message(c, fiber.StatusBadRequest, "invalid request body")
	}
	return nil
}

// ErrorHandler is the app-wide catch-all. Server-side failures are logged
// with their detail and answered with a generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := internalMessage
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
		msg = internalMessage
	}
	return message(c, code, msg)
}
