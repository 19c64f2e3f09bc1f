package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"storefront/internal/config"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/metrics"
)

// New builds the application with its middleware chain and routes.
func New(cfg config.Config, deps *handlers.Deps, m *metrics.ServerMetrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "storefront",
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: handlers.ErrorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${latency} ${method} ${path}\n",
	}))
	app.Use(helmet.New())
	if m != nil {
		app.Use(m.Middleware())
		app.Get("/metrics", m.Handler())
	}

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	requireCustomer := handlers.RequireCustomer(deps.Auth)
	api := app.Group("/api/v1")

	// Customers
	ch := deps.CustomerHandler
	api.Post("/customers", ch.Register)
	api.Post("/customers/login", loginLimiter(cfg.LoginRateLimit), ch.Login)
	api.Put("/customers/:id", requireCustomer, handlers.RequireOwner("id"), ch.Update)
	api.Get("/customers/:id/orders", requireCustomer, handlers.RequireOwner("id"), deps.OrderHandler.ListForCustomer)

	// Products
	ph := deps.ProductHandler
	api.Get("/products", ph.List)
	api.Get("/products/:id", ph.Get)
	api.Get("/products/:id/availability", deps.InventoryHandler.Check)
	api.Post("/products", requireCustomer, ph.Create)
	api.Delete("/products/:id", requireCustomer, ph.Delete)

	// Orders
	oh := deps.OrderHandler
	api.Post("/orders", requireCustomer, oh.Place)
	api.Put("/orders/:id/status", requireCustomer, oh.UpdateStatus)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Not found"})
	})
	return app
}

// loginLimiter throttles login attempts per client IP. max <= 0 disables it.
func loginLimiter(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|login"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "Too many login attempts, try again later"})
		},
	})
}
