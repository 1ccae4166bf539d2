package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-triage/internal/api/http/handlers"
	"github.com/spec-kit/ticket-triage/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. The ticket endpoints are protected only
// when auth is configured.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	tickets := app.Group("/tickets")
	if cfg.AuthMiddleware != nil {
		tickets.Use(cfg.AuthMiddleware.Handle)
	}
	tickets.Post("/triage", cfg.Tickets.Triage)
	tickets.Post("/escalate", cfg.Tickets.Escalate)
	tickets.Get("/:id/audit", cfg.Tickets.AuditTrail)
}
