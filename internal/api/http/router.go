package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jsancolett-dev/agency-os/internal/api/http/handlers"
	"github.com/jsancolett-dev/agency-os/internal/gateway"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Webhook     *handlers.WebhookHandler
	WebhookPath string
	Forwarder   *gateway.Forwarder
}

// RegisterRoutes wires HTTP routes. Only the webhook route and the health
// probes are handled locally; everything else falls through to the
// dashboard forwarder.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post(cfg.WebhookPath, cfg.Webhook.Receive)

	app.Use(cfg.Forwarder.Handle)
}
