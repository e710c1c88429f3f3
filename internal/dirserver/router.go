package dirserver

import (
	"github.com/gofiber/fiber/v2"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Handler        *Handler
	Health         *HealthHandler
	AuthMiddleware *AuthMiddleware
}

// RegisterRoutes wires the directory routes. Everything except login and the
// probes requires a verified bearer token.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/admin/auth/login", cfg.Handler.Login)
	app.Post("/admin/auth/logout", cfg.AuthMiddleware.Handle, cfg.Handler.Logout)

	staff := app.Group("/admin/staff", cfg.AuthMiddleware.Handle)
	staff.Get("/get-all", cfg.Handler.GetAll)
	staff.Post("/", cfg.Handler.Create)
	staff.Get("/:id", cfg.Handler.GetByID)
	staff.Put("/:id", cfg.Handler.Update)
	staff.Delete("/:id", cfg.Handler.Delete)
}
