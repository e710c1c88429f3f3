package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/admin-console/internal/api/http/handlers"
	"github.com/spec-kit/admin-console/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler
	Staff  *handlers.StaffHandler
	Gate   *auth.Gate
}

// RegisterRoutes wires the console routes. The login entry point carries the
// inverse redirect; everything under /admin except the auth endpoints is
// gated.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/login", cfg.Gate.RedirectAuthenticated, cfg.Auth.LoginPage)

	app.Post("/admin/auth/login", cfg.Auth.Login)
	app.Post("/admin/auth/logout", cfg.Auth.Logout)

	app.Get("/admin/dashboard", cfg.Gate.RequirePage, cfg.Auth.Dashboard)

	staff := app.Group("/admin/staff", cfg.Gate.RequireAPI)
	staff.Get("/get-all", cfg.Staff.GetAll)
	staff.Get("/search", cfg.Staff.Search)
	staff.Post("/", cfg.Staff.Create)
	staff.Get("/:id", cfg.Staff.GetByID)
	staff.Put("/:id", cfg.Staff.Update)
	staff.Delete("/:id", cfg.Staff.Delete)
}
