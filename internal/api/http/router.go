package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bug-tracker/internal/api/http/handlers"
	"github.com/spec-kit/bug-tracker/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Bugs           *handlers.BugsHandler
	Comments       *handlers.CommentsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api")
	api.Post("/register", cfg.Users.Register)
	api.Post("/login", cfg.Users.Login)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/users", cfg.Users.List)

	protected.Get("/bugs", cfg.Bugs.List)
	protected.Post("/bugs", cfg.Bugs.Create)
	protected.Get("/bugs/:id", cfg.Bugs.Get)
	protected.Patch("/bugs/:id", cfg.Bugs.Update)
	protected.Delete("/bugs/:id", cfg.Bugs.Delete)

	protected.Get("/bugs/:id/comments", cfg.Comments.List)
	protected.Post("/bugs/:id/comments", cfg.Comments.Create)
	protected.Get("/bugs/:id/history", cfg.Bugs.History)
}
