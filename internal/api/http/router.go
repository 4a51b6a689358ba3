package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/report-desk/internal/api/http/handlers"
	"github.com/spec-kit/report-desk/internal/auth"
	"github.com/spec-kit/report-desk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Auth           *handlers.AuthHandler
	Admin          *handlers.AdminHandler
	Maintenance    *handlers.MaintenanceHandler
	Notifications  *handlers.NotificationsHandler
	Metrics        *handlers.MetricsHandler
	AuthMiddleware *auth.AuthMiddleware
	// MaintenanceOpen leaves the maintenance routes ungated when no
	// maintenance access code is configured.
	MaintenanceOpen bool
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/internal/metrics", cfg.Metrics.Snapshot)

	api := app.Group("/api")
	api.Post("/tickets", cfg.Tickets.CreateTicket)
	api.Get("/tickets/:number", cfg.Tickets.GetTicket)
	api.Get("/lookup", cfg.Tickets.Lookup)
	api.Post("/auth/login", cfg.Auth.Login)

	api.Get("/notifications", cfg.Notifications.List)
	api.Delete("/notifications/:id", cfg.Notifications.Dismiss)

	admin := api.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/tickets", cfg.Admin.ListTickets)
	admin.Get("/statuses", cfg.Admin.Statuses)
	admin.Get("/export", cfg.Admin.Export)
	admin.Get("/tickets/:number", cfg.Admin.GetTicket)
	admin.Patch("/tickets/:number", cfg.Admin.UpdateTicket)
	admin.Delete("/tickets/:number", cfg.Admin.DeleteTicket)
	admin.Get("/tickets/:number/history", cfg.Admin.History)

	maintenance := api.Group("/maintenance")
	if !cfg.MaintenanceOpen {
		maintenance.Use(cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleMaintenance, domain.RoleAdmin))
	}
	maintenance.Get("/tickets", cfg.Maintenance.ListQueue)
	maintenance.Patch("/tickets/:number", cfg.Maintenance.UpdateTicket)
}
