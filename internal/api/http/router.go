package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	StaffTickets   *handlers.StaffTicketsHandler
	Dashboards     *handlers.DashboardsHandler
	Directory      *handlers.DirectoryHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	protectedAuth := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	protectedAuth.Get("/me", cfg.Users.Me)
	protectedAuth.Post("/password/change", cfg.Users.ChangePassword)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Get("/:id/history", cfg.Tickets.ListHistory)

	staff := app.Group("/staff/tickets", cfg.AuthMiddleware.Handle)
	staff.Get("", auth.RequireRole(domain.RoleTechnician), cfg.StaffTickets.ListQueue)
	staff.Post("/:id/claim", auth.RequireRole(domain.RoleTechnician), cfg.StaffTickets.Claim)
	staff.Post("/:id/assign",
		auth.RequireRole(domain.RoleDepartmentHead, domain.RoleSuperAdmin),
		cfg.StaffTickets.Assign)
	staff.Post("/:id/complete",
		auth.RequireRole(domain.RoleTechnician, domain.RoleSuperAdmin),
		cfg.StaffTickets.Complete)
	staff.Post("/:id/reject",
		auth.RequireRole(domain.RoleTechnician, domain.RoleDepartmentHead, domain.RoleSuperAdmin),
		cfg.StaffTickets.Reject)

	dashboards := app.Group("/dashboards", cfg.AuthMiddleware.Handle)
	dashboards.Get("/department", auth.RequireRole(domain.RoleDepartmentHead), cfg.Dashboards.Department)
	dashboards.Get("/overview", auth.RequireRole(domain.RoleSuperAdmin), cfg.Dashboards.Overview)

	app.Get("/directory", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Directory.Get)
	app.Get("/departments", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Directory.ListDepartments)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleSuperAdmin))
	admin.Post("/accounts", cfg.Users.CreateStaffAccount)
	admin.Post("/directory/reload", cfg.Directory.Reload)
}
