package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shift-service/internal/api/http/handlers"
	"github.com/spec-kit/shift-service/internal/auth"
	"github.com/spec-kit/shift-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Schedules      *handlers.SchedulesHandler
	Availability   *handlers.AvailabilityHandler
	Payroll        *handlers.PayrollHandler
	Staffing       *handlers.StaffingHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Auth.ChangePassword)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())

	schedules := protected.Group("/schedules")
	schedules.Post("", auth.RequireScheduler(), cfg.Schedules.Create)
	schedules.Get("/:id", cfg.Schedules.Get)
	schedules.Delete("/:id", auth.RequireRole(domain.EmployeeRoleAdmin), cfg.Schedules.Delete)
	schedules.Post("/:id/auto-assign", auth.RequireScheduler(), cfg.Schedules.AutoAssign)
	schedules.Post("/:id/finalize", auth.RequireScheduler(), cfg.Schedules.Finalize)
	schedules.Post("/:id/close", auth.RequireScheduler(), cfg.Schedules.Close)
	schedules.Get("/:id/assignments", cfg.Schedules.ListAssignments)
	schedules.Put("/:id/availability", cfg.Availability.Submit)
	schedules.Get("/:id/availability", auth.RequireScheduler(), cfg.Availability.List)

	stores := protected.Group("/stores")
	stores.Get("/:storeID/schedules", cfg.Schedules.List)
	stores.Get("/:storeID/staffing-policies", auth.RequireScheduler(), cfg.Staffing.List)
	stores.Put("/:storeID/staffing-policies/:dayType", auth.RequireScheduler(), cfg.Staffing.Upsert)

	payroll := protected.Group("/payroll")
	payroll.Get("/employees/:id", cfg.Payroll.Employee)
	payroll.Get("/stores/:id", auth.RequireScheduler(), cfg.Payroll.Store)
}
