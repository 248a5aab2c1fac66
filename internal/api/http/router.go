package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/svn-hms/complaint-service/internal/api/http/handlers"
	"github.com/svn-hms/complaint-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Auth            *handlers.AuthHandler
	Rooms           *handlers.RoomsHandler
	Departments     *handlers.DepartmentsHandler
	IssueCategories *handlers.IssueCategoriesHandler
	Complaints      *handlers.ComplaintsHandler
	Reports         *handlers.ReportsHandler
	CookieAuth      *auth.CookieAuth
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/token", cfg.Auth.Login)
	authGroup.Post("/token/refresh", cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/user", cfg.CookieAuth.Required(), cfg.Auth.Profile)
	authGroup.Get("/department-staff/:department_name",
		cfg.CookieAuth.Required(), auth.RequireAdmin(), cfg.Auth.DepartmentStaff)
	authGroup.Post("/users", cfg.CookieAuth.Required(), auth.RequireMasterAdmin(), cfg.Auth.CreateUser)

	rooms := app.Group("/rooms", cfg.CookieAuth.Required(), auth.RequireMasterAdmin())
	rooms.Post("/", cfg.Rooms.Create)
	rooms.Get("/", cfg.Rooms.List)
	rooms.Get("/:id", cfg.Rooms.Get)
	rooms.Put("/:id", cfg.Rooms.Update)
	rooms.Post("/:id/update_status", cfg.Rooms.UpdateStatus)
	rooms.Delete("/:id", cfg.Rooms.Delete)

	departments := app.Group("/departments", cfg.CookieAuth.Required(), auth.RequireMasterAdmin())
	departments.Post("/", cfg.Departments.Create)
	departments.Get("/", cfg.Departments.List)
	departments.Get("/:code", cfg.Departments.Get)
	departments.Put("/:code", cfg.Departments.Update)
	departments.Delete("/:code", cfg.Departments.Delete)

	// Category reads stay public so the complaint form can render without a
	// session; writes remain master-admin only.
	categories := app.Group("/issue-category")
	categories.Get("/", cfg.IssueCategories.List)
	categories.Get("/:code", cfg.IssueCategories.Get)
	categories.Post("/", cfg.CookieAuth.Required(), auth.RequireMasterAdmin(), cfg.IssueCategories.Create)
	categories.Put("/:code", cfg.CookieAuth.Required(), auth.RequireMasterAdmin(), cfg.IssueCategories.Update)
	categories.Delete("/:code", cfg.CookieAuth.Required(), auth.RequireMasterAdmin(), cfg.IssueCategories.Delete)

	complaints := app.Group("/complaints")
	complaints.Post("/", cfg.CookieAuth.Optional(), cfg.Complaints.Create)
	complaints.Get("/", cfg.CookieAuth.Required(), cfg.Complaints.List)
	complaints.Get("/by_status", cfg.CookieAuth.Required(), cfg.Complaints.ByStatus)
	complaints.Get("/by_priority", cfg.CookieAuth.Required(), cfg.Complaints.ByPriority)
	complaints.Get("/:ticket_id", cfg.CookieAuth.Required(), cfg.Complaints.Get)
	complaints.Put("/:ticket_id", cfg.CookieAuth.Required(), cfg.Complaints.Update)
	complaints.Delete("/:ticket_id", cfg.CookieAuth.Required(), auth.RequireAdmin(), cfg.Complaints.Delete)

	report := app.Group("/report", cfg.CookieAuth.Required())
	report.Get("/", cfg.Complaints.List)
	report.Get("/department_priority_stats", cfg.Reports.DepartmentPriorityStats)
	report.Get("/all_department_stats", cfg.Reports.AllStats)
	report.Get("/export", auth.RequireAdmin(), cfg.Reports.Export)

	app.Get("/TATView/all_department_TATS", cfg.CookieAuth.Required(), cfg.Reports.TurnaroundReport)
}
