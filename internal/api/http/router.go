package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Shukladev7/escalation-tracker/internal/api/http/handlers"
	"github.com/Shukladev7/escalation-tracker/internal/auth"
	"github.com/Shukladev7/escalation-tracker/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Escalations    *handlers.EscalationsHandler
	Employees      *handlers.EmployeesHandler
	Settings       *handlers.SettingsHandler
	Notifications  *handlers.NotificationsHandler
	Suggest        *handlers.SuggestHandler
	Feed           *handlers.FeedHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)

	signedIn := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireSignedIn()}

	escalations := app.Group("/escalations", signedIn...)
	escalations.Post("/", cfg.Escalations.Create)
	escalations.Get("/", cfg.Escalations.List)
	escalations.Get("/:id", cfg.Escalations.Get)
	escalations.Patch("/:id/status", cfg.Escalations.UpdateStatus)
	escalations.Post("/:id/assign", cfg.Escalations.Assign)
	escalations.Post("/:id/comments", cfg.Escalations.AddComment)
	escalations.Patch("/:id/end-date", cfg.Escalations.SetEndDate)

	employees := app.Group("/employees", signedIn...)
	employees.Get("/", cfg.Employees.List)
	employees.Get("/team-members", cfg.Employees.ListTeamMembers)
	// Role claims here are advisory; the service re-checks server-side.
	employees.Post("/invite", auth.RequireRole(domain.RoleAdmin, domain.RoleCRM), cfg.Employees.Invite)
	employees.Post("/manage", auth.RequireRole(domain.RoleAdmin), cfg.Employees.Manage)

	settings := app.Group("/settings", signedIn...)
	settings.Get("/", cfg.Settings.Get)
	admin := auth.RequireRole(domain.RoleAdmin)
	settings.Post("/:vocabulary", admin, cfg.Settings.AddValue)
	settings.Put("/:vocabulary", admin, cfg.Settings.UpdateValue)
	settings.Delete("/:vocabulary", admin, cfg.Settings.DeleteValue)

	notifications := app.Group("/notifications", signedIn...)
	notifications.Post("/send", cfg.Notifications.Send)
	notifications.Post("/team-member-assignment", cfg.Notifications.SendTaskAssignment)

	app.Post("/ai/suggest-department", append(signedIn, cfg.Suggest.SuggestDepartment)...)

	feed := app.Group("/feed", signedIn...)
	feed.Get("/escalations", cfg.Feed.Escalations)
	feed.Get("/employees", cfg.Feed.Employees)
	feed.Get("/settings", cfg.Feed.Settings)
}
