package routes

import (
	"devjobs/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	auth         *handler.AuthHandler
	jobs         *handler.JobsHandler
	applications *handler.ApplicationsHandler
	admin        *handler.AdminHandler
	health       *handler.HealthHandler
}

func NewRegistry(
	auth *handler.AuthHandler,
	jobs *handler.JobsHandler,
	applications *handler.ApplicationsHandler,
	admin *handler.AdminHandler,
	health *handler.HealthHandler,
) *Registry {
	return &Registry{
		auth:         auth,
		jobs:         jobs,
		applications: applications,
		admin:        admin,
		health:       health,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	api := app.Group("/api")

	r.auth.RegisterRoutes(api.Group("/auth"))
	r.jobs.RegisterRoutes(api.Group("/jobs"))
	r.applications.RegisterRoutes(api.Group("/applications"))
	r.admin.RegisterRoutes(api.Group("/admin"))
	r.health.RegisterRoutes(api.Group("/health"))
}
