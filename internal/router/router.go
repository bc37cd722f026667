package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lentera-api/internal/config"
	"github.com/noah-isme/lentera-api/internal/handler"
	"github.com/noah-isme/lentera-api/internal/middleware"
	"github.com/noah-isme/lentera-api/internal/models"
	"github.com/noah-isme/lentera-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	EnrollmentHandler *handler.EnrollmentHandler
	AssessmentHandler *handler.AssessmentHandler
	ProfileHandler    *handler.ProfileHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Enrollment and progress
	if deps.EnrollmentHandler != nil {
		enrollments := api.Group("/enrollments", jwtMiddleware)
		deps.EnrollmentHandler.Register(enrollments)

		courses := api.Group("/courses", jwtMiddleware,
			middleware.RequireRole(models.RoleInstructor, models.RoleAdmin))
		deps.EnrollmentHandler.RegisterGradebook(courses)
	}

	// Assignment submissions and quiz attempts
	if deps.AssessmentHandler != nil {
		assessments := api.Group("/assessments", jwtMiddleware,
			middleware.RateLimit("assessments", 30, time.Minute))
		deps.AssessmentHandler.Register(assessments)
	}

	// Profile updates, including instructor rename propagation
	if deps.ProfileHandler != nil {
		users := api.Group("/users", jwtMiddleware)
		deps.ProfileHandler.Register(users)
	}
}
