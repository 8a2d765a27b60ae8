package routes

import (
	"github.com/clinicdesk/appointment-server/controllers"
	"github.com/clinicdesk/appointment-server/middleware"
	"github.com/clinicdesk/appointment-server/models"
	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(app *fiber.App, auth *controllers.AuthController) {
	group := app.Group("/auth")

	// Public routes
	group.Post("/register", auth.RegisterPatient)
	group.Post("/login", auth.Login)
	group.Post("/refresh", auth.RefreshToken)

	// Doctor accounts are provisioned by the clinic, not self-service
	group.Post("/register/doctor", middleware.Protected(), middleware.RequireRole(models.RoleAdmin), auth.RegisterDoctor)
}
