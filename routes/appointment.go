package routes

import (
	"github.com/clinicdesk/appointment-server/controllers"
	"github.com/clinicdesk/appointment-server/middleware"
	"github.com/clinicdesk/appointment-server/models"
	"github.com/gofiber/fiber/v2"
)

// SetupAppointmentRoutes configures all appointment related routes
func SetupAppointmentRoutes(app *fiber.App, appointment *controllers.AppointmentController) {
	appointments := app.Group("/appointments", middleware.Protected())

	appointments.Post("/", middleware.RequireRole(models.RolePatient), appointment.BookAppointment)
	appointments.Get("/:id", appointment.GetAppointment)
	appointments.Get("/", middleware.RequireRole(models.RoleAdmin, models.RoleDoctor), appointment.GetAppointmentsByDate)

	staff := middleware.RequireRole(models.RoleAdmin, models.RoleDoctor)
	appointments.Post("/:id/confirm", staff, appointment.ConfirmAppointment)
	appointments.Post("/:id/attend", middleware.RequireRole(models.RoleDoctor), appointment.AttendAppointment)
	appointments.Post("/:id/cancel", staff, appointment.CancelAppointment)
	appointments.Post("/:id/no-show", middleware.RequireRole(models.RoleDoctor), appointment.MarkNoShow)
}
