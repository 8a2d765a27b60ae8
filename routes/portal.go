package routes

import (
	"github.com/clinicdesk/appointment-server/controllers"
	"github.com/clinicdesk/appointment-server/middleware"
	"github.com/clinicdesk/appointment-server/models"
	"github.com/gofiber/fiber/v2"
)

// SetupDoctorPortalRoutes configures the doctor-side reprogramming workflow
func SetupDoctorPortalRoutes(app *fiber.App, portal *controllers.DoctorPortalController, appointment *controllers.AppointmentController) {
	group := app.Group("/doctor", middleware.Protected(), middleware.RequireRole(models.RoleDoctor))

	group.Get("/:id/appointments", appointment.GetDoctorAppointments)
	group.Post("/appointments/:id/reprogram", portal.ReprogramAppointment)
	group.Post("/appointments/:id/cancel", portal.CancelAppointment)
	group.Post("/appointments/:id/reassign", portal.ReassignAppointment)
	group.Get("/appointments/:id/candidates", portal.GetReassignmentCandidates)
	group.Get("/appointments/:id/history", portal.GetChangeHistory)
}

// SetupPatientPortalRoutes configures the patient self-service routes
func SetupPatientPortalRoutes(app *fiber.App, portal *controllers.PatientPortalController) {
	group := app.Group("/patient", middleware.Protected(), middleware.RequireRole(models.RolePatient))

	group.Get("/appointments", portal.GetMyAppointments)
	group.Get("/transactions", portal.GetMyTransactions)
	group.Post("/appointments/:id/reprogram", portal.ReprogramAppointment)
	group.Post("/appointments/:id/cancel", portal.CancelAppointment)
}
