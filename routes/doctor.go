package routes

import (
	"github.com/clinicdesk/appointment-server/controllers"
	"github.com/clinicdesk/appointment-server/middleware"
	"github.com/clinicdesk/appointment-server/models"
	"github.com/gofiber/fiber/v2"
)

// SetupDoctorRoutes configures doctor directory and schedule routes
func SetupDoctorRoutes(app *fiber.App, doctor *controllers.DoctorController, schedule *controllers.ScheduleController) {
	doctors := app.Group("/doctors")

	// Public directory and availability lookups
	doctors.Get("/", doctor.GetAllDoctors)
	doctors.Get("/:id", doctor.GetDoctor)
	doctors.Get("/:id/schedules", schedule.GetDoctorWindows)
	doctors.Get("/:id/week", schedule.GetWeekOverview)
	doctors.Get("/:id/slots", schedule.GetOpenSlots)
	doctors.Get("/:id/days", schedule.GetOpenDays)

	// Administration
	doctors.Patch("/:id", middleware.Protected(), middleware.RequireRole(models.RoleAdmin), doctor.UpdateDoctor)
	doctors.Patch("/:id/status", middleware.Protected(), middleware.RequireRole(models.RoleAdmin), doctor.ChangeDoctorStatus)
	doctors.Delete("/:id", middleware.Protected(), middleware.RequireRole(models.RoleAdmin), doctor.DeleteDoctor)
}

// SetupScheduleRoutes configures weekly schedule management routes
func SetupScheduleRoutes(app *fiber.App, schedule *controllers.ScheduleController) {
	schedules := app.Group("/schedules", middleware.Protected(), middleware.RequireRole(models.RoleAdmin, models.RoleDoctor))

	schedules.Post("/", schedule.CreateWindow)
	schedules.Patch("/:id", schedule.UpdateWindow)
	schedules.Delete("/:id", schedule.DeleteWindow)
	schedules.Post("/:id/block", schedule.BlockWindow)
	schedules.Post("/:id/reactivate", schedule.ReactivateWindow)
}
