package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/clinicdesk/appointment-server/controllers"
	"github.com/clinicdesk/appointment-server/cron"
	"github.com/clinicdesk/appointment-server/db"
	"github.com/clinicdesk/appointment-server/notify"
	"github.com/clinicdesk/appointment-server/redis"
	"github.com/clinicdesk/appointment-server/repositories"
	"github.com/clinicdesk/appointment-server/routes"
	"github.com/clinicdesk/appointment-server/services"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.Sync()

	db.Migrate()
	redis.InitRedis()

	doctorRepo := repositories.NewDoctorRepository(db.DB)
	patientRepo := repositories.NewPatientRepository(db.DB)
	scheduleRepo := repositories.NewScheduleRepository(db.DB)
	appointmentRepo := repositories.NewAppointmentRepository(db.DB)
	transactionRepo := repositories.NewTransactionRepository(db.DB)
	auditRepo := repositories.NewAuditRepository(db.DB)
	txManager := repositories.NewTxManager(db.DB)

	slotCache := redis.NewSlotCache(redis.Client, logger)
	notifier := notify.NewEmailNotifier(logger)

	scheduleSvc := services.NewScheduleService(scheduleRepo, appointmentRepo, doctorRepo, slotCache, logger)
	availabilitySvc := services.NewAvailabilityService(scheduleRepo, appointmentRepo, slotCache, logger)
	bookingSvc := services.NewBookingService(doctorRepo, appointmentRepo, transactionRepo, auditRepo,
		availabilitySvc, txManager, nil, logger)
	lifecycleSvc := services.NewLifecycleService(appointmentRepo, transactionRepo, auditRepo, txManager, logger)
	reprogramSvc := services.NewReprogramService(appointmentRepo, doctorRepo, patientRepo, auditRepo,
		availabilitySvc, lifecycleSvc, txManager, notifier, logger)

	authCtl := controllers.NewAuthController(patientRepo, doctorRepo, logger)
	doctorCtl := controllers.NewDoctorController(doctorRepo, logger)
	scheduleCtl := controllers.NewScheduleController(scheduleSvc, availabilitySvc)
	appointmentCtl := controllers.NewAppointmentController(bookingSvc, lifecycleSvc, appointmentRepo, patientRepo)
	doctorPortalCtl := controllers.NewDoctorPortalController(reprogramSvc)
	patientPortalCtl := controllers.NewPatientPortalController(reprogramSvc, appointmentRepo, transactionRepo)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Appointment server up")
	})

	routes.SetupAuthRoutes(app, authCtl)
	routes.SetupDoctorRoutes(app, doctorCtl, scheduleCtl)
	routes.SetupScheduleRoutes(app, scheduleCtl)
	routes.SetupAppointmentRoutes(app, appointmentCtl)
	routes.SetupDoctorPortalRoutes(app, doctorPortalCtl, appointmentCtl)
	routes.SetupPatientPortalRoutes(app, patientPortalCtl)

	cron.StartCronJobs()

	if err := app.Listen(":8000"); err != nil {
		log.Fatal("Server stopped: ", err)
	}
}
