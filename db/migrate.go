package db

import (
	"fmt"
	"log"

	"github.com/clinicdesk/appointment-server/models"
)

func Migrate() {
	// Initialize DB connection
	Init()

	// Run AutoMigrate only when explicitly called
	err := DB.AutoMigrate(
		&models.Role{},
		&models.Doctor{},
		&models.Patient{},
		&models.WeeklySchedule{},
		&models.Appointment{},
		&models.Transaction{},
		&models.AuditEvent{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	// One live appointment per slot. The partial index lets cancelled rows
	// stay behind without blocking a rebooking of the same slot.
	err = DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_live_slot
		ON appointments (doctor_id, date, time)
		WHERE status <> 'CANCELLED' AND deleted_at IS NULL`).Error
	if err != nil {
		log.Fatal("Failed to create slot uniqueness index: ", err)
	}

	initDefaultRoles()

	fmt.Println("✅ Migrations applied successfully!")
}

func defaultRoles() []models.Role {
	return []models.Role{
		{Name: models.RoleAdmin, Description: "Administrator with full access"},
		{Name: models.RoleDoctor, Description: "Doctor who manages their schedule and appointments"},
		{Name: models.RolePatient, Description: "Patient who can book appointments"},
	}
}

// Create roles if they don't exist
func initDefaultRoles() {
	for _, role := range defaultRoles() {
		var existing models.Role
		if DB.Where("name = ?", role.Name).First(&existing).RowsAffected == 0 {
			DB.Create(&role)
		}
	}
}
