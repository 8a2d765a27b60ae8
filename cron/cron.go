package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/clinicdesk/appointment-server/db"
	"github.com/clinicdesk/appointment-server/models"
	"github.com/clinicdesk/appointment-server/utils"
	"github.com/robfig/cron/v3"
)

// StartCronJobs initializes and starts the cron scheduler
func StartCronJobs() {
	fmt.Println("Starting cron job scheduler...")
	c := cron.New()

	// Run every minute to check for appointments in the next hour
	_, err := c.AddFunc("* * * * *", sendAppointmentReminders)
	if err != nil {
		log.Fatalf("Failed to add reminder cron job: %v", err)
	}

	// Lift expired abuse blocks once a day
	_, err = c.AddFunc("0 2 * * *", liftExpiredAbuseBlocks)
	if err != nil {
		log.Fatalf("Failed to add unblock cron job: %v", err)
	}

	c.Start()
	log.Println("Cron job scheduler started")
}

// sendAppointmentReminders emails patients with a confirmed appointment
// roughly one hour out
func sendAppointmentReminders() {
	now := time.Now()
	today := utils.DateOnly(now)
	startMin := now.Hour()*60 + now.Minute() + 55
	if startMin >= 24*60 {
		// the one-hour-out window falls on tomorrow's date
		return
	}
	startClock := utils.FormatClock(startMin)
	endClock := utils.FormatClock(startMin + 10)

	var appointments []models.Appointment
	err := db.DB.Preload("Patient").Preload("Doctor").
		Where("status = ? AND date = ? AND time BETWEEN ? AND ?",
			models.StatusConfirmed, today, startClock, endClock).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Error fetching appointments for reminders: %v", err)
		return
	}

	for _, appointment := range appointments {
		err := sendReminderEmail(&appointment)
		if err != nil {
			log.Printf("Failed to send reminder for appointment %d: %v", appointment.ID, err)
			continue
		}
		log.Printf("Sent reminder for appointment %d to %s", appointment.ID, appointment.Patient.Email)
	}
}

// sendReminderEmail constructs and sends the reminder email
func sendReminderEmail(appointment *models.Appointment) error {
	subject := "Reminder: Upcoming Appointment"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your upcoming appointment scheduled in one hour.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Doctor:</strong> %s (%s)</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
			<li><strong>Status:</strong> %s</li>
		</ul>
		<p>Please arrive on time. If you need to reschedule or cancel, contact us as soon as possible.</p>
		<p>Best regards,</p>
		<p>Your Clinic Team</p>
	`, appointment.Patient.Name, appointment.Doctor.Name, appointment.Doctor.Specialty,
		appointment.Date.Format("2006-01-02"),
		appointment.Time,
		appointment.Status.Description())

	return utils.SendEmail(appointment.Patient.Email, subject, body)
}

// liftExpiredAbuseBlocks clears the reprogramming block from patients whose
// penalty window has passed
func liftExpiredAbuseBlocks() {
	result := db.DB.Model(&models.Patient{}).
		Where("abuse_blocked = ? AND blocked_until <= ?", true, time.Now()).
		Updates(map[string]interface{}{
			"abuse_blocked":         false,
			"blocked_until":         nil,
			"reprograms_this_month": 0,
		})
	if result.Error != nil {
		log.Printf("Error lifting expired abuse blocks: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Lifted abuse block for %d patients", result.RowsAffected)
	}
}
