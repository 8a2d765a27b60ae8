package controllers

import (
	"errors"
	"time"

	"github.com/clinicdesk/appointment-server/repositories"
	"github.com/clinicdesk/appointment-server/services"
	"github.com/clinicdesk/appointment-server/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AppointmentController struct {
	booking      *services.BookingService
	lifecycle    *services.LifecycleService
	appointments repositories.AppointmentRepository
	patients     repositories.PatientRepository
}

func NewAppointmentController(
	booking *services.BookingService,
	lifecycle *services.LifecycleService,
	appointments repositories.AppointmentRepository,
	patients repositories.PatientRepository,
) *AppointmentController {
	return &AppointmentController{
		booking:      booking,
		lifecycle:    lifecycle,
		appointments: appointments,
		patients:     patients,
	}
}

// BookAppointment books a slot for the authenticated patient
func (ctl *AppointmentController) BookAppointment(c *fiber.Ctx) error {
	type BookInput struct {
		DoctorID uint   `json:"doctor_id"`
		Date     string `json:"date"`
		Time     string `json:"time"`
		Reason   string `json:"reason"`
	}
	input := new(BookInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}

	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Field date must be YYYY-MM-DD",
		})
	}

	patientID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Missing authentication",
		})
	}
	patient, err := ctl.patients.FindByID(c.Context(), patientID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Unknown patient account",
		})
	}

	appointment, err := ctl.booking.Book(c.Context(), patient, date, input.Time, input.DoctorID, input.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// GetAppointment returns a single appointment by ID
func (ctl *AppointmentController) GetAppointment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
		})
	}

	appointment, err := ctl.appointments.FindByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Appointment not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointment",
		})
	}
	return c.JSON(appointment)
}

// GetDoctorAppointments lists a doctor's appointments, soonest first
func (ctl *AppointmentController) GetDoctorAppointments(c *fiber.Ctx) error {
	doctorID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid doctor ID",
		})
	}

	appointments, err := ctl.appointments.ListByDoctor(c.Context(), uint(doctorID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
		})
	}
	return c.JSON(appointments)
}

// GetAppointmentsByDate lists every appointment on a calendar date
func (ctl *AppointmentController) GetAppointmentsByDate(c *fiber.Ctx) error {
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Query parameter date must be YYYY-MM-DD",
		})
	}

	appointments, err := ctl.appointments.ListByDate(c.Context(), date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
		})
	}
	return c.JSON(appointments)
}

// ConfirmAppointment moves a pending appointment to confirmed
func (ctl *AppointmentController) ConfirmAppointment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
		})
	}

	appointment, err := ctl.lifecycle.Confirm(c.Context(), uint(id))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(appointment)
}

// AttendAppointment records the clinical outcome of a visit
func (ctl *AppointmentController) AttendAppointment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
		})
	}

	type AttendInput struct {
		Diagnosis     string `json:"diagnosis"`
		Treatment     string `json:"treatment"`
		ClinicalNotes string `json:"clinical_notes"`
	}
	input := new(AttendInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}

	appointment, err := ctl.lifecycle.Attend(c.Context(), uint(id),
		input.Diagnosis, input.Treatment, input.ClinicalNotes)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(appointment)
}

// CancelAppointment cancels on behalf of clinic staff
func (ctl *AppointmentController) CancelAppointment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
		})
	}

	type CancelInput struct {
		Reason string `json:"reason"`
	}
	input := new(CancelInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}

	appointment, err := ctl.lifecycle.Cancel(c.Context(), uint(id), input.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(appointment)
}

// MarkNoShow records that the patient did not arrive
func (ctl *AppointmentController) MarkNoShow(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
		})
	}

	appointment, err := ctl.lifecycle.MarkNoShow(c.Context(), uint(id))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(appointment)
}
