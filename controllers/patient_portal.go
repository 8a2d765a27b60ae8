package controllers

import (
	"time"

	"github.com/clinicdesk/appointment-server/repositories"
	"github.com/clinicdesk/appointment-server/services"
	"github.com/clinicdesk/appointment-server/utils"
	"github.com/gofiber/fiber/v2"
)

// PatientPortalController exposes the self-service operations patients use
// on their own appointments. Ownership is re-verified in the service layer
// against the authenticated email.
type PatientPortalController struct {
	reprogram    *services.ReprogramService
	appointments repositories.AppointmentRepository
	transactions repositories.TransactionRepository
}

func NewPatientPortalController(
	reprogram *services.ReprogramService,
	appointments repositories.AppointmentRepository,
	transactions repositories.TransactionRepository,
) *PatientPortalController {
	return &PatientPortalController{
		reprogram:    reprogram,
		appointments: appointments,
		transactions: transactions,
	}
}

func authenticatedEmail(c *fiber.Ctx) (string, bool) {
	email, ok := c.Locals("email").(string)
	return email, ok && email != ""
}

// GetMyAppointments lists the authenticated patient's appointments
func (ctl *PatientPortalController) GetMyAppointments(c *fiber.Ctx) error {
	patientID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Missing authentication",
		})
	}

	appointments, err := ctl.appointments.ListByPatient(c.Context(), patientID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
		})
	}
	return c.JSON(appointments)
}

// GetMyTransactions lists the authenticated patient's payment history
func (ctl *PatientPortalController) GetMyTransactions(c *fiber.Ctx) error {
	patientID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Missing authentication",
		})
	}

	transactions, err := ctl.transactions.ListByPatient(c.Context(), patientID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch transactions",
		})
	}
	return c.JSON(transactions)
}

// ReprogramAppointment reschedules the patient's own appointment, subject to
// the anti-abuse limits
func (ctl *PatientPortalController) ReprogramAppointment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
		})
	}

	email, ok := authenticatedEmail(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Missing authentication",
		})
	}

	type MoveInput struct {
		Date   string `json:"date"`
		Time   string `json:"time"`
		Reason string `json:"reason"`
	}
	input := new(MoveInput)
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

	appointment, err := ctl.reprogram.ReprogramByPatient(c.Context(), email, uint(id),
		date, input.Time, input.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(appointment)
}

// CancelAppointment cancels the patient's own appointment
func (ctl *PatientPortalController) CancelAppointment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
		})
	}

	email, ok := authenticatedEmail(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Missing authentication",
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

	appointment, err := ctl.reprogram.CancelByPatient(c.Context(), email, uint(id), input.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(appointment)
}
