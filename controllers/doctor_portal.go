package controllers

import (
	"time"

	"github.com/clinicdesk/appointment-server/services"
	"github.com/clinicdesk/appointment-server/utils"
	"github.com/gofiber/fiber/v2"
)

// DoctorPortalController exposes the reprogramming and reassignment workflow
// doctors use to manage their agenda.
type DoctorPortalController struct {
	reprogram *services.ReprogramService
}

func NewDoctorPortalController(reprogram *services.ReprogramService) *DoctorPortalController {
	return &DoctorPortalController{reprogram: reprogram}
}

type moveInput struct {
	Date           string `json:"date"`
	Time           string `json:"time"`
	Reason         string `json:"reason"`
	PatientMessage string `json:"patient_message"`
}

// ReprogramAppointment moves the appointment to a new slot of the same doctor
func (ctl *DoctorPortalController) ReprogramAppointment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
		})
	}

	input := new(moveInput)
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

	appointment, err := ctl.reprogram.Reprogram(c.Context(), uint(id), date, input.Time,
		input.Reason, input.PatientMessage)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(appointment)
}

// CancelAppointment cancels on the doctor's behalf and notifies the patient
func (ctl *DoctorPortalController) CancelAppointment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
		})
	}

	type CancelInput struct {
		Reason         string `json:"reason"`
		PatientMessage string `json:"patient_message"`
	}
	input := new(CancelInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}

	appointment, err := ctl.reprogram.CancelByDoctor(c.Context(), uint(id), input.Reason, input.PatientMessage)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(appointment)
}

// ReassignAppointment hands the appointment to another doctor of the same specialty
func (ctl *DoctorPortalController) ReassignAppointment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
		})
	}

	type ReassignInput struct {
		NewDoctorID    uint   `json:"new_doctor_id"`
		Reason         string `json:"reason"`
		PatientMessage string `json:"patient_message"`
	}
	input := new(ReassignInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}

	appointment, err := ctl.reprogram.Reassign(c.Context(), uint(id), input.NewDoctorID,
		input.Reason, input.PatientMessage)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(appointment)
}

// GetReassignmentCandidates lists the active doctors who could take over
func (ctl *DoctorPortalController) GetReassignmentCandidates(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
		})
	}

	candidates, err := ctl.reprogram.AvailableDoctorsForReassignment(c.Context(), uint(id))
	if err != nil {
		return respondServiceError(c, err)
	}
	for i := range candidates {
		candidates[i].Password = ""
	}
	return c.JSON(candidates)
}

// GetChangeHistory returns the appointment's audit trail, oldest first
func (ctl *DoctorPortalController) GetChangeHistory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
		})
	}

	history, err := ctl.reprogram.ChangeHistory(c.Context(), uint(id))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(history)
}
