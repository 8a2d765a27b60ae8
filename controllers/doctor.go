package controllers

import (
	"errors"

	"github.com/clinicdesk/appointment-server/models"
	"github.com/clinicdesk/appointment-server/repositories"
	"github.com/clinicdesk/appointment-server/utils"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DoctorController struct {
	doctors repositories.DoctorRepository
	log     *zap.Logger
}

func NewDoctorController(doctors repositories.DoctorRepository, log *zap.Logger) *DoctorController {
	return &DoctorController{doctors: doctors, log: log}
}

// GetAllDoctors lists every doctor on record
func (ctl *DoctorController) GetAllDoctors(c *fiber.Ctx) error {
	doctors, err := ctl.doctors.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch doctors",
		})
	}
	for i := range doctors {
		doctors[i].Password = ""
	}
	return c.JSON(doctors)
}

// GetDoctor returns a single doctor by ID
func (ctl *DoctorController) GetDoctor(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid doctor ID",
		})
	}

	doctor, err := ctl.doctors.FindByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Doctor not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch doctor",
		})
	}

	doctor.Password = ""
	return c.JSON(doctor)
}

// UpdateDoctor updates contact and profile fields
func (ctl *DoctorController) UpdateDoctor(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid doctor ID",
		})
	}

	type UpdateInput struct {
		Name          string `json:"name"`
		Phone         string `json:"phone"`
		Specialty     string `json:"specialty"`
		LicenseNumber string `json:"license_number"`
	}
	input := new(UpdateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}

	doctor, err := ctl.doctors.FindByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Doctor not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch doctor",
		})
	}

	if input.Name != "" {
		doctor.Name = input.Name
	}
	if input.Phone != "" {
		doctor.Phone = input.Phone
	}
	if input.Specialty != "" {
		doctor.Specialty = input.Specialty
	}
	if input.LicenseNumber != "" {
		doctor.LicenseNumber = input.LicenseNumber
	}

	if err := ctl.doctors.Save(c.Context(), doctor); err != nil {
		ctl.log.Error("doctor update failed", zap.Uint("doctor_id", doctor.ID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update doctor",
		})
	}

	doctor.Password = ""
	return c.JSON(doctor)
}

// ChangeDoctorStatus sets the doctor's availability status
func (ctl *DoctorController) ChangeDoctorStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid doctor ID",
		})
	}

	type StatusInput struct {
		Status models.DoctorStatus `json:"status"`
	}
	input := new(StatusInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}

	switch input.Status {
	case models.DoctorActive, models.DoctorInactive, models.DoctorOnVacation, models.DoctorOnLeave:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Unknown doctor status",
		})
	}

	doctor, err := ctl.doctors.FindByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Doctor not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch doctor",
		})
	}

	doctor.Status = input.Status
	if err := ctl.doctors.Save(c.Context(), doctor); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update doctor status",
		})
	}

	doctor.Password = ""
	return c.JSON(doctor)
}

// DeleteDoctor deactivates the doctor. Records are never removed so past
// appointments keep their reference.
func (ctl *DoctorController) DeleteDoctor(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid doctor ID",
		})
	}

	doctor, err := ctl.doctors.FindByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Doctor not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch doctor",
		})
	}

	doctor.Status = models.DoctorInactive
	if err := ctl.doctors.Save(c.Context(), doctor); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to deactivate doctor",
		})
	}

	ctl.log.Info("doctor deactivated", zap.Uint("doctor_id", doctor.ID))
	return c.JSON(fiber.Map{
		"message": "Doctor deactivated",
	})
}
