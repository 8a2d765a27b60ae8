package controllers

import (
	"errors"

	"github.com/clinicdesk/appointment-server/services"
	"github.com/clinicdesk/appointment-server/utils"
	"github.com/gofiber/fiber/v2"
)

// respondServiceError maps domain errors to HTTP responses. Anything the
// services package does not classify is an infrastructure failure and
// surfaces as 500.
func respondServiceError(c *fiber.Ctx, err error) error {
	var (
		slotUnavailable *services.SlotUnavailableError
		doctorNotFound  *services.DoctorNotFoundError
		apptNotFound    *services.AppointmentNotFoundError
		schedNotFound   *services.ScheduleNotFoundError
		patientNotFound *services.PatientNotFoundError
		invalidState    *services.InvalidStateTransitionError
		conflict        *services.ConflictError
		futureBookings  *services.HasFutureBookingsError
		mismatch        *services.SpecialtyMismatchError
		apptLimit       *services.ReprogramLimitPerAppointmentError
		leadTime        *services.InsufficientLeadTimeError
		monthlyLimit    *services.MonthlyAbuseLimitError
		blocked         *services.AbuseBlockedError
		ownership       *services.OwnershipError
	)

	switch {
	case errors.As(err, &slotUnavailable):
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: err.Error(),
			Details: map[string]interface{}{
				"date": slotUnavailable.Date.Format("2006-01-02"),
				"time": slotUnavailable.Clock,
			},
		})
	case errors.As(err, &conflict), errors.As(err, &futureBookings):
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: err.Error(),
		})
	case errors.As(err, &doctorNotFound),
		errors.As(err, &apptNotFound),
		errors.As(err, &schedNotFound),
		errors.As(err, &patientNotFound):
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: err.Error(),
		})
	case errors.As(err, &invalidState):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(utils.ErrorResponse{
			Message: err.Error(),
			Details: map[string]interface{}{
				"status": string(invalidState.From),
			},
		})
	case errors.As(err, &mismatch), errors.As(err, &apptLimit):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(utils.ErrorResponse{
			Message: err.Error(),
		})
	case errors.As(err, &leadTime):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(utils.ErrorResponse{
			Message: err.Error(),
			Details: map[string]interface{}{
				"hours_remaining": leadTime.HoursRemaining,
				"minimum_hours":   leadTime.MinimumHours,
			},
		})
	case errors.As(err, &monthlyLimit):
		return c.Status(fiber.StatusTooManyRequests).JSON(utils.ErrorResponse{
			Message: err.Error(),
			Details: map[string]interface{}{
				"blocked_until": monthlyLimit.BlockedUntil.Format("2006-01-02"),
			},
		})
	case errors.As(err, &blocked):
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: err.Error(),
			Details: map[string]interface{}{
				"blocked_until": blocked.BlockedUntil.Format("2006-01-02"),
			},
		})
	case errors.As(err, &ownership):
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrMissingClinicalFields):
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Internal server error",
			Error:   err.Error(),
		})
	}
}
