package controllers

import (
	"time"

	"github.com/clinicdesk/appointment-server/models"
	"github.com/clinicdesk/appointment-server/services"
	"github.com/clinicdesk/appointment-server/utils"
	"github.com/gofiber/fiber/v2"
)

type ScheduleController struct {
	schedule     *services.ScheduleService
	availability *services.AvailabilityService
}

func NewScheduleController(schedule *services.ScheduleService, availability *services.AvailabilityService) *ScheduleController {
	return &ScheduleController{schedule: schedule, availability: availability}
}

type windowInput struct {
	DoctorID    uint             `json:"doctor_id"`
	DayOfWeek   models.DayOfWeek `json:"day_of_week"`
	StartTime   string           `json:"start_time"`
	EndTime     string           `json:"end_time"`
	SlotMinutes int              `json:"slot_minutes"`
}

// CreateWindow adds a weekly schedule window for a doctor
func (ctl *ScheduleController) CreateWindow(c *fiber.Ctx) error {
	input := new(windowInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}

	window, err := ctl.schedule.AddWindow(c.Context(), input.DoctorID, input.DayOfWeek,
		input.StartTime, input.EndTime, input.SlotMinutes)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(window)
}

// UpdateWindow changes the hours or slot duration of an existing window
func (ctl *ScheduleController) UpdateWindow(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid schedule ID",
		})
	}

	input := new(windowInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}

	window, err := ctl.schedule.UpdateWindow(c.Context(), uint(id),
		input.StartTime, input.EndTime, input.SlotMinutes)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(window)
}

// DeleteWindow removes a window; refused while future bookings depend on it
func (ctl *ScheduleController) DeleteWindow(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid schedule ID",
		})
	}

	if err := ctl.schedule.RemoveWindow(c.Context(), uint(id)); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Schedule window removed",
	})
}

// BlockWindow takes a window out of service while keeping its history
func (ctl *ScheduleController) BlockWindow(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid schedule ID",
		})
	}

	type BlockInput struct {
		Reason string `json:"reason"`
	}
	input := new(BlockInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot parse JSON",
		})
	}

	window, err := ctl.schedule.Block(c.Context(), uint(id), input.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(window)
}

// ReactivateWindow puts a blocked or inactive window back in service
func (ctl *ScheduleController) ReactivateWindow(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid schedule ID",
		})
	}

	window, err := ctl.schedule.Reactivate(c.Context(), uint(id))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(window)
}

// GetDoctorWindows lists all schedule windows of a doctor
func (ctl *ScheduleController) GetDoctorWindows(c *fiber.Ctx) error {
	doctorID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid doctor ID",
		})
	}

	windows, err := ctl.schedule.WindowsForDoctor(c.Context(), uint(doctorID))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(windows)
}

// GetWeekOverview groups the doctor's windows per weekday
func (ctl *ScheduleController) GetWeekOverview(c *fiber.Ctx) error {
	doctorID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid doctor ID",
		})
	}

	week, err := ctl.schedule.WeekOverview(c.Context(), uint(doctorID))
	if err != nil {
		return respondServiceError(c, err)
	}

	out := make(map[string][]models.WeeklySchedule, len(week))
	for day, windows := range week {
		out[day.String()] = windows
	}
	return c.JSON(out)
}

// GetOpenSlots returns the free slot times of a doctor for a date
func (ctl *ScheduleController) GetOpenSlots(c *fiber.Ctx) error {
	doctorID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid doctor ID",
		})
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Query parameter date must be YYYY-MM-DD",
		})
	}

	slots, err := ctl.availability.OpenSlots(c.Context(), uint(doctorID), date)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"date":  date.Format("2006-01-02"),
		"slots": slots,
	})
}

// GetOpenDays returns the weekdays on which the doctor takes appointments
func (ctl *ScheduleController) GetOpenDays(c *fiber.Ctx) error {
	doctorID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid doctor ID",
		})
	}

	days, err := ctl.availability.OpenDays(c.Context(), uint(doctorID))
	if err != nil {
		return respondServiceError(c, err)
	}

	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, d.String())
	}
	return c.JSON(fiber.Map{
		"days": names,
	})
}
