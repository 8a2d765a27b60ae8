package controllers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clinicdesk/appointment-server/models"
	"github.com/clinicdesk/appointment-server/services"
	"github.com/clinicdesk/appointment-server/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performErrorRequest(t *testing.T, err error) (int, utils.ErrorResponse) {
	t.Helper()

	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return respondServiceError(c, err)
	})

	resp, reqErr := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, reqErr)
	defer resp.Body.Close()

	var body utils.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestRespondServiceErrorStatusCodes(t *testing.T) {
	blockedUntil := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"slot unavailable", &services.SlotUnavailableError{DoctorID: 1, Date: blockedUntil, Clock: "09:00"}, fiber.StatusConflict},
		{"window conflict", &services.ConflictError{DoctorID: 1, Day: models.Monday}, fiber.StatusConflict},
		{"future bookings", &services.HasFutureBookingsError{ScheduleID: 3}, fiber.StatusConflict},
		{"doctor not found", &services.DoctorNotFoundError{ID: 9}, fiber.StatusNotFound},
		{"appointment not found", &services.AppointmentNotFoundError{ID: 9}, fiber.StatusNotFound},
		{"schedule not found", &services.ScheduleNotFoundError{ID: 9}, fiber.StatusNotFound},
		{"patient not found", &services.PatientNotFoundError{ID: 9}, fiber.StatusNotFound},
		{"invalid transition", &services.InvalidStateTransitionError{From: models.StatusCancelled, Event: "confirm"}, fiber.StatusUnprocessableEntity},
		{"specialty mismatch", &services.SpecialtyMismatchError{Want: "cardiology", Got: "dermatology"}, fiber.StatusUnprocessableEntity},
		{"per appointment limit", &services.ReprogramLimitPerAppointmentError{Limit: 2}, fiber.StatusUnprocessableEntity},
		{"insufficient lead time", &services.InsufficientLeadTimeError{HoursRemaining: 6, MinimumHours: 24}, fiber.StatusUnprocessableEntity},
		{"monthly limit", &services.MonthlyAbuseLimitError{Limit: 5, BlockedUntil: blockedUntil}, fiber.StatusTooManyRequests},
		{"abuse block active", &services.AbuseBlockedError{BlockedUntil: blockedUntil}, fiber.StatusForbidden},
		{"foreign appointment", &services.OwnershipError{AppointmentID: 7}, fiber.StatusForbidden},
		{"missing clinical fields", services.ErrMissingClinicalFields, fiber.StatusBadRequest},
		{"unclassified", errors.New("connection refused"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := performErrorRequest(t, tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestRespondServiceErrorCarriesDetails(t *testing.T) {
	t.Run("slot unavailable includes date and time", func(t *testing.T) {
		date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
		_, body := performErrorRequest(t, &services.SlotUnavailableError{DoctorID: 1, Date: date, Clock: "09:30"})
		assert.Equal(t, "2026-03-02", body.Details["date"])
		assert.Equal(t, "09:30", body.Details["time"])
	})

	t.Run("lead time includes the remaining hours", func(t *testing.T) {
		_, body := performErrorRequest(t, &services.InsufficientLeadTimeError{HoursRemaining: 6, MinimumHours: 24})
		assert.Equal(t, float64(6), body.Details["hours_remaining"])
		assert.Equal(t, float64(24), body.Details["minimum_hours"])
	})

	t.Run("monthly limit includes the block expiry", func(t *testing.T) {
		until := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
		_, body := performErrorRequest(t, &services.MonthlyAbuseLimitError{Limit: 5, BlockedUntil: until})
		assert.Equal(t, "2026-04-15", body.Details["blocked_until"])
	})

	t.Run("unclassified keeps the underlying cause", func(t *testing.T) {
		_, body := performErrorRequest(t, errors.New("connection refused"))
		assert.Equal(t, "Internal server error", body.Message)
		assert.Equal(t, "connection refused", body.Error)
	})
}
