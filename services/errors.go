package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/clinicdesk/appointment-server/models"
)

// Domain errors are expected, recoverable failures surfaced to the caller
// with enough structured data to render feedback. Infrastructure failures
// are returned as-is (wrapped) and map to 500 at the edge.

var ErrMissingClinicalFields = errors.New("diagnosis and treatment are required to mark an appointment as attended")

type SlotUnavailableError struct {
	DoctorID uint
	Date     time.Time
	Clock    string
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("the slot %s %s is not available for doctor %d",
		e.Date.Format("2006-01-02"), e.Clock, e.DoctorID)
}

type DoctorNotFoundError struct {
	ID uint
}

func (e *DoctorNotFoundError) Error() string {
	return fmt.Sprintf("doctor %d not found", e.ID)
}

type AppointmentNotFoundError struct {
	ID uint
}

func (e *AppointmentNotFoundError) Error() string {
	return fmt.Sprintf("appointment %d not found", e.ID)
}

type ScheduleNotFoundError struct {
	ID uint
}

func (e *ScheduleNotFoundError) Error() string {
	return fmt.Sprintf("schedule window %d not found", e.ID)
}

type PatientNotFoundError struct {
	ID uint
}

func (e *PatientNotFoundError) Error() string {
	return fmt.Sprintf("patient %d not found", e.ID)
}

type InvalidStateTransitionError struct {
	From  models.AppointmentStatus
	Event string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("cannot %s an appointment in state %s", e.Event, e.From)
}

// ConflictError reports an overlap between weekly schedule windows.
type ConflictError struct {
	DoctorID uint
	Day      models.DayOfWeek
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("schedule conflict detected for doctor %d on %s", e.DoctorID, e.Day)
}

type HasFutureBookingsError struct {
	ScheduleID uint
}

func (e *HasFutureBookingsError) Error() string {
	return fmt.Sprintf("schedule window %d has future appointments booked against it", e.ScheduleID)
}

type SpecialtyMismatchError struct {
	Want string
	Got  string
}

func (e *SpecialtyMismatchError) Error() string {
	return fmt.Sprintf("the new doctor must share the specialty %q, got %q", e.Want, e.Got)
}

type ReprogramLimitPerAppointmentError struct {
	Limit int
}

func (e *ReprogramLimitPerAppointmentError) Error() string {
	return fmt.Sprintf("this appointment has already been rescheduled %d times, no further reschedules are allowed", e.Limit)
}

type InsufficientLeadTimeError struct {
	HoursRemaining int64
	MinimumHours   int
}

func (e *InsufficientLeadTimeError) Error() string {
	return fmt.Sprintf("appointments cannot be rescheduled with less than %d hours notice, %d hours remain",
		e.MinimumHours, e.HoursRemaining)
}

type MonthlyAbuseLimitError struct {
	Limit        int
	BlockedUntil time.Time
}

func (e *MonthlyAbuseLimitError) Error() string {
	return fmt.Sprintf("monthly limit of %d reschedules exceeded, account restricted until %s",
		e.Limit, e.BlockedUntil.Format("2006-01-02"))
}

type AbuseBlockedError struct {
	BlockedUntil time.Time
}

func (e *AbuseBlockedError) Error() string {
	return fmt.Sprintf("rescheduling is temporarily blocked until %s due to excessive reschedules",
		e.BlockedUntil.Format("2006-01-02"))
}

// OwnershipError signals a patient acting on another patient's appointment.
type OwnershipError struct {
	AppointmentID uint
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("appointment %d does not belong to the requesting patient", e.AppointmentID)
}
