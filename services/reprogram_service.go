package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clinicdesk/appointment-server/models"
	"github.com/clinicdesk/appointment-server/repositories"
	"github.com/clinicdesk/appointment-server/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Anti-abuse policy for patient-initiated reschedules. Doctor-initiated
// moves never count against these limits.
const (
	maxReprogramsPerAppointment = 2
	minLeadTimeHours            = 24
	maxReprogramsPerMonth       = 5
	abuseBlockDays              = 30
)

// ReprogramService implements the reprogramming and reassignment workflow:
// doctor-initiated reschedule/cancel/reassign with audit trail and patient
// notification, and patient-initiated reschedule/cancel guarded by the
// anti-abuse policy.
type ReprogramService struct {
	appointments repositories.AppointmentRepository
	doctors      repositories.DoctorRepository
	patients     repositories.PatientRepository
	audits       repositories.AuditRepository
	availability *AvailabilityService
	lifecycle    *LifecycleService
	tx           repositories.TxManager
	notifier     Notifier
	log          *zap.Logger
	now          func() time.Time
}

func NewReprogramService(
	appointments repositories.AppointmentRepository,
	doctors repositories.DoctorRepository,
	patients repositories.PatientRepository,
	audits repositories.AuditRepository,
	availability *AvailabilityService,
	lifecycle *LifecycleService,
	tx repositories.TxManager,
	notifier Notifier,
	log *zap.Logger,
) *ReprogramService {
	return &ReprogramService{
		appointments: appointments,
		doctors:      doctors,
		patients:     patients,
		audits:       audits,
		availability: availability,
		lifecycle:    lifecycle,
		tx:           tx,
		notifier:     notifier,
		log:          log,
		now:          time.Now,
	}
}

// Reprogram is the doctor-initiated reschedule. The new slot must be free for
// the same doctor, excluding the appointment being moved. The patient's abuse
// counters and the appointment's reprogram counter are not touched.
func (s *ReprogramService) Reprogram(ctx context.Context, apptID uint, newDate time.Time, newClock, reason, patientMessage string) (*models.Appointment, error) {
	var appointment *models.Appointment
	var oldDate time.Time
	var oldClock string

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		appointment, err = s.findAppointment(ctx, apptID)
		if err != nil {
			return err
		}
		oldDate, oldClock, err = s.move(ctx, appointment, newDate, newClock, reason, patientMessage, "doctor")
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifyPatient(ctx, appointment.PatientID, NotifyRescheduled, map[string]string{
		"old_date": oldDate.Format("2006-01-02"),
		"old_time": oldClock,
		"new_date": appointment.Date.Format("2006-01-02"),
		"new_time": appointment.Time,
		"message":  patientMessage,
	})
	return appointment, nil
}

// CancelByDoctor cancels on the doctor's behalf and notifies the patient.
// Refund handling follows the standard cancel transition.
func (s *ReprogramService) CancelByDoctor(ctx context.Context, apptID uint, reason, patientMessage string) (*models.Appointment, error) {
	appointment, err := s.lifecycle.cancelAs(ctx, apptID, reason, "doctor")
	if err != nil {
		return nil, err
	}

	s.notifyPatient(ctx, appointment.PatientID, NotifyCancelled, map[string]string{
		"date":    appointment.Date.Format("2006-01-02"),
		"time":    appointment.Time,
		"reason":  reason,
		"message": patientMessage,
	})
	return appointment, nil
}

// Reassign transfers the appointment to another ACTIVE doctor of the same
// specialty who is free at the same date and time.
func (s *ReprogramService) Reassign(ctx context.Context, apptID uint, newDoctorID uint, reason, patientMessage string) (*models.Appointment, error) {
	var appointment *models.Appointment
	var oldDoctor, newDoctor *models.Doctor

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		appointment, err = s.findAppointment(ctx, apptID)
		if err != nil {
			return err
		}
		switch appointment.Status {
		case models.StatusPending, models.StatusConfirmed:
		default:
			return &InvalidStateTransitionError{From: appointment.Status, Event: "reassign"}
		}

		oldDoctor, err = s.doctors.FindByID(ctx, appointment.DoctorID)
		if err != nil {
			return err
		}
		newDoctor, err = s.doctors.FindByID(ctx, newDoctorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &DoctorNotFoundError{ID: newDoctorID}
			}
			return err
		}

		if oldDoctor.Specialty != newDoctor.Specialty {
			return &SpecialtyMismatchError{Want: oldDoctor.Specialty, Got: newDoctor.Specialty}
		}

		free, err := s.availability.IsBookable(ctx, newDoctorID, appointment.Date, appointment.Time, 0)
		if err != nil {
			return err
		}
		if !free {
			return &SlotUnavailableError{DoctorID: newDoctorID, Date: appointment.Date, Clock: appointment.Time}
		}

		appointment.DoctorID = newDoctorID
		appointment.Status = models.StatusConfirmed
		if err := s.appointments.Save(ctx, appointment); err != nil {
			return err
		}
		return s.audits.Append(ctx, &models.AuditEvent{
			AppointmentID: appointment.ID,
			Kind:          models.AuditReassigned,
			Actor:         "doctor",
			Details:       fmt.Sprintf("reason: %s; message: %s", reason, patientMessage),
			OldDoctorID:   oldDoctor.ID,
			NewDoctorID:   newDoctorID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifyPatient(ctx, appointment.PatientID, NotifyReassigned, map[string]string{
		"date":       appointment.Date.Format("2006-01-02"),
		"time":       appointment.Time,
		"old_doctor": oldDoctor.Name,
		"new_doctor": newDoctor.Name,
		"message":    patientMessage,
	})
	return appointment, nil
}

// AvailableDoctorsForReassignment lists the other ACTIVE doctors who share
// the appointment's specialty.
func (s *ReprogramService) AvailableDoctorsForReassignment(ctx context.Context, apptID uint) ([]models.Doctor, error) {
	appointment, err := s.findAppointment(ctx, apptID)
	if err != nil {
		return nil, err
	}
	current, err := s.doctors.FindByID(ctx, appointment.DoctorID)
	if err != nil {
		return nil, err
	}
	return s.doctors.FindActiveBySpecialty(ctx, current.Specialty, current.ID)
}

// ChangeHistory returns the appointment's audit trail, oldest first.
func (s *ReprogramService) ChangeHistory(ctx context.Context, apptID uint) ([]models.AuditEvent, error) {
	if _, err := s.findAppointment(ctx, apptID); err != nil {
		return nil, err
	}
	return s.audits.ListByAppointment(ctx, apptID)
}

// ReprogramByPatient applies the anti-abuse policy, in strict order, before
// performing the same move as a doctor-initiated reschedule. On success the
// appointment's reprogram counter and the patient's monthly counter advance.
func (s *ReprogramService) ReprogramByPatient(ctx context.Context, patientEmail string, apptID uint, newDate time.Time, newClock, reason string) (*models.Appointment, error) {
	appointment, err := s.findAppointment(ctx, apptID)
	if err != nil {
		return nil, err
	}
	patient, err := s.ownedBy(ctx, appointment, patientEmail)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := utils.DateOnly(now)

	// 1. Standing abuse block.
	if patient.BlockedAt(now) {
		return nil, &AbuseBlockedError{BlockedUntil: *patient.BlockedUntil}
	}

	// 2. Per-appointment limit.
	if appointment.ReprogramCount >= maxReprogramsPerAppointment {
		return nil, &ReprogramLimitPerAppointmentError{Limit: maxReprogramsPerAppointment}
	}

	// 3. Minimum lead time before the current slot.
	startsAt, err := utils.CombineDateAndClock(appointment.Date, appointment.Time)
	if err != nil {
		return nil, err
	}
	hoursLeft := int64(startsAt.Sub(now).Hours())
	if hoursLeft < minLeadTimeHours {
		if hoursLeft < 0 {
			hoursLeft = 0
		}
		return nil, &InsufficientLeadTimeError{HoursRemaining: hoursLeft, MinimumHours: minLeadTimeHours}
	}

	// 4. Monthly quota, with rolling-month reset.
	rolledOver := s.monthlyCounterExpired(patient, today)
	if rolledOver {
		patient.ReprogramsThisMonth = 0
	}
	if patient.ReprogramsThisMonth >= maxReprogramsPerMonth {
		until := today.AddDate(0, 0, abuseBlockDays)
		patient.AbuseBlocked = true
		patient.BlockedUntil = &until
		if err := s.patients.Save(ctx, patient); err != nil {
			return nil, err
		}
		s.log.Warn("patient blocked for reprogramming abuse",
			zap.Uint("patient_id", patient.ID),
			zap.Time("blocked_until", until))
		return nil, &MonthlyAbuseLimitError{Limit: maxReprogramsPerMonth, BlockedUntil: until}
	}

	// 5. Perform the move and advance the counters atomically.
	var oldDate time.Time
	var oldClock string
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		oldDate, oldClock, err = s.move(ctx, appointment, newDate, newClock, reason, "", "patient")
		if err != nil {
			return err
		}

		appointment.ReprogramCount++
		appointment.LastReprogramAt = &now
		if err := s.appointments.Save(ctx, appointment); err != nil {
			return err
		}

		patient.ReprogramsThisMonth++
		patient.LastReprogramAt = &today
		return s.patients.Save(ctx, patient)
	})
	if err != nil {
		return nil, err
	}

	s.notifyPatient(ctx, patient.ID, NotifyRescheduled, map[string]string{
		"old_date": oldDate.Format("2006-01-02"),
		"old_time": oldClock,
		"new_date": appointment.Date.Format("2006-01-02"),
		"new_time": appointment.Time,
	})
	return appointment, nil
}

// CancelByPatient verifies ownership and delegates to the standard cancel
// transition.
func (s *ReprogramService) CancelByPatient(ctx context.Context, patientEmail string, apptID uint, reason string) (*models.Appointment, error) {
	appointment, err := s.findAppointment(ctx, apptID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedBy(ctx, appointment, patientEmail); err != nil {
		return nil, err
	}
	return s.lifecycle.cancelAs(ctx, apptID, reason, "patient")
}

// move relocates an appointment to a new slot of its current doctor. Returns
// the previous date and time for the audit trail and notifications. Callers
// run it inside a transaction.
func (s *ReprogramService) move(ctx context.Context, appointment *models.Appointment, newDate time.Time, newClock, reason, patientMessage, actor string) (time.Time, string, error) {
	switch appointment.Status {
	case models.StatusPending, models.StatusConfirmed:
	default:
		return time.Time{}, "", &InvalidStateTransitionError{From: appointment.Status, Event: "reprogram"}
	}

	newClock, err := utils.NormalizeClock(newClock)
	if err != nil {
		return time.Time{}, "", err
	}
	newDate = utils.DateOnly(newDate)

	free, err := s.availability.IsBookable(ctx, appointment.DoctorID, newDate, newClock, appointment.ID)
	if err != nil {
		return time.Time{}, "", err
	}
	if !free {
		return time.Time{}, "", &SlotUnavailableError{DoctorID: appointment.DoctorID, Date: newDate, Clock: newClock}
	}

	oldDate := appointment.Date
	oldClock := appointment.Time
	appointment.Date = newDate
	appointment.Time = newClock
	appointment.Status = models.StatusConfirmed

	if err := s.appointments.Save(ctx, appointment); err != nil {
		return time.Time{}, "", err
	}

	details := "reason: " + reason
	if patientMessage != "" {
		details += "; message: " + patientMessage
	}
	err = s.audits.Append(ctx, &models.AuditEvent{
		AppointmentID: appointment.ID,
		Kind:          models.AuditReprogrammed,
		Actor:         actor,
		Details:       details,
		OldDate:       &oldDate,
		OldTime:       oldClock,
		NewDate:       &appointment.Date,
		NewTime:       appointment.Time,
	})
	if err != nil {
		return time.Time{}, "", err
	}
	return oldDate, oldClock, nil
}

// monthlyCounterExpired reports whether more than one month has passed since
// the patient's last reprogramming, which resets the monthly counter.
func (s *ReprogramService) monthlyCounterExpired(patient *models.Patient, today time.Time) bool {
	if patient.LastReprogramAt == nil {
		return true
	}
	return today.After(patient.LastReprogramAt.AddDate(0, 1, 0))
}

func (s *ReprogramService) ownedBy(ctx context.Context, appointment *models.Appointment, email string) (*models.Patient, error) {
	patient, err := s.patients.FindByID(ctx, appointment.PatientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &PatientNotFoundError{ID: appointment.PatientID}
		}
		return nil, err
	}
	if patient.Email != email {
		return nil, &OwnershipError{AppointmentID: appointment.ID}
	}
	return patient, nil
}

func (s *ReprogramService) findAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	appointment, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &AppointmentNotFoundError{ID: id}
		}
		return nil, err
	}
	return appointment, nil
}

// notifyPatient delivers fire-and-forget: a failed notification is logged
// and never rolls back the state change.
func (s *ReprogramService) notifyPatient(ctx context.Context, patientID uint, kind NotificationKind, payload map[string]string) {
	if s.notifier == nil {
		return
	}
	patient, err := s.patients.FindByID(ctx, patientID)
	if err != nil {
		s.log.Warn("could not resolve patient contact for notification",
			zap.Uint("patient_id", patientID), zap.Error(err))
		return
	}
	if err := s.notifier.Notify(ctx, patient.Email, kind, payload); err != nil {
		s.log.Warn("notification delivery failed",
			zap.Uint("patient_id", patientID),
			zap.String("kind", string(kind)),
			zap.Error(err))
	}
}
