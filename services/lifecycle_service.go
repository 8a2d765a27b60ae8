package services

import (
	"context"
	"errors"
	"time"

	"github.com/clinicdesk/appointment-server/models"
	"github.com/clinicdesk/appointment-server/repositories"
	"github.com/clinicdesk/appointment-server/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LifecycleService drives appointment state transitions:
//
//	PENDING -> CONFIRMED -> ATTENDED
//
// with CANCELLED and NO_SHOW as terminal states. Repeated confirm/attend
// calls are idempotent no-ops; cancel on an already-cancelled appointment is
// a no-op. Every effective transition appends an audit event.
type LifecycleService struct {
	appointments repositories.AppointmentRepository
	transactions repositories.TransactionRepository
	audits       repositories.AuditRepository
	tx           repositories.TxManager
	log          *zap.Logger
	now          func() time.Time
}

func NewLifecycleService(
	appointments repositories.AppointmentRepository,
	transactions repositories.TransactionRepository,
	audits repositories.AuditRepository,
	tx repositories.TxManager,
	log *zap.Logger,
) *LifecycleService {
	return &LifecycleService{
		appointments: appointments,
		transactions: transactions,
		audits:       audits,
		tx:           tx,
		log:          log,
		now:          time.Now,
	}
}

// Confirm moves PENDING to CONFIRMED. Confirming a CONFIRMED appointment is a
// no-op; terminal states are rejected.
func (s *LifecycleService) Confirm(ctx context.Context, id uint) (*models.Appointment, error) {
	var appointment *models.Appointment
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		appointment, err = s.findAppointment(ctx, id)
		if err != nil {
			return err
		}

		switch appointment.Status {
		case models.StatusConfirmed:
			return nil
		case models.StatusPending:
		default:
			return &InvalidStateTransitionError{From: appointment.Status, Event: "confirm"}
		}

		appointment.Status = models.StatusConfirmed
		if err := s.appointments.Save(ctx, appointment); err != nil {
			return err
		}
		return s.audits.Append(ctx, &models.AuditEvent{
			AppointmentID: appointment.ID,
			Kind:          models.AuditConfirmed,
			Actor:         "staff",
		})
	})
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

// Attend records the clinical outcome and marks the appointment ATTENDED.
// Diagnosis and treatment are mandatory; the payment transaction becomes
// SUCCESSFUL and the billing record PAID. Attending an already-ATTENDED
// appointment is a no-op that leaves the stored clinical fields untouched.
func (s *LifecycleService) Attend(ctx context.Context, id uint, diagnosis, treatment, notes string) (*models.Appointment, error) {
	var appointment *models.Appointment
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		appointment, err = s.findAppointment(ctx, id)
		if err != nil {
			return err
		}

		switch appointment.Status {
		case models.StatusAttended:
			return nil
		case models.StatusPending, models.StatusConfirmed:
		default:
			return &InvalidStateTransitionError{From: appointment.Status, Event: "attend"}
		}

		if diagnosis == "" || treatment == "" {
			return ErrMissingClinicalFields
		}

		appointment.Status = models.StatusAttended
		appointment.Diagnosis = diagnosis
		appointment.Treatment = treatment
		appointment.ClinicalNotes = notes

		paidAt := s.now()
		payment, err := s.transactions.FindByAppointmentAndType(ctx, appointment.ID, models.TxnPayment)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if payment != nil {
			payment.Status = models.TxnSuccessful
			if err := s.transactions.Save(ctx, payment); err != nil {
				return err
			}
			appointment.Billing.PaymentStatus = models.PaymentPaid
			appointment.Billing.PaidAt = &paidAt
		}

		if err := s.appointments.Save(ctx, appointment); err != nil {
			return err
		}
		return s.audits.Append(ctx, &models.AuditEvent{
			AppointmentID: appointment.ID,
			Kind:          models.AuditAttended,
			Actor:         "doctor",
		})
	})
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

// Cancel moves the appointment to CANCELLED. Allowed from PENDING, CONFIRMED
// and ATTENDED; a no-op when already CANCELLED; rejected from NO_SHOW. When
// the payment transaction already succeeded, a REFUND transaction for the
// negated amount is emitted in PROCESSING state.
func (s *LifecycleService) Cancel(ctx context.Context, id uint, reason string) (*models.Appointment, error) {
	return s.cancelAs(ctx, id, reason, "staff")
}

func (s *LifecycleService) cancelAs(ctx context.Context, id uint, reason, actor string) (*models.Appointment, error) {
	var appointment *models.Appointment
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		appointment, err = s.findAppointment(ctx, id)
		if err != nil {
			return err
		}

		switch appointment.Status {
		case models.StatusCancelled:
			return nil
		case models.StatusNoShow:
			return &InvalidStateTransitionError{From: appointment.Status, Event: "cancel"}
		}

		appointment.Status = models.StatusCancelled

		payment, err := s.transactions.FindByAppointmentAndType(ctx, appointment.ID, models.TxnPayment)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if payment != nil && payment.Status == models.TxnSuccessful {
			refund := &models.Transaction{
				AppointmentID: appointment.ID,
				PatientID:     appointment.PatientID,
				Amount:        -payment.Amount,
				Type:          models.TxnRefund,
				Status:        models.TxnProcessing,
				Reference:     utils.NewReference("REF"),
				Description:   "Refund for cancelled appointment",
				OccurredAt:    s.now(),
			}
			if err := s.transactions.Create(ctx, refund); err != nil {
				return err
			}
			appointment.Billing.PaymentStatus = models.PaymentRefunded
		} else {
			appointment.Billing.PaymentStatus = models.PaymentCancelled
		}

		if err := s.appointments.Save(ctx, appointment); err != nil {
			return err
		}
		return s.audits.Append(ctx, &models.AuditEvent{
			AppointmentID: appointment.ID,
			Kind:          models.AuditCancelled,
			Actor:         actor,
			Details:       reason,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("appointment cancelled",
		zap.Uint("appointment_id", appointment.ID),
		zap.String("actor", actor))
	return appointment, nil
}

// MarkNoShow records that the patient did not show up. Only reachable from
// PENDING or CONFIRMED.
func (s *LifecycleService) MarkNoShow(ctx context.Context, id uint) (*models.Appointment, error) {
	var appointment *models.Appointment
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		appointment, err = s.findAppointment(ctx, id)
		if err != nil {
			return err
		}

		switch appointment.Status {
		case models.StatusPending, models.StatusConfirmed:
		default:
			return &InvalidStateTransitionError{From: appointment.Status, Event: "mark no-show"}
		}

		appointment.Status = models.StatusNoShow
		if err := s.appointments.Save(ctx, appointment); err != nil {
			return err
		}
		return s.audits.Append(ctx, &models.AuditEvent{
			AppointmentID: appointment.ID,
			Kind:          models.AuditNoShow,
			Actor:         "doctor",
		})
	})
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

func (s *LifecycleService) findAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	appointment, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &AppointmentNotFoundError{ID: id}
		}
		return nil, err
	}
	return appointment, nil
}
