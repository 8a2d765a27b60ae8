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

// BookingService validates and creates appointments. The availability check
// and the insert run inside one transaction so two concurrent requests for
// the same slot resolve to one winner; the loser gets SlotUnavailableError.
type BookingService struct {
	doctors      repositories.DoctorRepository
	appointments repositories.AppointmentRepository
	transactions repositories.TransactionRepository
	audits       repositories.AuditRepository
	availability *AvailabilityService
	tx           repositories.TxManager
	pricer       Pricer
	log          *zap.Logger
	now          func() time.Time
}

func NewBookingService(
	doctors repositories.DoctorRepository,
	appointments repositories.AppointmentRepository,
	transactions repositories.TransactionRepository,
	audits repositories.AuditRepository,
	availability *AvailabilityService,
	tx repositories.TxManager,
	pricer Pricer,
	log *zap.Logger,
) *BookingService {
	if pricer == nil {
		pricer = FlatFeePricer{}
	}
	return &BookingService{
		doctors:      doctors,
		appointments: appointments,
		transactions: transactions,
		audits:       audits,
		availability: availability,
		tx:           tx,
		pricer:       pricer,
		log:          log,
		now:          time.Now,
	}
}

// Book creates a PENDING appointment with a fresh billing record and a
// PROCESSING payment transaction. No notification is sent on initial booking.
func (s *BookingService) Book(ctx context.Context, patient *models.Patient, date time.Time, clock string, doctorID uint, reason string) (*models.Appointment, error) {
	clock, err := utils.NormalizeClock(clock)
	if err != nil {
		return nil, err
	}
	date = utils.DateOnly(date)

	doctor, err := s.doctors.FindByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &DoctorNotFoundError{ID: doctorID}
		}
		return nil, err
	}

	var appointment *models.Appointment
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		free, err := s.availability.IsBookable(ctx, doctorID, date, clock, 0)
		if err != nil {
			return err
		}
		if !free {
			return &SlotUnavailableError{DoctorID: doctorID, Date: date, Clock: clock}
		}

		cost := s.pricer.Price(ctx, doctor)
		reference := utils.NewReference("TXN")

		appointment = &models.Appointment{
			Date:      date,
			Time:      clock,
			Status:    models.StatusPending,
			PatientID: patient.ID,
			DoctorID:  doctorID,
			Reason:    reason,
			Billing: models.BillingRecord{
				Cost:           cost,
				PaymentStatus:  models.PaymentPending,
				TransactionRef: reference,
			},
		}
		if err := s.appointments.Create(ctx, appointment); err != nil {
			return err
		}

		txn := &models.Transaction{
			AppointmentID: appointment.ID,
			PatientID:     patient.ID,
			Amount:        cost,
			Type:          models.TxnPayment,
			Status:        models.TxnProcessing,
			Reference:     reference,
			Description:   "Consultation fee - " + doctor.Name,
			OccurredAt:    s.now(),
		}
		if err := s.transactions.Create(ctx, txn); err != nil {
			return err
		}

		return s.audits.Append(ctx, &models.AuditEvent{
			AppointmentID: appointment.ID,
			Kind:          models.AuditCreated,
			Actor:         patient.Email,
			Details:       "appointment booked",
			NewDate:       &appointment.Date,
			NewTime:       appointment.Time,
			NewDoctorID:   doctorID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("appointment booked",
		zap.Uint("appointment_id", appointment.ID),
		zap.Uint("doctor_id", doctorID),
		zap.Uint("patient_id", patient.ID),
		zap.String("date", date.Format("2006-01-02")),
		zap.String("time", clock))
	return appointment, nil
}
