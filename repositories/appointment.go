package repositories

import (
	"context"
	"time"

	"github.com/clinicdesk/appointment-server/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AppointmentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Appointment, error)
	// ExistsNonCancelled reports whether a non-cancelled appointment occupies
	// (doctor, date, clock). Inside a transaction the check locks matching rows
	// so concurrent bookings of the same slot serialize. excludeID skips the
	// appointment being moved during a reprogram; 0 skips nothing.
	ExistsNonCancelled(ctx context.Context, doctorID uint, date time.Time, clock string, excludeID uint) (bool, error)
	// ExistsFutureOnWeekday reports whether any non-cancelled appointment falls
	// on the given weekday on or after the given date.
	ExistsFutureOnWeekday(ctx context.Context, doctorID uint, day models.DayOfWeek, from time.Time) (bool, error)
	ListByPatient(ctx context.Context, patientID uint) ([]models.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID uint) ([]models.Appointment, error)
	ListByDate(ctx context.Context, date time.Time) ([]models.Appointment, error)
	Create(ctx context.Context, appointment *models.Appointment) error
	Save(ctx context.Context, appointment *models.Appointment) error
}

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := dbFrom(ctx, r.db).First(&appointment, id).Error; err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) ExistsNonCancelled(ctx context.Context, doctorID uint, date time.Time, clock string, excludeID uint) (bool, error) {
	var matches []models.Appointment
	q := dbFrom(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("doctor_id = ? AND date = ? AND time = ? AND status <> ?",
			doctorID, date, clock, models.StatusCancelled)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Limit(1).Find(&matches).Error; err != nil {
		return false, err
	}
	return len(matches) > 0, nil
}

func (r *appointmentRepository) ExistsFutureOnWeekday(ctx context.Context, doctorID uint, day models.DayOfWeek, from time.Time) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&models.Appointment{}).
		Where("doctor_id = ? AND status <> ? AND date >= ? AND EXTRACT(DOW FROM date) = ?",
			doctorID, models.StatusCancelled, from, int(day)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID uint) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := dbFrom(ctx, r.db).
		Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("date desc, time desc").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID uint) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := dbFrom(ctx, r.db).
		Preload("Patient").
		Where("doctor_id = ?", doctorID).
		Order("date asc, time asc").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) ListByDate(ctx context.Context, date time.Time) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := dbFrom(ctx, r.db).
		Preload("Patient").Preload("Doctor").
		Where("date = ?", date).
		Order("time asc").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	return dbFrom(ctx, r.db).Create(appointment).Error
}

func (r *appointmentRepository) Save(ctx context.Context, appointment *models.Appointment) error {
	return dbFrom(ctx, r.db).Save(appointment).Error
}
