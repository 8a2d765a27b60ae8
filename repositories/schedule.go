package repositories

import (
	"context"

	"github.com/clinicdesk/appointment-server/models"
	"gorm.io/gorm"
)

type ScheduleRepository interface {
	FindByID(ctx context.Context, id uint) (*models.WeeklySchedule, error)
	// FindActiveByDoctorAndDay returns the doctor's ACTIVE windows for one
	// weekday ordered by start time. excludeID skips a window, for
	// update-conflict checks; 0 skips nothing.
	FindActiveByDoctorAndDay(ctx context.Context, doctorID uint, day models.DayOfWeek, excludeID uint) ([]models.WeeklySchedule, error)
	FindActiveByDoctor(ctx context.Context, doctorID uint) ([]models.WeeklySchedule, error)
	FindByDoctor(ctx context.Context, doctorID uint) ([]models.WeeklySchedule, error)
	Create(ctx context.Context, window *models.WeeklySchedule) error
	Save(ctx context.Context, window *models.WeeklySchedule) error
	Delete(ctx context.Context, window *models.WeeklySchedule) error
}

type scheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) FindByID(ctx context.Context, id uint) (*models.WeeklySchedule, error) {
	var window models.WeeklySchedule
	if err := dbFrom(ctx, r.db).First(&window, id).Error; err != nil {
		return nil, err
	}
	return &window, nil
}

func (r *scheduleRepository) FindActiveByDoctorAndDay(ctx context.Context, doctorID uint, day models.DayOfWeek, excludeID uint) ([]models.WeeklySchedule, error) {
	var windows []models.WeeklySchedule
	q := dbFrom(ctx, r.db).
		Where("doctor_id = ? AND day_of_week = ? AND status = ?", doctorID, day, models.ScheduleActive)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Order("start_time asc").Find(&windows).Error; err != nil {
		return nil, err
	}
	return windows, nil
}

func (r *scheduleRepository) FindActiveByDoctor(ctx context.Context, doctorID uint) ([]models.WeeklySchedule, error) {
	var windows []models.WeeklySchedule
	err := dbFrom(ctx, r.db).
		Where("doctor_id = ? AND status = ?", doctorID, models.ScheduleActive).
		Order("day_of_week asc, start_time asc").
		Find(&windows).Error
	if err != nil {
		return nil, err
	}
	return windows, nil
}

func (r *scheduleRepository) FindByDoctor(ctx context.Context, doctorID uint) ([]models.WeeklySchedule, error) {
	var windows []models.WeeklySchedule
	err := dbFrom(ctx, r.db).
		Where("doctor_id = ?", doctorID).
		Order("day_of_week asc, start_time asc").
		Find(&windows).Error
	if err != nil {
		return nil, err
	}
	return windows, nil
}

func (r *scheduleRepository) Create(ctx context.Context, window *models.WeeklySchedule) error {
	return dbFrom(ctx, r.db).Create(window).Error
}

func (r *scheduleRepository) Save(ctx context.Context, window *models.WeeklySchedule) error {
	return dbFrom(ctx, r.db).Save(window).Error
}

func (r *scheduleRepository) Delete(ctx context.Context, window *models.WeeklySchedule) error {
	return dbFrom(ctx, r.db).Delete(window).Error
}
