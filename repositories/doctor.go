package repositories

import (
	"context"

	"github.com/clinicdesk/appointment-server/models"
	"gorm.io/gorm"
)

type DoctorRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Doctor, error)
	FindByEmail(ctx context.Context, email string) (*models.Doctor, error)
	FindActiveBySpecialty(ctx context.Context, specialty string, excludeID uint) ([]models.Doctor, error)
	List(ctx context.Context) ([]models.Doctor, error)
	Create(ctx context.Context, doctor *models.Doctor) error
	Save(ctx context.Context, doctor *models.Doctor) error
}

type doctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) FindByID(ctx context.Context, id uint) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := dbFrom(ctx, r.db).First(&doctor, id).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := dbFrom(ctx, r.db).Where("email = ?", email).First(&doctor).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindActiveBySpecialty(ctx context.Context, specialty string, excludeID uint) ([]models.Doctor, error) {
	var doctors []models.Doctor
	q := dbFrom(ctx, r.db).
		Where("specialty = ? AND status = ?", specialty, models.DoctorActive)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Order("name asc").Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) List(ctx context.Context) ([]models.Doctor, error) {
	var doctors []models.Doctor
	if err := dbFrom(ctx, r.db).Order("name asc").Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	return dbFrom(ctx, r.db).Create(doctor).Error
}

func (r *doctorRepository) Save(ctx context.Context, doctor *models.Doctor) error {
	return dbFrom(ctx, r.db).Save(doctor).Error
}
