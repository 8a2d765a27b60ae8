package repositories

import (
	"context"

	"github.com/clinicdesk/appointment-server/models"
	"gorm.io/gorm"
)

type PatientRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Patient, error)
	FindByEmail(ctx context.Context, email string) (*models.Patient, error)
	Create(ctx context.Context, patient *models.Patient) error
	Save(ctx context.Context, patient *models.Patient) error
}

type patientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) FindByID(ctx context.Context, id uint) (*models.Patient, error) {
	var patient models.Patient
	if err := dbFrom(ctx, r.db).First(&patient, id).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindByEmail(ctx context.Context, email string) (*models.Patient, error) {
	var patient models.Patient
	if err := dbFrom(ctx, r.db).Where("email = ?", email).First(&patient).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) Create(ctx context.Context, patient *models.Patient) error {
	return dbFrom(ctx, r.db).Create(patient).Error
}

func (r *patientRepository) Save(ctx context.Context, patient *models.Patient) error {
	return dbFrom(ctx, r.db).Save(patient).Error
}
