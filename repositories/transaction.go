package repositories

import (
	"context"

	"github.com/clinicdesk/appointment-server/models"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	// FindByAppointmentAndType returns the most recent transaction of the
	// given type for an appointment, or gorm.ErrRecordNotFound.
	FindByAppointmentAndType(ctx context.Context, appointmentID uint, kind models.TransactionType) (*models.Transaction, error)
	ListByPatient(ctx context.Context, patientID uint) ([]models.Transaction, error)
	Create(ctx context.Context, txn *models.Transaction) error
	Save(ctx context.Context, txn *models.Transaction) error
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) FindByAppointmentAndType(ctx context.Context, appointmentID uint, kind models.TransactionType) (*models.Transaction, error) {
	var txn models.Transaction
	err := dbFrom(ctx, r.db).
		Where("appointment_id = ? AND type = ?", appointmentID, kind).
		Order("id desc").
		First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) ListByPatient(ctx context.Context, patientID uint) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := dbFrom(ctx, r.db).
		Where("patient_id = ?", patientID).
		Order("occurred_at desc").
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *transactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	return dbFrom(ctx, r.db).Create(txn).Error
}

func (r *transactionRepository) Save(ctx context.Context, txn *models.Transaction) error {
	return dbFrom(ctx, r.db).Save(txn).Error
}
