package repositories

import (
	"context"

	"github.com/clinicdesk/appointment-server/models"
	"gorm.io/gorm"
)

type AuditRepository interface {
	Append(ctx context.Context, event *models.AuditEvent) error
	ListByAppointment(ctx context.Context, appointmentID uint) ([]models.AuditEvent, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Append(ctx context.Context, event *models.AuditEvent) error {
	return dbFrom(ctx, r.db).Create(event).Error
}

func (r *auditRepository) ListByAppointment(ctx context.Context, appointmentID uint) ([]models.AuditEvent, error) {
	var events []models.AuditEvent
	err := dbFrom(ctx, r.db).
		Where("appointment_id = ?", appointmentID).
		Order("id asc").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
