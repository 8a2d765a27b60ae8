package services

import (
	"context"

	"github.com/clinicdesk/appointment-server/models"
)

type NotificationKind string

const (
	NotifyRescheduled NotificationKind = "appointment.rescheduled"
	NotifyCancelled   NotificationKind = "appointment.cancelled"
	NotifyReassigned  NotificationKind = "appointment.reassigned"
	NotifyReminder    NotificationKind = "appointment.reminder"
)

// Notifier delivers patient-facing notifications. Calls are fire-and-forget:
// a delivery failure is logged by the caller and never rolls back the state
// change that triggered it.
type Notifier interface {
	Notify(ctx context.Context, contact string, kind NotificationKind, payload map[string]string) error
}

// Pricer decides the consultation cost for a new booking.
type Pricer interface {
	Price(ctx context.Context, doctor *models.Doctor) float64
}

const DefaultConsultationFee = 50.00

// FlatFeePricer charges the same fee for every booking. It is the default
// when no external pricing policy is wired.
type FlatFeePricer struct {
	Fee float64
}

func (p FlatFeePricer) Price(ctx context.Context, doctor *models.Doctor) float64 {
	if p.Fee <= 0 {
		return DefaultConsultationFee
	}
	return p.Fee
}

// SlotCache caches the per-doctor open weekdays projection. Implementations
// must degrade gracefully: a miss or backend outage falls back to the
// database query.
type SlotCache interface {
	GetOpenDays(ctx context.Context, doctorID uint) ([]models.DayOfWeek, bool)
	SetOpenDays(ctx context.Context, doctorID uint, days []models.DayOfWeek)
	InvalidateOpenDays(ctx context.Context, doctorID uint)
}
