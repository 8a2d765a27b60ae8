package models

import (
	"time"

	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusAttended  AppointmentStatus = "ATTENDED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusNoShow    AppointmentStatus = "NO_SHOW"
)

func (s AppointmentStatus) Description() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusConfirmed:
		return "Confirmed"
	case StatusAttended:
		return "Attended"
	case StatusCancelled:
		return "Cancelled"
	case StatusNoShow:
		return "No Show"
	default:
		return string(s)
	}
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentPaid      PaymentStatus = "PAID"
	PaymentPartial   PaymentStatus = "PARTIAL"
	PaymentCancelled PaymentStatus = "CANCELLED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

func (s PaymentStatus) Description() string {
	switch s {
	case PaymentPending:
		return "Pending"
	case PaymentPaid:
		return "Paid"
	case PaymentPartial:
		return "Partial Payment"
	case PaymentCancelled:
		return "Cancelled"
	case PaymentRefunded:
		return "Refunded"
	default:
		return string(s)
	}
}

type PaymentMethod string

const (
	MethodCash            PaymentMethod = "CASH"
	MethodCreditCard      PaymentMethod = "CREDIT_CARD"
	MethodDebitCard       PaymentMethod = "DEBIT_CARD"
	MethodBankTransfer    PaymentMethod = "BANK_TRANSFER"
	MethodHealthInsurance PaymentMethod = "HEALTH_INSURANCE"
)

func (m PaymentMethod) Description() string {
	switch m {
	case MethodCash:
		return "Cash"
	case MethodCreditCard:
		return "Credit Card"
	case MethodDebitCard:
		return "Debit Card"
	case MethodBankTransfer:
		return "Bank Transfer"
	case MethodHealthInsurance:
		return "Health Insurance"
	default:
		return string(m)
	}
}

// BillingRecord is embedded in Appointment.
type BillingRecord struct {
	Cost           float64       `json:"cost"`
	PaymentStatus  PaymentStatus `json:"payment_status" gorm:"default:PENDING"`
	PaymentMethod  PaymentMethod `json:"payment_method"`
	TransactionRef string        `json:"transaction_ref"`
	PaidAt         *time.Time    `json:"paid_at,omitempty"`
}

// Appointment is never physically deleted; cancellation is a status.
// Invariant: at most one non-cancelled appointment per (doctor, date, time),
// enforced by the booking transaction plus a partial unique index.
type Appointment struct {
	gorm.Model
	Date   time.Time         `json:"date" gorm:"type:date"`
	Time   string            `json:"time"` // "HH:MM" in 24h
	Status AppointmentStatus `json:"status" gorm:"default:PENDING"`

	PatientID uint    `json:"patient_id"`
	Patient   Patient `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	DoctorID  uint    `json:"doctor_id"`
	Doctor    Doctor  `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`

	Reason string `json:"reason"`

	// Clinical fields, written once the appointment is attended.
	Diagnosis     string `json:"diagnosis,omitempty"`
	Treatment     string `json:"treatment,omitempty"`
	ClinicalNotes string `json:"clinical_notes,omitempty"`

	ReprogramCount  int        `json:"reprogram_count"`
	LastReprogramAt *time.Time `json:"last_reprogram_at,omitempty"`

	Billing BillingRecord `json:"billing" gorm:"embedded;embeddedPrefix:billing_"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusPending
	}
	return nil
}

// StartsAt combines the calendar date with the "HH:MM" time of day.
func (a *Appointment) StartsAt() time.Time {
	t, err := time.Parse("15:04", a.Time)
	if err != nil {
		return a.Date
	}
	return time.Date(a.Date.Year(), a.Date.Month(), a.Date.Day(),
		t.Hour(), t.Minute(), 0, 0, a.Date.Location())
}
