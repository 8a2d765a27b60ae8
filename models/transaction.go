package models

import (
	"time"

	"gorm.io/gorm"
)

type TransactionType string

const (
	TxnPayment          TransactionType = "PAYMENT"
	TxnRefund           TransactionType = "REFUND"
	TxnAdditionalCharge TransactionType = "ADDITIONAL_CHARGE"
	TxnDiscount         TransactionType = "DISCOUNT"
)

func (t TransactionType) Description() string {
	switch t {
	case TxnPayment:
		return "Payment"
	case TxnRefund:
		return "Refund"
	case TxnAdditionalCharge:
		return "Additional Charge"
	case TxnDiscount:
		return "Discount"
	default:
		return string(t)
	}
}

type TransactionStatus string

const (
	TxnProcessing    TransactionStatus = "PROCESSING"
	TxnSuccessful    TransactionStatus = "SUCCESSFUL"
	TxnFailed        TransactionStatus = "FAILED"
	TxnCancelled     TransactionStatus = "CANCELLED"
	TxnPendingReview TransactionStatus = "PENDING_REVIEW"
)

func (s TransactionStatus) Description() string {
	switch s {
	case TxnProcessing:
		return "Processing"
	case TxnSuccessful:
		return "Successful"
	case TxnFailed:
		return "Failed"
	case TxnCancelled:
		return "Cancelled"
	case TxnPendingReview:
		return "Pending Review"
	default:
		return string(s)
	}
}

// Transaction is the financial audit record tied to an appointment.
// Refunds carry a negative amount.
type Transaction struct {
	gorm.Model
	AppointmentID uint        `json:"appointment_id"`
	Appointment   Appointment `json:"appointment,omitempty" gorm:"foreignKey:AppointmentID"`
	PatientID     uint        `json:"patient_id"`
	Patient       Patient     `json:"patient,omitempty" gorm:"foreignKey:PatientID"`

	Amount           float64           `json:"amount"`
	Type             TransactionType   `json:"type" gorm:"default:PAYMENT"`
	Status           TransactionStatus `json:"status" gorm:"default:PROCESSING"`
	Method           PaymentMethod     `json:"method"`
	Reference        string            `json:"reference"`
	AuthorizationRef string            `json:"authorization_ref"`
	Description      string            `json:"description"`
	OccurredAt       time.Time         `json:"occurred_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.Status == "" {
		t.Status = TxnProcessing
	}
	if t.OccurredAt.IsZero() {
		t.OccurredAt = time.Now()
	}
	return nil
}
