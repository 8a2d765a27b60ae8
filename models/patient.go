package models

import (
	"time"

	"gorm.io/gorm"
)

// Patient carries the rolling-month reprogramming counters used by the
// anti-abuse policy. The counters are only touched by patient-initiated
// reschedules; doctor-initiated moves never count against them.
type Patient struct {
	gorm.Model
	Role     string `json:"role" gorm:"default:patient"`
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique"`
	Password string `json:"password,omitempty"`
	Phone    string `json:"phone"`

	ReprogramsThisMonth int        `json:"reprograms_this_month"`
	LastReprogramAt     *time.Time `json:"last_reprogram_at,omitempty"`
	AbuseBlocked        bool       `json:"abuse_blocked"`
	BlockedUntil        *time.Time `json:"blocked_until,omitempty"`

	Appointments []Appointment `json:"appointments,omitempty" gorm:"foreignKey:PatientID"`
	Transactions []Transaction `json:"transactions,omitempty" gorm:"foreignKey:PatientID"`
}

// BlockedAt reports whether the patient's abuse block is in force at the
// given instant. An expired block no longer restricts, even before the
// sweep clears the flag.
func (p *Patient) BlockedAt(t time.Time) bool {
	return p.AbuseBlocked && p.BlockedUntil != nil && t.Before(*p.BlockedUntil)
}
