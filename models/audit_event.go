package models

import (
	"time"

	"gorm.io/gorm"
)

type AuditKind string

const (
	AuditCreated      AuditKind = "CREATED"
	AuditConfirmed    AuditKind = "CONFIRMED"
	AuditAttended     AuditKind = "ATTENDED"
	AuditCancelled    AuditKind = "CANCELLED"
	AuditReprogrammed AuditKind = "REPROGRAMMED"
	AuditReassigned   AuditKind = "REASSIGNED"
	AuditNoShow       AuditKind = "NO_SHOW"
)

// AuditEvent is the append-only change trail of an appointment. One row per
// lifecycle or workflow mutation; rows are never updated or deleted.
type AuditEvent struct {
	gorm.Model
	AppointmentID uint      `json:"appointment_id"`
	Kind          AuditKind `json:"kind"`
	Actor         string    `json:"actor"`
	Details       string    `json:"details"`

	OldDate     *time.Time `json:"old_date,omitempty" gorm:"type:date"`
	OldTime     string     `json:"old_time,omitempty"`
	NewDate     *time.Time `json:"new_date,omitempty" gorm:"type:date"`
	NewTime     string     `json:"new_time,omitempty"`
	OldDoctorID uint       `json:"old_doctor_id,omitempty"`
	NewDoctorID uint       `json:"new_doctor_id,omitempty"`
}
