package models

import (
	"gorm.io/gorm"
)

type DoctorStatus string

const (
	DoctorActive     DoctorStatus = "ACTIVE"
	DoctorInactive   DoctorStatus = "INACTIVE"
	DoctorOnVacation DoctorStatus = "ON_VACATION"
	DoctorOnLeave    DoctorStatus = "ON_LEAVE"
)

// Description returns the human-readable label for the status.
func (s DoctorStatus) Description() string {
	switch s {
	case DoctorActive:
		return "Active"
	case DoctorInactive:
		return "Inactive"
	case DoctorOnVacation:
		return "On Vacation"
	case DoctorOnLeave:
		return "On Leave"
	default:
		return string(s)
	}
}

// Doctor is never hard-deleted; deactivation preserves appointment history.
type Doctor struct {
	gorm.Model
	Name          string           `json:"name"`
	Email         string           `json:"email" gorm:"unique"`
	Password      string           `json:"password,omitempty"`
	Specialty     string           `json:"specialty"`
	Phone         string           `json:"phone"`
	LicenseNumber string           `json:"license_number"`
	Status        DoctorStatus     `json:"status" gorm:"default:ACTIVE"`
	Schedules     []WeeklySchedule `json:"schedules,omitempty" gorm:"foreignKey:DoctorID"`
	Appointments  []Appointment    `json:"appointments,omitempty" gorm:"foreignKey:DoctorID"`
}

func (d *Doctor) BeforeCreate(tx *gorm.DB) error {
	if d.Status == "" {
		d.Status = DoctorActive
	}
	return nil
}
