package models

import (
	"gorm.io/gorm"
)

type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

func (d DayOfWeek) String() string {
	names := [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	if d < Sunday || d > Saturday {
		return "Unknown"
	}
	return names[d]
}

type ScheduleStatus string

const (
	ScheduleActive   ScheduleStatus = "ACTIVE"
	ScheduleInactive ScheduleStatus = "INACTIVE"
	ScheduleBlocked  ScheduleStatus = "BLOCKED"
)

func (s ScheduleStatus) Description() string {
	switch s {
	case ScheduleActive:
		return "Active"
	case ScheduleInactive:
		return "Inactive"
	case ScheduleBlocked:
		return "Blocked"
	default:
		return string(s)
	}
}

// WeeklySchedule is a recurring availability window for one doctor.
// Start and end times use zero-padded "HH:MM" 24h strings, so their
// lexicographic order matches chronological order.
type WeeklySchedule struct {
	gorm.Model
	DoctorID    uint           `json:"doctor_id"`
	Doctor      Doctor         `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	DayOfWeek   DayOfWeek      `json:"day_of_week"`
	StartTime   string         `json:"start_time"` // "HH:MM" in 24h
	EndTime     string         `json:"end_time"`   // "HH:MM" in 24h
	SlotMinutes int            `json:"slot_minutes" gorm:"default:30"`
	Status      ScheduleStatus `json:"status" gorm:"default:ACTIVE"`
	BlockReason *string        `json:"block_reason,omitempty"`
}

func (w *WeeklySchedule) BeforeCreate(tx *gorm.DB) error {
	if w.SlotMinutes == 0 {
		w.SlotMinutes = 30
	}
	if w.Status == "" {
		w.Status = ScheduleActive
	}
	return nil
}

// Overlaps uses the half-open interval test: two windows conflict when
// start1 < end2 && start2 < end1. Back-to-back windows do not overlap.
func (w *WeeklySchedule) Overlaps(other *WeeklySchedule) bool {
	return w.StartTime < other.EndTime && other.StartTime < w.EndTime
}
