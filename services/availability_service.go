package services

import (
	"context"
	"time"

	"github.com/clinicdesk/appointment-server/models"
	"github.com/clinicdesk/appointment-server/repositories"
	"github.com/clinicdesk/appointment-server/utils"
	"go.uber.org/zap"
)

// AvailabilityService derives concrete open slots for a doctor on a calendar
// date from the weekly schedule and existing bookings.
type AvailabilityService struct {
	schedules    repositories.ScheduleRepository
	appointments repositories.AppointmentRepository
	cache        SlotCache
	log          *zap.Logger
}

func NewAvailabilityService(
	schedules repositories.ScheduleRepository,
	appointments repositories.AppointmentRepository,
	cache SlotCache,
	log *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		schedules:    schedules,
		appointments: appointments,
		cache:        cache,
		log:          log,
	}
}

// OpenSlots enumerates the free slot start times ("HH:MM") of a doctor on a
// date, ordered. For each ACTIVE window of the date's weekday it steps from
// start to end (exclusive) by the window's slot duration and drops any time
// already taken by a non-cancelled appointment.
func (s *AvailabilityService) OpenSlots(ctx context.Context, doctorID uint, date time.Time) ([]string, error) {
	day := models.DayOfWeek(date.Weekday())
	windows, err := s.schedules.FindActiveByDoctorAndDay(ctx, doctorID, day, 0)
	if err != nil {
		return nil, err
	}

	slots := []string{}
	for i := range windows {
		window := &windows[i]
		// A zero or negative duration would never advance the loop.
		if window.SlotMinutes <= 0 {
			continue
		}
		start, err := utils.ParseClock(window.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := utils.ParseClock(window.EndTime)
		if err != nil {
			return nil, err
		}
		for m := start; m < end; m += window.SlotMinutes {
			clock := utils.FormatClock(m)
			taken, err := s.appointments.ExistsNonCancelled(ctx, doctorID, utils.DateOnly(date), clock, 0)
			if err != nil {
				return nil, err
			}
			if !taken {
				slots = append(slots, clock)
			}
		}
	}
	return slots, nil
}

// OpenDays returns the distinct weekdays on which the doctor has at least one
// ACTIVE window, ordered Sunday first. The projection is cached per doctor
// and invalidated on schedule mutation.
func (s *AvailabilityService) OpenDays(ctx context.Context, doctorID uint) ([]models.DayOfWeek, error) {
	if s.cache != nil {
		if days, ok := s.cache.GetOpenDays(ctx, doctorID); ok {
			return days, nil
		}
	}

	windows, err := s.schedules.FindActiveByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	seen := [7]bool{}
	for i := range windows {
		seen[windows[i].DayOfWeek] = true
	}
	days := []models.DayOfWeek{}
	for d := models.Sunday; d <= models.Saturday; d++ {
		if seen[d] {
			days = append(days, d)
		}
	}

	if s.cache != nil {
		s.cache.SetOpenDays(ctx, doctorID, days)
	}
	return days, nil
}

// IsBookable reports whether (doctor, date, clock) can take a booking: an
// ACTIVE window must cover the time on an enumerated slot boundary and no
// other non-cancelled appointment may occupy the slot. excludeApptID skips
// the appointment being moved during a reprogram.
func (s *AvailabilityService) IsBookable(ctx context.Context, doctorID uint, date time.Time, clock string, excludeApptID uint) (bool, error) {
	taken, err := s.appointments.ExistsNonCancelled(ctx, doctorID, utils.DateOnly(date), clock, excludeApptID)
	if err != nil {
		return false, err
	}
	if taken {
		return false, nil
	}

	minute, err := utils.ParseClock(clock)
	if err != nil {
		return false, err
	}
	day := models.DayOfWeek(date.Weekday())
	windows, err := s.schedules.FindActiveByDoctorAndDay(ctx, doctorID, day, 0)
	if err != nil {
		return false, err
	}
	for i := range windows {
		window := &windows[i]
		if window.SlotMinutes <= 0 {
			continue
		}
		start, err := utils.ParseClock(window.StartTime)
		if err != nil {
			return false, err
		}
		end, err := utils.ParseClock(window.EndTime)
		if err != nil {
			return false, err
		}
		if minute >= start && minute < end && (minute-start)%window.SlotMinutes == 0 {
			return true, nil
		}
	}
	return false, nil
}
