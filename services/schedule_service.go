package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clinicdesk/appointment-server/models"
	"github.com/clinicdesk/appointment-server/repositories"
	"github.com/clinicdesk/appointment-server/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ScheduleService manages the weekly recurring availability windows of
// doctors. ACTIVE windows of the same doctor and day must never overlap.
type ScheduleService struct {
	schedules    repositories.ScheduleRepository
	appointments repositories.AppointmentRepository
	doctors      repositories.DoctorRepository
	cache        SlotCache
	log          *zap.Logger
	now          func() time.Time
}

func NewScheduleService(
	schedules repositories.ScheduleRepository,
	appointments repositories.AppointmentRepository,
	doctors repositories.DoctorRepository,
	cache SlotCache,
	log *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		schedules:    schedules,
		appointments: appointments,
		doctors:      doctors,
		cache:        cache,
		log:          log,
		now:          time.Now,
	}
}

// AddWindow creates a new ACTIVE window. It fails with ConflictError when the
// window overlaps an existing ACTIVE window of the same doctor and day.
func (s *ScheduleService) AddWindow(ctx context.Context, doctorID uint, day models.DayOfWeek, start, end string, slotMinutes int) (*models.WeeklySchedule, error) {
	start, end, slotMinutes, err := normalizeWindow(start, end, slotMinutes)
	if err != nil {
		return nil, err
	}

	if _, err := s.doctors.FindByID(ctx, doctorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &DoctorNotFoundError{ID: doctorID}
		}
		return nil, err
	}

	window := &models.WeeklySchedule{
		DoctorID:    doctorID,
		DayOfWeek:   day,
		StartTime:   start,
		EndTime:     end,
		SlotMinutes: slotMinutes,
		Status:      models.ScheduleActive,
	}

	if err := s.checkOverlap(ctx, window, 0); err != nil {
		return nil, err
	}
	if err := s.schedules.Create(ctx, window); err != nil {
		return nil, err
	}

	s.invalidate(ctx, doctorID)
	s.log.Info("schedule window created",
		zap.Uint("doctor_id", doctorID),
		zap.Stringer("day", day),
		zap.String("start", start),
		zap.String("end", end))
	return window, nil
}

// UpdateWindow changes a window's times or slot duration, re-running the
// overlap check against the doctor's other ACTIVE windows.
func (s *ScheduleService) UpdateWindow(ctx context.Context, id uint, start, end string, slotMinutes int) (*models.WeeklySchedule, error) {
	window, err := s.findWindow(ctx, id)
	if err != nil {
		return nil, err
	}

	start, end, slotMinutes, err = normalizeWindow(start, end, slotMinutes)
	if err != nil {
		return nil, err
	}

	window.StartTime = start
	window.EndTime = end
	window.SlotMinutes = slotMinutes

	if window.Status == models.ScheduleActive {
		if err := s.checkOverlap(ctx, window, window.ID); err != nil {
			return nil, err
		}
	}
	if err := s.schedules.Save(ctx, window); err != nil {
		return nil, err
	}

	s.invalidate(ctx, window.DoctorID)
	return window, nil
}

// RemoveWindow deletes a window unless any non-cancelled appointment exists on
// a future date matching the window's weekday.
func (s *ScheduleService) RemoveWindow(ctx context.Context, id uint) error {
	window, err := s.findWindow(ctx, id)
	if err != nil {
		return err
	}

	today := utils.DateOnly(s.now())
	booked, err := s.appointments.ExistsFutureOnWeekday(ctx, window.DoctorID, window.DayOfWeek, today)
	if err != nil {
		return err
	}
	if booked {
		return &HasFutureBookingsError{ScheduleID: id}
	}

	if err := s.schedules.Delete(ctx, window); err != nil {
		return err
	}
	s.invalidate(ctx, window.DoctorID)
	return nil
}

// Block marks a window BLOCKED with a reason, keeping its history.
func (s *ScheduleService) Block(ctx context.Context, id uint, reason string) (*models.WeeklySchedule, error) {
	window, err := s.findWindow(ctx, id)
	if err != nil {
		return nil, err
	}
	window.Status = models.ScheduleBlocked
	window.BlockReason = &reason
	if err := s.schedules.Save(ctx, window); err != nil {
		return nil, err
	}
	s.invalidate(ctx, window.DoctorID)
	return window, nil
}

// Reactivate returns a window to ACTIVE, clearing any block reason. The
// overlap invariant is re-checked because an INACTIVE or BLOCKED window may
// have been eclipsed by a newer ACTIVE one.
func (s *ScheduleService) Reactivate(ctx context.Context, id uint) (*models.WeeklySchedule, error) {
	window, err := s.findWindow(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOverlap(ctx, window, window.ID); err != nil {
		return nil, err
	}
	window.Status = models.ScheduleActive
	window.BlockReason = nil
	if err := s.schedules.Save(ctx, window); err != nil {
		return nil, err
	}
	s.invalidate(ctx, window.DoctorID)
	return window, nil
}

// WindowsForDoctor returns the doctor's full week overview, every status.
func (s *ScheduleService) WindowsForDoctor(ctx context.Context, doctorID uint) ([]models.WeeklySchedule, error) {
	return s.schedules.FindByDoctor(ctx, doctorID)
}

// WeekOverview groups the doctor's windows per weekday, Sunday first. Days
// without windows map to an empty slice so callers can render a full week.
func (s *ScheduleService) WeekOverview(ctx context.Context, doctorID uint) (map[models.DayOfWeek][]models.WeeklySchedule, error) {
	windows, err := s.schedules.FindByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	week := make(map[models.DayOfWeek][]models.WeeklySchedule, 7)
	for d := models.Sunday; d <= models.Saturday; d++ {
		week[d] = []models.WeeklySchedule{}
	}
	for _, w := range windows {
		week[w.DayOfWeek] = append(week[w.DayOfWeek], w)
	}
	return week, nil
}

func (s *ScheduleService) findWindow(ctx context.Context, id uint) (*models.WeeklySchedule, error) {
	window, err := s.schedules.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ScheduleNotFoundError{ID: id}
		}
		return nil, err
	}
	return window, nil
}

func (s *ScheduleService) checkOverlap(ctx context.Context, window *models.WeeklySchedule, excludeID uint) error {
	existing, err := s.schedules.FindActiveByDoctorAndDay(ctx, window.DoctorID, window.DayOfWeek, excludeID)
	if err != nil {
		return err
	}
	for i := range existing {
		if window.Overlaps(&existing[i]) {
			return &ConflictError{DoctorID: window.DoctorID, Day: window.DayOfWeek}
		}
	}
	return nil
}

func (s *ScheduleService) invalidate(ctx context.Context, doctorID uint) {
	if s.cache != nil {
		s.cache.InvalidateOpenDays(ctx, doctorID)
	}
}

func normalizeWindow(start, end string, slotMinutes int) (string, string, int, error) {
	start, err := utils.NormalizeClock(start)
	if err != nil {
		return "", "", 0, err
	}
	end, err = utils.NormalizeClock(end)
	if err != nil {
		return "", "", 0, err
	}
	if start >= end {
		return "", "", 0, fmt.Errorf("window start %s must be before end %s", start, end)
	}
	if slotMinutes < 0 {
		return "", "", 0, fmt.Errorf("slot duration cannot be negative, got %d", slotMinutes)
	}
	if slotMinutes == 0 {
		slotMinutes = 30
	}
	return start, end, slotMinutes, nil
}
