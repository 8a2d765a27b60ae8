package services

import (
	"context"
	"testing"
	"time"

	"github.com/clinicdesk/appointment-server/models"
	"github.com/clinicdesk/appointment-server/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReprogramByDoctorMovesWithoutTouchingCounters(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, pat, appt := env.standardFixture(t)

	got, err := env.reprogram.Reprogram(ctx, appt.ID, appt.Date, "09:30", "surgery conflict", "sorry for the change")
	require.NoError(t, err)

	assert.Equal(t, "09:30", got.Time)
	assert.Equal(t, models.StatusConfirmed, got.Status)
	assert.Equal(t, 0, got.ReprogramCount, "doctor-initiated moves never count against the patient")

	storedPatient := env.store.patients[pat.ID]
	assert.Equal(t, 0, storedPatient.ReprogramsThisMonth)

	require.Len(t, env.notifier.sent, 1)
	assert.Equal(t, NotifyRescheduled, env.notifier.sent[0].kind)
	assert.Equal(t, pat.Email, env.notifier.sent[0].contact)
	assert.Equal(t, "08:00", env.notifier.sent[0].payload["old_time"])
	assert.Equal(t, "09:30", env.notifier.sent[0].payload["new_time"])
}

func TestReprogramRejectsOccupiedTarget(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	doc, _, appt := env.standardFixture(t)
	bob := env.addPatient("Bob", "bob@mail.test")

	_, err := env.booking.Book(ctx, bob, appt.Date, "09:30", doc.ID, "checkup")
	require.NoError(t, err)

	_, err = env.reprogram.Reprogram(ctx, appt.ID, appt.Date, "09:30", "conflict", "")
	var unavailable *SlotUnavailableError
	require.ErrorAs(t, err, &unavailable)

	stored, _ := env.appts.FindByID(ctx, appt.ID)
	assert.Equal(t, "08:00", stored.Time, "failed move leaves the appointment in place")
}

func TestReprogramRejectedFromTerminalStates(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, _, appt := env.standardFixture(t)

	_, err := env.lifecycle.Cancel(ctx, appt.ID, "gone")
	require.NoError(t, err)

	_, err = env.reprogram.Reprogram(ctx, appt.ID, appt.Date, "09:30", "conflict", "")
	var invalid *InvalidStateTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, models.StatusCancelled, invalid.From)
}

func TestReprogramByPatientAdvancesCounters(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, pat, appt := env.standardFixture(t)

	got, err := env.reprogram.ReprogramByPatient(ctx, pat.Email, appt.ID, appt.Date, "09:00", "work meeting")
	require.NoError(t, err)

	assert.Equal(t, "09:00", got.Time)
	assert.Equal(t, 1, got.ReprogramCount)
	require.NotNil(t, got.LastReprogramAt)

	storedPatient := env.store.patients[pat.ID]
	assert.Equal(t, 1, storedPatient.ReprogramsThisMonth)
	require.NotNil(t, storedPatient.LastReprogramAt)
}

func TestReprogramByPatientPerAppointmentLimit(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, pat, appt := env.standardFixture(t)

	_, err := env.reprogram.ReprogramByPatient(ctx, pat.Email, appt.ID, appt.Date, "09:00", "first")
	require.NoError(t, err)
	_, err = env.reprogram.ReprogramByPatient(ctx, pat.Email, appt.ID, appt.Date, "09:30", "second")
	require.NoError(t, err)

	_, err = env.reprogram.ReprogramByPatient(ctx, pat.Email, appt.ID, appt.Date, "10:00", "third")
	var limit *ReprogramLimitPerAppointmentError
	require.ErrorAs(t, err, &limit)
	assert.Equal(t, 2, limit.Limit)

	stored, _ := env.appts.FindByID(ctx, appt.ID)
	assert.Equal(t, "09:30", stored.Time)
}

func TestReprogramByPatientMinimumLeadTime(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, pat, appt := env.standardFixture(t)

	startsAt, err := utils.CombineDateAndClock(appt.Date, appt.Time)
	require.NoError(t, err)
	env.reprogram.now = func() time.Time { return startsAt.Add(-3 * time.Hour) }

	_, err = env.reprogram.ReprogramByPatient(ctx, pat.Email, appt.ID, appt.Date, "10:00", "too late")
	var lead *InsufficientLeadTimeError
	require.ErrorAs(t, err, &lead)
	assert.Equal(t, int64(3), lead.HoursRemaining)
	assert.Equal(t, 24, lead.MinimumHours)
}

func TestReprogramByPatientLeadTimeFloorsAtZero(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, pat, appt := env.standardFixture(t)

	startsAt, err := utils.CombineDateAndClock(appt.Date, appt.Time)
	require.NoError(t, err)
	env.reprogram.now = func() time.Time { return startsAt.Add(2 * time.Hour) }

	_, err = env.reprogram.ReprogramByPatient(ctx, pat.Email, appt.ID, appt.Date, "10:00", "already missed")
	var lead *InsufficientLeadTimeError
	require.ErrorAs(t, err, &lead)
	assert.Equal(t, int64(0), lead.HoursRemaining)
}

func TestReprogramByPatientMonthlyQuotaBlocks(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, pat, appt := env.standardFixture(t)

	today := utils.DateOnly(time.Now())
	stored := env.store.patients[pat.ID]
	stored.ReprogramsThisMonth = 5
	stored.LastReprogramAt = &today

	_, err := env.reprogram.ReprogramByPatient(ctx, pat.Email, appt.ID, appt.Date, "09:00", "again")
	var monthly *MonthlyAbuseLimitError
	require.ErrorAs(t, err, &monthly)
	assert.Equal(t, 5, monthly.Limit)
	assert.Equal(t, today.AddDate(0, 0, 30), monthly.BlockedUntil)

	stored = env.store.patients[pat.ID]
	assert.True(t, stored.AbuseBlocked)
	require.NotNil(t, stored.BlockedUntil)

	// while the block stands every further attempt fails up front
	_, err = env.reprogram.ReprogramByPatient(ctx, pat.Email, appt.ID, appt.Date, "09:00", "again")
	var blocked *AbuseBlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, today.AddDate(0, 0, 30), blocked.BlockedUntil)
}

func TestReprogramByPatientMonthlyCounterRollsOver(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, pat, appt := env.standardFixture(t)

	twoMonthsAgo := utils.DateOnly(time.Now()).AddDate(0, -2, 0)
	stored := env.store.patients[pat.ID]
	stored.ReprogramsThisMonth = 5
	stored.LastReprogramAt = &twoMonthsAgo

	_, err := env.reprogram.ReprogramByPatient(ctx, pat.Email, appt.ID, appt.Date, "09:00", "fresh month")
	require.NoError(t, err)

	stored = env.store.patients[pat.ID]
	assert.Equal(t, 1, stored.ReprogramsThisMonth, "stale counter resets before the new move is counted")
	assert.False(t, stored.AbuseBlocked)
}

func TestReprogramByPatientExpiredBlockClears(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, pat, appt := env.standardFixture(t)

	past := utils.DateOnly(time.Now()).AddDate(0, 0, -1)
	lastMove := past.AddDate(0, -2, 0)
	stored := env.store.patients[pat.ID]
	stored.AbuseBlocked = true
	stored.BlockedUntil = &past
	stored.ReprogramsThisMonth = 5
	stored.LastReprogramAt = &lastMove

	_, err := env.reprogram.ReprogramByPatient(ctx, pat.Email, appt.ID, appt.Date, "09:00", "block elapsed")
	require.NoError(t, err)
}

func TestReprogramByPatientRequiresOwnership(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, _, appt := env.standardFixture(t)
	env.addPatient("Mallory", "mallory@mail.test")

	_, err := env.reprogram.ReprogramByPatient(ctx, "mallory@mail.test", appt.ID, appt.Date, "09:00", "not mine")
	var ownership *OwnershipError
	require.ErrorAs(t, err, &ownership)
	assert.Equal(t, appt.ID, ownership.AppointmentID)
}

func TestCancelByPatientRequiresOwnership(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, pat, appt := env.standardFixture(t)

	_, err := env.reprogram.CancelByPatient(ctx, "mallory@mail.test", appt.ID, "not mine")
	var ownership *OwnershipError
	require.ErrorAs(t, err, &ownership)

	got, err := env.reprogram.CancelByPatient(ctx, pat.Email, appt.ID, "feeling better")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)
}

func TestCancelByDoctorNotifiesPatient(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, pat, appt := env.standardFixture(t)

	got, err := env.reprogram.CancelByDoctor(ctx, appt.ID, "doctor unavailable", "please rebook next week")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)

	require.Len(t, env.notifier.sent, 1)
	assert.Equal(t, NotifyCancelled, env.notifier.sent[0].kind)
	assert.Equal(t, pat.Email, env.notifier.sent[0].contact)
	assert.Equal(t, "please rebook next week", env.notifier.sent[0].payload["message"])
}

func TestReassignToSameSpecialtyDoctor(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	doc, pat, appt := env.standardFixture(t)
	doc2 := env.addDoctor("Dr. Y", "y@clinic.test", "cardiology", models.DoctorActive)
	env.addWindow(doc2.ID, models.Monday, "08:00", "12:00", 30)

	got, err := env.reprogram.Reassign(ctx, appt.ID, doc2.ID, "emergency leave", "Dr. Y will see you")
	require.NoError(t, err)

	assert.Equal(t, doc2.ID, got.DoctorID)
	assert.Equal(t, models.StatusConfirmed, got.Status)
	assert.Equal(t, appt.Time, got.Time, "date and time stay fixed on reassignment")

	last := env.store.audits[len(env.store.audits)-1]
	assert.Equal(t, models.AuditReassigned, last.Kind)
	assert.Equal(t, doc.ID, last.OldDoctorID)
	assert.Equal(t, doc2.ID, last.NewDoctorID)

	require.Len(t, env.notifier.sent, 1)
	assert.Equal(t, NotifyReassigned, env.notifier.sent[0].kind)
	assert.Equal(t, pat.Email, env.notifier.sent[0].contact)
}

func TestReassignRejectsSpecialtyMismatch(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, _, appt := env.standardFixture(t)
	doc2 := env.addDoctor("Dr. Y", "y@clinic.test", "dermatology", models.DoctorActive)
	env.addWindow(doc2.ID, models.Monday, "08:00", "12:00", 30)

	_, err := env.reprogram.Reassign(ctx, appt.ID, doc2.ID, "leave", "")
	var mismatch *SpecialtyMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "cardiology", mismatch.Want)
	assert.Equal(t, "dermatology", mismatch.Got)

	stored, _ := env.appts.FindByID(ctx, appt.ID)
	assert.Equal(t, appt.DoctorID, stored.DoctorID, "failed reassignment leaves the appointment unchanged")
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestReassignRejectsBusyDoctor(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, _, appt := env.standardFixture(t)
	doc2 := env.addDoctor("Dr. Y", "y@clinic.test", "cardiology", models.DoctorActive)
	env.addWindow(doc2.ID, models.Monday, "08:00", "12:00", 30)
	bob := env.addPatient("Bob", "bob@mail.test")

	_, err := env.booking.Book(ctx, bob, appt.Date, appt.Time, doc2.ID, "checkup")
	require.NoError(t, err)

	_, err = env.reprogram.Reassign(ctx, appt.ID, doc2.ID, "leave", "")
	var unavailable *SlotUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, doc2.ID, unavailable.DoctorID)
}

func TestAvailableDoctorsForReassignment(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, _, appt := env.standardFixture(t)
	env.addDoctor("Dr. Y", "y@clinic.test", "cardiology", models.DoctorActive)
	env.addDoctor("Dr. Z", "z@clinic.test", "cardiology", models.DoctorInactive)
	env.addDoctor("Dr. W", "w@clinic.test", "dermatology", models.DoctorActive)

	candidates, err := env.reprogram.AvailableDoctorsForReassignment(ctx, appt.ID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Dr. Y", candidates[0].Name)
}

func TestChangeHistoryOldestFirst(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, pat, appt := env.standardFixture(t)

	_, err := env.reprogram.Reprogram(ctx, appt.ID, appt.Date, "09:00", "conflict", "")
	require.NoError(t, err)
	_, err = env.reprogram.ReprogramByPatient(ctx, pat.Email, appt.ID, appt.Date, "10:00", "work")
	require.NoError(t, err)

	history, err := env.reprogram.ChangeHistory(ctx, appt.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, models.AuditCreated, history[0].Kind)
	assert.Equal(t, models.AuditReprogrammed, history[1].Kind)
	assert.Equal(t, "doctor", history[1].Actor)
	assert.Equal(t, models.AuditReprogrammed, history[2].Kind)
	assert.Equal(t, "patient", history[2].Actor)
}
