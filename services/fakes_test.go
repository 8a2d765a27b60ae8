package services

import (
	"context"
	"sort"
	"time"

	"github.com/clinicdesk/appointment-server/models"
	"github.com/clinicdesk/appointment-server/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// In-memory repository fakes backing the service tests. They mirror the
// query semantics of the GORM implementations closely enough to exercise the
// scheduling engine without a database.

type memStore struct {
	doctors      map[uint]*models.Doctor
	patients     map[uint]*models.Patient
	schedules    map[uint]*models.WeeklySchedule
	appointments map[uint]*models.Appointment
	transactions map[uint]*models.Transaction
	audits       []*models.AuditEvent
	nextID       uint
}

func newMemStore() *memStore {
	return &memStore{
		doctors:      map[uint]*models.Doctor{},
		patients:     map[uint]*models.Patient{},
		schedules:    map[uint]*models.WeeklySchedule{},
		appointments: map[uint]*models.Appointment{},
		transactions: map[uint]*models.Transaction{},
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

type fakeDoctorRepo struct{ store *memStore }

func (r *fakeDoctorRepo) FindByID(_ context.Context, id uint) (*models.Doctor, error) {
	d, ok := r.store.doctors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *d
	return &copied, nil
}

func (r *fakeDoctorRepo) FindByEmail(_ context.Context, email string) (*models.Doctor, error) {
	for _, d := range r.store.doctors {
		if d.Email == email {
			copied := *d
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeDoctorRepo) FindActiveBySpecialty(_ context.Context, specialty string, excludeID uint) ([]models.Doctor, error) {
	var out []models.Doctor
	for _, d := range r.store.doctors {
		if d.Specialty == specialty && d.Status == models.DoctorActive && d.ID != excludeID {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeDoctorRepo) List(_ context.Context) ([]models.Doctor, error) {
	var out []models.Doctor
	for _, d := range r.store.doctors {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeDoctorRepo) Create(_ context.Context, d *models.Doctor) error {
	d.ID = r.store.id()
	if d.Status == "" {
		d.Status = models.DoctorActive
	}
	stored := *d
	r.store.doctors[d.ID] = &stored
	return nil
}

func (r *fakeDoctorRepo) Save(_ context.Context, d *models.Doctor) error {
	stored := *d
	r.store.doctors[d.ID] = &stored
	return nil
}

type fakePatientRepo struct{ store *memStore }

func (r *fakePatientRepo) FindByID(_ context.Context, id uint) (*models.Patient, error) {
	p, ok := r.store.patients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakePatientRepo) FindByEmail(_ context.Context, email string) (*models.Patient, error) {
	for _, p := range r.store.patients {
		if p.Email == email {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePatientRepo) Create(_ context.Context, p *models.Patient) error {
	p.ID = r.store.id()
	stored := *p
	r.store.patients[p.ID] = &stored
	return nil
}

func (r *fakePatientRepo) Save(_ context.Context, p *models.Patient) error {
	stored := *p
	r.store.patients[p.ID] = &stored
	return nil
}

type fakeScheduleRepo struct{ store *memStore }

func (r *fakeScheduleRepo) FindByID(_ context.Context, id uint) (*models.WeeklySchedule, error) {
	w, ok := r.store.schedules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *w
	return &copied, nil
}

func (r *fakeScheduleRepo) FindActiveByDoctorAndDay(_ context.Context, doctorID uint, day models.DayOfWeek, excludeID uint) ([]models.WeeklySchedule, error) {
	var out []models.WeeklySchedule
	for _, w := range r.store.schedules {
		if w.DoctorID == doctorID && w.DayOfWeek == day && w.Status == models.ScheduleActive && w.ID != excludeID {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (r *fakeScheduleRepo) FindActiveByDoctor(_ context.Context, doctorID uint) ([]models.WeeklySchedule, error) {
	var out []models.WeeklySchedule
	for _, w := range r.store.schedules {
		if w.DoctorID == doctorID && w.Status == models.ScheduleActive {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (r *fakeScheduleRepo) FindByDoctor(_ context.Context, doctorID uint) ([]models.WeeklySchedule, error) {
	var out []models.WeeklySchedule
	for _, w := range r.store.schedules {
		if w.DoctorID == doctorID {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (r *fakeScheduleRepo) Create(_ context.Context, w *models.WeeklySchedule) error {
	w.ID = r.store.id()
	if w.SlotMinutes == 0 {
		w.SlotMinutes = 30
	}
	if w.Status == "" {
		w.Status = models.ScheduleActive
	}
	stored := *w
	r.store.schedules[w.ID] = &stored
	return nil
}

func (r *fakeScheduleRepo) Save(_ context.Context, w *models.WeeklySchedule) error {
	stored := *w
	r.store.schedules[w.ID] = &stored
	return nil
}

func (r *fakeScheduleRepo) Delete(_ context.Context, w *models.WeeklySchedule) error {
	delete(r.store.schedules, w.ID)
	return nil
}

type fakeAppointmentRepo struct{ store *memStore }

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func (r *fakeAppointmentRepo) FindByID(_ context.Context, id uint) (*models.Appointment, error) {
	a, ok := r.store.appointments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAppointmentRepo) ExistsNonCancelled(_ context.Context, doctorID uint, date time.Time, clock string, excludeID uint) (bool, error) {
	for _, a := range r.store.appointments {
		if a.DoctorID == doctorID && sameDate(a.Date, date) && a.Time == clock &&
			a.Status != models.StatusCancelled && a.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAppointmentRepo) ExistsFutureOnWeekday(_ context.Context, doctorID uint, day models.DayOfWeek, from time.Time) (bool, error) {
	for _, a := range r.store.appointments {
		if a.DoctorID == doctorID && a.Status != models.StatusCancelled &&
			models.DayOfWeek(a.Date.Weekday()) == day && !a.Date.Before(from) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAppointmentRepo) ListByPatient(_ context.Context, patientID uint) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range r.store.appointments {
		if a.PatientID == patientID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListByDoctor(_ context.Context, doctorID uint) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range r.store.appointments {
		if a.DoctorID == doctorID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListByDate(_ context.Context, date time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range r.store.appointments {
		if sameDate(a.Date, date) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *models.Appointment) error {
	a.ID = r.store.id()
	if a.Status == "" {
		a.Status = models.StatusPending
	}
	stored := *a
	r.store.appointments[a.ID] = &stored
	return nil
}

func (r *fakeAppointmentRepo) Save(_ context.Context, a *models.Appointment) error {
	stored := *a
	r.store.appointments[a.ID] = &stored
	return nil
}

type fakeTransactionRepo struct{ store *memStore }

func (r *fakeTransactionRepo) FindByAppointmentAndType(_ context.Context, appointmentID uint, kind models.TransactionType) (*models.Transaction, error) {
	var latest *models.Transaction
	for _, t := range r.store.transactions {
		if t.AppointmentID == appointmentID && t.Type == kind {
			if latest == nil || t.ID > latest.ID {
				latest = t
			}
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *latest
	return &copied, nil
}

func (r *fakeTransactionRepo) ListByPatient(_ context.Context, patientID uint) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, t := range r.store.transactions {
		if t.PatientID == patientID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) Create(_ context.Context, t *models.Transaction) error {
	t.ID = r.store.id()
	if t.Status == "" {
		t.Status = models.TxnProcessing
	}
	stored := *t
	r.store.transactions[t.ID] = &stored
	return nil
}

func (r *fakeTransactionRepo) Save(_ context.Context, t *models.Transaction) error {
	stored := *t
	r.store.transactions[t.ID] = &stored
	return nil
}

type fakeAuditRepo struct{ store *memStore }

func (r *fakeAuditRepo) Append(_ context.Context, e *models.AuditEvent) error {
	e.ID = r.store.id()
	stored := *e
	r.store.audits = append(r.store.audits, &stored)
	return nil
}

func (r *fakeAuditRepo) ListByAppointment(_ context.Context, appointmentID uint) ([]models.AuditEvent, error) {
	var out []models.AuditEvent
	for _, e := range r.store.audits {
		if e.AppointmentID == appointmentID {
			out = append(out, *e)
		}
	}
	return out, nil
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type notification struct {
	contact string
	kind    NotificationKind
	payload map[string]string
}

type fakeNotifier struct {
	sent []notification
}

func (n *fakeNotifier) Notify(_ context.Context, contact string, kind NotificationKind, payload map[string]string) error {
	n.sent = append(n.sent, notification{contact: contact, kind: kind, payload: payload})
	return nil
}

// testEnv wires every service over one shared in-memory store.
type testEnv struct {
	store        *memStore
	doctors      *fakeDoctorRepo
	patients     *fakePatientRepo
	schedulesRep *fakeScheduleRepo
	appts        *fakeAppointmentRepo
	txns         *fakeTransactionRepo
	auditsRep    *fakeAuditRepo
	notifier     *fakeNotifier

	schedule     *ScheduleService
	availability *AvailabilityService
	booking      *BookingService
	lifecycle    *LifecycleService
	reprogram    *ReprogramService
}

func newTestEnv() *testEnv {
	store := newMemStore()
	env := &testEnv{
		store:        store,
		doctors:      &fakeDoctorRepo{store: store},
		patients:     &fakePatientRepo{store: store},
		schedulesRep: &fakeScheduleRepo{store: store},
		appts:        &fakeAppointmentRepo{store: store},
		txns:         &fakeTransactionRepo{store: store},
		auditsRep:    &fakeAuditRepo{store: store},
		notifier:     &fakeNotifier{},
	}
	log := zap.NewNop()
	tx := fakeTxManager{}

	env.schedule = NewScheduleService(env.schedulesRep, env.appts, env.doctors, nil, log)
	env.availability = NewAvailabilityService(env.schedulesRep, env.appts, nil, log)
	env.booking = NewBookingService(env.doctors, env.appts, env.txns, env.auditsRep, env.availability, tx, nil, log)
	env.lifecycle = NewLifecycleService(env.appts, env.txns, env.auditsRep, tx, log)
	env.reprogram = NewReprogramService(env.appts, env.doctors, env.patients, env.auditsRep, env.availability, env.lifecycle, tx, env.notifier, log)
	return env
}

func (e *testEnv) addDoctor(name, email, specialty string, status models.DoctorStatus) *models.Doctor {
	d := &models.Doctor{Name: name, Email: email, Specialty: specialty, Status: status}
	_ = e.doctors.Create(context.Background(), d)
	return d
}

func (e *testEnv) addPatient(name, email string) *models.Patient {
	p := &models.Patient{Name: name, Email: email, Role: models.RolePatient}
	_ = e.patients.Create(context.Background(), p)
	return p
}

func (e *testEnv) addWindow(doctorID uint, day models.DayOfWeek, start, end string, slot int) *models.WeeklySchedule {
	w := &models.WeeklySchedule{
		DoctorID:    doctorID,
		DayOfWeek:   day,
		StartTime:   start,
		EndTime:     end,
		SlotMinutes: slot,
		Status:      models.ScheduleActive,
	}
	_ = e.schedulesRep.Create(context.Background(), w)
	return w
}

// nextWeekday returns the next calendar date (at least a week out) falling on
// the given weekday, so lead-time checks never interfere with booking tests.
func nextWeekday(day models.DayOfWeek) time.Time {
	d := utils.DateOnly(time.Now()).AddDate(0, 0, 7)
	for models.DayOfWeek(d.Weekday()) != day {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
