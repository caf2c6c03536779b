package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/paulrajswetha/netcurea-api/internal/domain"
	"github.com/paulrajswetha/netcurea-api/internal/domain/appointment"
	"github.com/paulrajswetha/netcurea-api/internal/domain/availability"
	"github.com/paulrajswetha/netcurea-api/internal/domain/doctor"
)

// In-memory repositories backing the service tests. fakeSlotRepo and
// fakeApptRepo share state so that booking consumes slots and cancellation
// restores them, matching the transactional repository.

func slotKey(doctorID uuid.UUID, date, t string) string {
	return fmt.Sprintf("%s|%s|%s", doctorID, date, t)
}

type fakeSlotRepo struct {
	mu    sync.Mutex
	slots map[string]*availability.Slot
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[string]*availability.Slot)}
}

func (r *fakeSlotRepo) Add(_ context.Context, s *availability.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := slotKey(s.DoctorID, s.Date, s.Time)
	if _, ok := r.slots[key]; ok {
		return availability.ErrSlotExists
	}
	s.ID = uuid.New()
	r.slots[key] = s
	return nil
}

func (r *fakeSlotRepo) Remove(_ context.Context, id uuid.UUID, doctorID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, s := range r.slots {
		if s.ID == id && s.DoctorID == doctorID {
			delete(r.slots, key)
			return nil
		}
	}
	return availability.ErrSlotNotFound
}

func (r *fakeSlotRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]*availability.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*availability.Slot
	for _, s := range r.slots {
		if s.DoctorID == doctorID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSlotRepo) ListByDoctorDate(_ context.Context, doctorID uuid.UUID, date string) ([]*availability.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*availability.Slot
	for _, s := range r.slots {
		if s.DoctorID == doctorID && s.Date == date {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSlotRepo) Consume(_ context.Context, doctorID uuid.UUID, date, t string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := slotKey(doctorID, date, t)
	if _, ok := r.slots[key]; !ok {
		return availability.ErrSlotTaken
	}
	delete(r.slots, key)
	return nil
}

func (r *fakeSlotRepo) Restore(_ context.Context, doctorID uuid.UUID, date, t string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := slotKey(doctorID, date, t)
	if _, ok := r.slots[key]; ok {
		return nil
	}
	r.slots[key] = &availability.Slot{ID: uuid.New(), DoctorID: doctorID, Date: date, Time: t}
	return nil
}

func (r *fakeSlotRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots)
}

type fakeApptRepo struct {
	mu    sync.Mutex
	slots *fakeSlotRepo
	appts map[uuid.UUID]*appointment.Appointment
}

func newFakeApptRepo(slots *fakeSlotRepo) *fakeApptRepo {
	return &fakeApptRepo{slots: slots, appts: make(map[uuid.UUID]*appointment.Appointment)}
}

func (r *fakeApptRepo) Book(ctx context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.slots.Consume(ctx, a.DoctorID, a.Date, a.Time); err != nil {
		return err
	}

	maxToken := 0
	for _, existing := range r.appts {
		if existing.DoctorID == a.DoctorID && existing.Date == a.Date && existing.TokenSeq > maxToken {
			maxToken = existing.TokenSeq
		}
	}
	a.ID = uuid.New()
	a.TokenSeq = maxToken + 1
	r.appts[a.ID] = a
	return nil
}

func (r *fakeApptRepo) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeApptRepo) List(_ context.Context, q *appointment.ListAppointmentsQuery) ([]*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*appointment.Appointment
	for _, a := range r.appts {
		if q.DoctorID != nil && a.DoctorID != *q.DoctorID {
			continue
		}
		if q.PatientID != nil && a.PatientID != *q.PatientID {
			continue
		}
		if q.Status != nil && a.Status != *q.Status {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeApptRepo) UpdateStatus(ctx context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.appts[a.ID]
	if !ok {
		return appointment.ErrAppointmentNotFound
	}
	stored.Status = a.Status
	if a.Status == appointment.StatusCancelled {
		return r.slots.Restore(ctx, a.DoctorID, a.Date, a.Time)
	}
	return nil
}

func (r *fakeApptRepo) UpdatePayment(_ context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.appts[a.ID]
	if !ok {
		return appointment.ErrAppointmentNotFound
	}
	stored.PaymentStatus = a.PaymentStatus
	return nil
}

func (r *fakeApptRepo) Cancel(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	delete(r.appts, id)
	if !a.Status.IsTerminal() {
		if err := r.slots.Restore(ctx, a.DoctorID, a.Date, a.Time); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (r *fakeApptRepo) BookedTimes(_ context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, a := range r.appts {
		if a.DoctorID != doctorID || a.Date != date {
			continue
		}
		switch a.Status {
		case appointment.StatusScheduled, appointment.StatusInProgress, appointment.StatusCompleted:
			out = append(out, a.Time)
		}
	}
	return out, nil
}

type fakeDoctorRepo struct {
	mu      sync.Mutex
	doctors map[uuid.UUID]*doctor.Doctor
}

func newFakeDoctorRepo(doctors ...*doctor.Doctor) *fakeDoctorRepo {
	r := &fakeDoctorRepo{doctors: make(map[uuid.UUID]*doctor.Doctor)}
	for _, d := range doctors {
		r.doctors[d.UserID] = d
	}
	return r
}

func (r *fakeDoctorRepo) GetByID(_ context.Context, userID uuid.UUID) (*doctor.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[userID]
	if !ok {
		return nil, doctor.ErrDoctorNotFound
	}
	return d, nil
}

func (r *fakeDoctorRepo) List(_ context.Context, _ *doctor.ListDoctorsQuery) ([]*doctor.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*doctor.Doctor
	for _, d := range r.doctors {
		out = append(out, d)
	}
	return out, nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (r *fakeAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}
