package flow

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/paulrajswetha/netcurea-api/internal/domain"
	"github.com/paulrajswetha/netcurea-api/internal/domain/appointment"
	"github.com/paulrajswetha/netcurea-api/internal/domain/doctor"
	"github.com/paulrajswetha/netcurea-api/pkg/client"
)

// Resource names a cached collection subject to the invalidation contract:
// any booking, cancellation or status mutation invalidates the affected
// resources, which are then re-fetched rather than patched in place.
type Resource int

const (
	ResourceAppointments Resource = iota
	ResourceDoctors
	ResourceExpenses
)

// defaultCost is assumed for appointments persisted before costs were
// recorded.
const defaultCost = 100

// Store is the session-scoped cache behind the dashboards. Refreshes carry a
// generation token per resource so a superseded fetch that arrives late can
// never overwrite a newer one.
type Store struct {
	sess    domain.Session
	backend Backend
	log     *zap.Logger

	mu           sync.Mutex
	gen          map[Resource]uint64
	appointments []*appointment.Appointment
	doctors      []*doctor.Doctor
	expenses     float64
}

func NewStore(sess domain.Session, backend Backend, log *zap.Logger) *Store {
	return &Store{
		sess:    sess,
		backend: backend,
		log:     log,
		gen:     make(map[Resource]uint64),
	}
}

// Invalidate re-fetches the named resources. Failures leave the previous
// cached value in place; the dashboards keep showing what they had.
func (s *Store) Invalidate(ctx context.Context, resources ...Resource) {
	refreshed := make(map[Resource]bool, len(resources))
	for _, r := range resources {
		if r == ResourceExpenses {
			// Expenses are derived from the appointment list; one
			// fetch serves both.
			r = ResourceAppointments
		}
		if refreshed[r] {
			continue
		}
		refreshed[r] = true
		switch r {
		case ResourceAppointments:
			s.refreshAppointments(ctx)
		case ResourceDoctors:
			s.refreshDoctors(ctx)
		}
	}
}

func (s *Store) refreshAppointments(ctx context.Context) {
	gen := s.bump(ResourceAppointments)

	f := &client.AppointmentsFilter{}
	switch s.sess.Role {
	case domain.RolePatient:
		f.PatientID = &s.sess.UserID
	case domain.RoleDoctor:
		f.DoctorID = &s.sess.UserID
	}

	appts, err := s.backend.Appointments(ctx, f)
	if err != nil {
		s.log.Warn("appointment refresh failed", zap.Error(err))
		return
	}

	var total float64
	for _, a := range appts {
		cost := a.Cost
		if cost == 0 {
			cost = defaultCost
		}
		total += cost
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen[ResourceAppointments] != gen {
		// A newer refresh won the race; drop this result.
		return
	}
	s.appointments = appts
	s.expenses = total
}

func (s *Store) refreshDoctors(ctx context.Context) {
	gen := s.bump(ResourceDoctors)

	doctors, err := s.backend.Doctors(ctx, nil, true)
	if err != nil {
		s.log.Warn("doctor refresh failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen[ResourceDoctors] != gen {
		return
	}
	s.doctors = doctors
}

func (s *Store) bump(r Resource) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen[r]++
	return s.gen[r]
}

func (s *Store) Appointments() []*appointment.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appointments
}

func (s *Store) Doctors() []*doctor.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doctors
}

// Expenses is the running total the patient dashboard shows, recomputed on
// every appointment refresh.
func (s *Store) Expenses() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expenses
}
