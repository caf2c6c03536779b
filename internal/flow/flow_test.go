package flow

import (
	"context"

	"github.com/google/uuid"

	"github.com/paulrajswetha/netcurea-api/internal/domain"
	"github.com/paulrajswetha/netcurea-api/internal/domain/appointment"
	"github.com/paulrajswetha/netcurea-api/internal/domain/availability"
	"github.com/paulrajswetha/netcurea-api/internal/domain/doctor"
	"github.com/paulrajswetha/netcurea-api/pkg/client"
)

// fakeBackend satisfies Backend with overridable behavior per test. Unset
// hooks return empty results.
type fakeBackend struct {
	availabilityFn func(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error)
	bookFn         func(ctx context.Context, req *client.BookRequest) (*appointment.Appointment, error)
	updateFn       func(ctx context.Context, id uuid.UUID, req *client.UpdateRequest) (*appointment.Appointment, error)
	cancelFn       func(ctx context.Context, id uuid.UUID) error
	apptsFn        func(ctx context.Context, f *client.AppointmentsFilter) ([]*appointment.Appointment, error)
	doctorsFn      func(ctx context.Context, hospitalID *uuid.UUID, includeAvailability bool) ([]*doctor.Doctor, error)
	doctorFn       func(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error)
}

func (f *fakeBackend) Availability(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	if f.availabilityFn == nil {
		return nil, nil
	}
	return f.availabilityFn(ctx, doctorID, date)
}

func (f *fakeBackend) BookAppointment(ctx context.Context, req *client.BookRequest) (*appointment.Appointment, error) {
	if f.bookFn == nil {
		return &appointment.Appointment{ID: uuid.New()}, nil
	}
	return f.bookFn(ctx, req)
}

func (f *fakeBackend) UpdateAppointment(ctx context.Context, id uuid.UUID, req *client.UpdateRequest) (*appointment.Appointment, error) {
	if f.updateFn == nil {
		return &appointment.Appointment{ID: id}, nil
	}
	return f.updateFn(ctx, id, req)
}

func (f *fakeBackend) CancelAppointment(ctx context.Context, id uuid.UUID) error {
	if f.cancelFn == nil {
		return nil
	}
	return f.cancelFn(ctx, id)
}

func (f *fakeBackend) Appointments(ctx context.Context, filter *client.AppointmentsFilter) ([]*appointment.Appointment, error) {
	if f.apptsFn == nil {
		return nil, nil
	}
	return f.apptsFn(ctx, filter)
}

func (f *fakeBackend) Doctors(ctx context.Context, hospitalID *uuid.UUID, includeAvailability bool) ([]*doctor.Doctor, error) {
	if f.doctorsFn == nil {
		return nil, nil
	}
	return f.doctorsFn(ctx, hospitalID, includeAvailability)
}

func (f *fakeBackend) Doctor(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	if f.doctorFn == nil {
		return nil, client.ErrNotFound
	}
	return f.doctorFn(ctx, id)
}

func testDoctor(specialization string, slots ...*availability.Slot) *doctor.Doctor {
	return &doctor.Doctor{
		UserID:         uuid.New(),
		Name:           "Dr. Kapoor",
		Specialization: specialization,
		IsActive:       true,
		Availability:   slots,
	}
}

func testSession() domain.Session {
	return domain.Session{UserID: uuid.New(), Role: domain.RolePatient}
}
