// Package flow implements the patient-facing appointment workflows: resolving
// a doctor's open slots, walking a booking through to confirmation, driving
// the appointment lifecycle, capturing the simulated payment and rendering
// the billing snapshot. The backend stays authoritative for every shared
// resource; flows never patch remote state locally.
package flow

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/paulrajswetha/netcurea-api/internal/domain/appointment"
	"github.com/paulrajswetha/netcurea-api/internal/domain/doctor"
	"github.com/paulrajswetha/netcurea-api/pkg/client"
)

// Backend is the slice of the REST client the workflows depend on. Tests
// substitute a fake; production passes *client.Client.
type Backend interface {
	Availability(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error)
	BookAppointment(ctx context.Context, req *client.BookRequest) (*appointment.Appointment, error)
	UpdateAppointment(ctx context.Context, id uuid.UUID, req *client.UpdateRequest) (*appointment.Appointment, error)
	CancelAppointment(ctx context.Context, id uuid.UUID) error
	Appointments(ctx context.Context, f *client.AppointmentsFilter) ([]*appointment.Appointment, error)
	Doctors(ctx context.Context, hospitalID *uuid.UUID, includeAvailability bool) ([]*doctor.Doctor, error)
	Doctor(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error)
}

var _ Backend = (*client.Client)(nil)

var (
	ErrNoTimeSelected        = errors.New("please select a time slot")
	ErrNoPaymentMethod       = errors.New("please select a payment method")
	ErrCancellationDeclined  = errors.New("cancellation was not confirmed")
	ErrActionNotAvailable    = errors.New("action is not available for this appointment")
	ErrWorkflowOutOfSequence = errors.New("workflow step attempted out of sequence")
)
