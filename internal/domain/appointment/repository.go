package appointment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Book atomically consumes the availability slot for (doctor, date, time),
	// assigns the next TokenSeq for the doctor's day and inserts a. The loser
	// of a booking race gets availability.ErrSlotTaken and no appointment.
	Book(ctx context.Context, a *Appointment) error

	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	List(ctx context.Context, q *ListAppointmentsQuery) ([]*Appointment, error)

	// UpdateStatus persists a's status column. A transition into Cancelled
	// also restores the availability slot.
	UpdateStatus(ctx context.Context, a *Appointment) error

	// UpdatePayment persists a's payment_status column only.
	UpdatePayment(ctx context.Context, a *Appointment) error

	// Cancel removes the appointment and restores its availability slot in
	// one transaction. Returns ErrAppointmentNotFound when the appointment
	// no longer exists, so a second cancellation cannot double-free a slot.
	Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// BookedTimes returns the times held on (doctor, date) by appointments
	// whose status still occupies the slot (Scheduled, In Progress, Completed).
	BookedTimes(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error)
}
