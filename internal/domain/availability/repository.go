package availability

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Add(ctx context.Context, s *Slot) error
	Remove(ctx context.Context, id uuid.UUID, doctorID uuid.UUID) error
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Slot, error)
	ListByDoctorDate(ctx context.Context, doctorID uuid.UUID, date string) ([]*Slot, error)

	// Consume deletes the slot matching the tuple. Returns ErrSlotTaken when
	// no row matched — the loser of a booking race lands here.
	Consume(ctx context.Context, doctorID uuid.UUID, date, t string) error

	// Restore re-creates the slot after a cancellation. Restoring a tuple
	// that already exists is not an error; the slot is simply kept.
	Restore(ctx context.Context, doctorID uuid.UUID, date, t string) error
}
