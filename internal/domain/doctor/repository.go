package doctor

import (
	"context"

	"github.com/google/uuid"
)

type ListDoctorsQuery struct {
	HospitalID          *uuid.UUID
	IncludeAvailability bool
}

type Repository interface {
	// GetByID returns the doctor view for an active doctor account.
	GetByID(ctx context.Context, userID uuid.UUID) (*Doctor, error)
	List(ctx context.Context, q *ListDoctorsQuery) ([]*Doctor, error)
}
