package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/paulrajswetha/netcurea-api/internal/domain/doctor"
)

// DoctorService serves the doctor directory the booking screen starts from.
type DoctorService struct {
	repo doctor.Repository
}

func NewDoctorService(repo doctor.Repository) *DoctorService {
	return &DoctorService{repo: repo}
}

func (s *DoctorService) Get(ctx context.Context, userID uuid.UUID) (*doctor.Doctor, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *DoctorService) List(ctx context.Context, q *doctor.ListDoctorsQuery) ([]*doctor.Doctor, error) {
	return s.repo.List(ctx, q)
}
