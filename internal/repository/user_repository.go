package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/paulrajswetha/netcurea-api/internal/domain"
	"github.com/paulrajswetha/netcurea-api/internal/domain/availability"
	"github.com/paulrajswetha/netcurea-api/internal/domain/doctor"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email already registered: %w", err)
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND deleted_at IS NULL", email).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Update("last_login_at", gorm.Expr("NOW()")).Error
}

// DoctorRepository serves the doctor directory from the users table,
// optionally joined with open availability slots.
type DoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

func (r *DoctorRepository) GetByID(ctx context.Context, userID uuid.UUID) (*doctor.Doctor, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND role = ? AND deleted_at IS NULL", userID, domain.RoleDoctor).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, doctor.ErrDoctorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching doctor: %w", err)
	}
	return toDoctor(&u), nil
}

func (r *DoctorRepository) List(ctx context.Context, q *doctor.ListDoctorsQuery) ([]*doctor.Doctor, error) {
	tx := r.db.WithContext(ctx).
		Where("role = ? AND is_active AND deleted_at IS NULL", domain.RoleDoctor)
	if q.HospitalID != nil {
		tx = tx.Where("hospital_id = ?", *q.HospitalID)
	}

	var users []*domain.User
	if err := tx.Order("name").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("listing doctors: %w", err)
	}

	doctors := make([]*doctor.Doctor, 0, len(users))
	for _, u := range users {
		d := toDoctor(u)
		if q.IncludeAvailability {
			var slots []*availability.Slot
			err := r.db.WithContext(ctx).
				Where("doctor_id = ?", u.ID).
				Order("date, time").
				Find(&slots).Error
			if err != nil {
				return nil, fmt.Errorf("loading availability for doctor %s: %w", u.ID, err)
			}
			d.Availability = slots
		}
		doctors = append(doctors, d)
	}
	return doctors, nil
}

func toDoctor(u *domain.User) *doctor.Doctor {
	return &doctor.Doctor{
		UserID:         u.ID,
		Name:           u.Name,
		Specialization: u.Specialization,
		HospitalID:     u.HospitalID,
		IsActive:       u.IsActive,
	}
}
