package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/paulrajswetha/netcurea-api/internal/domain/availability"
)

type SlotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// withTx rebinds the repository to an open transaction so booking and
// cancellation run the same consume and restore statements as the
// standalone slot endpoints.
func (r *SlotRepository) withTx(tx *gorm.DB) *SlotRepository {
	return &SlotRepository{db: tx}
}

func (r *SlotRepository) Add(ctx context.Context, s *availability.Slot) error {
	err := r.db.WithContext(ctx).Create(s).Error
	if err != nil {
		if isUniqueViolation(err) {
			return availability.ErrSlotExists
		}
		return fmt.Errorf("adding slot: %w", err)
	}
	return nil
}

func (r *SlotRepository) Remove(ctx context.Context, id uuid.UUID, doctorID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND doctor_id = ?", id, doctorID).
		Delete(&availability.Slot{})
	if res.Error != nil {
		return fmt.Errorf("removing slot: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return availability.ErrSlotNotFound
	}
	return nil
}

func (r *SlotRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*availability.Slot, error) {
	var slots []*availability.Slot
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("date, time").
		Find(&slots).Error
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}
	return slots, nil
}

func (r *SlotRepository) ListByDoctorDate(ctx context.Context, doctorID uuid.UUID, date string) ([]*availability.Slot, error) {
	var slots []*availability.Slot
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ?", doctorID, date).
		Order("time").
		Find(&slots).Error
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}
	return slots, nil
}

func (r *SlotRepository) Consume(ctx context.Context, doctorID uuid.UUID, date, t string) error {
	res := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND time = ?", doctorID, date, t).
		Delete(&availability.Slot{})
	if res.Error != nil {
		return fmt.Errorf("consuming slot: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return availability.ErrSlotTaken
	}
	return nil
}

func (r *SlotRepository) Restore(ctx context.Context, doctorID uuid.UUID, date, t string) error {
	slot := &availability.Slot{DoctorID: doctorID, Date: date, Time: t}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(slot).Error
	if err != nil {
		return fmt.Errorf("restoring slot: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	// 23505 is Postgres unique_violation; gorm also surfaces its own sentinel.
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "23505") ||
		strings.Contains(err.Error(), "duplicate key")
}
