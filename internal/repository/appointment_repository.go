package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/paulrajswetha/netcurea-api/internal/domain/appointment"
)

type AppointmentRepository struct {
	db    *gorm.DB
	slots *SlotRepository
}

func NewAppointmentRepository(db *gorm.DB, slots *SlotRepository) *AppointmentRepository {
	return &AppointmentRepository{db: db, slots: slots}
}

// slotOccupied lists the statuses that keep a (doctor, date, time) tuple out
// of the available set.
var slotOccupied = []appointment.Status{
	appointment.StatusScheduled,
	appointment.StatusInProgress,
	appointment.StatusCompleted,
}

func (r *AppointmentRepository) Book(ctx context.Context, a *appointment.Appointment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialize bookings for the doctor's day before reading the
		// token sequence. A row lock cannot do this: Postgres rejects
		// FOR UPDATE on aggregate queries, and on a day with no
		// appointments yet there is no row to lock, so two transactions
		// would read the same maximum.
		if err := lockDoctorDay(tx, a.DoctorID, a.Date).Error; err != nil {
			return fmt.Errorf("locking token sequence: %w", err)
		}

		// The slot delete is the arbiter between racing patients. Zero
		// rows means somebody else got there.
		if err := r.slots.withTx(tx).Consume(ctx, a.DoctorID, a.Date, a.Time); err != nil {
			return err
		}

		// Token numbers are a per-doctor-per-day sequence starting at 1.
		var maxSeq int
		if err := maxTokenSeq(tx, a.DoctorID, a.Date, &maxSeq).Error; err != nil {
			return fmt.Errorf("assigning token: %w", err)
		}
		a.TokenSeq = maxSeq + 1

		if err := tx.Create(a).Error; err != nil {
			return fmt.Errorf("creating appointment: %w", err)
		}
		return nil
	})
}

// lockDoctorDay takes a transaction-scoped advisory lock keyed by the
// (doctor, date) pair. Released automatically at commit or rollback.
func lockDoctorDay(tx *gorm.DB, doctorID uuid.UUID, date string) *gorm.DB {
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(? || '|' || ?))", doctorID.String(), date)
}

// maxTokenSeq reads the highest token issued for the doctor's day, zero when
// none. Callers must hold the lockDoctorDay lock.
func maxTokenSeq(tx *gorm.DB, doctorID uuid.UUID, date string, dest *int) *gorm.DB {
	return tx.Model(&appointment.Appointment{}).
		Where("doctor_id = ? AND date = ? AND deleted_at IS NULL", doctorID, date).
		Select("COALESCE(MAX(token_seq), 0)").
		Scan(dest)
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appointment.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching appointment: %w", err)
	}
	return &a, nil
}

func (r *AppointmentRepository) List(ctx context.Context, q *appointment.ListAppointmentsQuery) ([]*appointment.Appointment, error) {
	tx := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("deleted_at IS NULL")

	if q.DoctorID != nil {
		tx = tx.Where("doctor_id = ?", *q.DoctorID)
	}
	if q.PatientID != nil {
		tx = tx.Where("patient_id = ?", *q.PatientID)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}
	if q.DateFrom != nil {
		tx = tx.Where("date >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		tx = tx.Where("date <= ?", *q.DateTo)
	}

	var appts []*appointment.Appointment
	if err := tx.Order("date, time").Find(&appts).Error; err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}
	return appts, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, a *appointment.Appointment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&appointment.Appointment{}).
			Where("id = ? AND deleted_at IS NULL", a.ID).
			Update("status", a.Status)
		if res.Error != nil {
			return fmt.Errorf("updating status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return appointment.ErrAppointmentNotFound
		}
		if a.Status == appointment.StatusCancelled {
			return r.slots.withTx(tx).Restore(ctx, a.DoctorID, a.Date, a.Time)
		}
		return nil
	})
}

func (r *AppointmentRepository) UpdatePayment(ctx context.Context, a *appointment.Appointment) error {
	res := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Where("id = ? AND deleted_at IS NULL", a.ID).
		Update("payment_status", a.PaymentStatus)
	if res.Error != nil {
		return fmt.Errorf("updating payment status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) Cancel(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND deleted_at IS NULL", id).
			First(&a).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appointment.ErrAppointmentNotFound
		}
		if err != nil {
			return fmt.Errorf("fetching appointment: %w", err)
		}

		now := time.Now()
		if err := tx.Model(&a).Update("deleted_at", &now).Error; err != nil {
			return fmt.Errorf("deleting appointment: %w", err)
		}

		// Terminal appointments already released (Cancelled) or used
		// (Completed) their slot; only open ones give it back.
		if !a.Status.IsTerminal() {
			return r.slots.withTx(tx).Restore(ctx, a.DoctorID, a.Date, a.Time)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) BookedTimes(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	var times []string
	err := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Where("doctor_id = ? AND date = ? AND deleted_at IS NULL AND status IN ?", doctorID, date, slotOccupied).
		Pluck("time", &times).Error
	if err != nil {
		return nil, fmt.Errorf("listing booked times: %w", err)
	}
	return times, nil
}
