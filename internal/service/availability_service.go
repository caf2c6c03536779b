package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paulrajswetha/netcurea-api/internal/domain"
	"github.com/paulrajswetha/netcurea-api/internal/domain/appointment"
	"github.com/paulrajswetha/netcurea-api/internal/domain/availability"
	"github.com/paulrajswetha/netcurea-api/internal/domain/doctor"
	"github.com/paulrajswetha/netcurea-api/pkg/metrics"
)

type AvailabilityService struct {
	slots   availability.Repository
	appts   appointment.Repository
	doctors doctor.Repository
	metrics *metrics.Collector
	log     *zap.Logger
}

func NewAvailabilityService(
	slots availability.Repository,
	appts appointment.Repository,
	doctors doctor.Repository,
	m *metrics.Collector,
	log *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{slots: slots, appts: appts, doctors: doctors, metrics: m, log: log}
}

// Resolve returns the ascending list of bookable times for the doctor on the
// given date. An empty result is not an error: the doctor simply has no
// openings. Times already held by a Scheduled, In Progress or Completed
// appointment never appear, even if a stale slot row exists for them.
func (s *AvailabilityService) Resolve(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	if _, err := time.Parse(appointment.DateLayout, date); err != nil {
		return nil, &ValidationError{Fields: []string{"date must be a valid calendar date (YYYY-MM-DD)"}}
	}

	d, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !d.IsActive {
		return nil, doctor.ErrDoctorInactive
	}

	open, err := s.slots.ListByDoctorDate(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("resolving availability: %w", err)
	}

	booked, err := s.appts.BookedTimes(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("resolving availability: %w", err)
	}
	taken := make(map[string]bool, len(booked))
	for _, t := range booked {
		taken[t] = true
	}

	times := make([]string, 0, len(open))
	seen := make(map[string]bool, len(open))
	for _, slot := range open {
		if taken[slot.Time] || seen[slot.Time] {
			continue
		}
		seen[slot.Time] = true
		times = append(times, slot.Time)
	}
	sort.Strings(times)

	if s.metrics != nil {
		s.metrics.AvailabilityQueries.Inc()
	}
	return times, nil
}

// AddSlot publishes a new open slot for the calling doctor.
func (s *AvailabilityService) AddSlot(ctx context.Context, sess domain.Session, cmd *availability.AddSlotCommand) (*availability.Slot, error) {
	if sess.Role != domain.RoleDoctor && sess.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	if sess.Role == domain.RoleDoctor && sess.UserID != cmd.DoctorID {
		return nil, ErrForbidden
	}

	var fields []string
	if _, err := time.Parse(appointment.DateLayout, cmd.Date); err != nil {
		fields = append(fields, "date must be a valid calendar date (YYYY-MM-DD)")
	}
	if _, err := time.Parse(appointment.TimeLayout, cmd.Time); err != nil {
		fields = append(fields, "time must be in HH:MM format")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	slot := &availability.Slot{
		DoctorID: cmd.DoctorID,
		Date:     cmd.Date,
		Time:     cmd.Time,
	}
	if err := s.slots.Add(ctx, slot); err != nil {
		return nil, err
	}

	s.log.Info("availability slot added",
		zap.String("doctor_id", cmd.DoctorID.String()),
		zap.String("date", cmd.Date),
		zap.String("time", cmd.Time),
	)
	return slot, nil
}

func (s *AvailabilityService) RemoveSlot(ctx context.Context, sess domain.Session, id uuid.UUID, doctorID uuid.UUID) error {
	if sess.Role != domain.RoleDoctor && sess.Role != domain.RoleAdmin {
		return ErrForbidden
	}
	if sess.Role == domain.RoleDoctor && sess.UserID != doctorID {
		return ErrForbidden
	}
	return s.slots.Remove(ctx, id, doctorID)
}

func (s *AvailabilityService) ListSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]*availability.Slot, error) {
	if date != "" {
		return s.slots.ListByDoctorDate(ctx, doctorID, date)
	}
	return s.slots.ListByDoctor(ctx, doctorID)
}
