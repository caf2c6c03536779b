package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paulrajswetha/netcurea-api/internal/domain"
	"github.com/paulrajswetha/netcurea-api/internal/domain/appointment"
	"github.com/paulrajswetha/netcurea-api/internal/domain/doctor"
	"github.com/paulrajswetha/netcurea-api/pkg/metrics"
)

type AppointmentService struct {
	repo     appointment.Repository
	doctors  doctor.Repository
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewAppointmentService(
	repo appointment.Repository,
	doctors doctor.Repository,
	auditSvc *AuditService,
	m *metrics.Collector,
	log *zap.Logger,
) *AppointmentService {
	return &AppointmentService{repo: repo, doctors: doctors, auditSvc: auditSvc, metrics: m, log: log}
}

// Book creates a Scheduled appointment, consuming the matching availability
// slot and assigning the day's next token number in one transaction. Two
// patients racing for the last slot are arbitrated here: the second booking
// gets availability.ErrSlotTaken.
func (s *AppointmentService) Book(ctx context.Context, sess domain.Session, cmd *appointment.BookAppointmentCommand) (*appointment.Appointment, error) {
	var fields []string
	if _, err := time.Parse(appointment.DateLayout, cmd.Date); err != nil {
		fields = append(fields, appointment.ErrInvalidDate.Error())
	}
	if _, err := time.Parse(appointment.TimeLayout, cmd.Time); err != nil {
		fields = append(fields, appointment.ErrInvalidTime.Error())
	}
	if cmd.PatientID == uuid.Nil {
		fields = append(fields, "patient_user_id is required")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if sess.Role == domain.RolePatient && sess.UserID != cmd.PatientID {
		return nil, ErrForbidden
	}

	d, err := s.doctors.GetByID(ctx, cmd.DoctorID)
	if err != nil {
		return nil, err
	}
	if !d.IsActive {
		return nil, doctor.ErrDoctorInactive
	}

	a := &appointment.Appointment{
		DoctorID:      cmd.DoctorID,
		PatientID:     cmd.PatientID,
		Date:          cmd.Date,
		Time:          cmd.Time,
		Notes:         cmd.Notes,
		Status:        appointment.StatusScheduled,
		PaymentStatus: appointment.PaymentPending,
		Cost:          doctor.ConsultationFee(d.Specialization),
	}

	if err := s.repo.Book(ctx, a); err != nil {
		if s.metrics != nil {
			s.metrics.BookingsTotal.WithLabelValues("conflict").Inc()
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.BookingsTotal.WithLabelValues("created").Inc()
		s.metrics.SlotsConsumedTotal.Inc()
	}
	s.log.Info("appointment booked",
		zap.String("appointment_id", a.ID.String()),
		zap.String("doctor_id", a.DoctorID.String()),
		zap.String("date", a.Date),
		zap.String("time", a.Time),
		zap.Int("token_seq", a.TokenSeq),
	)

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: sess.UserID.String(), UserRole: string(sess.Role),
		Action: "create", ResourceType: "appointment", ResourceID: a.ID.String(),
	})

	return a, nil
}

func (s *AppointmentService) Get(ctx context.Context, sess domain.Session, id uuid.UUID) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(sess, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Update applies status and/or payment transitions. Both are monotone:
// terminal statuses accept nothing further, and payment only moves
// Pending → Completed. Nothing is persisted unless every requested
// transition is legal.
func (s *AppointmentService) Update(ctx context.Context, sess domain.Session, id uuid.UUID, cmd *appointment.UpdateAppointmentCommand) (*appointment.Appointment, error) {
	if cmd.Status == nil && cmd.PaymentStatus == nil {
		return nil, &ValidationError{Fields: []string{"status or payment_status is required"}}
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(sess, a); err != nil {
		return nil, err
	}

	if cmd.Status != nil {
		if err := a.Transition(*cmd.Status); err != nil {
			return nil, err
		}
	}
	if cmd.PaymentStatus != nil {
		if *cmd.PaymentStatus != appointment.PaymentCompleted {
			return nil, appointment.ErrInvalidStatusTransition
		}
		if err := a.MarkPaid(); err != nil {
			return nil, err
		}
	}

	if cmd.Status != nil {
		if err := s.repo.UpdateStatus(ctx, a); err != nil {
			return nil, fmt.Errorf("updating appointment status: %w", err)
		}
		if s.metrics != nil {
			s.metrics.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()
			if a.Status == appointment.StatusCancelled {
				s.metrics.SlotsRestoredTotal.Inc()
			}
		}
	}
	if cmd.PaymentStatus != nil {
		if err := s.repo.UpdatePayment(ctx, a); err != nil {
			return nil, fmt.Errorf("updating payment status: %w", err)
		}
		if s.metrics != nil {
			s.metrics.PaymentsTotal.Inc()
		}
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: sess.UserID.String(), UserRole: string(sess.Role),
		Action: "update", ResourceType: "appointment", ResourceID: a.ID.String(),
		Changes: fmt.Sprintf(`{"status":%q,"payment_status":%q}`, a.Status, a.PaymentStatus),
	})

	return a, nil
}

// Cancel removes the appointment and returns its slot to the available set.
// Cancelling the same appointment twice fails the second time with
// ErrAppointmentNotFound; the slot is never double-freed.
func (s *AppointmentService) Cancel(ctx context.Context, sess domain.Session, id uuid.UUID) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(sess, a); err != nil {
		return err
	}

	if _, err := s.repo.Cancel(ctx, id); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.AppointmentsTotal.WithLabelValues(string(appointment.StatusCancelled)).Inc()
		if !a.Status.IsTerminal() {
			s.metrics.SlotsRestoredTotal.Inc()
		}
	}
	s.log.Info("appointment cancelled",
		zap.String("appointment_id", id.String()),
		zap.String("by", sess.UserID.String()),
	)

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: sess.UserID.String(), UserRole: string(sess.Role),
		Action: "delete", ResourceType: "appointment", ResourceID: id.String(),
	})

	return nil
}

func (s *AppointmentService) List(ctx context.Context, sess domain.Session, q *appointment.ListAppointmentsQuery) ([]*appointment.Appointment, error) {
	// Patients and doctors only see their own appointments.
	switch sess.Role {
	case domain.RolePatient:
		q.PatientID = &sess.UserID
	case domain.RoleDoctor:
		q.DoctorID = &sess.UserID
	}
	return s.repo.List(ctx, q)
}

func (s *AppointmentService) authorize(sess domain.Session, a *appointment.Appointment) error {
	switch sess.Role {
	case domain.RoleAdmin, domain.RoleHospital:
		return nil
	case domain.RoleDoctor:
		if sess.UserID != a.DoctorID {
			return ErrForbidden
		}
	case domain.RolePatient:
		if sess.UserID != a.PatientID {
			return ErrForbidden
		}
	default:
		return ErrForbidden
	}
	return nil
}
