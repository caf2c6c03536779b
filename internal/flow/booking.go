package flow

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/paulrajswetha/netcurea-api/internal/domain"
	"github.com/paulrajswetha/netcurea-api/internal/domain/appointment"
	"github.com/paulrajswetha/netcurea-api/internal/domain/doctor"
	"github.com/paulrajswetha/netcurea-api/pkg/client"
)

type BookingState string

const (
	StateSelectingDoctor BookingState = "selecting_doctor"
	StateSelectingDate   BookingState = "selecting_date"
	StateSelectingTime   BookingState = "selecting_time"
	StateReviewingNotes  BookingState = "reviewing_notes"
	StateSubmitting      BookingState = "submitting"
	StateConfirmed       BookingState = "confirmed"
	StateFailed          BookingState = "failed"
)

// Booking walks one appointment from doctor selection to confirmation.
//
//	SelectingDoctor → SelectingDate → SelectingTime → ReviewingNotes
//	  → Submitting → Confirmed | Failed
//
// There is no client-side locking: if another patient takes the slot between
// resolution and submission, the backend rejects with a conflict and the
// booking drops back to SelectingTime with availability re-resolved.
type Booking struct {
	sess     domain.Session
	backend  Backend
	resolver *Resolver
	store    *Store
	log      *zap.Logger

	state          BookingState
	doctor         *doctor.Doctor
	date           string
	time           string
	notes          string
	availableTimes []string
	message        string
	confirmed      *appointment.Appointment
}

func NewBooking(sess domain.Session, backend Backend, store *Store, log *zap.Logger) *Booking {
	return &Booking{
		sess:     sess,
		backend:  backend,
		resolver: NewResolver(backend),
		store:    store,
		log:      log,
		state:    StateSelectingDoctor,
	}
}

func (b *Booking) State() BookingState { return b.state }

// Message is the last user-visible notice (validation hint, conflict notice,
// empty-availability note). Cleared whenever a step succeeds.
func (b *Booking) Message() string { return b.message }

// Confirmed returns the created appointment once the booking reaches
// Confirmed, token number included.
func (b *Booking) Confirmed() *appointment.Appointment { return b.confirmed }

// SelectDoctor starts (or restarts) the booking for a doctor. Any previously
// chosen date, time and notes are discarded.
func (b *Booking) SelectDoctor(d *doctor.Doctor) error {
	if b.state == StateSubmitting {
		return ErrWorkflowOutOfSequence
	}
	if d == nil || !d.IsActive {
		return doctor.ErrDoctorInactive
	}

	b.doctor = d
	b.date = ""
	b.time = ""
	b.notes = ""
	b.availableTimes = nil
	b.confirmed = nil
	b.message = ""
	b.state = StateSelectingDate
	return nil
}

// SelectableDates lists the dates on which the chosen doctor has at least
// one open slot. Dates without slots are not offered.
func (b *Booking) SelectableDates() []string {
	if b.doctor == nil {
		return nil
	}
	seen := make(map[string]bool)
	var dates []string
	for _, slot := range b.doctor.Availability {
		if !seen[slot.Date] {
			seen[slot.Date] = true
			dates = append(dates, slot.Date)
		}
	}
	sort.Strings(dates)
	return dates
}

// SelectDate resolves the doctor's openings for the date. With at least one
// open time the booking advances to time selection; with none it stays put
// and reports "no openings".
func (b *Booking) SelectDate(ctx context.Context, date string) ([]string, error) {
	if b.state != StateSelectingDate && b.state != StateSelectingTime && b.state != StateReviewingNotes {
		return nil, ErrWorkflowOutOfSequence
	}

	times, err := b.resolver.Resolve(ctx, b.doctor.UserID, date)
	if err != nil {
		return nil, err
	}

	b.date = date
	b.time = ""
	b.availableTimes = times

	if len(times) == 0 {
		b.message = "No available time slots for this date."
		b.state = StateSelectingDate
		return times, nil
	}

	b.message = ""
	b.state = StateSelectingTime
	return times, nil
}

func (b *Booking) AvailableTimes() []string { return b.availableTimes }

func (b *Booking) SelectTime(t string) error {
	if b.state != StateSelectingTime && b.state != StateReviewingNotes {
		return ErrWorkflowOutOfSequence
	}
	for _, avail := range b.availableTimes {
		if avail == t {
			b.time = t
			b.message = ""
			b.state = StateReviewingNotes
			return nil
		}
	}
	return &client.ValidationError{Fields: []string{"selected time is not available"}}
}

// SetNotes attaches the optional visit notes reviewed before submission.
func (b *Booking) SetNotes(notes string) {
	b.notes = notes
}

// Confirm submits the booking. Without a selected time nothing is sent: the
// attempt is rejected locally with a validation message. A backend conflict
// (slot raced away) surfaces its message and drops the booking back to time
// selection with availability freshly resolved. On success the consumed slot
// is gone server-side and the session's appointment, doctor and expense
// caches are re-fetched, not locally patched.
func (b *Booking) Confirm(ctx context.Context) (*appointment.Appointment, error) {
	if b.state != StateSelectingTime && b.state != StateReviewingNotes && b.state != StateFailed {
		return nil, ErrWorkflowOutOfSequence
	}
	if b.time == "" {
		b.message = "Please select a time slot."
		return nil, ErrNoTimeSelected
	}

	b.state = StateSubmitting
	a, err := b.backend.BookAppointment(ctx, &client.BookRequest{
		DoctorID:  b.doctor.UserID,
		PatientID: b.sess.UserID,
		Date:      b.date,
		Time:      b.time,
		Notes:     b.notes,
	})
	if err != nil {
		return nil, b.submissionFailed(ctx, err)
	}

	b.confirmed = a
	b.message = ""
	b.state = StateConfirmed
	b.log.Info("booking confirmed",
		zap.String("appointment_id", a.ID.String()),
		zap.Int("token_seq", a.TokenSeq),
	)

	if b.store != nil {
		b.store.Invalidate(ctx, ResourceAppointments, ResourceDoctors, ResourceExpenses)
	}
	return a, nil
}

func (b *Booking) submissionFailed(ctx context.Context, err error) error {
	b.message = err.Error()

	if errors.Is(err, client.ErrConflict) {
		// Somebody else got the slot first. Re-resolve so the stale time
		// disappears from the picker and let the patient choose again.
		times, rerr := b.resolver.Resolve(ctx, b.doctor.UserID, b.date)
		if rerr == nil {
			b.availableTimes = times
		} else {
			b.log.Warn("availability refresh after conflict failed", zap.Error(rerr))
		}
		b.time = ""
		b.state = StateSelectingTime
		return err
	}

	// Transient or unexpected failures park the booking in Failed; Confirm
	// may be retried once the backend recovers.
	b.state = StateFailed
	return err
}
