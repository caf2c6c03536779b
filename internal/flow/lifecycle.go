package flow

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/paulrajswetha/netcurea-api/internal/domain"
	"github.com/paulrajswetha/netcurea-api/internal/domain/appointment"
	"github.com/paulrajswetha/netcurea-api/pkg/client"
)

// Prompter asks the user to confirm an irreversible action.
type Prompter interface {
	Confirm(prompt string) bool
}

// PrompterFunc adapts a plain function to the Prompter interface.
type PrompterFunc func(prompt string) bool

func (f PrompterFunc) Confirm(prompt string) bool { return f(prompt) }

// Action is a lifecycle transition currently offered for an appointment.
type Action string

const (
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// Lifecycle drives an appointment's status toward its terminal state.
// Completed and Cancelled offer no further actions; a backend failure leaves
// the local record exactly as it was — nothing is applied optimistically.
type Lifecycle struct {
	sess    domain.Session
	backend Backend
	store   *Store
	prompt  Prompter
	log     *zap.Logger

	// ackDelay is the acknowledgment window between a successful
	// cancellation and the navigate-back callback. UX convenience only.
	ackDelay time.Duration
	navigate func()
}

func NewLifecycle(sess domain.Session, backend Backend, store *Store, prompt Prompter, log *zap.Logger) *Lifecycle {
	return &Lifecycle{
		sess:     sess,
		backend:  backend,
		store:    store,
		prompt:   prompt,
		log:      log,
		ackDelay: 2 * time.Second,
	}
}

// OnCancelNavigate registers the view reset invoked after a cancellation is
// acknowledged.
func (l *Lifecycle) OnCancelNavigate(delay time.Duration, navigate func()) {
	l.ackDelay = delay
	l.navigate = navigate
}

// Actions returns the transitions available for the appointment's current
// status. Terminal appointments get none.
func (l *Lifecycle) Actions(a *appointment.Appointment) []Action {
	var actions []Action
	if a.Completable() {
		actions = append(actions, ActionComplete)
	}
	if a.Cancellable() {
		actions = append(actions, ActionCancel)
	}
	return actions
}

// Complete marks a consult done. Only Scheduled and In Progress appointments
// qualify; anything else is rejected before the backend is called.
func (l *Lifecycle) Complete(ctx context.Context, a *appointment.Appointment) (*appointment.Appointment, error) {
	if !a.Completable() {
		return nil, ErrActionNotAvailable
	}

	status := appointment.StatusCompleted
	updated, err := l.backend.UpdateAppointment(ctx, a.ID, &client.UpdateRequest{Status: &status})
	if err != nil {
		return nil, err
	}

	l.log.Info("appointment completed", zap.String("appointment_id", a.ID.String()))
	if l.store != nil {
		l.store.Invalidate(ctx, ResourceAppointments)
	}
	return updated, nil
}

// Cancel deletes the appointment after an explicit confirmation prompt,
// returning its slot to the doctor's available set. The second cancellation
// of the same appointment fails with a not-found error. After the
// acknowledgment window the registered navigate callback resets the view.
func (l *Lifecycle) Cancel(ctx context.Context, a *appointment.Appointment) error {
	if !a.Cancellable() {
		return ErrActionNotAvailable
	}
	if l.prompt != nil && !l.prompt.Confirm("Are you sure you want to cancel this appointment?") {
		return ErrCancellationDeclined
	}

	if err := l.backend.CancelAppointment(ctx, a.ID); err != nil {
		return err
	}

	l.log.Info("appointment cancelled", zap.String("appointment_id", a.ID.String()))
	if l.store != nil {
		l.store.Invalidate(ctx, ResourceAppointments, ResourceDoctors, ResourceExpenses)
	}

	if l.navigate != nil {
		time.AfterFunc(l.ackDelay, l.navigate)
	}
	return nil
}
