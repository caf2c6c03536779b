package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		wantErr error
	}{
		{StatusScheduled, StatusInProgress, nil},
		{StatusScheduled, StatusNotCompleted, nil},
		{StatusScheduled, StatusCompleted, nil},
		{StatusScheduled, StatusCancelled, nil},
		{StatusInProgress, StatusCompleted, nil},
		{StatusInProgress, StatusScheduled, ErrInvalidStatusTransition},
		{StatusInProgress, StatusCancelled, ErrInvalidStatusTransition},
		{StatusNotCompleted, StatusCancelled, nil},
		{StatusNotCompleted, StatusCompleted, ErrInvalidStatusTransition},
		{StatusCompleted, StatusScheduled, ErrInvalidStatusTransition},
		{StatusCompleted, StatusCancelled, ErrInvalidStatusTransition},
		{StatusCancelled, StatusScheduled, ErrInvalidStatusTransition},
		{StatusCancelled, StatusCompleted, ErrInvalidStatusTransition},
		{StatusScheduled, Status("Archived"), ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			a := &Appointment{Status: tt.from}
			err := a.Transition(tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, a.Status, "status must not change on a rejected transition")
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.to, a.Status)
			}
		})
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusScheduled.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
	assert.False(t, StatusNotCompleted.IsTerminal())
}

func TestMarkPaidIsMonotone(t *testing.T) {
	a := &Appointment{PaymentStatus: PaymentPending}

	require.NoError(t, a.MarkPaid())
	assert.Equal(t, PaymentCompleted, a.PaymentStatus)

	err := a.MarkPaid()
	assert.ErrorIs(t, err, ErrPaymentAlreadyCompleted)
	assert.Equal(t, PaymentCompleted, a.PaymentStatus)
}

func TestCancellableAndCompletable(t *testing.T) {
	tests := []struct {
		status      Status
		cancellable bool
		completable bool
	}{
		{StatusScheduled, true, true},
		{StatusInProgress, false, true},
		{StatusNotCompleted, true, false},
		{StatusCompleted, false, false},
		{StatusCancelled, false, false},
	}
	for _, tt := range tests {
		a := &Appointment{Status: tt.status}
		assert.Equal(t, tt.cancellable, a.Cancellable(), "Cancellable for %s", tt.status)
		assert.Equal(t, tt.completable, a.Completable(), "Completable for %s", tt.status)
	}
}

func TestStartsAt(t *testing.T) {
	a := &Appointment{Date: "2026-03-15", Time: "09:30"}
	ts, err := a.StartsAt()
	require.NoError(t, err)
	assert.Equal(t, 2026, ts.Year())
	assert.Equal(t, 9, ts.Hour())
	assert.Equal(t, 30, ts.Minute())

	bad := &Appointment{Date: "15-03-2026", Time: "09:30"}
	_, err = bad.StartsAt()
	assert.Error(t, err)
}
