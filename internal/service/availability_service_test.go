package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulrajswetha/netcurea-api/internal/domain"
	"github.com/paulrajswetha/netcurea-api/internal/domain/appointment"
	"github.com/paulrajswetha/netcurea-api/internal/domain/availability"
	"github.com/paulrajswetha/netcurea-api/internal/domain/doctor"
)

func TestResolveSortsAndExcludesBooked(t *testing.T) {
	d := activeDoctor("Dermatologist")
	env := newTestEnv(t, d)
	env.addSlot(t, d.UserID, "2026-09-01", "14:00")
	env.addSlot(t, d.UserID, "2026-09-01", "09:00")
	env.addSlot(t, d.UserID, "2026-09-01", "11:00")
	env.addSlot(t, d.UserID, "2026-09-02", "09:00")

	sess := patientSession()
	_, err := env.apptSvc.Book(context.Background(), sess, &appointment.BookAppointmentCommand{
		DoctorID: d.UserID, PatientID: sess.UserID, Date: "2026-09-01", Time: "11:00",
	})
	require.NoError(t, err)

	times, err := env.availSvc.Resolve(context.Background(), d.UserID, "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "14:00"}, times)
}

func TestResolveEmptyIsNotAnError(t *testing.T) {
	d := activeDoctor("Dermatologist")
	env := newTestEnv(t, d)

	times, err := env.availSvc.Resolve(context.Background(), d.UserID, "2026-09-01")
	require.NoError(t, err)
	assert.Empty(t, times)
}

func TestResolveRejectsMalformedDate(t *testing.T) {
	d := activeDoctor("Dermatologist")
	env := newTestEnv(t, d)

	var validErr *ValidationError
	_, err := env.availSvc.Resolve(context.Background(), d.UserID, "September 1st")
	assert.ErrorAs(t, err, &validErr)
}

func TestResolveUnknownDoctor(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.availSvc.Resolve(context.Background(), uuid.New(), "2026-09-01")
	assert.ErrorIs(t, err, doctor.ErrDoctorNotFound)
}

func TestResolveSeesRestoredSlotAfterCancellation(t *testing.T) {
	d := activeDoctor("Dermatologist")
	env := newTestEnv(t, d)
	env.addSlot(t, d.UserID, "2026-09-01", "09:00")

	sess := patientSession()
	a, err := env.apptSvc.Book(context.Background(), sess, &appointment.BookAppointmentCommand{
		DoctorID: d.UserID, PatientID: sess.UserID, Date: "2026-09-01", Time: "09:00",
	})
	require.NoError(t, err)

	times, err := env.availSvc.Resolve(context.Background(), d.UserID, "2026-09-01")
	require.NoError(t, err)
	assert.Empty(t, times)

	require.NoError(t, env.apptSvc.Cancel(context.Background(), sess, a.ID))

	times, err = env.availSvc.Resolve(context.Background(), d.UserID, "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00"}, times)
}

func TestAddSlotRoleGate(t *testing.T) {
	d := activeDoctor("Dermatologist")
	env := newTestEnv(t, d)

	cmd := &availability.AddSlotCommand{DoctorID: d.UserID, Date: "2026-09-01", Time: "09:00"}

	_, err := env.availSvc.AddSlot(context.Background(), patientSession(), cmd)
	assert.ErrorIs(t, err, ErrForbidden)

	otherDoc := domain.Session{UserID: uuid.New(), Role: domain.RoleDoctor}
	_, err = env.availSvc.AddSlot(context.Background(), otherDoc, cmd)
	assert.ErrorIs(t, err, ErrForbidden)

	docSess := domain.Session{UserID: d.UserID, Role: domain.RoleDoctor}
	slot, err := env.availSvc.AddSlot(context.Background(), docSess, cmd)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, slot.ID)

	_, err = env.availSvc.AddSlot(context.Background(), docSess, cmd)
	assert.ErrorIs(t, err, availability.ErrSlotExists)
}

func TestRemoveSlot(t *testing.T) {
	d := activeDoctor("Dermatologist")
	env := newTestEnv(t, d)

	docSess := domain.Session{UserID: d.UserID, Role: domain.RoleDoctor}
	slot, err := env.availSvc.AddSlot(context.Background(), docSess, &availability.AddSlotCommand{
		DoctorID: d.UserID, Date: "2026-09-01", Time: "09:00",
	})
	require.NoError(t, err)

	require.NoError(t, env.availSvc.RemoveSlot(context.Background(), docSess, slot.ID, d.UserID))
	err = env.availSvc.RemoveSlot(context.Background(), docSess, slot.ID, d.UserID)
	assert.ErrorIs(t, err, availability.ErrSlotNotFound)
}
