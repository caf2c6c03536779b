package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/paulrajswetha/netcurea-api/internal/domain"
	"github.com/paulrajswetha/netcurea-api/internal/domain/appointment"
	"github.com/paulrajswetha/netcurea-api/internal/domain/availability"
	"github.com/paulrajswetha/netcurea-api/internal/domain/doctor"
)

type testEnv struct {
	slots    *fakeSlotRepo
	appts    *fakeApptRepo
	doctors  *fakeDoctorRepo
	apptSvc  *AppointmentService
	availSvc *AvailabilityService
}

func newTestEnv(t *testing.T, doctors ...*doctor.Doctor) *testEnv {
	t.Helper()
	log := zap.NewNop()
	slots := newFakeSlotRepo()
	appts := newFakeApptRepo(slots)
	docRepo := newFakeDoctorRepo(doctors...)
	audit := NewAuditService(&fakeAuditRepo{}, nil, log)
	t.Cleanup(audit.Shutdown)

	return &testEnv{
		slots:    slots,
		appts:    appts,
		doctors:  docRepo,
		apptSvc:  NewAppointmentService(appts, docRepo, audit, nil, log),
		availSvc: NewAvailabilityService(slots, appts, docRepo, nil, log),
	}
}

func activeDoctor(specialization string) *doctor.Doctor {
	return &doctor.Doctor{
		UserID:         uuid.New(),
		Name:           "Dr. Mehta",
		Specialization: specialization,
		IsActive:       true,
	}
}

func (e *testEnv) addSlot(t *testing.T, doctorID uuid.UUID, date, at string) {
	t.Helper()
	err := e.slots.Add(context.Background(), &availability.Slot{DoctorID: doctorID, Date: date, Time: at})
	require.NoError(t, err)
}

func patientSession() domain.Session {
	return domain.Session{UserID: uuid.New(), Role: domain.RolePatient}
}

func TestBookAssignsSequentialTokens(t *testing.T) {
	d := activeDoctor("General Practitioner")
	env := newTestEnv(t, d)
	env.addSlot(t, d.UserID, "2026-09-01", "09:00")
	env.addSlot(t, d.UserID, "2026-09-01", "10:00")

	sess := patientSession()
	first, err := env.apptSvc.Book(context.Background(), sess, &appointment.BookAppointmentCommand{
		DoctorID: d.UserID, PatientID: sess.UserID, Date: "2026-09-01", Time: "09:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.TokenSeq)
	assert.Equal(t, appointment.StatusScheduled, first.Status)
	assert.Equal(t, appointment.PaymentPending, first.PaymentStatus)

	other := patientSession()
	second, err := env.apptSvc.Book(context.Background(), other, &appointment.BookAppointmentCommand{
		DoctorID: d.UserID, PatientID: other.UserID, Date: "2026-09-01", Time: "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.TokenSeq)
}

func TestBookRaceLoserGetsSlotTaken(t *testing.T) {
	d := activeDoctor("General Practitioner")
	env := newTestEnv(t, d)
	env.addSlot(t, d.UserID, "2026-09-01", "09:00")

	winner := patientSession()
	_, err := env.apptSvc.Book(context.Background(), winner, &appointment.BookAppointmentCommand{
		DoctorID: d.UserID, PatientID: winner.UserID, Date: "2026-09-01", Time: "09:00",
	})
	require.NoError(t, err)

	loser := patientSession()
	_, err = env.apptSvc.Book(context.Background(), loser, &appointment.BookAppointmentCommand{
		DoctorID: d.UserID, PatientID: loser.UserID, Date: "2026-09-01", Time: "09:00",
	})
	assert.ErrorIs(t, err, availability.ErrSlotTaken)
	assert.Equal(t, 0, env.slots.count(), "the consumed slot must not reappear")
}

func TestBookValidation(t *testing.T) {
	d := activeDoctor("General Practitioner")
	env := newTestEnv(t, d)

	sess := patientSession()
	_, err := env.apptSvc.Book(context.Background(), sess, &appointment.BookAppointmentCommand{
		DoctorID: d.UserID, PatientID: sess.UserID, Date: "01-09-2026", Time: "9am",
	})

	var validErr *ValidationError
	require.ErrorAs(t, err, &validErr)
	assert.Len(t, validErr.Fields, 2)
}

func TestBookPatientCannotBookForAnother(t *testing.T) {
	d := activeDoctor("General Practitioner")
	env := newTestEnv(t, d)

	sess := patientSession()
	_, err := env.apptSvc.Book(context.Background(), sess, &appointment.BookAppointmentCommand{
		DoctorID: d.UserID, PatientID: uuid.New(), Date: "2026-09-01", Time: "09:00",
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestBookCostFollowsSpecialization(t *testing.T) {
	cardio := activeDoctor("Cardiologist")
	env := newTestEnv(t, cardio)
	env.addSlot(t, cardio.UserID, "2026-09-01", "09:00")

	sess := patientSession()
	a, err := env.apptSvc.Book(context.Background(), sess, &appointment.BookAppointmentCommand{
		DoctorID: cardio.UserID, PatientID: sess.UserID, Date: "2026-09-01", Time: "09:00",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(1500), a.Cost)
}

func TestBookInactiveDoctorRejected(t *testing.T) {
	d := activeDoctor("General Practitioner")
	d.IsActive = false
	env := newTestEnv(t, d)
	env.addSlot(t, d.UserID, "2026-09-01", "09:00")

	sess := patientSession()
	_, err := env.apptSvc.Book(context.Background(), sess, &appointment.BookAppointmentCommand{
		DoctorID: d.UserID, PatientID: sess.UserID, Date: "2026-09-01", Time: "09:00",
	})
	assert.ErrorIs(t, err, doctor.ErrDoctorInactive)
	assert.Equal(t, 1, env.slots.count(), "slot must survive a rejected booking")
}

func TestCancelRestoresSlotExactlyOnce(t *testing.T) {
	d := activeDoctor("General Practitioner")
	env := newTestEnv(t, d)
	env.addSlot(t, d.UserID, "2026-09-01", "09:00")

	sess := patientSession()
	a, err := env.apptSvc.Book(context.Background(), sess, &appointment.BookAppointmentCommand{
		DoctorID: d.UserID, PatientID: sess.UserID, Date: "2026-09-01", Time: "09:00",
	})
	require.NoError(t, err)
	require.Equal(t, 0, env.slots.count())

	require.NoError(t, env.apptSvc.Cancel(context.Background(), sess, a.ID))
	assert.Equal(t, 1, env.slots.count(), "cancellation must return the slot")

	err = env.apptSvc.Cancel(context.Background(), sess, a.ID)
	assert.ErrorIs(t, err, appointment.ErrAppointmentNotFound)
	assert.Equal(t, 1, env.slots.count(), "a second cancel must not double-free")
}

func TestCancelForbiddenForOtherPatient(t *testing.T) {
	d := activeDoctor("General Practitioner")
	env := newTestEnv(t, d)
	env.addSlot(t, d.UserID, "2026-09-01", "09:00")

	owner := patientSession()
	a, err := env.apptSvc.Book(context.Background(), owner, &appointment.BookAppointmentCommand{
		DoctorID: d.UserID, PatientID: owner.UserID, Date: "2026-09-01", Time: "09:00",
	})
	require.NoError(t, err)

	stranger := patientSession()
	assert.ErrorIs(t, env.apptSvc.Cancel(context.Background(), stranger, a.ID), ErrForbidden)
}

func TestUpdateStatusAndPayment(t *testing.T) {
	d := activeDoctor("General Practitioner")
	env := newTestEnv(t, d)
	env.addSlot(t, d.UserID, "2026-09-01", "09:00")

	sess := patientSession()
	a, err := env.apptSvc.Book(context.Background(), sess, &appointment.BookAppointmentCommand{
		DoctorID: d.UserID, PatientID: sess.UserID, Date: "2026-09-01", Time: "09:00",
	})
	require.NoError(t, err)

	docSess := domain.Session{UserID: d.UserID, Role: domain.RoleDoctor}

	completed := appointment.StatusCompleted
	updated, err := env.apptSvc.Update(context.Background(), docSess, a.ID, &appointment.UpdateAppointmentCommand{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusCompleted, updated.Status)

	// Terminal state accepts nothing further.
	scheduled := appointment.StatusScheduled
	_, err = env.apptSvc.Update(context.Background(), docSess, a.ID, &appointment.UpdateAppointmentCommand{Status: &scheduled})
	assert.ErrorIs(t, err, appointment.ErrInvalidStatusTransition)

	paid := appointment.PaymentCompleted
	updated, err = env.apptSvc.Update(context.Background(), sess, a.ID, &appointment.UpdateAppointmentCommand{PaymentStatus: &paid})
	require.NoError(t, err)
	assert.Equal(t, appointment.PaymentCompleted, updated.PaymentStatus)

	_, err = env.apptSvc.Update(context.Background(), sess, a.ID, &appointment.UpdateAppointmentCommand{PaymentStatus: &paid})
	assert.ErrorIs(t, err, appointment.ErrPaymentAlreadyCompleted)

	// Payment never goes back to Pending.
	pending := appointment.PaymentPending
	_, err = env.apptSvc.Update(context.Background(), sess, a.ID, &appointment.UpdateAppointmentCommand{PaymentStatus: &pending})
	assert.ErrorIs(t, err, appointment.ErrInvalidStatusTransition)
}

func TestUpdateRequiresSomeChange(t *testing.T) {
	d := activeDoctor("General Practitioner")
	env := newTestEnv(t, d)

	var validErr *ValidationError
	_, err := env.apptSvc.Update(context.Background(), patientSession(), uuid.New(), &appointment.UpdateAppointmentCommand{})
	assert.ErrorAs(t, err, &validErr)
}

func TestListScopedByRole(t *testing.T) {
	d := activeDoctor("General Practitioner")
	env := newTestEnv(t, d)
	env.addSlot(t, d.UserID, "2026-09-01", "09:00")
	env.addSlot(t, d.UserID, "2026-09-01", "10:00")

	alice := patientSession()
	bob := patientSession()
	for _, p := range []struct {
		sess domain.Session
		at   string
	}{{alice, "09:00"}, {bob, "10:00"}} {
		_, err := env.apptSvc.Book(context.Background(), p.sess, &appointment.BookAppointmentCommand{
			DoctorID: d.UserID, PatientID: p.sess.UserID, Date: "2026-09-01", Time: p.at,
		})
		require.NoError(t, err)
	}

	mine, err := env.apptSvc.List(context.Background(), alice, &appointment.ListAppointmentsQuery{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, alice.UserID, mine[0].PatientID)

	docSess := domain.Session{UserID: d.UserID, Role: domain.RoleDoctor}
	theirs, err := env.apptSvc.List(context.Background(), docSess, &appointment.ListAppointmentsQuery{})
	require.NoError(t, err)
	assert.Len(t, theirs, 2)

	admin := domain.Session{UserID: uuid.New(), Role: domain.RoleAdmin}
	all, err := env.apptSvc.List(context.Background(), admin, &appointment.ListAppointmentsQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
