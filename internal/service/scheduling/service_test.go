package scheduling

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/ehr-api/internal/model"
	"github.com/clinicore/ehr-api/internal/repository"
	"github.com/clinicore/ehr-api/internal/service/event"
	apperrors "github.com/clinicore/ehr-api/pkg/errors"
	"github.com/clinicore/ehr-api/pkg/logger"
)

type fakeAppointmentRepo struct {
	repository.AppointmentRepository
	created  []*model.Appointment
	byID     map[uuid.UUID]*model.Appointment
	statuses map[uuid.UUID]model.AppointmentStatus
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{
		byID:     map[uuid.UUID]*model.Appointment{},
		statuses: map[uuid.UUID]model.AppointmentStatus{},
	}
}

func (f *fakeAppointmentRepo) Create(_ context.Context, apt *model.Appointment) error {
	f.created = append(f.created, apt)
	f.byID[apt.ID] = apt
	return nil
}

func (f *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	if apt, ok := f.byID[id]; ok {
		return apt, nil
	}
	return nil, apperrors.NotFound("appointment", nil)
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	f.statuses[id] = status
	return nil
}

type fakePatientRepo struct {
	repository.PatientRepository
	byIdentity map[uuid.UUID]*model.PatientProfile
	assigned   map[uuid.UUID]*uuid.UUID
}

func (f *fakePatientRepo) GetByIdentity(_ context.Context, identityID uuid.UUID) (*model.PatientProfile, error) {
	if p, ok := f.byIdentity[identityID]; ok {
		return p, nil
	}
	return nil, apperrors.NotFound("patient profile", nil)
}

func (f *fakePatientRepo) AssignDoctor(_ context.Context, patientID uuid.UUID, doctorID *uuid.UUID) error {
	f.assigned[patientID] = doctorID
	return nil
}

type fakeDoctorRepo struct {
	repository.DoctorRepository
	byID       map[uuid.UUID]*model.DoctorProfile
	byIdentity map[uuid.UUID]*model.DoctorProfile
}

func (f *fakeDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.DoctorProfile, error) {
	if d, ok := f.byID[id]; ok {
		return d, nil
	}
	return nil, apperrors.NotFound("doctor", nil)
}

func (f *fakeDoctorRepo) GetByIdentity(_ context.Context, identityID uuid.UUID) (*model.DoctorProfile, error) {
	if d, ok := f.byIdentity[identityID]; ok {
		return d, nil
	}
	return nil, apperrors.NotFound("doctor profile", nil)
}

type fakeIdentityRepo struct {
	repository.IdentityRepository
	byID map[uuid.UUID]*model.Identity
}

func (f *fakeIdentityRepo) Get(_ context.Context, id uuid.UUID) (*model.Identity, error) {
	if i, ok := f.byID[id]; ok {
		return i, nil
	}
	return nil, apperrors.NotFound("identity", nil)
}

type fakeOutboxRepo struct {
	repository.OutboxRepository
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Create(_ context.Context, e *model.OutboxEvent) error {
	f.events = append(f.events, e)
	return nil
}

type fixture struct {
	svc          *Service
	appointments *fakeAppointmentRepo
	patients     *fakePatientRepo
	outbox       *fakeOutboxRepo

	doctor        *model.DoctorProfile
	patient       *model.PatientProfile
	doctorClaims  *model.TokenClaims
	patientClaims *model.TokenClaims
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	doctorIdentity := &model.Identity{Base: model.Base{ID: uuid.New()}, Role: model.RoleDoctor}
	patientIdentity := &model.Identity{Base: model.Base{ID: uuid.New()}, Role: model.RolePatient, Email: "p@example.com"}

	doctor := &model.DoctorProfile{Base: model.Base{ID: uuid.New()}, IdentityID: doctorIdentity.ID}
	patient := &model.PatientProfile{Base: model.Base{ID: uuid.New()}, IdentityID: patientIdentity.ID}

	appointments := newFakeAppointmentRepo()
	patients := &fakePatientRepo{
		byIdentity: map[uuid.UUID]*model.PatientProfile{patientIdentity.ID: patient},
		assigned:   map[uuid.UUID]*uuid.UUID{},
	}
	outbox := &fakeOutboxRepo{}

	svc := NewService(
		appointments,
		patients,
		&fakeDoctorRepo{
			byID:       map[uuid.UUID]*model.DoctorProfile{doctor.ID: doctor},
			byIdentity: map[uuid.UUID]*model.DoctorProfile{doctorIdentity.ID: doctor},
		},
		&fakeIdentityRepo{byID: map[uuid.UUID]*model.Identity{
			doctorIdentity.ID:  doctorIdentity,
			patientIdentity.ID: patientIdentity,
		}},
		event.NewService(outbox),
		nil,
		logger.NewLogger(nil),
	)

	return &fixture{
		svc:           svc,
		appointments:  appointments,
		patients:      patients,
		outbox:        outbox,
		doctor:        doctor,
		patient:       patient,
		doctorClaims:  &model.TokenClaims{IdentityID: doctorIdentity.ID, Role: model.RoleDoctor},
		patientClaims: &model.TokenClaims{IdentityID: patientIdentity.ID, Role: model.RolePatient},
	}
}

func (f *fixture) schedule(t *testing.T) *model.Appointment {
	t.Helper()
	apt, err := f.svc.Schedule(context.Background(), f.patientClaims, &model.ScheduleAppointmentRequest{
		DoctorID: f.doctor.ID.String(),
		Date:     "2026-09-01",
		Time:     "10:30",
		Reason:   "checkup",
	})
	require.NoError(t, err)
	return apt
}

func TestSchedule(t *testing.T) {
	f := newFixture(t)

	apt := f.schedule(t)

	assert.Equal(t, model.AppointmentStatusScheduled, apt.Status)
	assert.Equal(t, f.patient.ID, apt.PatientID)
	assert.Equal(t, f.doctor.ID, apt.DoctorID)
	require.Len(t, f.appointments.created, 1)
	require.Len(t, f.outbox.events, 1)
	assert.Equal(t, "appointment.created", f.outbox.events[0].EventType)

	// First appointment puts the patient on the doctor's roster.
	require.Contains(t, f.patients.assigned, f.patient.ID)
	assert.Equal(t, &f.doctor.ID, f.patients.assigned[f.patient.ID])
}

func TestScheduleKeepsExistingDoctorAssignment(t *testing.T) {
	f := newFixture(t)
	existing := uuid.New()
	f.patient.DoctorID = &existing

	f.schedule(t)

	assert.Empty(t, f.patients.assigned)
}

func TestScheduleRequiresPatient(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Schedule(context.Background(), f.doctorClaims, &model.ScheduleAppointmentRequest{
		DoctorID: f.doctor.ID.String(),
		Date:     "2026-09-01",
		Time:     "10:30",
		Reason:   "checkup",
	})

	assert.Equal(t, apperrors.ErrAuthorization, apperrors.CodeOf(err))
	assert.Empty(t, f.appointments.created)
}

func TestScheduleRejectsBadDate(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Schedule(context.Background(), f.patientClaims, &model.ScheduleAppointmentRequest{
		DoctorID: f.doctor.ID.String(),
		Date:     "tomorrow",
		Time:     "10:30",
		Reason:   "checkup",
	})

	assert.Equal(t, apperrors.ErrValidation, apperrors.CodeOf(err))
	assert.Empty(t, f.appointments.created)
}

func TestDoctorCompletesOwnAppointment(t *testing.T) {
	f := newFixture(t)
	apt := f.schedule(t)

	updated, err := f.svc.UpdateStatus(context.Background(), f.doctorClaims, apt.ID, model.AppointmentStatusCompleted)
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusCompleted, updated.Status)
	assert.Equal(t, model.AppointmentStatusCompleted, f.appointments.statuses[apt.ID])
}

func TestPatientMayOnlyCancel(t *testing.T) {
	f := newFixture(t)
	apt := f.schedule(t)

	_, err := f.svc.UpdateStatus(context.Background(), f.patientClaims, apt.ID, model.AppointmentStatusCompleted)
	assert.Equal(t, apperrors.ErrAuthorization, apperrors.CodeOf(err))

	updated, err := f.svc.UpdateStatus(context.Background(), f.patientClaims, apt.ID, model.AppointmentStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, updated.Status)
}

func TestTerminalStatusNeverChanges(t *testing.T) {
	f := newFixture(t)
	apt := f.schedule(t)

	_, err := f.svc.UpdateStatus(context.Background(), f.doctorClaims, apt.ID, model.AppointmentStatusCompleted)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), f.doctorClaims, apt.ID, model.AppointmentStatusNoShow)
	assert.Equal(t, apperrors.ErrValidation, apperrors.CodeOf(err))
}

func TestForeignDoctorCannotUpdate(t *testing.T) {
	f := newFixture(t)
	apt := f.schedule(t)

	// A second doctor with their own profile.
	otherIdentity := uuid.New()
	other := &model.DoctorProfile{Base: model.Base{ID: uuid.New()}, IdentityID: otherIdentity}
	f.svc.doctorRepo.(*fakeDoctorRepo).byIdentity[otherIdentity] = other

	_, err := f.svc.UpdateStatus(context.Background(), &model.TokenClaims{
		IdentityID: otherIdentity,
		Role:       model.RoleDoctor,
	}, apt.ID, model.AppointmentStatusCompleted)

	assert.Equal(t, apperrors.ErrAuthorization, apperrors.CodeOf(err))
}
