package medical

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/ehr-api/internal/model"
	"github.com/clinicore/ehr-api/internal/repository"
	"github.com/clinicore/ehr-api/internal/service/event"
	apperrors "github.com/clinicore/ehr-api/pkg/errors"
	"github.com/clinicore/ehr-api/pkg/logger"
)

type fakeDoctorRepo struct {
	repository.DoctorRepository
	byIdentity map[uuid.UUID]*model.DoctorProfile
}

func (f *fakeDoctorRepo) GetByIdentity(_ context.Context, identityID uuid.UUID) (*model.DoctorProfile, error) {
	if d, ok := f.byIdentity[identityID]; ok {
		return d, nil
	}
	return nil, apperrors.NotFound("doctor profile", nil)
}

type fakePatientRepo struct {
	repository.PatientRepository
	byID map[uuid.UUID]*model.PatientProfile
}

func (f *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.PatientProfile, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, apperrors.NotFound("patient", nil)
}

type fakePrescriptionRepo struct {
	repository.PrescriptionRepository
	created []*model.Prescription
	byID    map[uuid.UUID]*model.Prescription
}

func (f *fakePrescriptionRepo) Create(_ context.Context, p *model.Prescription) error {
	f.created = append(f.created, p)
	f.byID[p.ID] = p
	return nil
}

func (f *fakePrescriptionRepo) Get(_ context.Context, id uuid.UUID) (*model.Prescription, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, apperrors.NotFound("prescription", nil)
}

type fakeConsultationRepo struct {
	repository.ConsultationRepository
	created []*model.ConsultationNote
}

func (f *fakeConsultationRepo) Create(_ context.Context, note *model.ConsultationNote) error {
	f.created = append(f.created, note)
	return nil
}

type fakeTestResultRepo struct {
	repository.TestResultRepository
	created []*model.TestResult
	byID    map[uuid.UUID]*model.TestResult
	updated []*model.TestResult
}

func (f *fakeTestResultRepo) Create(_ context.Context, tr *model.TestResult) error {
	f.created = append(f.created, tr)
	return nil
}

func (f *fakeTestResultRepo) Get(_ context.Context, id uuid.UUID) (*model.TestResult, error) {
	if tr, ok := f.byID[id]; ok {
		return tr, nil
	}
	return nil, apperrors.NotFound("test result", nil)
}

func (f *fakeTestResultRepo) Update(_ context.Context, tr *model.TestResult) error {
	f.updated = append(f.updated, tr)
	return nil
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
	svc           *Service
	doctors       *fakeDoctorRepo
	patients      *fakePatientRepo
	prescriptions *fakePrescriptionRepo
	consultations *fakeConsultationRepo
	testResults   *fakeTestResultRepo
	outbox        *fakeOutboxRepo

	doctorClaims  *model.TokenClaims
	patientClaims *model.TokenClaims
	doctor        *model.DoctorProfile
	patient       *model.PatientProfile
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	doctorIdentity := uuid.New()
	doctor := &model.DoctorProfile{
		Base:       model.Base{ID: uuid.New()},
		IdentityID: doctorIdentity,
	}
	patient := &model.PatientProfile{
		Base:       model.Base{ID: uuid.New()},
		IdentityID: uuid.New(),
	}

	f := &fixture{
		doctors:       &fakeDoctorRepo{byIdentity: map[uuid.UUID]*model.DoctorProfile{doctorIdentity: doctor}},
		patients:      &fakePatientRepo{byID: map[uuid.UUID]*model.PatientProfile{patient.ID: patient}},
		prescriptions: &fakePrescriptionRepo{byID: map[uuid.UUID]*model.Prescription{}},
		consultations: &fakeConsultationRepo{},
		testResults:   &fakeTestResultRepo{byID: map[uuid.UUID]*model.TestResult{}},
		outbox:        &fakeOutboxRepo{},
		doctorClaims:  &model.TokenClaims{IdentityID: doctorIdentity, Role: model.RoleDoctor},
		patientClaims: &model.TokenClaims{IdentityID: patient.IdentityID, Role: model.RolePatient},
		doctor:        doctor,
		patient:       patient,
	}

	f.svc = NewService(f.doctors, f.patients, f.prescriptions, f.consultations, f.testResults,
		event.NewService(f.outbox), logger.NewLogger(nil))
	return f
}

func TestPrescribe(t *testing.T) {
	f := newFixture(t)
	prescribed := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return prescribed }

	p, err := f.svc.Prescribe(context.Background(), f.doctorClaims, &model.PrescribeRequest{
		PatientID:  f.patient.ID.String(),
		Medication: "Lisinopril",
		Dosage:     "10mg",
		Frequency:  "daily",
		Refills:    2,
	})
	require.NoError(t, err)

	assert.True(t, p.IsActive)
	assert.Equal(t, 2, p.RefillsLeft)
	assert.Equal(t, prescribed, p.DatePrescribed)
	assert.Equal(t, f.doctor.ID, p.DoctorID)
	assert.Equal(t, f.patient.ID, p.PatientID)
	require.Len(t, f.prescriptions.created, 1)
	require.Len(t, f.outbox.events, 1)
	assert.Equal(t, "prescription.created", f.outbox.events[0].EventType)
}

func TestPrescribeRequiresDoctor(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Prescribe(context.Background(), f.patientClaims, &model.PrescribeRequest{
		PatientID:  f.patient.ID.String(),
		Medication: "Lisinopril",
		Dosage:     "10mg",
		Frequency:  "daily",
	})

	assert.Equal(t, apperrors.ErrAuthorization, apperrors.CodeOf(err))
	assert.Empty(t, f.prescriptions.created)
	assert.Empty(t, f.outbox.events)
}

func TestPrescribeUnknownPatient(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Prescribe(context.Background(), f.doctorClaims, &model.PrescribeRequest{
		PatientID:  uuid.New().String(),
		Medication: "Lisinopril",
		Dosage:     "10mg",
		Frequency:  "daily",
	})

	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))
	assert.Empty(t, f.prescriptions.created)
}

func TestAddConsultationNote(t *testing.T) {
	f := newFixture(t)

	note, err := f.svc.AddConsultationNote(context.Background(), f.doctorClaims, &model.ConsultationNoteRequest{
		PatientID: f.patient.ID.String(),
		Date:      "2026-03-10",
		Reason:    "follow-up",
		Diagnosis: "hypertension",
		Treatment: "medication adjustment",
	})
	require.NoError(t, err)

	assert.Equal(t, f.doctor.ID, note.DoctorID)
	assert.Equal(t, "hypertension", note.Diagnosis)
	require.Len(t, f.consultations.created, 1)
}

func TestOrderTestDefaultsToPending(t *testing.T) {
	f := newFixture(t)

	tr, err := f.svc.OrderTest(context.Background(), f.doctorClaims, &model.OrderTestRequest{
		PatientID: f.patient.ID.String(),
		TestName:  "CBC",
		TestDate:  "2026-03-12",
	})
	require.NoError(t, err)

	assert.Equal(t, model.TestResultStatusPending, tr.Status)
	assert.Equal(t, f.doctor.ID, tr.OrderedBy)
}

func TestUpdateTestResultOwnership(t *testing.T) {
	f := newFixture(t)
	other := &model.TestResult{
		Base:      model.Base{ID: uuid.New()},
		PatientID: f.patient.ID,
		OrderedBy: uuid.New(),
		Status:    model.TestResultStatusPending,
	}
	f.testResults.byID[other.ID] = other

	_, err := f.svc.UpdateTestResult(context.Background(), f.doctorClaims, other.ID, &model.UpdateTestResultRequest{
		Status: model.TestResultStatusCompleted,
	})

	assert.Equal(t, apperrors.ErrAuthorization, apperrors.CodeOf(err))
	assert.Empty(t, f.testResults.updated)
}

func TestUpdateTestResult(t *testing.T) {
	f := newFixture(t)
	owned := &model.TestResult{
		Base:      model.Base{ID: uuid.New()},
		PatientID: f.patient.ID,
		OrderedBy: f.doctor.ID,
		Status:    model.TestResultStatusPending,
	}
	f.testResults.byID[owned.ID] = owned

	tr, err := f.svc.UpdateTestResult(context.Background(), f.doctorClaims, owned.ID, &model.UpdateTestResultRequest{
		Status:        model.TestResultStatusAbnormal,
		ResultSummary: "elevated white cell count",
	})
	require.NoError(t, err)

	assert.Equal(t, model.TestResultStatusAbnormal, tr.Status)
	assert.Equal(t, "elevated white cell count", tr.ResultSummary)
	require.Len(t, f.testResults.updated, 1)
}

func TestAddDiagnosisIsAckOnly(t *testing.T) {
	f := newFixture(t)

	err := f.svc.AddDiagnosis(context.Background(), f.doctorClaims, &model.DiagnosisRequest{
		PatientID:   f.patient.ID.String(),
		Date:        "2026-03-10",
		Description: "seasonal allergies",
	})
	require.NoError(t, err)

	// Nothing written anywhere.
	assert.Empty(t, f.consultations.created)
	assert.Empty(t, f.outbox.events)
}

func TestAddDiagnosisRequiresDoctor(t *testing.T) {
	f := newFixture(t)

	err := f.svc.AddDiagnosis(context.Background(), f.patientClaims, &model.DiagnosisRequest{
		PatientID:   f.patient.ID.String(),
		Date:        "2026-03-10",
		Description: "seasonal allergies",
	})
	assert.Equal(t, apperrors.ErrAuthorization, apperrors.CodeOf(err))
}

func TestRequestRefillLeavesPrescriptionUntouched(t *testing.T) {
	f := newFixture(t)

	p, err := f.svc.Prescribe(context.Background(), f.doctorClaims, &model.PrescribeRequest{
		PatientID:  f.patient.ID.String(),
		Medication: "Lisinopril",
		Dosage:     "10mg",
		Frequency:  "daily",
		Refills:    2,
	})
	require.NoError(t, err)

	err = f.svc.RequestRefill(context.Background(), f.patientClaims, &model.RefillRequest{
		PrescriptionID: p.ID.String(),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, p.RefillsLeft)
	assert.True(t, p.IsActive)
}

func TestRequestRefillUnknownPrescription(t *testing.T) {
	f := newFixture(t)

	err := f.svc.RequestRefill(context.Background(), f.patientClaims, &model.RefillRequest{
		PrescriptionID: uuid.New().String(),
	})
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))
}
