package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/ehr-api/internal/model"
	"github.com/clinicore/ehr-api/internal/repository"
	apperrors "github.com/clinicore/ehr-api/pkg/errors"
)

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

type fakeAppointmentRepo struct {
	repository.AppointmentRepository
	appointments []*model.Appointment
}

func (f *fakeAppointmentRepo) ListForPatient(_ context.Context, _ uuid.UUID) ([]*model.Appointment, error) {
	return f.appointments, nil
}

type fakePrescriptionRepo struct {
	repository.PrescriptionRepository
	prescriptions []*model.Prescription
}

func (f *fakePrescriptionRepo) ListForPatient(_ context.Context, _ uuid.UUID) ([]*model.Prescription, error) {
	return f.prescriptions, nil
}

type fakeTestResultRepo struct {
	repository.TestResultRepository
	results []*model.TestResult
}

func (f *fakeTestResultRepo) ListForPatient(_ context.Context, _ uuid.UUID) ([]*model.TestResult, error) {
	return f.results, nil
}

type fakeConsultationRepo struct {
	repository.ConsultationRepository
	notes []*model.ConsultationNote
}

func (f *fakeConsultationRepo) ListForPatient(_ context.Context, _ uuid.UUID) ([]*model.ConsultationNote, error) {
	return f.notes, nil
}

type fixture struct {
	svc           *Service
	patient       *model.PatientProfile
	identity      *model.Identity
	appointments  *fakeAppointmentRepo
	prescriptions *fakePrescriptionRepo
	doctorClaims  *model.TokenClaims
	patientClaims *model.TokenClaims
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	identity := &model.Identity{
		Base:      model.Base{ID: uuid.New()},
		Username:  "jdoe",
		Email:     "jdoe@example.com",
		Role:      model.RolePatient,
		FirstName: "Jane",
		LastName:  "Doe",
	}
	patient := &model.PatientProfile{
		Base:       model.Base{ID: uuid.New()},
		IdentityID: identity.ID,
	}

	appointments := &fakeAppointmentRepo{}
	prescriptions := &fakePrescriptionRepo{}

	svc := NewService(
		&fakePatientRepo{byID: map[uuid.UUID]*model.PatientProfile{patient.ID: patient}},
		&fakeIdentityRepo{byID: map[uuid.UUID]*model.Identity{identity.ID: identity}},
		appointments,
		prescriptions,
		&fakeTestResultRepo{},
		&fakeConsultationRepo{},
	)

	return &fixture{
		svc:           svc,
		patient:       patient,
		identity:      identity,
		appointments:  appointments,
		prescriptions: prescriptions,
		doctorClaims:  &model.TokenClaims{IdentityID: uuid.New(), Role: model.RoleDoctor},
		patientClaims: &model.TokenClaims{IdentityID: identity.ID, Role: model.RolePatient},
	}
}

func TestGenerateRequiresDoctor(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Generate(context.Background(), f.patientClaims, &model.ReportRequest{
		ReportType: model.ReportTypePatientSummary,
		PatientID:  f.patient.ID.String(),
		Format:     model.ReportFormatPDF,
	})

	assert.Equal(t, apperrors.ErrAuthorization, apperrors.CodeOf(err))
}

func TestGenerateRejectsUnknownType(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Generate(context.Background(), f.doctorClaims, &model.ReportRequest{
		ReportType: "billingSummary",
		PatientID:  f.patient.ID.String(),
		Format:     model.ReportFormatPDF,
	})

	assert.Equal(t, apperrors.ErrUnsupported, apperrors.CodeOf(err))
}

func TestGenerateRejectsUnknownFormat(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Generate(context.Background(), f.doctorClaims, &model.ReportRequest{
		ReportType: model.ReportTypePatientSummary,
		PatientID:  f.patient.ID.String(),
		Format:     "docx",
	})

	assert.Equal(t, apperrors.ErrUnsupported, apperrors.CodeOf(err))
}

func TestGenerateEmptyHistory(t *testing.T) {
	f := newFixture(t)

	rep, err := f.svc.Generate(context.Background(), f.doctorClaims, &model.ReportRequest{
		ReportType: model.ReportTypePatientSummary,
		PatientID:  f.patient.ID.String(),
		Format:     model.ReportFormatPDF,
	})
	require.NoError(t, err)

	assert.Equal(t, "patient_summary_jdoe.pdf", rep.Filename)
	assert.Equal(t, "application/pdf", rep.ContentType)
	assert.NotEmpty(t, rep.Data)
	assert.Equal(t, "%PDF", string(rep.Data[:4]))
}

func TestGenerateWithHistory(t *testing.T) {
	f := newFixture(t)
	f.appointments.appointments = []*model.Appointment{{
		Base:   model.Base{ID: uuid.New()},
		Date:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Time:   "10:30",
		Reason: "checkup",
		Status: model.AppointmentStatusCompleted,
	}}
	f.prescriptions.prescriptions = []*model.Prescription{{
		Base:           model.Base{ID: uuid.New()},
		Medication:     "Lisinopril",
		Dosage:         "10mg",
		Frequency:      "daily",
		RefillsLeft:    2,
		DatePrescribed: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}}

	rep, err := f.svc.Generate(context.Background(), f.doctorClaims, &model.ReportRequest{
		ReportType: model.ReportTypePatientSummary,
		PatientID:  f.patient.ID.String(),
		Format:     model.ReportFormatPDF,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rep.Data)
}

func TestGenerateUnknownPatient(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Generate(context.Background(), f.doctorClaims, &model.ReportRequest{
		ReportType: model.ReportTypePatientSummary,
		PatientID:  uuid.New().String(),
		Format:     model.ReportFormatPDF,
	})

	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))
}
