package medical

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/ehr-api/internal/model"
	"github.com/clinicore/ehr-api/internal/repository"
	"github.com/clinicore/ehr-api/internal/service/event"
	apperrors "github.com/clinicore/ehr-api/pkg/errors"
	"github.com/clinicore/ehr-api/pkg/logger"
)

// Service owns doctor-authored clinical records: prescriptions,
// consultation notes and test results, plus the two acknowledged-only
// operations (diagnosis, refill request).
type Service struct {
	doctorRepo       repository.DoctorRepository
	patientRepo      repository.PatientRepository
	prescriptionRepo repository.PrescriptionRepository
	consultationRepo repository.ConsultationRepository
	testResultRepo   repository.TestResultRepository
	eventSvc         *event.Service
	logger           *logger.Logger
	now              func() time.Time
}

func NewService(
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	prescriptionRepo repository.PrescriptionRepository,
	consultationRepo repository.ConsultationRepository,
	testResultRepo repository.TestResultRepository,
	eventSvc *event.Service,
	logger *logger.Logger,
) *Service {
	return &Service{
		doctorRepo:       doctorRepo,
		patientRepo:      patientRepo,
		prescriptionRepo: prescriptionRepo,
		consultationRepo: consultationRepo,
		testResultRepo:   testResultRepo,
		eventSvc:         eventSvc,
		logger:           logger,
		now:              time.Now,
	}
}

// requireDoctor resolves the caller's doctor profile, rejecting every
// other role before any data is touched.
func (s *Service) requireDoctor(ctx context.Context, claims *model.TokenClaims, action string) (*model.DoctorProfile, error) {
	if claims.Role != model.RoleDoctor {
		return nil, apperrors.Authorization(fmt.Sprintf("only doctors can %s", action))
	}
	doctor, err := s.doctorRepo.GetByIdentity(ctx, claims.IdentityID)
	if err != nil {
		return nil, apperrors.NotFound("doctor profile", err)
	}
	return doctor, nil
}

func (s *Service) Prescribe(ctx context.Context, claims *model.TokenClaims, req *model.PrescribeRequest) (*model.Prescription, error) {
	doctor, err := s.requireDoctor(ctx, claims, "prescribe medications")
	if err != nil {
		return nil, err
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, apperrors.Validation("invalid patient ID", err)
	}
	patient, err := s.patientRepo.Get(ctx, patientID)
	if err != nil {
		return nil, apperrors.NotFound("patient", err)
	}

	p := &model.Prescription{
		Base:           model.Base{ID: uuid.New()},
		PatientID:      patient.ID,
		DoctorID:       doctor.ID,
		Medication:     req.Medication,
		Dosage:         req.Dosage,
		Frequency:      req.Frequency,
		Duration:       req.Duration,
		Instructions:   req.Instructions,
		RefillsLeft:    req.Refills,
		DatePrescribed: s.now(),
		IsActive:       true,
	}

	if err := s.prescriptionRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create prescription: %w", err)
	}

	if err := s.eventSvc.Emit(ctx, "prescription.created", p); err != nil {
		s.logger.Error(err, "failed to emit prescription.created event", "prescription_id", p.ID.String())
	}

	return p, nil
}

func (s *Service) AddConsultationNote(ctx context.Context, claims *model.TokenClaims, req *model.ConsultationNoteRequest) (*model.ConsultationNote, error) {
	doctor, err := s.requireDoctor(ctx, claims, "add consultation notes")
	if err != nil {
		return nil, err
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, apperrors.Validation("invalid patient ID", err)
	}
	patient, err := s.patientRepo.Get(ctx, patientID)
	if err != nil {
		return nil, apperrors.NotFound("patient", err)
	}

	date, err := time.Parse(model.DateOnly, req.Date)
	if err != nil {
		return nil, apperrors.Validation("invalid consultation date", err)
	}

	note := &model.ConsultationNote{
		Base:      model.Base{ID: uuid.New()},
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		Date:      date,
		Reason:    req.Reason,
		Diagnosis: req.Diagnosis,
		Treatment: req.Treatment,
		Notes:     req.Notes,
	}

	if err := s.consultationRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create consultation note: %w", err)
	}

	if err := s.eventSvc.Emit(ctx, "consultation_note.created", note); err != nil {
		s.logger.Error(err, "failed to emit consultation_note.created event", "note_id", note.ID.String())
	}

	return note, nil
}

func (s *Service) OrderTest(ctx context.Context, claims *model.TokenClaims, req *model.OrderTestRequest) (*model.TestResult, error) {
	doctor, err := s.requireDoctor(ctx, claims, "order tests")
	if err != nil {
		return nil, err
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, apperrors.Validation("invalid patient ID", err)
	}
	patient, err := s.patientRepo.Get(ctx, patientID)
	if err != nil {
		return nil, apperrors.NotFound("patient", err)
	}

	testDate, err := time.Parse(model.DateOnly, req.TestDate)
	if err != nil {
		return nil, apperrors.Validation("invalid test date", err)
	}

	tr := &model.TestResult{
		Base:          model.Base{ID: uuid.New()},
		PatientID:     patient.ID,
		OrderedBy:     doctor.ID,
		TestName:      req.TestName,
		TestDate:      testDate,
		ResultSummary: req.ResultSummary,
		Status:        model.TestResultStatusPending,
	}

	if err := s.testResultRepo.Create(ctx, tr); err != nil {
		return nil, fmt.Errorf("failed to create test result: %w", err)
	}

	if err := s.eventSvc.Emit(ctx, "test_result.created", tr); err != nil {
		s.logger.Error(err, "failed to emit test_result.created event", "test_result_id", tr.ID.String())
	}

	return tr, nil
}

// UpdateTestResult records a result for a test the caller ordered.
func (s *Service) UpdateTestResult(ctx context.Context, claims *model.TokenClaims, id uuid.UUID, req *model.UpdateTestResultRequest) (*model.TestResult, error) {
	doctor, err := s.requireDoctor(ctx, claims, "update test results")
	if err != nil {
		return nil, err
	}

	tr, err := s.testResultRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("test result", err)
	}
	if tr.OrderedBy != doctor.ID {
		return nil, apperrors.Authorization("test result was ordered by another doctor")
	}

	tr.Status = req.Status
	if req.ResultSummary != "" {
		tr.ResultSummary = req.ResultSummary
	}
	if req.ReportFile != nil {
		tr.ReportFile = req.ReportFile
	}

	if err := s.testResultRepo.Update(ctx, tr); err != nil {
		return nil, fmt.Errorf("failed to update test result: %w", err)
	}

	return tr, nil
}

// AddDiagnosis validates the caller's role and acknowledges the request.
// There is no diagnosis table; nothing is persisted.
func (s *Service) AddDiagnosis(ctx context.Context, claims *model.TokenClaims, req *model.DiagnosisRequest) error {
	if _, err := s.requireDoctor(ctx, claims, "add diagnoses"); err != nil {
		return err
	}
	return nil
}

// RequestRefill acknowledges the request without touching the
// prescription; refills_left never changes here.
func (s *Service) RequestRefill(ctx context.Context, claims *model.TokenClaims, req *model.RefillRequest) error {
	prescriptionID, err := uuid.Parse(req.PrescriptionID)
	if err != nil {
		return apperrors.Validation("invalid prescription ID", err)
	}

	p, err := s.prescriptionRepo.Get(ctx, prescriptionID)
	if err != nil {
		return apperrors.NotFound("prescription", err)
	}

	s.logger.Info("refill requested",
		"prescription_id", p.ID.String(),
		"identity_id", claims.IdentityID.String())
	return nil
}
