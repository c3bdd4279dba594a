package patient

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

// Service owns patient-profile operations: completing registration,
// recording vitals and the doctor-facing detail lookup.
type Service struct {
	patientRepo repository.PatientRepository
	vitalsRepo  repository.VitalsRepository
	eventSvc    *event.Service
	logger      *logger.Logger
	now         func() time.Time
}

func NewService(
	patientRepo repository.PatientRepository,
	vitalsRepo repository.VitalsRepository,
	eventSvc *event.Service,
	logger *logger.Logger,
) *Service {
	return &Service{
		patientRepo: patientRepo,
		vitalsRepo:  vitalsRepo,
		eventSvc:    eventSvc,
		logger:      logger,
		now:         time.Now,
	}
}

// CompleteRegistration fills in the caller's own profile. Repeating the
// call overwrites the same row, so the profile always matches the latest
// payload.
func (s *Service) CompleteRegistration(ctx context.Context, claims *model.TokenClaims, req *model.CompleteRegistrationRequest) (*model.PatientProfile, error) {
	if claims.Role != model.RolePatient {
		return nil, apperrors.Authorization("only patients can complete registration")
	}

	profile, err := s.patientRepo.GetByIdentity(ctx, claims.IdentityID)
	if err != nil {
		return nil, apperrors.NotFound("patient profile", err)
	}

	dob, err := time.Parse(model.DateOnly, req.DOB)
	if err != nil {
		return nil, apperrors.Validation("invalid date of birth", err)
	}

	profile.DOB = &dob
	profile.Gender = req.Gender
	profile.BloodType = req.BloodType
	profile.Allergies = req.Allergies
	profile.MedicalHistory = req.MedicalHistory
	profile.ChronicConditions = req.ChronicConditions
	profile.CurrentMedications = req.CurrentMedications
	profile.RegistrationComplete = true

	if err := s.patientRepo.UpdateRegistration(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update registration: %w", err)
	}

	if err := s.eventSvc.Emit(ctx, "patient.registration_completed", map[string]interface{}{
		"patient_id": profile.ID,
	}); err != nil {
		s.logger.Error(err, "failed to emit patient.registration_completed event")
	}

	return profile, nil
}

// RecordVitals appends a vitals entry to the caller's own patient profile.
// Any authenticated identity may call it, but only one with a patient
// profile has somewhere to record. Numeric fields parse leniently:
// malformed values become null, they never fail the write.
func (s *Service) RecordVitals(ctx context.Context, claims *model.TokenClaims, req *model.RecordVitalsRequest) (*model.VitalsRecord, error) {
	profile, err := s.patientRepo.GetByIdentity(ctx, claims.IdentityID)
	if err != nil {
		return nil, apperrors.NotFound("patient profile", err)
	}

	systolic, diastolic := model.ParseBloodPressure(req.BloodPressure)

	rec := &model.VitalsRecord{
		Base:                   model.Base{ID: uuid.New()},
		PatientID:              profile.ID,
		RecordedBy:             claims.IdentityID,
		Date:                   s.now(),
		BloodPressureSystolic:  systolic,
		BloodPressureDiastolic: diastolic,
		Temperature:            model.ParseOptionalFloat(req.Temperature),
		Pulse:                  model.ParseOptionalInt(req.Pulse),
		OxygenSaturation:       model.ParseOptionalInt(req.Oxygen),
		Weight:                 model.ParseOptionalFloat(req.Weight),
		Height:                 model.ParseOptionalFloat(req.Height),
		Notes:                  req.Notes,
	}

	if err := s.vitalsRepo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create vitals record: %w", err)
	}

	if err := s.eventSvc.Emit(ctx, "vitals.recorded", map[string]interface{}{
		"patient_id": profile.ID,
		"vitals_id":  rec.ID,
	}); err != nil {
		s.logger.Error(err, "failed to emit vitals.recorded event")
	}

	return rec, nil
}

// GetPatientDetails is the doctor-facing lookup of any patient profile.
func (s *Service) GetPatientDetails(ctx context.Context, claims *model.TokenClaims, patientID uuid.UUID) (*model.PatientProfile, error) {
	if claims.Role != model.RoleDoctor {
		return nil, apperrors.Authorization("only doctors can view patient details")
	}

	profile, err := s.patientRepo.Get(ctx, patientID)
	if err != nil {
		return nil, apperrors.NotFound("patient", err)
	}
	return profile, nil
}

// ListVitals returns a patient's vitals history: doctors see any patient,
// patients only their own.
func (s *Service) ListVitals(ctx context.Context, claims *model.TokenClaims, patientID uuid.UUID) ([]*model.VitalsRecord, error) {
	switch claims.Role {
	case model.RoleDoctor:
	case model.RolePatient:
		own, err := s.patientRepo.GetByIdentity(ctx, claims.IdentityID)
		if err != nil {
			return nil, apperrors.NotFound("patient profile", err)
		}
		if own.ID != patientID {
			return nil, apperrors.Authorization("cannot view another patient's vitals")
		}
	default:
		return nil, apperrors.Authorization("only doctors and patients can view vitals")
	}

	records, err := s.vitalsRepo.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vitals: %w", err)
	}
	return records, nil
}
