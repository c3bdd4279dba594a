package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicore/ehr-api/internal/email"
	"github.com/clinicore/ehr-api/internal/model"
	"github.com/clinicore/ehr-api/internal/repository"
	"github.com/clinicore/ehr-api/internal/service/event"
	apperrors "github.com/clinicore/ehr-api/pkg/errors"
	"github.com/clinicore/ehr-api/pkg/logger"
)

const bcryptCost = 12

// Service owns account creation. Signup creates the identity and exactly
// one role profile in a single transaction; the role never changes
// afterwards.
type Service struct {
	identityRepo repository.IdentityRepository
	eventSvc     *event.Service
	emailSvc     email.Service
	logger       *logger.Logger
}

func NewService(identityRepo repository.IdentityRepository, eventSvc *event.Service, emailSvc email.Service, logger *logger.Logger) *Service {
	return &Service{
		identityRepo: identityRepo,
		eventSvc:     eventSvc,
		emailSvc:     emailSvc,
		logger:       logger,
	}
}

func (s *Service) Signup(ctx context.Context, req *model.SignupRequest) (*model.Identity, error) {
	existing, _ := s.identityRepo.GetByUsername(ctx, req.Username)
	if existing != nil {
		return nil, apperrors.Conflict("username already registered", nil)
	}

	role := model.Role(req.Role)
	if role != model.RoleDoctor && role != model.RolePatient {
		return nil, apperrors.Validation("role must be doctor or patient", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	identity := &model.Identity{
		Base:         model.Base{ID: uuid.New()},
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Address:      req.Address,
	}

	var doctor *model.DoctorProfile
	var patient *model.PatientProfile
	switch role {
	case model.RoleDoctor:
		doctor = &model.DoctorProfile{
			Base:          model.Base{ID: uuid.New()},
			IdentityID:    identity.ID,
			Specialty:     req.Specialty,
			LicenseNumber: req.LicenseNumber,
		}
	case model.RolePatient:
		patient = &model.PatientProfile{
			Base:       model.Base{ID: uuid.New()},
			IdentityID: identity.ID,
		}
	}

	if err := s.identityRepo.CreateWithProfile(ctx, identity, doctor, patient); err != nil {
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	if err := s.eventSvc.Emit(ctx, "identity.created", map[string]interface{}{
		"identity_id": identity.ID,
		"role":        identity.Role,
	}); err != nil {
		s.logger.Error(err, "failed to emit identity.created event")
	}

	if role == model.RolePatient && s.emailSvc != nil {
		if err := s.emailSvc.SendWelcome(identity.Email, identity.FullName()); err != nil {
			s.logger.Error(err, "failed to send welcome email", "identity_id", identity.ID.String())
		}
	}

	return identity, nil
}

// Get is the admin lookup of any identity.
func (s *Service) Get(ctx context.Context, claims *model.TokenClaims, id uuid.UUID) (*model.Identity, error) {
	if claims.Role != model.RoleAdmin {
		return nil, apperrors.Authorization("only admins can view identities")
	}

	identity, err := s.identityRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("identity", err)
	}
	return identity, nil
}

// Delete removes an identity and its profile. Patients assigned to a
// deleted doctor keep their records; the doctor reference nulls out.
func (s *Service) Delete(ctx context.Context, claims *model.TokenClaims, id uuid.UUID) error {
	if claims.Role != model.RoleAdmin {
		return apperrors.Authorization("only admins can delete identities")
	}

	if _, err := s.identityRepo.Get(ctx, id); err != nil {
		return apperrors.NotFound("identity", err)
	}

	if err := s.identityRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}

	if err := s.eventSvc.Emit(ctx, "identity.deleted", map[string]interface{}{
		"identity_id": id,
	}); err != nil {
		s.logger.Error(err, "failed to emit identity.deleted event")
	}

	return nil
}
