package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/ehr-api/internal/email"
	"github.com/clinicore/ehr-api/internal/model"
	"github.com/clinicore/ehr-api/internal/repository"
	"github.com/clinicore/ehr-api/internal/service/event"
	apperrors "github.com/clinicore/ehr-api/pkg/errors"
	"github.com/clinicore/ehr-api/pkg/logger"
)

// Service owns the appointment lifecycle. Scheduling is patient-initiated;
// status transitions are one-way out of Scheduled.
type Service struct {
	appointmentRepo repository.AppointmentRepository
	patientRepo     repository.PatientRepository
	doctorRepo      repository.DoctorRepository
	identityRepo    repository.IdentityRepository
	eventSvc        *event.Service
	emailSvc        email.Service
	logger          *logger.Logger
}

func NewService(
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	identityRepo repository.IdentityRepository,
	eventSvc *event.Service,
	emailSvc email.Service,
	logger *logger.Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		doctorRepo:      doctorRepo,
		identityRepo:    identityRepo,
		eventSvc:        eventSvc,
		emailSvc:        emailSvc,
		logger:          logger,
	}
}

// Schedule creates a Scheduled appointment for the caller's own patient
// profile with the chosen doctor. The role check runs before anything is
// read or written.
func (s *Service) Schedule(ctx context.Context, claims *model.TokenClaims, req *model.ScheduleAppointmentRequest) (*model.Appointment, error) {
	if claims.Role != model.RolePatient {
		return nil, apperrors.Authorization("only patients can schedule appointments")
	}

	patient, err := s.patientRepo.GetByIdentity(ctx, claims.IdentityID)
	if err != nil {
		return nil, apperrors.NotFound("patient profile", err)
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, apperrors.Validation("invalid doctor ID", err)
	}

	doctor, err := s.doctorRepo.Get(ctx, doctorID)
	if err != nil {
		return nil, apperrors.NotFound("doctor", err)
	}

	date, err := time.Parse(model.DateOnly, req.Date)
	if err != nil {
		return nil, apperrors.Validation("invalid appointment date", err)
	}
	if _, err := time.Parse(model.TimeOnly, req.Time); err != nil {
		return nil, apperrors.Validation("invalid appointment time", err)
	}

	apt := &model.Appointment{
		Base:      model.Base{ID: uuid.New()},
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		Date:      date,
		Time:      req.Time,
		Reason:    req.Reason,
		Status:    model.AppointmentStatusScheduled,
	}

	if err := s.appointmentRepo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	// First appointment assigns the patient to the doctor's roster.
	if patient.DoctorID == nil {
		if err := s.patientRepo.AssignDoctor(ctx, patient.ID, &doctor.ID); err != nil {
			s.logger.Error(err, "failed to assign doctor", "patient_id", patient.ID.String())
		}
	}

	if err := s.eventSvc.Emit(ctx, "appointment.created", apt); err != nil {
		s.logger.Error(err, "failed to emit appointment.created event", "appointment_id", apt.ID.String())
	}

	s.sendConfirmation(ctx, claims.IdentityID, doctor, apt)

	return apt, nil
}

// UpdateStatus moves an appointment out of Scheduled. Doctors may mark
// their own appointments Completed, Cancelled or No Show; patients may
// only cancel their own. Terminal statuses never change again.
func (s *Service) UpdateStatus(ctx context.Context, claims *model.TokenClaims, id uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error) {
	if claims.Role != model.RoleDoctor && claims.Role != model.RolePatient {
		return nil, apperrors.Authorization("only doctors and patients can update appointments")
	}

	apt, err := s.appointmentRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}

	switch claims.Role {
	case model.RoleDoctor:
		doctor, err := s.doctorRepo.GetByIdentity(ctx, claims.IdentityID)
		if err != nil {
			return nil, apperrors.NotFound("doctor profile", err)
		}
		if apt.DoctorID != doctor.ID {
			return nil, apperrors.Authorization("appointment belongs to another doctor")
		}
	case model.RolePatient:
		patient, err := s.patientRepo.GetByIdentity(ctx, claims.IdentityID)
		if err != nil {
			return nil, apperrors.NotFound("patient profile", err)
		}
		if apt.PatientID != patient.ID {
			return nil, apperrors.Authorization("appointment belongs to another patient")
		}
		if status != model.AppointmentStatusCancelled {
			return nil, apperrors.Authorization("patients can only cancel appointments")
		}
	}

	if apt.Status.Terminal() {
		return nil, apperrors.Validation(fmt.Sprintf("appointment is already %s", apt.Status), nil)
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}
	apt.Status = status

	if err := s.eventSvc.Emit(ctx, "appointment.status_changed", apt); err != nil {
		s.logger.Error(err, "failed to emit appointment.status_changed event", "appointment_id", apt.ID.String())
	}

	return apt, nil
}

func (s *Service) sendConfirmation(ctx context.Context, identityID uuid.UUID, doctor *model.DoctorProfile, apt *model.Appointment) {
	if s.emailSvc == nil {
		return
	}
	identity, err := s.identityRepo.Get(ctx, identityID)
	if err != nil {
		s.logger.Error(err, "failed to load identity for confirmation email")
		return
	}

	doctorName := fmt.Sprintf("Dr. %s %s", doctor.FirstName, doctor.LastName)
	if err := s.emailSvc.SendAppointmentConfirmation(identity.Email, doctorName, apt.Date.Format(model.DateOnly), apt.Time); err != nil {
		s.logger.Error(err, "failed to send appointment confirmation", "appointment_id", apt.ID.String())
	}
}
