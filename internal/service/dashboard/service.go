package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/clinicore/ehr-api/internal/model"
	"github.com/clinicore/ehr-api/internal/repository"
	apperrors "github.com/clinicore/ehr-api/pkg/errors"
)

const (
	upcomingAppointmentLimit = 5
	completedResultLimit     = 5

	rosterCacheKey = "doctor_roster"
	rosterCacheTTL = 5 * time.Minute
)

// Service composes the role-scoped aggregate view shown after login.
// Every query is filtered to the caller's own profile: a patient never
// sees another patient's records, a doctor never sees another doctor's
// authored or ordered records.
type Service struct {
	doctorRepo       repository.DoctorRepository
	patientRepo      repository.PatientRepository
	appointmentRepo  repository.AppointmentRepository
	prescriptionRepo repository.PrescriptionRepository
	testResultRepo   repository.TestResultRepository
	consultationRepo repository.ConsultationRepository
	billingRepo      repository.BillingRepository

	roster *cache.Cache
	now    func() time.Time
}

func NewService(
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
	prescriptionRepo repository.PrescriptionRepository,
	testResultRepo repository.TestResultRepository,
	consultationRepo repository.ConsultationRepository,
	billingRepo repository.BillingRepository,
) *Service {
	return &Service{
		doctorRepo:       doctorRepo,
		patientRepo:      patientRepo,
		appointmentRepo:  appointmentRepo,
		prescriptionRepo: prescriptionRepo,
		testResultRepo:   testResultRepo,
		consultationRepo: consultationRepo,
		billingRepo:      billingRepo,
		roster:           cache.New(rosterCacheTTL, 10*time.Minute),
		now:              time.Now,
	}
}

// Compose builds the dashboard for the authenticated caller.
func (s *Service) Compose(ctx context.Context, claims *model.TokenClaims) (*model.Dashboard, error) {
	switch claims.Role {
	case model.RoleAdmin:
		return &model.Dashboard{Role: model.RoleAdmin, Admin: true}, nil
	case model.RoleDoctor:
		view, err := s.composeDoctor(ctx, claims)
		if err != nil {
			return nil, err
		}
		return &model.Dashboard{Role: model.RoleDoctor, Doctor: view}, nil
	case model.RolePatient:
		view, err := s.composePatient(ctx, claims)
		if err != nil {
			return nil, err
		}
		return &model.Dashboard{Role: model.RolePatient, Patient: view}, nil
	default:
		// Unknown role tag: empty view rather than a hard failure.
		return &model.Dashboard{Role: claims.Role}, nil
	}
}

func (s *Service) composeDoctor(ctx context.Context, claims *model.TokenClaims) (*model.DoctorDashboard, error) {
	doctor, err := s.doctorRepo.GetByIdentity(ctx, claims.IdentityID)
	if err != nil {
		return nil, apperrors.NotFound("doctor profile", err)
	}

	today := s.today()

	patients, err := s.patientRepo.ListByDoctor(ctx, doctor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}

	todayCount, err := s.appointmentRepo.CountForDoctorOnDate(ctx, doctor.ID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to count today's appointments: %w", err)
	}

	activeRx, err := s.prescriptionRepo.CountActiveByDoctor(ctx, doctor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count active prescriptions: %w", err)
	}

	pendingTests, err := s.testResultRepo.CountPendingByDoctor(ctx, doctor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending test results: %w", err)
	}

	todays, err := s.appointmentRepo.ListForDoctorOnDate(ctx, doctor.ID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list today's appointments: %w", err)
	}

	upcoming, err := s.appointmentRepo.ListUpcomingForDoctor(ctx, doctor.ID, today, upcomingAppointmentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming appointments: %w", err)
	}

	completed, err := s.testResultRepo.ListCompletedByDoctor(ctx, doctor.ID, completedResultLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed test results: %w", err)
	}

	return &model.DoctorDashboard{
		Doctor:                  doctor,
		Patients:                patients,
		TodayAppointmentCount:   todayCount,
		ActivePrescriptionCount: activeRx,
		PendingTestResultCount:  pendingTests,
		TodaysAppointments:      todays,
		UpcomingAppointments:    upcoming,
		CompletedTestResults:    completed,
	}, nil
}

func (s *Service) composePatient(ctx context.Context, claims *model.TokenClaims) (*model.PatientDashboard, error) {
	patient, err := s.patientRepo.GetByIdentity(ctx, claims.IdentityID)
	if err != nil {
		return nil, apperrors.NotFound("patient profile", err)
	}

	today := s.today()

	appointments, err := s.appointmentRepo.ListUpcomingForPatient(ctx, patient.ID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	prescriptions, err := s.prescriptionRepo.ListActiveForPatient(ctx, patient.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}

	testResults, err := s.testResultRepo.ListForPatient(ctx, patient.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list test results: %w", err)
	}

	bills, err := s.billingRepo.ListPendingForPatient(ctx, patient.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list billing records: %w", err)
	}

	payments, err := s.billingRepo.ListPaymentsForPatient(ctx, patient.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	notes, err := s.consultationRepo.ListForPatient(ctx, patient.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list consultation notes: %w", err)
	}

	doctors, err := s.listDoctors(ctx)
	if err != nil {
		return nil, err
	}

	return &model.PatientDashboard{
		Profile:              patient,
		Age:                  patient.Age(s.now()),
		UpcomingAppointments: appointments,
		ActivePrescriptions:  prescriptions,
		TestResults:          testResults,
		OutstandingBills:     bills,
		Payments:             payments,
		ConsultationNotes:    notes,
		Doctors:              doctors,
	}, nil
}

// listDoctors returns the full roster used for appointment scheduling,
// cached briefly since it changes rarely and shows on every patient view.
func (s *Service) listDoctors(ctx context.Context) ([]*model.DoctorProfile, error) {
	if cached, ok := s.roster.Get(rosterCacheKey); ok {
		return cached.([]*model.DoctorProfile), nil
	}

	doctors, err := s.doctorRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}

	s.roster.Set(rosterCacheKey, doctors, cache.DefaultExpiration)
	return doctors, nil
}

func (s *Service) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
