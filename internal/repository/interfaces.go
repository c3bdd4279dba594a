package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/ehr-api/internal/model"
)

type IdentityRepository interface {
	// CreateWithProfile inserts the identity and its single role profile
	// in one transaction. Exactly one of doctor/patient is non-nil for
	// non-admin roles.
	CreateWithProfile(ctx context.Context, identity *model.Identity, doctor *model.DoctorProfile, patient *model.PatientProfile) error
	Get(ctx context.Context, id uuid.UUID) (*model.Identity, error)
	GetByUsername(ctx context.Context, username string) (*model.Identity, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type DoctorRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error)
	GetByIdentity(ctx context.Context, identityID uuid.UUID) (*model.DoctorProfile, error)
	List(ctx context.Context) ([]*model.DoctorProfile, error)
}

type PatientRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.PatientProfile, error)
	GetByIdentity(ctx context.Context, identityID uuid.UUID) (*model.PatientProfile, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.PatientProfile, error)
	UpdateRegistration(ctx context.Context, profile *model.PatientProfile) error
	AssignDoctor(ctx context.Context, patientID uuid.UUID, doctorID *uuid.UUID) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, apt *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error
	CountForDoctorOnDate(ctx context.Context, doctorID uuid.UUID, date time.Time) (int, error)
	ListForDoctorOnDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.Appointment, error)
	ListUpcomingForDoctor(ctx context.Context, doctorID uuid.UUID, after time.Time, limit int) ([]*model.Appointment, error)
	ListUpcomingForPatient(ctx context.Context, patientID uuid.UUID, from time.Time) ([]*model.Appointment, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error)
}

type PrescriptionRepository interface {
	Create(ctx context.Context, p *model.Prescription) error
	Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error)
	CountActiveByDoctor(ctx context.Context, doctorID uuid.UUID) (int, error)
	ListActiveForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error)
}

type TestResultRepository interface {
	Create(ctx context.Context, tr *model.TestResult) error
	Get(ctx context.Context, id uuid.UUID) (*model.TestResult, error)
	Update(ctx context.Context, tr *model.TestResult) error
	CountPendingByDoctor(ctx context.Context, doctorID uuid.UUID) (int, error)
	ListCompletedByDoctor(ctx context.Context, doctorID uuid.UUID, limit int) ([]*model.TestResult, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.TestResult, error)
}

type ConsultationRepository interface {
	Create(ctx context.Context, note *model.ConsultationNote) error
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.ConsultationNote, error)
}

type BillingRepository interface {
	CreateInvoice(ctx context.Context, rec *model.BillingRecord) error
	GetInvoice(ctx context.Context, id uuid.UUID) (*model.BillingRecord, error)
	UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status model.BillingStatus) error
	ListPendingForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.BillingRecord, error)
	CreatePayment(ctx context.Context, payment *model.Payment) error
	ListPaymentsForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Payment, error)
	SumPaymentsForInvoice(ctx context.Context, billingRecordID uuid.UUID) (float64, error)
}

type VitalsRepository interface {
	Create(ctx context.Context, rec *model.VitalsRecord) error
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.VitalsRecord, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMessage *string) error
}
