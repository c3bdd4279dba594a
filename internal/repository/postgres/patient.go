package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicore/ehr-api/internal/model"
	"github.com/clinicore/ehr-api/internal/repository"
)

const patientColumns = `
	p.id, p.identity_id, p.doctor_id, p.dob, p.gender, p.blood_type,
	p.height, p.weight, p.allergies, p.medical_history, p.chronic_conditions,
	p.current_medications, p.emergency_contact_name, p.emergency_contact_phone,
	p.registration_complete, p.last_visit, p.created_at, p.updated_at,
	i.first_name, i.last_name
`

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.PatientProfile, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM patient_profiles p
		JOIN identities i ON i.id = p.identity_id
		WHERE p.id = $1
	`
	var patient model.PatientProfile
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, fmt.Errorf("failed to get patient profile: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByIdentity(ctx context.Context, identityID uuid.UUID) (*model.PatientProfile, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM patient_profiles p
		JOIN identities i ON i.id = p.identity_id
		WHERE p.identity_id = $1
	`
	var patient model.PatientProfile
	if err := r.db.GetContext(ctx, &patient, query, identityID); err != nil {
		return nil, fmt.Errorf("failed to get patient profile: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.PatientProfile, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM patient_profiles p
		JOIN identities i ON i.id = p.identity_id
		WHERE p.doctor_id = $1
		ORDER BY i.last_name, i.first_name
	`
	var patients []*model.PatientProfile
	if err := r.db.SelectContext(ctx, &patients, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

// UpdateRegistration overwrites the demographic fields; calling it twice
// leaves the profile matching the latest payload.
func (r *patientRepository) UpdateRegistration(ctx context.Context, profile *model.PatientProfile) error {
	query := `
		UPDATE patient_profiles
		SET dob = $1, gender = $2, blood_type = $3, allergies = $4,
		    medical_history = $5, chronic_conditions = $6, current_medications = $7,
		    registration_complete = $8, updated_at = $9
		WHERE id = $10
	`
	if _, err := r.db.ExecContext(ctx, query,
		profile.DOB,
		profile.Gender,
		profile.BloodType,
		profile.Allergies,
		profile.MedicalHistory,
		profile.ChronicConditions,
		profile.CurrentMedications,
		profile.RegistrationComplete,
		time.Now(),
		profile.ID,
	); err != nil {
		return fmt.Errorf("failed to update patient registration: %w", err)
	}
	return nil
}

func (r *patientRepository) AssignDoctor(ctx context.Context, patientID uuid.UUID, doctorID *uuid.UUID) error {
	query := `UPDATE patient_profiles SET doctor_id = $1, updated_at = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, doctorID, time.Now(), patientID); err != nil {
		return fmt.Errorf("failed to assign doctor: %w", err)
	}
	return nil
}
