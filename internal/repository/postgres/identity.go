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

type identityRepository struct {
	BaseRepository
}

func NewIdentityRepository(db *sqlx.DB) repository.IdentityRepository {
	return &identityRepository{NewBaseRepository(db)}
}

// CreateWithProfile inserts the identity row and its single role profile
// inside one transaction, so a half-created account can never exist.
func (r *identityRepository) CreateWithProfile(ctx context.Context, identity *model.Identity, doctor *model.DoctorProfile, patient *model.PatientProfile) error {
	now := time.Now()
	identity.CreatedAt = now
	identity.UpdatedAt = now

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO identities (id, username, email, password_hash, role, first_name, last_name, phone, address, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		if _, err := tx.ExecContext(ctx, query,
			identity.ID,
			identity.Username,
			identity.Email,
			identity.PasswordHash,
			identity.Role,
			identity.FirstName,
			identity.LastName,
			identity.Phone,
			identity.Address,
			identity.CreatedAt,
			identity.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to create identity: %w", err)
		}

		switch {
		case doctor != nil:
			doctor.CreatedAt = now
			doctor.UpdatedAt = now
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO doctor_profiles (id, identity_id, specialty, license_number, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, doctor.ID, doctor.IdentityID, doctor.Specialty, doctor.LicenseNumber, doctor.CreatedAt, doctor.UpdatedAt); err != nil {
				return fmt.Errorf("failed to create doctor profile: %w", err)
			}
		case patient != nil:
			patient.CreatedAt = now
			patient.UpdatedAt = now
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO patient_profiles (id, identity_id, registration_complete, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5)
			`, patient.ID, patient.IdentityID, patient.RegistrationComplete, patient.CreatedAt, patient.UpdatedAt); err != nil {
				return fmt.Errorf("failed to create patient profile: %w", err)
			}
		}

		return nil
	})
}

func (r *identityRepository) Get(ctx context.Context, id uuid.UUID) (*model.Identity, error) {
	query := `SELECT * FROM identities WHERE id = $1`
	var identity model.Identity
	if err := r.db.GetContext(ctx, &identity, query, id); err != nil {
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}
	return &identity, nil
}

func (r *identityRepository) GetByUsername(ctx context.Context, username string) (*model.Identity, error) {
	query := `SELECT * FROM identities WHERE username = $1`
	var identity model.Identity
	if err := r.db.GetContext(ctx, &identity, query, username); err != nil {
		return nil, fmt.Errorf("failed to get identity by username: %w", err)
	}
	return &identity, nil
}

// Delete removes the identity; profile rows cascade via FK, and patient
// profiles pointing at a deleted doctor null out their doctor reference.
func (r *identityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM identities WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}
	return nil
}
