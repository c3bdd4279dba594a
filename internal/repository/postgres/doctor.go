package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicore/ehr-api/internal/model"
	"github.com/clinicore/ehr-api/internal/repository"
)

type doctorRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error) {
	query := `
		SELECT d.id, d.identity_id, d.specialty, d.license_number, d.created_at, d.updated_at,
		       i.first_name, i.last_name
		FROM doctor_profiles d
		JOIN identities i ON i.id = d.identity_id
		WHERE d.id = $1
	`
	var doctor model.DoctorProfile
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		return nil, fmt.Errorf("failed to get doctor profile: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByIdentity(ctx context.Context, identityID uuid.UUID) (*model.DoctorProfile, error) {
	query := `
		SELECT d.id, d.identity_id, d.specialty, d.license_number, d.created_at, d.updated_at,
		       i.first_name, i.last_name
		FROM doctor_profiles d
		JOIN identities i ON i.id = d.identity_id
		WHERE d.identity_id = $1
	`
	var doctor model.DoctorProfile
	if err := r.db.GetContext(ctx, &doctor, query, identityID); err != nil {
		return nil, fmt.Errorf("failed to get doctor profile: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) List(ctx context.Context) ([]*model.DoctorProfile, error) {
	query := `
		SELECT d.id, d.identity_id, d.specialty, d.license_number, d.created_at, d.updated_at,
		       i.first_name, i.last_name
		FROM doctor_profiles d
		JOIN identities i ON i.id = d.identity_id
		ORDER BY i.last_name, i.first_name
	`
	var doctors []*model.DoctorProfile
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}
