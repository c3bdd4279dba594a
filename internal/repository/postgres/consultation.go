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

type consultationRepository struct {
	db *sqlx.DB
}

func NewConsultationRepository(db *sqlx.DB) repository.ConsultationRepository {
	return &consultationRepository{db: db}
}

func (r *consultationRepository) Create(ctx context.Context, note *model.ConsultationNote) error {
	query := `
		INSERT INTO consultation_notes (id, patient_id, doctor_id, date, reason, diagnosis, treatment, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	note.CreatedAt = time.Now()
	note.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		note.ID,
		note.PatientID,
		note.DoctorID,
		note.Date,
		note.Reason,
		note.Diagnosis,
		note.Treatment,
		note.Notes,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create consultation note: %w", err)
	}
	return nil
}

func (r *consultationRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.ConsultationNote, error) {
	query := `
		SELECT * FROM consultation_notes
		WHERE patient_id = $1
		ORDER BY date DESC
	`
	var notes []*model.ConsultationNote
	if err := r.db.SelectContext(ctx, &notes, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list consultation notes: %w", err)
	}
	return notes, nil
}
